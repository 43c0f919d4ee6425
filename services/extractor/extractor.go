package extractor

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"newswire/models/constants"
	"newswire/models/entities"
	"newswire/utils/dates"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func New() *Impl {
	parser := gofeed.NewParser()
	parser.UserAgent = viper.GetString(constants.UserAgent)
	return &Impl{parser: parser}
}

// Entries parses a fetched feed document (RSS or Atom) into feed entries.
// Items without a link are skipped; a missing published date is left absent
// rather than failing the entry.
func (service *Impl) Entries(source entities.Source, document []byte) ([]entities.FeedEntry, error) {
	feed, err := service.parser.Parse(bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}

	entries := make([]entities.FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			log.Debug().
				Str(constants.LogSourceID, source.ID).
				Msg("Feed item without link skipped")
			continue
		}

		entry := entities.FeedEntry{
			SourceID: source.ID,
			URL:      item.Link,
			Title:    strings.TrimSpace(item.Title),
		}
		if published := itemPublished(item.PublishedParsed, item.UpdatedParsed, item.Published); published != nil {
			entry.Published = published
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Article extracts the canonical article out of a fetched page. Readability
// does the heavy lifting; pages it cannot handle fall back to a bare goquery
// text pass over the content element with boilerplate markup removed.
func (service *Impl) Article(entry entities.FeedEntry, page []byte) (entities.Article, error) {
	canonical, err := CanonicalizeURL(entry.URL)
	if err != nil {
		return entities.Article{}, fmt.Errorf("canonicalize %q: %w", entry.URL, err)
	}

	pageURL, _ := url.Parse(canonical)
	title := entry.Title
	author := ""
	body := ""

	if parsed, errRead := readability.FromReader(bytes.NewReader(page), pageURL); errRead == nil {
		body = normalizeText(parsed.TextContent)
		author = strings.TrimSpace(parsed.Byline)
		if title == "" {
			title = strings.TrimSpace(parsed.Title)
		}
	}
	if body == "" {
		body, err = fallbackBody(page)
		if err != nil {
			return entities.Article{}, err
		}
	}
	if body == "" {
		return entities.Article{}, ErrEmptyBody
	}

	article := entities.Article{
		SourceID:    entry.SourceID,
		URL:         canonical,
		Title:       title,
		Author:      author,
		Body:        body,
		Fingerprint: Fingerprint(canonical, body),
		ExtractedAt: time.Now().UTC(),
	}
	if entry.Published != nil {
		article.Published = entry.Published.UTC()
	}

	return article, nil
}

func fallbackBody(page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse article html: %w", err)
	}

	doc.Find("script, style, nav, header, footer, aside, form, noscript, iframe").Remove()

	for _, selector := range []string{"article", "main", "body"} {
		if text := normalizeText(doc.Find(selector).First().Text()); text != "" {
			return text, nil
		}
	}
	return "", nil
}

func itemPublished(published *time.Time, updated *time.Time, raw string) *time.Time {
	if published != nil {
		return published
	}
	if updated != nil {
		return updated
	}
	if raw != "" {
		if parsed, err := dates.ParseFeedTime(raw); err == nil {
			return &parsed
		}
	}
	return nil
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
