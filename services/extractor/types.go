package extractor

import (
	"errors"

	"newswire/models/entities"

	"github.com/mmcdole/gofeed"
)

var (
	ErrMalformedFeed = errors.New("feed document could not be parsed")
	ErrEmptyBody     = errors.New("no article body could be extracted")
)

type Service interface {
	Entries(source entities.Source, document []byte) ([]entities.FeedEntry, error)
	Article(entry entities.FeedEntry, page []byte) (entities.Article, error)
}

type Impl struct {
	parser *gofeed.Parser
}
