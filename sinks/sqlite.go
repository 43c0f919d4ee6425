package sinks

import (
	"context"

	"newswire/models/entities"
	articlesRepo "newswire/repositories/articles"
)

// SQLiteSink persists envelopes into the article store.
type SQLiteSink struct {
	repo articlesRepo.Repository
}

func NewSQLite(repo articlesRepo.Repository) *SQLiteSink {
	return &SQLiteSink{repo: repo}
}

func (sink *SQLiteSink) Name() string {
	return "sqlite"
}

func (sink *SQLiteSink) Deliver(_ context.Context, event entities.Envelope) error {
	return sink.repo.Save(entities.StoredArticle{
		Fingerprint: event.Fingerprint,
		SourceID:    event.SourceID,
		URL:         event.URL,
		Title:       event.Title,
		Author:      event.Author,
		Body:        event.Body,
		Published:   event.Published,
		Seq:         event.Seq,
		PublishedAt: event.PublishedAt,
	})
}
