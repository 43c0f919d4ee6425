package entities

import "time"

// Envelope is the publish-ready record handed to sinks by value.
type Envelope struct {
	Article
	Seq         uint64    `json:"seq"`
	PublishedAt time.Time `json:"publishedAt"`
}

// StoredArticle is the persistent row written by the sqlite sink.
type StoredArticle struct {
	Fingerprint string `gorm:"primaryKey"`
	SourceID    string
	URL         string
	Title       string
	Author      string
	Body        string
	Published   time.Time
	Seq         uint64
	PublishedAt time.Time
}
