package entities

import "time"

// FeedEntry is one item parsed out of a feed document. It only lives until it
// is resolved into an Article or rejected.
type FeedEntry struct {
	SourceID  string
	URL       string
	Title     string
	Published *time.Time
}

// Article is the canonical extracted unit, immutable once built. URL is the
// canonical form and Fingerprint is never empty.
type Article struct {
	SourceID    string    `json:"sourceId"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	Body        string    `json:"body"`
	Published   time.Time `json:"published,omitempty"`
	Fingerprint string    `json:"fingerprint"`
	ExtractedAt time.Time `json:"extractedAt"`
}
