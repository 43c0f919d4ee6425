package constants

import "time"

type SourceConfig struct {
	ID       string        `mapstructure:"id"`
	URL      string        `mapstructure:"url"`
	Interval time.Duration `mapstructure:"interval"`
}

func GetDefaultSources() []SourceConfig {
	var sources []SourceConfig
	sources = append(sources, SourceConfig{ID: "bbc-world", URL: "https://feeds.bbci.co.uk/news/world/rss.xml", Interval: 5 * time.Minute})
	sources = append(sources, SourceConfig{ID: "guardian-world", URL: "https://www.theguardian.com/world/rss", Interval: 5 * time.Minute})
	sources = append(sources, SourceConfig{ID: "nyt-world", URL: "https://rss.nytimes.com/services/xml/rss/nyt/World.xml", Interval: 10 * time.Minute})
	sources = append(sources, SourceConfig{ID: "hn-frontpage", URL: "https://news.ycombinator.com/rss", Interval: 10 * time.Minute})

	return sources
}
