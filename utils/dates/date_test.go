package dates_test

import (
	"testing"
	"time"

	"newswire/utils/dates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeedTime(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Time
	}{
		{
			name:     "RFC1123Z pubDate",
			value:    "Mon, 02 Jan 2006 15:04:05 -0700",
			expected: time.Date(2006, 1, 2, 15, 4, 5, 0, time.FixedZone("", -7*3600)),
		},
		{
			name:     "RFC1123 pubDate",
			value:    "Mon, 02 Jan 2006 15:04:05 UTC",
			expected: time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC),
		},
		{
			name:     "RFC3339 atom updated",
			value:    "2006-01-02T15:04:05Z",
			expected: time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC),
		},
		{
			name:     "date only",
			value:    "2006-01-02",
			expected: time.Date(2006, 1, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := dates.ParseFeedTime(tt.value)
			require.NoError(t, err)
			assert.True(t, parsed.Equal(tt.expected), "got %v want %v", parsed, tt.expected)
		})
	}
}

func TestParseFeedTimeInvalid(t *testing.T) {
	_, err := dates.ParseFeedTime("not a date")
	assert.Error(t, err)
}
