package dates

import "time"

var feedTimeLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseFeedTime tries the timestamp layouts seen in the wild on RSS/Atom
// feeds, most common first.
func ParseFeedTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range feedTimeLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
