package sources_test

import (
	"testing"
	"time"

	"newswire/models/entities"
	"newswire/repositories/sources"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSource(id string, interval time.Duration) entities.Source {
	return entities.Source{ID: id, URL: "https://example.org/" + id + "/rss", Interval: interval}
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name     string
		source   entities.Source
		expected error
	}{
		{
			name:     "valid source",
			source:   newSource("a", time.Minute),
			expected: nil,
		},
		{
			name:     "missing id",
			source:   entities.Source{URL: "https://example.org/rss", Interval: time.Minute},
			expected: sources.ErrInvalidSource,
		},
		{
			name:     "missing url",
			source:   entities.Source{ID: "a", Interval: time.Minute},
			expected: sources.ErrInvalidSource,
		},
		{
			name:     "zero interval",
			source:   entities.Source{ID: "a", URL: "https://example.org/rss"},
			expected: sources.ErrInvalidSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := sources.New()
			err := repo.Add(tt.source)
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestAddDuplicate(t *testing.T) {
	repo := sources.New()
	require.NoError(t, repo.Add(newSource("a", time.Minute)))
	assert.ErrorIs(t, repo.Add(newSource("a", time.Hour)), sources.ErrDuplicateSource)
}

func TestRemove(t *testing.T) {
	repo := sources.New()
	require.NoError(t, repo.Add(newSource("a", time.Minute)))
	require.NoError(t, repo.Remove("a"))
	assert.ErrorIs(t, repo.Remove("a"), sources.ErrUnknownSource)
	assert.EqualValues(t, 0, repo.Count())
}

func TestDue(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	repo := sources.New()
	require.NoError(t, repo.Add(newSource("never-polled", time.Minute)))
	require.NoError(t, repo.Add(newSource("overdue", time.Minute)))
	require.NoError(t, repo.Add(newSource("fresh", time.Minute)))
	require.NoError(t, repo.RecordResult("overdue", true, now.Add(-2*time.Minute)))
	require.NoError(t, repo.RecordResult("fresh", true, now.Add(-10*time.Second)))

	due := repo.Due(now)
	require.Len(t, due, 2)
	assert.Equal(t, "never-polled", due[0].ID, "never polled sources come first")
	assert.Equal(t, "overdue", due[1].ID)
}

func TestDueBoundary(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	repo := sources.New()
	require.NoError(t, repo.Add(newSource("exact", time.Minute)))
	require.NoError(t, repo.RecordResult("exact", true, now.Add(-time.Minute)))

	assert.Len(t, repo.Due(now), 1, "lastPoll + interval == now is due")
	assert.Empty(t, repo.Due(now.Add(-time.Second)))
}

func TestRecordResult(t *testing.T) {
	now := time.Now()

	repo := sources.New()
	require.NoError(t, repo.Add(newSource("a", time.Minute)))

	require.NoError(t, repo.RecordResult("a", false, now))
	require.NoError(t, repo.RecordResult("a", false, now.Add(time.Minute)))
	source, _ := repo.Get("a")
	assert.Equal(t, 2, source.Failures)
	assert.True(t, source.LastSuccess.IsZero())

	require.NoError(t, repo.RecordResult("a", true, now.Add(2*time.Minute)))
	source, _ = repo.Get("a")
	assert.Equal(t, 0, source.Failures, "any success resets the failure count")
	assert.Equal(t, now.Add(2*time.Minute), source.LastSuccess)

	assert.ErrorIs(t, repo.RecordResult("ghost", true, now), sources.ErrUnknownSource)
}
