package dedup_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"newswire/pkg/dedup"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndInsert(t *testing.T) {
	cache, err := dedup.New(16, 0)
	require.NoError(t, err)

	assert.Equal(t, dedup.Accepted, cache.CheckAndInsert("fp-1"))
	assert.Equal(t, dedup.Duplicate, cache.CheckAndInsert("fp-1"))
	assert.Equal(t, dedup.Accepted, cache.CheckAndInsert("fp-2"))
	assert.Equal(t, 2, cache.Len())
}

func TestCheckAndInsertConcurrent(t *testing.T) {
	cache, err := dedup.New(128, 0)
	require.NoError(t, err)

	const callers = 64
	var wg sync.WaitGroup
	results := make(chan dedup.Status, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- cache.CheckAndInsert("contested")
		}()
	}
	wg.Wait()
	close(results)

	accepted := 0
	for status := range results {
		if status == dedup.Accepted {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted, "exactly one concurrent caller must win admission")
}

func TestEvictionReadmits(t *testing.T) {
	cache, err := dedup.New(2, 0)
	require.NoError(t, err)

	require.Equal(t, dedup.Accepted, cache.CheckAndInsert("a"))
	require.Equal(t, dedup.Accepted, cache.CheckAndInsert("b"))
	require.Equal(t, dedup.Accepted, cache.CheckAndInsert("c")) // evicts "a"

	assert.Equal(t, dedup.Accepted, cache.CheckAndInsert("a"), "evicted fingerprint is admitted again")
	assert.Equal(t, dedup.Duplicate, cache.CheckAndInsert("c"))
}

func TestRecencyOrdering(t *testing.T) {
	cache, err := dedup.New(2, 0)
	require.NoError(t, err)

	require.Equal(t, dedup.Accepted, cache.CheckAndInsert("a"))
	require.Equal(t, dedup.Accepted, cache.CheckAndInsert("b"))
	// Touch "a" so "b" becomes the least recently seen entry.
	require.Equal(t, dedup.Duplicate, cache.CheckAndInsert("a"))
	require.Equal(t, dedup.Accepted, cache.CheckAndInsert("c")) // evicts "b"

	assert.Equal(t, dedup.Duplicate, cache.CheckAndInsert("a"))
	assert.Equal(t, dedup.Accepted, cache.CheckAndInsert("b"))
}

func TestMaxAgeHorizon(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache, err := dedup.NewWithClock(16, time.Hour, clock)
	require.NoError(t, err)

	require.Equal(t, dedup.Accepted, cache.CheckAndInsert("fp"))

	clock.Advance(30 * time.Minute)
	assert.Equal(t, dedup.Duplicate, cache.CheckAndInsert("fp"))

	clock.Advance(31 * time.Minute)
	assert.Equal(t, dedup.Accepted, cache.CheckAndInsert("fp"), "entry past the horizon counts as unseen")
	assert.Equal(t, dedup.Duplicate, cache.CheckAndInsert("fp"), "re-admission restarts the horizon")
}

func TestInvalidSize(t *testing.T) {
	_, err := dedup.New(0, 0)
	assert.ErrorIs(t, err, dedup.ErrInvalidSize)
}

func TestBoundedUnderSustainedInsertion(t *testing.T) {
	cache, err := dedup.New(64, 0)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		cache.CheckAndInsert(fmt.Sprintf("fp-%d", i))
	}
	assert.Equal(t, 64, cache.Len())
}
