package scheduler_test

import (
	"testing"
	"time"

	"newswire/models/constants"
	"newswire/models/entities"
	"newswire/repositories/sources"
	"newswire/services/scheduler"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePool struct {
	capacity  int
	submitted []entities.Source
}

func (p *fakePool) TrySubmit(source entities.Source) bool {
	if len(p.submitted) >= p.capacity {
		return false
	}
	p.submitted = append(p.submitted, source)
	return true
}

func (p *fakePool) ids() []string {
	ids := make([]string, 0, len(p.submitted))
	for _, source := range p.submitted {
		ids = append(ids, source.ID)
	}
	return ids
}

func newScheduler(t *testing.T, repo sources.Repository, pool scheduler.Pool) *scheduler.Impl {
	t.Helper()
	viper.Set(constants.TickInterval, time.Second)
	viper.Set(constants.FailureThreshold, 2)
	viper.Set(constants.MaxPollBackoff, time.Hour)

	// Registered but never started; Dispatch is driven directly.
	gocronScheduler, err := gocron.NewScheduler()
	require.NoError(t, err)

	service, err := scheduler.New(gocronScheduler, repo, pool)
	require.NoError(t, err)
	return service
}

func addSource(t *testing.T, repo sources.Repository, id string, interval time.Duration) {
	t.Helper()
	require.NoError(t, repo.Add(entities.Source{ID: id, URL: "https://example.org/" + id, Interval: interval}))
}

func TestDispatchSubmitsDueSources(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	repo := sources.New()
	pool := &fakePool{capacity: 10}
	service := newScheduler(t, repo, pool)

	addSource(t, repo, "due", time.Minute)
	addSource(t, repo, "fresh", time.Minute)
	require.NoError(t, repo.RecordResult("fresh", true, now.Add(-time.Second)))

	assert.Equal(t, 1, service.Dispatch(now))
	assert.Equal(t, []string{"due"}, pool.ids())
}

func TestDispatchSkipsInFlightSources(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	repo := sources.New()
	pool := &fakePool{capacity: 10}
	service := newScheduler(t, repo, pool)

	addSource(t, repo, "slow", time.Minute)

	assert.Equal(t, 1, service.Dispatch(now))
	assert.Equal(t, 0, service.Dispatch(now.Add(time.Second)), "source still polling is not resubmitted")

	service.OnPollComplete("slow", true, now.Add(2*time.Second))
	assert.Equal(t, 1, service.Dispatch(now.Add(2*time.Minute)))
}

func TestDispatchPoolSaturationDelaysWork(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	repo := sources.New()
	pool := &fakePool{capacity: 1}
	service := newScheduler(t, repo, pool)

	addSource(t, repo, "a", time.Minute)
	addSource(t, repo, "b", time.Minute)

	assert.Equal(t, 1, service.Dispatch(now))

	// Drain the pool and complete the first poll; the leftover source is
	// picked up on a later tick, nothing was dropped.
	service.OnPollComplete(pool.submitted[0].ID, true, now.Add(time.Second))
	pool.capacity = 10
	assert.Equal(t, 1, service.Dispatch(now.Add(2*time.Second)))

	assert.ElementsMatch(t, []string{"a", "b"}, pool.ids())
}

func TestDispatchAppliesFailureBackoff(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	repo := sources.New()
	pool := &fakePool{capacity: 10}
	service := newScheduler(t, repo, pool)

	addSource(t, repo, "flaky", time.Minute)

	// Three failures: one past the threshold of two, so the interval doubles.
	for i := 0; i < 3; i++ {
		tick := now.Add(time.Duration(i) * 2 * time.Minute)
		require.Equal(t, 1, service.Dispatch(tick))
		service.OnPollComplete("flaky", false, tick)
	}
	lastPoll := now.Add(2 * 2 * time.Minute)

	assert.Equal(t, 0, service.Dispatch(lastPoll.Add(time.Minute)), "normal interval elapsed but backoff has not")
	assert.Equal(t, 1, service.Dispatch(lastPoll.Add(2*time.Minute)), "doubled interval elapsed")
}

func TestDispatchBackoffIsBounded(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	repo := sources.New()
	pool := &fakePool{capacity: 10}
	service := newScheduler(t, repo, pool)
	viper.Set(constants.MaxPollBackoff, time.Hour)

	addSource(t, repo, "dead", time.Minute)

	// Pile up far more failures than the threshold.
	for i := 0; i < 30; i++ {
		service.OnPollComplete("dead", false, now)
	}

	assert.Equal(t, 0, service.Dispatch(now.Add(30*time.Minute)))
	assert.Equal(t, 1, service.Dispatch(now.Add(61*time.Minute)), "backoff never exceeds the ceiling")
}

func TestBackoffRecovery(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	repo := sources.New()
	pool := &fakePool{capacity: 10}
	service := newScheduler(t, repo, pool)

	addSource(t, repo, "flaky", time.Minute)
	for i := 0; i < 5; i++ {
		service.OnPollComplete("flaky", false, now)
	}

	service.OnPollComplete("flaky", true, now.Add(time.Minute))
	source, _ := repo.Get("flaky")
	assert.Equal(t, 0, source.Failures)
	assert.Equal(t, 1, service.Dispatch(now.Add(2*time.Minute+time.Second)), "recovered source polls at its normal cadence")
}
