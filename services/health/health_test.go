package health_test

import (
	"testing"

	"newswire/models/constants"
	"newswire/pkg/observer"
	"newswire/services/health"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCounts(t *testing.T) {
	viper.Set(constants.StatsCronTab, "* * * * *")
	scheduler, err := gocron.NewScheduler()
	require.NoError(t, err)

	service, err := health.New(scheduler)
	require.NoError(t, err)

	service.OnNotify(observer.NewArticleEvent(observer.ArticleAcceptedEvent, "s", "fp", "u"))
	service.OnNotify(observer.NewArticleEvent(observer.ArticleAcceptedEvent, "s", "fp2", "u"))
	service.OnNotify(observer.NewArticleEvent(observer.ArticleDuplicateEvent, "s", "fp", "u"))
	service.OnNotify(observer.NewSinkEvent(observer.SinkDeliveredEvent, "log", "fp"))
	service.OnNotify(observer.NewSinkEvent(observer.SinkDroppedEvent, "slow", "fp2"))

	stats := service.Snapshot()
	assert.EqualValues(t, 2, stats.Accepted)
	assert.EqualValues(t, 1, stats.Duplicates)
	assert.EqualValues(t, 1, stats.Delivered)
	assert.EqualValues(t, 1, stats.SinkDrops)
	assert.Zero(t, stats.PollFailures)
}
