package cron

import (
	"testing"
	"time"

	cronv3 "github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customeros/mailbridge/config"
	cron_config "github.com/customeros/mailbridge/internal/cron/config"
	"github.com/customeros/mailbridge/internal/cursor"
	"github.com/customeros/mailbridge/internal/logger"
)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func configWithTTL(ttl time.Duration) *config.Config {
	return &config.Config{
		AppConfig: &config.AppConfig{CursorCacheTTL: ttl},
		Logger:    &logger.Config{LogLevel: "info"},
	}
}

func TestNewCronManager(t *testing.T) {
	cfg := configWithTTL(0)
	log := getLogger()
	cache := cursor.NewCache()

	cm := NewCronManager(cfg, log, cache)

	assert.NotNil(t, cm)
	assert.Equal(t, cfg, cm.cfg)
	assert.Equal(t, log, cm.log)
	assert.NotNil(t, cm.jobIDs)
}

func TestCronManager_RegisterJobs_SweepDisabledWithoutTTL(t *testing.T) {
	cm := NewCronManager(configWithTTL(0), getLogger(), cursor.NewCache())
	c := cronv3.New(cronv3.WithSeconds())

	err := cm.registerJobs(c, cron_config.Config{
		CronScheduleHeartbeat:   "0 * * * * *",
		CronScheduleCursorSweep: "0 */5 * * * *",
	})
	require.NoError(t, err)

	assert.Contains(t, cm.jobIDs, "heartbeat")
	assert.NotContains(t, cm.jobIDs, "cursor_sweep")
	assert.Len(t, c.Entries(), 1)
}

func TestCronManager_RegisterJobs_SweepEnabledWithTTL(t *testing.T) {
	cm := NewCronManager(configWithTTL(time.Hour), getLogger(), cursor.NewCache())
	c := cronv3.New(cronv3.WithSeconds())

	err := cm.registerJobs(c, cron_config.Config{
		CronScheduleHeartbeat:   "0 * * * * *",
		CronScheduleCursorSweep: "0 */5 * * * *",
	})
	require.NoError(t, err)

	assert.Len(t, cm.jobIDs, 2)
	assert.Contains(t, cm.jobIDs, "cursor_sweep")
}

func TestCronManager_RegisterJobs_InvalidSchedule(t *testing.T) {
	cm := NewCronManager(configWithTTL(0), getLogger(), nil)
	c := cronv3.New(cronv3.WithSeconds())

	err := cm.registerJobs(c, cron_config.Config{CronScheduleHeartbeat: "not a schedule"})
	assert.Error(t, err)
}

type fakeSweeper struct {
	ttl   time.Duration
	calls int
}

func (f *fakeSweeper) EvictOlderThan(ttl time.Duration) int {
	f.ttl = ttl
	f.calls++
	return 3
}

func (f *fakeSweeper) Len() int { return 7 }

func TestCronManager_SweepCursorCache(t *testing.T) {
	sweeper := &fakeSweeper{}
	cm := NewCronManager(configWithTTL(15*time.Minute), getLogger(), sweeper)

	cm.sweepCursorCache()

	assert.Equal(t, 1, sweeper.calls)
	assert.Equal(t, 15*time.Minute, sweeper.ttl)
}

func TestCronManager_Stop(t *testing.T) {
	cm := NewCronManager(configWithTTL(0), getLogger(), nil)

	mockCron := cronv3.New()
	mockCron.Start()
	cm.cron = mockCron

	cm.Stop()
	cm.Stop()

	select {
	case <-cm.stopCh:
	default:
		t.Error("Stop channel was not closed")
	}
}
