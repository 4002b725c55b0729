package cron

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v6"
	cronv3 "github.com/robfig/cron/v3"

	"github.com/customeros/mailbridge/config"
	cron_config "github.com/customeros/mailbridge/internal/cron/config"
	"github.com/customeros/mailbridge/internal/logger"
	"github.com/customeros/mailbridge/internal/tracing"
)

const (
	// GroupCursorCache serialises jobs touching the pagination cursor cache
	GroupCursorCache = "cursor_cache"
)

var jobLocks = struct {
	sync.Mutex
	locks map[string]*sync.Mutex
}{
	locks: map[string]*sync.Mutex{
		GroupCursorCache: new(sync.Mutex),
	},
}

// CursorSweeper is the part of the cursor cache the sweep job needs.
type CursorSweeper interface {
	EvictOlderThan(ttl time.Duration) int
	Len() int
}

type CronManager struct {
	cfg      *config.Config
	log      logger.Logger
	cron     *cronv3.Cron
	stopCh   chan struct{}
	stopOnce sync.Once
	jobIDs   map[string]cronv3.EntryID
	cursors  CursorSweeper
}

func NewCronManager(cfg *config.Config, log logger.Logger, cursors CursorSweeper) *CronManager {
	return &CronManager{
		cfg:     cfg,
		log:     log,
		stopCh:  make(chan struct{}),
		jobIDs:  make(map[string]cronv3.EntryID),
		cursors: cursors,
	}
}

// Stop gracefully stops the cron manager
func (cm *CronManager) Stop() {
	cm.stopOnce.Do(func() {
		if cm.cron != nil {
			cm.log.Info("Stopping cron manager")
			ctx := cm.cron.Stop()
			<-ctx.Done()
		}
		close(cm.stopCh)
	})
}

func (cm *CronManager) cursorTTL() time.Duration {
	if cm.cfg == nil || cm.cfg.AppConfig == nil {
		return 0
	}
	return cm.cfg.AppConfig.CursorCacheTTL
}

// registerJobs adds all cron jobs to the scheduler
func (cm *CronManager) registerJobs(c *cronv3.Cron, cronConfig cron_config.Config) error {
	if cronConfig.CronScheduleHeartbeat != "" {
		podName := os.Getenv("POD_NAME")
		if podName == "" {
			podName = "local"
		}
		id, err := c.AddFunc(cronConfig.CronScheduleHeartbeat, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			cm.log.Infof("Cron heartbeat from pod: %s", podName)
		})
		if err != nil {
			return err
		}
		cm.jobIDs["heartbeat"] = id
		cm.log.Infof("Registered heartbeat job with schedule: %s", cronConfig.CronScheduleHeartbeat)
	}

	if cronConfig.CronScheduleCursorSweep != "" && cm.cursorTTL() > 0 && cm.cursors != nil {
		id, err := c.AddFunc(cronConfig.CronScheduleCursorSweep, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			jobLocks.locks[GroupCursorCache].Lock()
			defer jobLocks.locks[GroupCursorCache].Unlock()
			cm.sweepCursorCache()
		})
		if err != nil {
			return err
		}
		cm.jobIDs["cursor_sweep"] = id
		cm.log.Infof("Registered cursor sweep job with schedule: %s, ttl: %s", cronConfig.CronScheduleCursorSweep, cm.cursorTTL())
	}
	return nil
}

// StartCron initializes and starts the cron scheduler
func (cm *CronManager) StartCron() {
	cm.log.Info("Starting cron manager")

	var cronConfig cron_config.Config
	if err := env.Parse(&cronConfig); err != nil {
		cm.log.Fatalf("Failed to parse cron config from environment: %v", err)
	}

	cronOptions := []cronv3.Option{
		cronv3.WithSeconds(),
		cronv3.WithChain(
			cronv3.SkipIfStillRunning(cronv3.DefaultLogger),
			cronv3.Recover(cronv3.DefaultLogger),
		),
	}
	c := cronv3.New(cronOptions...)
	if err := cm.registerJobs(c, cronConfig); err != nil {
		cm.log.Fatalf("Could not register cron jobs: %v", err)
	}
	c.Start()
	cm.cron = c
}

func (cm *CronManager) sweepCursorCache() {
	span, _ := tracing.StartTracerSpan(context.Background(), "CronManager.sweepCursorCache")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	removed := cm.cursors.EvictOlderThan(cm.cursorTTL())
	span.LogKV("removed", removed, "remaining", cm.cursors.Len())
	if removed > 0 {
		cm.log.Infof("Evicted %d pagination cursors older than %s", removed, cm.cursorTTL())
	}
}
