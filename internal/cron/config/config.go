package cron_config

type Config struct {
	// Heartbeat check, every minute
	CronScheduleHeartbeat string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	// Cursor cache sweep, every five minutes. Only runs when CURSOR_CACHE_TTL > 0
	CronScheduleCursorSweep string `env:"CRON_SCHEDULE_CURSOR_SWEEP" envDefault:"0 */5 * * * *"`
}
