package config

type Worker struct {
	// CompleteSweepSchedule — cron-расписание перевода отыгранных сделок
	// в COMPLETED (синтаксис asynq.Scheduler).
	CompleteSweepSchedule string `env:"COMPLETE_SWEEP_SCHEDULE" envDefault:"@every 1h"`
	Queue                 string `env:"WORKER_QUEUE" envDefault:"default"`
	Concurrency           int    `env:"WORKER_CONCURRENCY" envDefault:"4"`
}
