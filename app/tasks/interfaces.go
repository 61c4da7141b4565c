package tasks

// TaskSchedulerInterface is what the HTTP layer needs from the scheduler.
//
//	scheduler := NewScheduler(limiter, contentCache, config)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewReloadContentTask(contentCache))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// Pruner drops expired rate limit windows.
type Pruner interface {
	Prune() int
	Len() int
}

// Reloader re-indexes the content directory.
type Reloader interface {
	Run() error
	GetPostCount() int
}
