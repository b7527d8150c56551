package cron

import (
	"context"
	"time"
)

// ViewReaper closes list views that have been idle for at least the given duration.
type ViewReaper interface {
	CloseIdle(ctx context.Context, idle time.Duration) int
}

type ViewJobs struct {
	reaper ViewReaper
	idle   time.Duration
	every  time.Duration
}

// NewViewJobs checks for abandoned views every idle/2, at least once a second.
func NewViewJobs(reaper ViewReaper, idle time.Duration) *ViewJobs {
	every := idle / 2
	if every < time.Second {
		every = time.Second
	}
	return &ViewJobs{
		reaper: reaper,
		idle:   idle,
		every:  every,
	}
}

func (j *ViewJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_idle_list_views", j.every, j.CloseIdleViews)
}

func (j *ViewJobs) CloseIdleViews(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.reaper.CloseIdle(ctx, j.idle)
	return nil
}
