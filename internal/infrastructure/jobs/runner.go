package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/feedyapp/feedy-api/internal/core/ports"
)

const refreshTimeout = 30 * time.Second

// Runner owns the background schedule. Currently it refreshes the
// trending-categories cache hourly.
type Runner struct {
	cron       *cron.Cron
	categories ports.CategoryService
	log        zerolog.Logger
}

// NewRunner creates a Runner with an empty schedule.
func NewRunner(categories ports.CategoryService, log zerolog.Logger) *Runner {
	return &Runner{
		cron:       cron.New(),
		categories: categories,
		log:        log,
	}
}

// Start registers the jobs and begins the schedule. An initial trending
// refresh runs immediately so the cache is warm before the first request.
func (r *Runner) Start(ctx context.Context) error {
	if _, err := r.cron.AddFunc("@hourly", func() { r.refreshTrending(ctx) }); err != nil {
		return err
	}
	go r.refreshTrending(ctx)
	r.cron.Start()
	return nil
}

// Stop halts the schedule and waits for running jobs to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Runner) refreshTrending(ctx context.Context) {
	jobCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	if err := r.categories.RefreshTrending(jobCtx); err != nil {
		r.log.Error().Err(err).Msg("trending refresh failed")
		return
	}
	r.log.Debug().Msg("trending cache refreshed")
}
