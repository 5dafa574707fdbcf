// Package watch re-runs a saved search on a schedule and reports jobs it
// has not seen before.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rsilvagit/go-jobboard/internal/filter"
	"github.com/rsilvagit/go-jobboard/internal/model"
	"github.com/rsilvagit/go-jobboard/internal/output"
	"github.com/rsilvagit/go-jobboard/internal/query"
	"github.com/rsilvagit/go-jobboard/internal/search"
)

// Watcher wraps robfig/cron around one search.
type Watcher struct {
	cron     *cron.Cron
	schedule string
	searcher search.Searcher
	state    query.State
	writers  []output.ResultWriter
	now      func() time.Time
	logger   *slog.Logger

	mu   sync.Mutex
	seen map[string]bool
}

// New creates a Watcher for state firing on schedule, e.g. "@every 1h".
func New(searcher search.Searcher, state query.State, writers []output.ResultWriter, schedule string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	cronLog := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	return &Watcher{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.SkipIfStillRunning(cronLog)),
		),
		schedule: schedule,
		searcher: searcher,
		state:    state,
		writers:  writers,
		now:      time.Now,
		logger:   logger,
		seen:     make(map[string]bool),
	}
}

// Start registers the job and starts the scheduler. It also runs one
// search right away so the first report doesn't wait for the first tick.
func (w *Watcher) Start(ctx context.Context) error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		w.tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("watch: invalid schedule %q: %w", w.schedule, err)
	}

	w.cron.Start()
	w.logger.Info("watch started", "schedule", w.schedule, "query", query.Encode(w.state))

	go w.tick(ctx)
	return nil
}

// Stop halts the scheduler and waits for a running search to finish.
func (w *Watcher) Stop() {
	<-w.cron.Stop().Done()
	w.logger.Info("watch stopped")
}

func (w *Watcher) tick(ctx context.Context) {
	if _, err := w.RunOnce(ctx); err != nil {
		w.logger.Warn("watch run failed", "err", err)
	}
}

// RunOnce fetches the first page, applies the local filters and delivers
// the jobs not reported before. It returns those jobs.
func (w *Watcher) RunOnce(ctx context.Context) ([]model.Job, error) {
	page, err := w.searcher.Search(ctx, search.NewRequest(w.state.Criteria, 1))
	if err != nil {
		return nil, err
	}

	visible := filter.Apply(page.Jobs, filter.Options{
		RemoteOnly: w.state.RemoteOnly,
		MaxDaysOld: w.state.MaxDaysOld,
		Company:    w.state.Company,
	}, w.now())

	w.mu.Lock()
	var fresh []model.Job
	for _, j := range visible {
		if j.ID == "" || w.seen[j.ID] {
			continue
		}
		w.seen[j.ID] = true
		fresh = append(fresh, j)
	}
	w.mu.Unlock()

	w.logger.Info("watch run", "fetched", len(page.Jobs), "visible", len(visible), "new", len(fresh))
	if len(fresh) == 0 {
		return nil, nil
	}

	for _, wr := range w.writers {
		if err := wr.WriteJobs(fresh); err != nil {
			w.logger.Warn("delivering jobs failed", "writer", fmt.Sprintf("%T", wr), "err", err)
		}
	}
	return fresh, nil
}
