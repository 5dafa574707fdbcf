// Package saved keeps the user's saved jobs.
//
// A Collection holds the list in memory and writes it through to a Store
// after every change. Stores are best-effort: a failed or malformed load
// yields an empty list and a failed write is only logged.
package saved

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/rsilvagit/go-jobboard/internal/model"
)

// Store persists the whole saved list, most recently saved first.
type Store interface {
	Load(ctx context.Context) ([]model.SavedJob, error)
	Save(ctx context.Context, items []model.SavedJob) error
}

// Collection is the in-memory saved list. Membership is by id only.
type Collection struct {
	mu     sync.Mutex
	items  []model.SavedJob
	store  Store
	logger *slog.Logger
	subs   []func([]model.SavedJob)
}

// Open loads the list from store. Load failures leave the list empty.
func Open(ctx context.Context, store Store, logger *slog.Logger) *Collection {
	if logger == nil {
		logger = slog.Default()
	}
	items, err := store.Load(ctx)
	if err != nil {
		logger.Debug("saved jobs unreadable, starting empty", "err", err)
		items = nil
	}
	return &Collection{items: dedupe(items), store: store, logger: logger}
}

// Subscribe registers fn for every change; it receives a copy of the list.
func (c *Collection) Subscribe(fn func([]model.SavedJob)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// Items returns a copy of the list.
func (c *Collection) Items() []model.SavedJob {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Len returns the number of saved jobs.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Has reports whether id is saved.
func (c *Collection) Has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexLocked(id) >= 0
}

// Find returns the saved snapshot with id.
func (c *Collection) Find(id string) (model.SavedJob, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.items[i], true
	}
	return model.SavedJob{}, false
}

// Add prepends a snapshot of job. Saving an id that is already present is
// a no-op.
func (c *Collection) Add(ctx context.Context, job model.Job) bool {
	return c.mutate(ctx, func() bool {
		if c.indexLocked(job.ID) >= 0 {
			return false
		}
		c.items = slices.Insert(c.items, 0, job.Summary())
		return true
	})
}

// Remove deletes id. Removing an absent id is a no-op.
func (c *Collection) Remove(ctx context.Context, id string) bool {
	return c.mutate(ctx, func() bool {
		i := c.indexLocked(id)
		if i < 0 {
			return false
		}
		c.items = slices.Delete(c.items, i, i+1)
		return true
	})
}

// Toggle saves job when absent and removes it otherwise. It returns true
// when the job ends up saved.
func (c *Collection) Toggle(ctx context.Context, job model.Job) bool {
	if c.Remove(ctx, job.ID) {
		return false
	}
	c.Add(ctx, job)
	return true
}

func (c *Collection) mutate(ctx context.Context, fn func() bool) bool {
	c.mu.Lock()
	if !fn() {
		c.mu.Unlock()
		return false
	}
	items := slices.Clone(c.items)
	subs := c.subs
	c.mu.Unlock()

	if err := c.store.Save(ctx, items); err != nil {
		c.logger.Warn("saving jobs failed", "err", err)
	}
	for _, fn := range subs {
		fn(slices.Clone(items))
	}
	return true
}

func (c *Collection) indexLocked(id string) int {
	return slices.IndexFunc(c.items, func(s model.SavedJob) bool { return s.ID == id })
}

// dedupe keeps the first occurrence of each id.
func dedupe(items []model.SavedJob) []model.SavedJob {
	seen := make(map[string]bool, len(items))
	out := items[:0:0]
	for _, it := range items {
		if it.ID == "" || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}
