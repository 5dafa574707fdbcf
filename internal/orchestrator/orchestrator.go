// Package orchestrator turns state changes into searches.
//
// Criteria edits are debounced; explicit navigation (search button, page
// buttons) searches at once. Every search gets a sequence number and only
// the newest one may write results, so a slow response can never overwrite
// a newer one. Superseded requests are left to finish and then discarded.
package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rsilvagit/go-jobboard/internal/debounce"
	"github.com/rsilvagit/go-jobboard/internal/model"
	"github.com/rsilvagit/go-jobboard/internal/query"
	"github.com/rsilvagit/go-jobboard/internal/saved"
	"github.com/rsilvagit/go-jobboard/internal/search"
)

const DefaultDebounce = 500 * time.Millisecond

// Phase is the search lifecycle state.
type Phase int

const (
	Idle Phase = iota
	Debouncing
	InFlight
	Settled
	Failed
)

func (p Phase) String() string {
	switch p {
	case Debouncing:
		return "debouncing"
	case InFlight:
		return "in-flight"
	case Settled:
		return "settled"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Options tunes an Orchestrator. Zero values pick the defaults.
type Options struct {
	Debounce   time.Duration
	AfterFunc  debounce.AfterFunc
	Now        func() time.Time
	AddressBar query.AddressBar
	// OnUpdate is called after every visible change, outside any lock.
	OnUpdate func(Snapshot)
	Logger   *slog.Logger
}

// Orchestrator owns the search lifecycle for one Store.
type Orchestrator struct {
	store     *query.Store
	searcher  search.Searcher
	saved     *saved.Collection
	debouncer *debounce.Debouncer
	bar       query.AddressBar
	now       func() time.Time
	onUpdate  func(Snapshot)
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// barMu serialises address bar writes. It is never held with mu.
	barMu sync.Mutex

	mu       sync.Mutex
	phase    Phase
	seq      uint64
	results  *model.ResultPage
	err      error
	pending  string
	selected *model.Job
}

// New wires an Orchestrator to store and savedJobs (which may be nil).
// pendingID is a selection decoded from the address bar that will be
// applied once a job with that id shows up in results or saved jobs.
func New(store *query.Store, searcher search.Searcher, savedJobs *saved.Collection, pendingID string, opts Options) *Orchestrator {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		store:     store,
		searcher:  searcher,
		saved:     savedJobs,
		debouncer: debounce.New(opts.Debounce, opts.AfterFunc),
		bar:       opts.AddressBar,
		now:       opts.Now,
		onUpdate:  opts.OnUpdate,
		logger:    opts.Logger,
		ctx:       ctx,
		cancel:    cancel,
		pending:   pendingID,
	}

	store.Subscribe(o.onStateChange)
	if savedJobs != nil {
		savedJobs.Subscribe(func([]model.SavedJob) {
			o.resolvePending()
			o.notify()
		})
	}
	o.resolvePending()
	return o
}

// Start runs the first search for a restored state, at the restored page.
// It does nothing when the state carries no query.
func (o *Orchestrator) Start() {
	st := o.store.State()
	if !st.HasQuery() {
		return
	}
	o.Go(st.Page)
}

// Close drops any pending debounce, cancels in-flight searches and waits
// for them to return.
func (o *Orchestrator) Close() {
	o.debouncer.Cancel()
	o.cancel()
	o.wg.Wait()
}

// Wait blocks until every search issued so far has returned.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Search is the search button: page 1, no debounce.
func (o *Orchestrator) Search() {
	o.Go(1)
}

// Go searches page right away, replacing any pending debounced search.
func (o *Orchestrator) Go(page int) {
	o.debouncer.Cancel()
	o.run(max(1, page))
}

// Next moves one page forward. It reports false on the last page.
func (o *Orchestrator) Next() bool {
	page := o.store.State().Page
	if page >= o.totalPages() {
		return false
	}
	o.Go(page + 1)
	return true
}

// Prev moves one page back. It reports false on the first page.
func (o *Orchestrator) Prev() bool {
	page := o.store.State().Page
	if page <= 1 {
		return false
	}
	o.Go(page - 1)
	return true
}

func (o *Orchestrator) onStateChange(c query.Change) {
	o.syncAddressBar()

	if c.Fields.Has(query.SearchFields) {
		if c.State.HasQuery() {
			o.mu.Lock()
			o.phase = Debouncing
			o.mu.Unlock()
			o.debouncer.Trigger(func() { o.run(1) })
		} else {
			o.debouncer.Cancel()
			o.mu.Lock()
			if o.phase == Debouncing {
				o.phase = o.restingPhaseLocked()
			}
			o.mu.Unlock()
		}
	}
	o.notify()
}

// syncAddressBar writes the store's current state, not the state carried by
// the change: notifications from the settle goroutine and from the caller
// may arrive out of order, but the last write always encodes the newest
// state.
func (o *Orchestrator) syncAddressBar() {
	if o.bar == nil {
		return
	}
	o.barMu.Lock()
	defer o.barMu.Unlock()
	if err := o.bar.Replace(query.Encode(o.store.State())); err != nil {
		o.logger.Warn("address bar write failed", "err", err)
	}
}

func (o *Orchestrator) run(page int) {
	req := search.NewRequest(o.store.State().Criteria, page)

	o.mu.Lock()
	o.seq++
	seq := o.seq
	o.phase = InFlight
	o.err = nil
	o.mu.Unlock()

	o.logger.Debug("search issued", "seq", seq, "page", req.Page, "q", req.Query, "location", req.Location)
	o.notify()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		result, err := o.searcher.Search(o.ctx, req)
		o.settle(seq, req.Page, result, err)
	}()
}

func (o *Orchestrator) settle(seq uint64, page int, result *model.ResultPage, err error) {
	o.mu.Lock()
	if seq != o.seq {
		o.mu.Unlock()
		o.logger.Debug("stale search result dropped", "seq", seq)
		return
	}
	if err != nil {
		o.err = err
		o.phase = Failed
		o.mu.Unlock()
		o.logger.Warn("search failed", "seq", seq, "err", err)
		o.notify()
		return
	}
	if result == nil {
		result = &model.ResultPage{}
	}
	o.results = result
	o.err = nil
	o.phase = Settled
	if o.debouncer.Pending() {
		o.phase = Debouncing
	}
	o.mu.Unlock()

	o.logger.Debug("search settled", "seq", seq, "page", page, "count", result.Count, "jobs", len(result.Jobs))
	o.store.SetPage(page)
	o.resolvePending()
	o.notify()
}

// resolvePending turns the pending selection into a real one once its job
// is loaded. Unmatched ids stay pending.
func (o *Orchestrator) resolvePending() {
	o.mu.Lock()
	id := o.pending
	if id == "" {
		o.mu.Unlock()
		return
	}
	match, ok := o.lookupLocked(id)
	if !ok {
		o.mu.Unlock()
		return
	}
	o.pending = ""
	o.selected = &match
	o.mu.Unlock()

	o.store.SetSelected(id)
}

// Select opens the job with id from the current results or saved jobs.
func (o *Orchestrator) Select(id string) bool {
	o.mu.Lock()
	match, ok := o.lookupLocked(id)
	if ok {
		o.selected = &match
	}
	o.mu.Unlock()
	if !ok {
		return false
	}
	o.store.SetSelected(id)
	return true
}

// Deselect closes the detail view.
func (o *Orchestrator) Deselect() {
	o.mu.Lock()
	o.selected = nil
	o.mu.Unlock()
	o.store.SetSelected("")
}

// ToggleSave saves or unsaves the job with id. found is false when the id
// is neither loaded nor saved.
func (o *Orchestrator) ToggleSave(id string) (nowSaved, found bool) {
	if o.saved == nil {
		return false, false
	}
	o.mu.Lock()
	job, ok := o.lookupLocked(id)
	o.mu.Unlock()
	if !ok {
		return false, false
	}
	return o.saved.Toggle(o.ctx, job), true
}

// ShareLink returns a link to the current search with the selected job.
func (o *Orchestrator) ShareLink(base string) (string, bool) {
	o.mu.Lock()
	sel := o.selected
	o.mu.Unlock()
	if sel == nil {
		return "", false
	}
	return query.ShareLink(base, o.store.State(), sel.ID), true
}

// lookupLocked searches the current results first, then saved jobs, then
// the already selected job.
func (o *Orchestrator) lookupLocked(id string) (model.Job, bool) {
	if id == "" {
		return model.Job{}, false
	}
	if o.results != nil {
		for _, j := range o.results.Jobs {
			if j.ID == id {
				return j, true
			}
		}
	}
	if o.saved != nil {
		if s, ok := o.saved.Find(id); ok {
			return s.Job(), true
		}
	}
	if o.selected != nil && o.selected.ID == id {
		return *o.selected, true
	}
	return model.Job{}, false
}

func (o *Orchestrator) restingPhaseLocked() Phase {
	switch {
	case o.err != nil:
		return Failed
	case o.results != nil:
		return Settled
	default:
		return Idle
	}
}

func (o *Orchestrator) totalPages() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.results == nil {
		return 1
	}
	return model.TotalPages(o.results.Count, o.store.State().ResultsPerPage)
}

func (o *Orchestrator) notify() {
	if o.onUpdate != nil {
		o.onUpdate(o.Snapshot())
	}
}
