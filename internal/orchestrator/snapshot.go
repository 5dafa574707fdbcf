package orchestrator

import (
	"github.com/rsilvagit/go-jobboard/internal/filter"
	"github.com/rsilvagit/go-jobboard/internal/model"
	"github.com/rsilvagit/go-jobboard/internal/query"
)

// EmptyKind tells apart the reasons a result list can be empty.
type EmptyKind int

const (
	NotEmpty  EmptyKind = iota
	NoSearch            // nothing fetched yet
	NoResults           // the API returned zero jobs
	NoMatches           // jobs were fetched but the local filters removed all of them
)

// Snapshot is a consistent view of the orchestrator for rendering.
type Snapshot struct {
	State     query.State
	Phase     Phase
	Results   *model.ResultPage
	Visible   []model.Job // Results.Jobs after local filters
	Err       error
	Selected  *model.Job
	PendingID string
	// TotalPages and Pages always come from the unfiltered upstream count.
	TotalPages int
	Pages      []int
	Saved      []model.SavedJob
}

// Loading reports whether a search is on its way.
func (s Snapshot) Loading() bool {
	return s.Phase == InFlight
}

// Empty reports why the visible list is empty, or NotEmpty.
func (s Snapshot) Empty() EmptyKind {
	switch {
	case s.Results == nil:
		return NoSearch
	case len(s.Results.Jobs) == 0:
		return NoResults
	case len(s.Visible) == 0:
		return NoMatches
	default:
		return NotEmpty
	}
}

// IsSaved reports whether id is in the saved list.
func (s Snapshot) IsSaved(id string) bool {
	for _, it := range s.Saved {
		if it.ID == id {
			return true
		}
	}
	return false
}

// Snapshot returns the current state, with local filters applied.
func (o *Orchestrator) Snapshot() Snapshot {
	st := o.store.State()

	o.mu.Lock()
	snap := Snapshot{
		State:     st,
		Phase:     o.phase,
		Results:   o.results,
		Err:       o.err,
		PendingID: o.pending,
	}
	if o.selected != nil {
		sel := *o.selected
		snap.Selected = &sel
	}
	o.mu.Unlock()

	if o.saved != nil {
		snap.Saved = o.saved.Items()
	}

	snap.TotalPages = 1
	if snap.Results != nil {
		snap.Visible = filter.Apply(snap.Results.Jobs, filter.Options{
			RemoteOnly: st.RemoteOnly,
			MaxDaysOld: st.MaxDaysOld,
			Company:    st.Company,
		}, o.now())
		snap.TotalPages = model.TotalPages(snap.Results.Count, st.ResultsPerPage)
	}
	snap.Pages = model.PageNumbers(st.Page, snap.TotalPages)
	return snap
}
