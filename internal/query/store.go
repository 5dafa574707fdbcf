package query

import (
	"strings"
	"sync"
)

// Field identifies one piece of State. Values combine as a bit set.
type Field uint32

const (
	FieldQuery Field = 1 << iota
	FieldLocation
	FieldSalaryMin
	FieldSalaryMax
	FieldJobType
	FieldCompany
	FieldMaxDaysOld
	FieldRemoteOnly
	FieldResultsPerPage
	FieldSortBy
	FieldPage
	FieldView
	FieldSelected
)

// SearchFields are the fields whose change restarts the debounced search.
const SearchFields = FieldQuery | FieldLocation | FieldSalaryMin | FieldSalaryMax |
	FieldJobType | FieldCompany | FieldMaxDaysOld | FieldRemoteOnly |
	FieldResultsPerPage | FieldSortBy

// Has reports whether any bit of other is set in f.
func (f Field) Has(other Field) bool { return f&other != 0 }

// Change is delivered to subscribers after every effective mutation.
type Change struct {
	Fields Field
	State  State
}

// Store is the single source of truth for the search state. Setters change
// one field at a time; subscribers are called synchronously, outside the
// store's lock, only when a value actually changed.
type Store struct {
	mu    sync.RWMutex
	state State
	subs  []func(Change)
}

// NewStore returns a Store seeded with initial.
func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Subscribe registers fn for every future change.
func (s *Store) Subscribe(fn func(Change)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetQuery, SetLocation and SetCompany store the text as given.
func (s *Store) SetQuery(v string)    { s.update(func(st *State) { st.Query = v }) }
func (s *Store) SetLocation(v string) { s.update(func(st *State) { st.Location = v }) }
func (s *Store) SetCompany(v string)  { s.update(func(st *State) { st.Company = v }) }

// SetSalaryMin parses raw leniently; anything that is not a positive
// integer unsets the bound.
func (s *Store) SetSalaryMin(raw string) {
	n := parseOptional(raw)
	s.update(func(st *State) { st.SalaryMin = n })
}

// SetSalaryMax parses raw like SetSalaryMin.
func (s *Store) SetSalaryMax(raw string) {
	n := parseOptional(raw)
	s.update(func(st *State) { st.SalaryMax = n })
}

// SetMaxDaysOld sets the local age filter; non-positive or non-numeric
// input turns it off.
func (s *Store) SetMaxDaysOld(raw string) {
	n := parseOptional(raw)
	s.update(func(st *State) { st.MaxDaysOld = n })
}

// SetJobType falls back to JobTypeAny for unknown values.
func (s *Store) SetJobType(raw string) {
	t := ParseJobType(raw)
	s.update(func(st *State) { st.JobType = t })
}

// SetSortBy falls back to SortRelevance for unknown values.
func (s *Store) SetSortBy(raw string) {
	v := ParseSortBy(raw)
	s.update(func(st *State) { st.SortBy = v })
}

// SetRemoteOnly toggles the local remote filter.
func (s *Store) SetRemoteOnly(v bool) { s.update(func(st *State) { st.RemoteOnly = v }) }

// SetResultsPerPage accepts one of PageSizes; anything else means the
// default.
func (s *Store) SetResultsPerPage(n int) {
	n = normalizePerPage(n)
	s.update(func(st *State) { st.ResultsPerPage = n })
}

// SetPage clamps to a minimum of 1.
func (s *Store) SetPage(p int) {
	p = max(1, p)
	s.update(func(st *State) { st.Page = p })
}

// SetView switches between the search and saved tabs; unknown values
// mean the search tab.
func (s *Store) SetView(raw string) {
	v := ParseView(raw)
	s.update(func(st *State) { st.View = v })
}

// SetSelected records the selected item id; empty clears the selection.
func (s *Store) SetSelected(id string) {
	id = strings.TrimSpace(id)
	s.update(func(st *State) { st.SelectedID = id })
}

// Reset restores every criteria field to its default and goes back to the
// first page. View and selection are kept.
func (s *Store) Reset() {
	s.update(func(st *State) {
		st.Criteria = DefaultCriteria()
		st.Page = 1
	})
}

func (s *Store) update(mutate func(*State)) {
	s.mu.Lock()
	before := s.state
	mutate(&s.state)
	after := s.state
	subs := s.subs
	s.mu.Unlock()

	changed := diff(before, after)
	if changed == 0 {
		return
	}
	c := Change{Fields: changed, State: after}
	for _, fn := range subs {
		fn(c)
	}
}

func diff(a, b State) Field {
	var f Field
	if a.Query != b.Query {
		f |= FieldQuery
	}
	if a.Location != b.Location {
		f |= FieldLocation
	}
	if a.SalaryMin != b.SalaryMin {
		f |= FieldSalaryMin
	}
	if a.SalaryMax != b.SalaryMax {
		f |= FieldSalaryMax
	}
	if a.JobType != b.JobType {
		f |= FieldJobType
	}
	if a.Company != b.Company {
		f |= FieldCompany
	}
	if a.MaxDaysOld != b.MaxDaysOld {
		f |= FieldMaxDaysOld
	}
	if a.RemoteOnly != b.RemoteOnly {
		f |= FieldRemoteOnly
	}
	if a.ResultsPerPage != b.ResultsPerPage {
		f |= FieldResultsPerPage
	}
	if a.SortBy != b.SortBy {
		f |= FieldSortBy
	}
	if a.Page != b.Page {
		f |= FieldPage
	}
	if a.View != b.View {
		f |= FieldView
	}
	if a.SelectedID != b.SelectedID {
		f |= FieldSelected
	}
	return f
}
