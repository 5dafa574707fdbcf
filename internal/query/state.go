// Package query holds the canonical search state, its observable store and
// its query-string encoding.
package query

import (
	"slices"
	"strconv"
	"strings"
)

// JobType restricts results to one contract type. JobTypeAny is the default.
type JobType string

const (
	JobTypeAny       JobType = "any"
	JobTypeFullTime  JobType = "full_time"
	JobTypePartTime  JobType = "part_time"
	JobTypeContract  JobType = "contract"
	JobTypePermanent JobType = "permanent"
)

// ParseJobType returns JobTypeAny for anything it does not recognise.
func ParseJobType(s string) JobType {
	switch t := JobType(strings.TrimSpace(s)); t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypePermanent:
		return t
	default:
		return JobTypeAny
	}
}

// SortBy orders upstream results. SortRelevance is the default.
type SortBy string

const (
	SortRelevance SortBy = "relevance"
	SortDate      SortBy = "date"
	SortSalary    SortBy = "salary"
)

// ParseSortBy returns SortRelevance for anything it does not recognise.
func ParseSortBy(s string) SortBy {
	switch v := SortBy(strings.TrimSpace(s)); v {
	case SortDate, SortSalary:
		return v
	default:
		return SortRelevance
	}
}

// View is the active tab.
type View string

const (
	ViewSearch View = "search"
	ViewSaved  View = "saved"
)

// ParseView returns ViewSearch for anything it does not recognise.
func ParseView(s string) View {
	if View(strings.TrimSpace(s)) == ViewSaved {
		return ViewSaved
	}
	return ViewSearch
}

// DefaultResultsPerPage is used when the page size is missing or not one
// of PageSizes.
const DefaultResultsPerPage = 20

// Criteria is the set of search inputs. Numeric fields use 0 for "unset".
type Criteria struct {
	Query          string
	Location       string
	SalaryMin      int
	SalaryMax      int
	JobType        JobType
	Company        string
	MaxDaysOld     int
	RemoteOnly     bool
	ResultsPerPage int
	SortBy         SortBy
}

// HasQuery reports whether the criteria carry anything worth sending
// upstream on their own. MaxDaysOld and RemoteOnly don't count.
func (c Criteria) HasQuery() bool {
	return c.Query != "" || c.Location != "" || c.Company != "" ||
		c.SalaryMin > 0 || c.SalaryMax > 0 || c.JobType != JobTypeAny
}

// State is the full client state mirrored into the address bar.
type State struct {
	Criteria
	Page       int
	View       View
	SelectedID string
}

// DefaultCriteria returns the criteria of an untouched search form.
func DefaultCriteria() Criteria {
	return Criteria{
		JobType:        JobTypeAny,
		ResultsPerPage: DefaultResultsPerPage,
		SortBy:         SortRelevance,
	}
}

// DefaultState returns the state of a fresh session.
func DefaultState() State {
	return State{
		Criteria: DefaultCriteria(),
		Page:     1,
		View:     ViewSearch,
	}
}

// parseOptional parses a lenient positive integer. Empty, non-numeric and
// non-positive input all mean "unset".
func parseOptional(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// parseOr parses a positive integer, falling back to def.
func parseOr(raw string, def int) int {
	if n := parseOptional(raw); n > 0 {
		return n
	}
	return def
}

// PageSizes are the page sizes the search form offers.
var PageSizes = []int{10, 20, 50}

// normalizePerPage keeps n when it is one of PageSizes and falls back to
// the default otherwise.
func normalizePerPage(n int) int {
	if slices.Contains(PageSizes, n) {
		return n
	}
	return DefaultResultsPerPage
}
