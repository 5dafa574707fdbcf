// Package search talks to the job search API.
package search

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rsilvagit/go-jobboard/internal/model"
	"github.com/rsilvagit/go-jobboard/internal/query"
)

// Searcher defines the contract of the job search capability.
type Searcher interface {
	Search(ctx context.Context, req Request) (*model.ResultPage, error)
}

// Request is what goes upstream: the criteria minus the client-side
// filters (MaxDaysOld, RemoteOnly), plus the page to fetch.
type Request struct {
	Query          string
	Location       string
	SalaryMin      int
	SalaryMax      int
	JobType        query.JobType
	Company        string
	SortBy         query.SortBy
	Page           int
	ResultsPerPage int
}

// NewRequest projects criteria onto an upstream request for page.
func NewRequest(c query.Criteria, page int) Request {
	return Request{
		Query:          c.Query,
		Location:       c.Location,
		SalaryMin:      c.SalaryMin,
		SalaryMax:      c.SalaryMax,
		JobType:        c.JobType,
		Company:        c.Company,
		SortBy:         c.SortBy,
		Page:           max(1, page),
		ResultsPerPage: c.ResultsPerPage,
	}
}

// Values encodes the request with the same key names the address bar uses.
// page and results_per_page are always present.
func (r Request) Values() url.Values {
	v := url.Values{}
	if r.Query != "" {
		v.Set(query.KeyQuery, r.Query)
	}
	if r.Location != "" {
		v.Set(query.KeyLocation, r.Location)
	}
	v.Set(query.KeyPage, strconv.Itoa(max(1, r.Page)))
	perPage := r.ResultsPerPage
	if perPage <= 0 {
		perPage = query.DefaultResultsPerPage
	}
	v.Set(query.KeyResultsPerPage, strconv.Itoa(perPage))
	if r.SalaryMin > 0 {
		v.Set(query.KeySalaryMin, strconv.Itoa(r.SalaryMin))
	}
	if r.SalaryMax > 0 {
		v.Set(query.KeySalaryMax, strconv.Itoa(r.SalaryMax))
	}
	if r.JobType != "" && r.JobType != query.JobTypeAny {
		v.Set(query.KeyJobType, string(r.JobType))
	}
	if r.Company != "" {
		v.Set(query.KeyCompany, r.Company)
	}
	if r.SortBy != "" && r.SortBy != query.SortRelevance {
		v.Set(query.KeySortBy, string(r.SortBy))
	}
	return v
}

// CacheKey identifies the request for result caching.
func (r Request) CacheKey() string {
	return r.Values().Encode()
}
