package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rsilvagit/go-jobboard/internal/model"
	"github.com/rsilvagit/go-jobboard/internal/query"
)

const sampleBody = `{
	"count": 45,
	"results": [
		{
			"id": "4711",
			"title": "Senior <strong>Go</strong> Engineer",
			"company": {"display_name": "Acme"},
			"location": {"display_name": "Remote, US"},
			"description": "Build <em>things</em>.<br/>Lots of them.",
			"created": "2026-05-18T10:00:00Z",
			"salary_min": 90000,
			"salary_max": 120000,
			"contract_type": "permanent",
			"redirect_url": "https://example.com/4711"
		},
		{
			"id": 99,
			"title": "Onsite Engineer",
			"company": {},
			"created": "yesterday"
		}
	]
}`

func TestAPI_Search(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	c := query.DefaultCriteria()
	c.Query = "go"
	c.Location = "US"
	c.SalaryMin = 50000
	c.JobType = query.JobTypeContract
	c.Company = "acme"
	c.SortBy = query.SortDate
	c.MaxDaysOld = 3
	c.RemoteOnly = true

	page, err := NewAPI(srv.Client(), srv.URL+"/").Search(context.Background(), NewRequest(c, 2))
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if gotPath != "/api/jobs" {
		t.Errorf("path: got %q", gotPath)
	}
	want := map[string]string{
		"q": "go", "location": "US", "page": "2", "results_per_page": "20",
		"salary_min": "50000", "job_type": "contract", "company": "acme", "sort_by": "date",
	}
	for k, v := range want {
		if got := gotQuery[k]; len(got) != 1 || got[0] != v {
			t.Errorf("param %s: got %v, want %q", k, got, v)
		}
	}
	for _, k := range []string{"max_days_old", "remote_only", "salary_max", "view", "job_id"} {
		if _, ok := gotQuery[k]; ok {
			t.Errorf("param %s must not be sent upstream", k)
		}
	}

	if page.Count != 45 || len(page.Jobs) != 2 {
		t.Fatalf("page: count=%d jobs=%d", page.Count, len(page.Jobs))
	}
	j := page.Jobs[0]
	if j.ID != "4711" || j.Title != "Senior Go Engineer" || j.Company != "Acme" || j.Location != "Remote, US" {
		t.Errorf("job 0: %+v", j)
	}
	if j.Description != "Build things.Lots of them." {
		t.Errorf("description: got %q", j.Description)
	}
	if !j.PostedAt.Equal(time.Date(2026, 5, 18, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("posted at: got %v", j.PostedAt)
	}
	if j.SalaryMax != 120000 || j.ContractType != "permanent" || j.ApplyURL != "https://example.com/4711" {
		t.Errorf("job 0 extras: %+v", j)
	}

	if page.Jobs[1].ID != "99" {
		t.Errorf("numeric id: got %q", page.Jobs[1].ID)
	}
	if !page.Jobs[1].PostedAt.IsZero() {
		t.Errorf("unparsable date should be zero, got %v", page.Jobs[1].PostedAt)
	}
}

func TestAPI_DefaultsOmitted(t *testing.T) {
	var got map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{"results": [], "count": 0}`))
	}))
	defer srv.Close()

	_, err := NewAPI(srv.Client(), srv.URL).Search(context.Background(), NewRequest(query.DefaultCriteria(), 1))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 || got["page"][0] != "1" || got["results_per_page"][0] != "20" {
		t.Errorf("params: got %v, want only page and results_per_page", got)
	}
}

func TestAPI_TransportErrorCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "Rate limit exceeded"}`))
	}))
	defer srv.Close()

	_, err := NewAPI(srv.Client(), srv.URL).Search(context.Background(), NewRequest(query.DefaultCriteria(), 1))
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Status != http.StatusTooManyRequests || te.Body != `{"error": "Rate limit exceeded"}` {
		t.Errorf("error fields: %+v", te)
	}
	if err.Error() != `request failed (429): {"error": "Rate limit exceeded"}` {
		t.Errorf("message: got %q", err.Error())
	}
}

func TestAPI_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewAPI(http.DefaultClient, url).Search(context.Background(), NewRequest(query.DefaultCriteria(), 1))
	var te *TransportError
	if !errors.As(err, &te) || te.Status != 0 {
		t.Fatalf("expected network TransportError, got %v", err)
	}
}

type memCache struct {
	pages map[string]*model.ResultPage
	sets  int
}

func (m *memCache) Get(_ context.Context, key string) (*model.ResultPage, bool) {
	p, ok := m.pages[key]
	return p, ok
}

func (m *memCache) Set(_ context.Context, key string, page *model.ResultPage) error {
	m.pages[key] = page
	m.sets++
	return nil
}

type countingSearcher struct {
	calls int
	err   error
}

func (c *countingSearcher) Search(_ context.Context, r Request) (*model.ResultPage, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &model.ResultPage{Count: r.Page}, nil
}

func TestCached(t *testing.T) {
	next := &countingSearcher{}
	cache := &memCache{pages: map[string]*model.ResultPage{}}
	s := NewCached(next, cache, nil)

	c := query.DefaultCriteria()
	c.Query = "go"
	for i := 0; i < 3; i++ {
		if _, err := s.Search(context.Background(), NewRequest(c, 1)); err != nil {
			t.Fatalf("search: %v", err)
		}
	}
	if next.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", next.calls)
	}

	page, _ := s.Search(context.Background(), NewRequest(c, 2))
	if next.calls != 2 || page.Count != 2 {
		t.Errorf("a different page must miss the cache: calls=%d page=%+v", next.calls, page)
	}
}

func TestCached_ErrorsNotStored(t *testing.T) {
	next := &countingSearcher{err: &TransportError{Status: 502, Body: "bad gateway"}}
	cache := &memCache{pages: map[string]*model.ResultPage{}}
	s := NewCached(next, cache, nil)

	if _, err := s.Search(context.Background(), NewRequest(query.DefaultCriteria(), 1)); err == nil {
		t.Fatal("expected error")
	}
	if cache.sets != 0 {
		t.Errorf("errors must not be cached, sets = %d", cache.sets)
	}
}
