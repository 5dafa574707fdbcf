package model

import (
	"strings"
	"time"
)

// Job represents a single listing returned by the job search API.
type Job struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	PostedAt     time.Time `json:"posted_at"` // zero when the API sent nothing parsable
	SalaryMin    float64   `json:"salary_min,omitempty"`
	SalaryMax    float64   `json:"salary_max,omitempty"`
	ContractType string    `json:"contract_type,omitempty"`
	ApplyURL     string    `json:"apply_url,omitempty"`
}

// RemoteText returns the fields scanned by the remote-only filter,
// concatenated in lowercase.
func (j Job) RemoteText() string {
	return strings.ToLower(j.Title + " " + j.Description + " " + j.Location)
}

// Age returns how long ago the job was posted. ok is false when the
// posting date is unknown.
func (j Job) Age(now time.Time) (age time.Duration, ok bool) {
	if j.PostedAt.IsZero() {
		return 0, false
	}
	return now.Sub(j.PostedAt), true
}

// Summary returns the point-in-time copy kept in the saved list.
func (j Job) Summary() SavedJob {
	return SavedJob{
		ID:          j.ID,
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		ApplyURL:    j.ApplyURL,
		PostedAt:    j.PostedAt,
		Description: j.Description,
	}
}

// ResultPage is one page of upstream results. Count is the upstream total
// across all pages, not len(Jobs).
type ResultPage struct {
	Jobs  []Job `json:"results"`
	Count int   `json:"count"`
}

// TotalPages returns ceil(count/perPage), never less than 1.
func TotalPages(count, perPage int) int {
	if perPage <= 0 || count <= 0 {
		return 1
	}
	return (count + perPage - 1) / perPage
}

// PageNumbers returns the window of page buttons shown around page:
// at most five, never below 1 and never past totalPages.
func PageNumbers(page, totalPages int) []int {
	const width = 5
	if totalPages < 1 {
		totalPages = 1
	}
	size := min(totalPages, width)
	start := max(1, page-2)
	end := start + size - 1
	if end > totalPages {
		end = totalPages
		start = max(1, end-size+1)
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
