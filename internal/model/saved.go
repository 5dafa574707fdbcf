package model

import "time"

// SavedJob is the denormalized snapshot of a Job kept in the saved list.
// It never changes after the job is saved.
type SavedJob struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	ApplyURL    string    `json:"redirect_url,omitempty"`
	PostedAt    time.Time `json:"created"`
	Description string    `json:"description,omitempty"`
}

// Job expands the snapshot back into a Job so it can be shown in the same
// detail view as live results.
func (s SavedJob) Job() Job {
	return Job{
		ID:          s.ID,
		Title:       s.Title,
		Company:     s.Company,
		Location:    s.Location,
		Description: s.Description,
		PostedAt:    s.PostedAt,
		ApplyURL:    s.ApplyURL,
	}
}
