package filter

import (
	"strings"
	"time"

	"github.com/rsilvagit/go-jobboard/internal/model"
)

const day = 24 * time.Hour

// Options holds the client-side filters. Zero values mean "no filter".
type Options struct {
	RemoteOnly bool
	MaxDaysOld int    // keep jobs posted at most this many days ago
	Company    string // case-insensitive substring of the company name, matched as typed
}

// Apply returns the jobs that pass every filter, in their original order.
// It only narrows an already fetched page; counts and pagination are the
// caller's business.
func Apply(jobs []model.Job, opts Options, now time.Time) []model.Job {
	if opts.isEmpty() {
		return jobs
	}

	company := strings.ToLower(opts.Company)
	result := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if matchJob(j, opts, company, now) {
			result = append(result, j)
		}
	}
	return result
}

func matchJob(j model.Job, opts Options, company string, now time.Time) bool {
	if opts.RemoteOnly && !strings.Contains(j.RemoteText(), "remote") {
		return false
	}
	if opts.MaxDaysOld > 0 {
		// Unknown posting dates count as infinitely old.
		age, ok := j.Age(now)
		if !ok || age > time.Duration(opts.MaxDaysOld)*day {
			return false
		}
	}
	if company != "" && !strings.Contains(strings.ToLower(j.Company), company) {
		return false
	}
	return true
}

func (o Options) isEmpty() bool {
	return !o.RemoteOnly && o.MaxDaysOld <= 0 && o.Company == ""
}
