package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Query-string keys. The search API uses the same names, minus view and
// job_id.
const (
	KeyQuery          = "q"
	KeyLocation       = "location"
	KeySalaryMin      = "salary_min"
	KeySalaryMax      = "salary_max"
	KeyJobType        = "job_type"
	KeyCompany        = "company"
	KeyMaxDaysOld     = "max_days_old"
	KeyRemoteOnly     = "remote_only"
	KeyResultsPerPage = "results_per_page"
	KeyPage           = "page"
	KeySortBy         = "sort_by"
	KeyView           = "view"
	KeyJobID          = "job_id"
)

type pair struct{ key, value string }

// Encode renders s as a query string without the leading '?'. Fields equal
// to their default are omitted, so Encode(DefaultState()) is "".
func Encode(s State) string {
	def := DefaultState()
	var ps []pair
	add := func(k, v string) { ps = append(ps, pair{k, v}) }

	if s.Query != "" {
		add(KeyQuery, s.Query)
	}
	if s.Location != "" {
		add(KeyLocation, s.Location)
	}
	if s.SalaryMin > 0 {
		add(KeySalaryMin, strconv.Itoa(s.SalaryMin))
	}
	if s.SalaryMax > 0 {
		add(KeySalaryMax, strconv.Itoa(s.SalaryMax))
	}
	if s.JobType != "" && s.JobType != def.JobType {
		add(KeyJobType, string(s.JobType))
	}
	if s.Company != "" {
		add(KeyCompany, s.Company)
	}
	if s.MaxDaysOld > 0 {
		add(KeyMaxDaysOld, strconv.Itoa(s.MaxDaysOld))
	}
	if s.RemoteOnly {
		add(KeyRemoteOnly, "1")
	}
	if s.ResultsPerPage > 0 && s.ResultsPerPage != def.ResultsPerPage {
		add(KeyResultsPerPage, strconv.Itoa(s.ResultsPerPage))
	}
	if s.Page > 1 {
		add(KeyPage, strconv.Itoa(s.Page))
	}
	if s.SortBy != "" && s.SortBy != def.SortBy {
		add(KeySortBy, string(s.SortBy))
	}
	if s.View != "" && s.View != def.View {
		add(KeyView, string(s.View))
	}
	if s.SelectedID != "" {
		add(KeyJobID, s.SelectedID)
	}
	return join(ps)
}

// Decode parses raw, which may be a bare query string, one with a leading
// '?', or a full URL. It never fails: every missing or malformed field
// falls back to its default. A job_id is returned separately as a pending
// selection and is not applied to the state.
func Decode(raw string) (s State, pendingID string) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	// ParseQuery keeps every well-formed pair even when it reports an error.
	v, _ := url.ParseQuery(raw)

	s = DefaultState()
	s.Query = v.Get(KeyQuery)
	s.Location = v.Get(KeyLocation)
	s.SalaryMin = parseOptional(v.Get(KeySalaryMin))
	s.SalaryMax = parseOptional(v.Get(KeySalaryMax))
	s.JobType = ParseJobType(v.Get(KeyJobType))
	s.Company = v.Get(KeyCompany)
	s.MaxDaysOld = parseOptional(v.Get(KeyMaxDaysOld))
	switch v.Get(KeyRemoteOnly) {
	case "1", "true":
		s.RemoteOnly = true
	}
	s.ResultsPerPage = normalizePerPage(parseOr(v.Get(KeyResultsPerPage), DefaultResultsPerPage))
	s.Page = parseOr(v.Get(KeyPage), 1)
	s.SortBy = ParseSortBy(v.Get(KeySortBy))
	s.View = ParseView(v.Get(KeyView))

	return s, strings.TrimSpace(v.Get(KeyJobID))
}

// ShareLink builds an absolute link to s with jobID selected. base is the
// page URL; any query or fragment it carries is replaced.
func ShareLink(base string, s State, jobID string) string {
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	s.SelectedID = jobID
	q := Encode(s)
	if q == "" {
		return base
	}
	return base + "?" + q
}

func join(ps []pair) string {
	var b strings.Builder
	for i, p := range ps {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}
