package query

import (
	"strings"
	"testing"
)

func TestEncode_DefaultStateIsEmpty(t *testing.T) {
	if got := Encode(DefaultState()); got != "" {
		t.Errorf("Encode(DefaultState()) = %q, want empty", got)
	}
}

func TestEncode_OmitsDefaults(t *testing.T) {
	s := DefaultState()
	s.Query = "golang"
	got := Encode(s)
	if got != "q=golang" {
		t.Errorf("Encode = %q, want %q", got, "q=golang")
	}
	for _, k := range []string{KeyJobType, KeySortBy, KeyPage, KeyResultsPerPage, KeyView, KeyRemoteOnly} {
		if strings.Contains(got, k+"=") {
			t.Errorf("default field %s should be omitted: %q", k, got)
		}
	}
}

func TestEncode_KeyOrderAndEscaping(t *testing.T) {
	s := DefaultState()
	s.Query = "go & rust"
	s.Location = "São Paulo"
	s.RemoteOnly = true
	s.Page = 3
	got := Encode(s)
	want := "q=go+%26+rust&location=S%C3%A3o+Paulo&remote_only=1&page=3"
	if got != want {
		t.Errorf("Encode = %q, want %q", got, want)
	}
}

// reachable builds states only through Store setters so the round trip is
// checked on values a user can actually produce.
func reachable(t *testing.T) []State {
	t.Helper()
	var out []State

	st := NewStore(DefaultState())
	out = append(out, st.State())

	st.SetQuery("senior go engineer")
	st.SetLocation("New York, NY")
	out = append(out, st.State())

	st.SetSalaryMin("50000")
	st.SetSalaryMax("90000")
	st.SetJobType("contract")
	st.SetCompany("Acme & Sons")
	st.SetMaxDaysOld("7")
	st.SetRemoteOnly(true)
	st.SetResultsPerPage(50)
	st.SetSortBy("date")
	st.SetPage(4)
	st.SetView("saved")
	out = append(out, st.State())

	st.SetSalaryMin("abc")
	st.SetJobType("bogus")
	st.SetSortBy("salary")
	st.SetResultsPerPage(10)
	st.SetPage(-3)
	out = append(out, st.State())

	st.Reset()
	out = append(out, st.State())
	return out
}

func TestRoundTrip(t *testing.T) {
	for i, s := range reachable(t) {
		got, pending := Decode(Encode(s))
		if pending != "" {
			t.Errorf("state %d: unexpected pending id %q", i, pending)
		}
		checks := []struct {
			name      string
			got, want any
		}{
			{"Query", got.Query, s.Query},
			{"Location", got.Location, s.Location},
			{"SalaryMin", got.SalaryMin, s.SalaryMin},
			{"SalaryMax", got.SalaryMax, s.SalaryMax},
			{"JobType", got.JobType, s.JobType},
			{"Company", got.Company, s.Company},
			{"MaxDaysOld", got.MaxDaysOld, s.MaxDaysOld},
			{"RemoteOnly", got.RemoteOnly, s.RemoteOnly},
			{"ResultsPerPage", got.ResultsPerPage, s.ResultsPerPage},
			{"SortBy", got.SortBy, s.SortBy},
			{"Page", got.Page, s.Page},
			{"View", got.View, s.View},
		}
		for _, c := range checks {
			if c.got != c.want {
				t.Errorf("state %d: %s = %v, want %v", i, c.name, c.got, c.want)
			}
		}
	}
}

func TestRoundTrip_Idempotent(t *testing.T) {
	for i, s := range reachable(t) {
		first := Encode(s)
		decoded, _ := Decode(first)
		if second := Encode(decoded); second != first {
			t.Errorf("state %d: re-encode = %q, want %q", i, second, first)
		}
	}
}

func TestDecode_PageSize(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"results_per_page=10", 10},
		{"results_per_page=50", 50},
		{"results_per_page=30", DefaultResultsPerPage},
		{"results_per_page=100", DefaultResultsPerPage},
	}
	for _, tt := range tests {
		if s, _ := Decode(tt.raw); s.ResultsPerPage != tt.want {
			t.Errorf("Decode(%q).ResultsPerPage = %d, want %d", tt.raw, s.ResultsPerPage, tt.want)
		}
	}
}

func TestDecode_MalformedFallsBackPerField(t *testing.T) {
	s, pending := Decode("?q=go&page=abc&results_per_page=-5&salary_min=1e3&job_type=intern&sort_by=&view=nope&remote_only=yes&max_days_old=0&%zz=1")
	if s.Query != "go" {
		t.Errorf("Query = %q, want %q", s.Query, "go")
	}
	if s.Page != 1 {
		t.Errorf("Page = %d, want 1", s.Page)
	}
	if s.ResultsPerPage != DefaultResultsPerPage {
		t.Errorf("ResultsPerPage = %d, want %d", s.ResultsPerPage, DefaultResultsPerPage)
	}
	if s.SalaryMin != 0 {
		t.Errorf("SalaryMin = %d, want unset", s.SalaryMin)
	}
	if s.JobType != JobTypeAny || s.SortBy != SortRelevance || s.View != ViewSearch {
		t.Errorf("enums did not fall back: %+v", s)
	}
	if s.RemoteOnly {
		t.Error("RemoteOnly should only accept 1/true")
	}
	if s.MaxDaysOld != 0 {
		t.Errorf("MaxDaysOld = %d, want unset", s.MaxDaysOld)
	}
	if pending != "" {
		t.Errorf("pending = %q, want empty", pending)
	}
}

func TestDecode_EmptyAndFullURL(t *testing.T) {
	if s, _ := Decode(""); s != DefaultState() {
		t.Errorf("Decode(\"\") = %+v, want defaults", s)
	}

	s, _ := Decode("https://jobs.example.com/board?q=rust&sort_by=date#top")
	if s.Query != "rust" || s.SortBy != SortDate {
		t.Errorf("Decode(full URL) = %+v", s)
	}
}

func TestDecode_JobIDIsPending(t *testing.T) {
	s, pending := Decode("q=go&job_id=4711")
	if pending != "4711" {
		t.Errorf("pending = %q, want 4711", pending)
	}
	if s.SelectedID != "" {
		t.Errorf("SelectedID = %q, selection must stay pending", s.SelectedID)
	}
}

func TestShareLink(t *testing.T) {
	s := DefaultState()
	s.Query = "go"
	s.SelectedID = "old"

	got := ShareLink("https://jobs.example.com/?q=stale#frag", s, "99")
	want := "https://jobs.example.com/?q=go&job_id=99"
	if got != want {
		t.Errorf("ShareLink = %q, want %q", got, want)
	}

	_, pending := Decode(got)
	if pending != "99" {
		t.Errorf("share link should decode to pending 99, got %q", pending)
	}
}
