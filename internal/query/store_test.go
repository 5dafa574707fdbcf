package query

import (
	"path/filepath"
	"testing"
)

func TestStore_NotifiesOnlyOnChange(t *testing.T) {
	st := NewStore(DefaultState())
	var changes []Change
	st.Subscribe(func(c Change) { changes = append(changes, c) })

	st.SetQuery("go")
	st.SetQuery("go")
	st.SetJobType("any")
	st.SetSalaryMin("")

	if len(changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(changes))
	}
	if changes[0].Fields != FieldQuery {
		t.Errorf("Fields = %b, want FieldQuery", changes[0].Fields)
	}
	if changes[0].State.Query != "go" {
		t.Errorf("State.Query = %q", changes[0].State.Query)
	}
}

func TestStore_LenientNumbers(t *testing.T) {
	st := NewStore(DefaultState())
	st.SetSalaryMin(" 4000 ")
	st.SetMaxDaysOld("3")
	if s := st.State(); s.SalaryMin != 4000 || s.MaxDaysOld != 3 {
		t.Fatalf("parsed state = %+v", s)
	}

	st.SetSalaryMin("lots")
	st.SetMaxDaysOld("-1")
	if s := st.State(); s.SalaryMin != 0 || s.MaxDaysOld != 0 {
		t.Errorf("invalid input should unset: %+v", s)
	}

	for _, tt := range []struct{ in, want int }{
		{10, 10}, {50, 50}, {30, DefaultResultsPerPage}, {500, DefaultResultsPerPage}, {0, DefaultResultsPerPage},
	} {
		st.SetResultsPerPage(tt.in)
		if s := st.State(); s.ResultsPerPage != tt.want {
			t.Errorf("SetResultsPerPage(%d) = %d, want %d", tt.in, s.ResultsPerPage, tt.want)
		}
	}
	st.SetPage(0)
	if s := st.State(); s.Page != 1 {
		t.Errorf("Page = %d, want 1", s.Page)
	}
}

func TestStore_ResetKeepsView(t *testing.T) {
	st := NewStore(DefaultState())
	st.SetQuery("go")
	st.SetRemoteOnly(true)
	st.SetPage(5)
	st.SetView("saved")
	st.SetSelected("7")

	var got Change
	st.Subscribe(func(c Change) { got = c })
	st.Reset()

	s := st.State()
	if s.Criteria != DefaultCriteria() {
		t.Errorf("criteria after reset = %+v", s.Criteria)
	}
	if s.Page != 1 {
		t.Errorf("Page = %d, want 1", s.Page)
	}
	if s.View != ViewSaved || s.SelectedID != "7" {
		t.Errorf("view state should survive reset: %+v", s)
	}
	want := FieldQuery | FieldRemoteOnly | FieldPage
	if got.Fields != want {
		t.Errorf("reset Fields = %b, want %b", got.Fields, want)
	}
}

func TestHasQuery(t *testing.T) {
	c := DefaultCriteria()
	if c.HasQuery() {
		t.Error("default criteria should not count as a query")
	}
	c.MaxDaysOld = 3
	c.RemoteOnly = true
	c.SortBy = SortDate
	if c.HasQuery() {
		t.Error("local-only filters and sort should not count as a query")
	}
	c.JobType = JobTypeContract
	if !c.HasQuery() {
		t.Error("non-default job type should count as a query")
	}
}

func TestFileBar(t *testing.T) {
	bar := FileBar{Path: filepath.Join(t.TempDir(), "url")}

	got, err := bar.Read()
	if err != nil || got != "" {
		t.Fatalf("Read on missing file = %q, %v", got, err)
	}
	if err := bar.Replace("q=go"); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := bar.Replace("q=rust"); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, err = bar.Read()
	if err != nil || got != "q=rust" {
		t.Errorf("Read = %q, %v; want q=rust", got, err)
	}
}
