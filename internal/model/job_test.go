package model

import (
	"slices"
	"testing"
	"time"
)

func TestTotalPages(t *testing.T) {
	cases := []struct {
		count, perPage, want int
	}{
		{45, 20, 3},
		{40, 20, 2},
		{1, 20, 1},
		{0, 20, 1},
		{100, 0, 1},
		{51, 50, 2},
	}
	for _, c := range cases {
		if got := TotalPages(c.count, c.perPage); got != c.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", c.count, c.perPage, got, c.want)
		}
	}
}

func TestPageNumbers(t *testing.T) {
	cases := []struct {
		page, total int
		want        []int
	}{
		{2, 3, []int{1, 2, 3}},
		{1, 1, []int{1}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{3, 4, 5, 6, 7}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{9, 10, []int{6, 7, 8, 9, 10}},
		{3, 4, []int{1, 2, 3, 4}},
		{1, 0, []int{1}},
	}
	for _, c := range cases {
		got := PageNumbers(c.page, c.total)
		if !slices.Equal(got, c.want) {
			t.Errorf("PageNumbers(%d, %d) = %v, want %v", c.page, c.total, got, c.want)
		}
	}
}

func TestJob_Age(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	j := Job{PostedAt: now.Add(-48 * time.Hour)}
	age, ok := j.Age(now)
	if !ok || age != 48*time.Hour {
		t.Errorf("Age = %v, %v; want 48h, true", age, ok)
	}

	if _, ok := (Job{}).Age(now); ok {
		t.Error("Age on a job without a posting date should report ok=false")
	}
}

func TestJob_SummaryRoundTrip(t *testing.T) {
	j := Job{
		ID:           "42",
		Title:        "Go Developer",
		Company:      "Acme",
		Location:     "Remote",
		Description:  "Write Go",
		PostedAt:     time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		SalaryMin:    100,
		ContractType: "permanent",
		ApplyURL:     "https://example.com/42",
	}
	back := j.Summary().Job()
	if back.ID != j.ID || back.Title != j.Title || back.Company != j.Company || back.ApplyURL != j.ApplyURL {
		t.Errorf("summary lost identity fields: %+v", back)
	}
	if back.SalaryMin != 0 || back.ContractType != "" {
		t.Errorf("summary should not carry salary/contract fields: %+v", back)
	}
}
