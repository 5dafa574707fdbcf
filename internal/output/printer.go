package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rsilvagit/go-jobboard/internal/model"
)

// ResultWriter defines how search results are presented or delivered.
type ResultWriter interface {
	WriteJobs(jobs []model.Job) error
}

// ConsolePrinter writes jobs as a table.
type ConsolePrinter struct {
	out io.Writer
}

// NewConsolePrinter writes to out; nil means stdout.
func NewConsolePrinter(out io.Writer) *ConsolePrinter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsolePrinter{out: out}
}

// WriteJobs prints jobs as a table.
func (cp *ConsolePrinter) WriteJobs(jobs []model.Job) error {
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(cp.out, "No jobs found.")
		return err
	}

	w := tabwriter.NewWriter(cp.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tLOCATION\tPOSTED")
	fmt.Fprintln(w, "--\t-----\t-------\t--------\t------")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			j.ID, truncate(j.Title, 60), j.Company, j.Location, postedDate(j))
	}
	return w.Flush()
}

// WriteSaved prints the saved list.
func (cp *ConsolePrinter) WriteSaved(items []model.SavedJob) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(cp.out, "No saved jobs yet.")
		return err
	}
	w := tabwriter.NewWriter(cp.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tURL")
	fmt.Fprintln(w, "--\t-----\t-------\t---")
	for _, s := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, truncate(s.Title, 60), s.Company, s.ApplyURL)
	}
	return w.Flush()
}

// WriteDetail prints one job in full.
func (cp *ConsolePrinter) WriteDetail(j model.Job, saved bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", j.Title)
	fmt.Fprintf(&b, "  Company:  %s\n", j.Company)
	fmt.Fprintf(&b, "  Location: %s\n", j.Location)
	if j.ContractType != "" {
		fmt.Fprintf(&b, "  Contract: %s\n", j.ContractType)
	}
	if !j.PostedAt.IsZero() {
		fmt.Fprintf(&b, "  Posted:   %s\n", postedDate(j))
	}
	if j.SalaryMin > 0 || j.SalaryMax > 0 {
		fmt.Fprintf(&b, "  Salary:   %s - %s\n", salary(j.SalaryMin), salary(j.SalaryMax))
	}
	if j.ApplyURL != "" {
		fmt.Fprintf(&b, "  Apply:    %s\n", j.ApplyURL)
	}
	if saved {
		b.WriteString("  [saved]\n")
	}
	if j.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", j.Description)
	}
	_, err := io.WriteString(cp.out, b.String())
	return err
}

func postedDate(j model.Job) string {
	if j.PostedAt.IsZero() {
		return "-"
	}
	return j.PostedAt.Format("2006-01-02")
}

func salary(v float64) string {
	if v <= 0 {
		return "?"
	}
	return fmt.Sprintf("%.0f", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
