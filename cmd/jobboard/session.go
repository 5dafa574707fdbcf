package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rsilvagit/go-jobboard/internal/orchestrator"
	"github.com/rsilvagit/go-jobboard/internal/output"
	"github.com/rsilvagit/go-jobboard/internal/query"
	"github.com/rsilvagit/go-jobboard/internal/saved"
)

const sessionHelp = `Commands:
  q TEXT | location TEXT | company TEXT     set a text field (empty clears it)
  salary-min N | salary-max N | max-days N  set a number (anything else clears it)
  type any|full_time|part_time|contract|permanent
  sort relevance|date|salary
  remote on|off       per-page 10|20|50
  search              search now, page 1
  next | prev | page N
  view search|saved   list
  open ID | close     save [ID]   share
  reset | url | help | quit
`

// session drives a Store and Orchestrator from line commands. The state
// file plays the part of the browser address bar.
type session struct {
	store     *query.Store
	orch      *orchestrator.Orchestrator
	saved     *saved.Collection
	printer   *output.ConsolePrinter
	out       io.Writer
	shareBase string
	logger    *slog.Logger

	mu        sync.Mutex
	lastPhase orchestrator.Phase
}

func runSession(ctx context.Context, a *app, _ []string) error {
	bar := query.FileBar{Path: a.cfg.StateFile}
	raw, err := bar.Read()
	if err != nil {
		a.logger.Warn("could not restore session", "err", err)
	}
	st, pending := query.Decode(raw)

	s := newSession(query.NewStore(st), a.saved, os.Stdout, a.cfg.ShareBaseURL, a.logger)
	s.orch = orchestrator.New(s.store, a.searcher, a.saved, pending, orchestrator.Options{
		Debounce:   a.cfg.Debounce,
		AddressBar: bar,
		OnUpdate:   s.onUpdate,
		Logger:     a.logger,
	})
	defer s.orch.Close()

	fmt.Fprintln(s.out, "Type \"help\" for commands.")
	s.orch.Start()
	if !st.HasQuery() {
		s.render(s.orch.Snapshot())
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if !s.exec(line) {
				return nil
			}
		}
	}
}

func newSession(store *query.Store, savedJobs *saved.Collection, out io.Writer, shareBase string, logger *slog.Logger) *session {
	if logger == nil {
		logger = slog.Default()
	}
	return &session{
		store:     store,
		saved:     savedJobs,
		printer:   output.NewConsolePrinter(out),
		out:       out,
		shareBase: shareBase,
		logger:    logger,
	}
}

// onUpdate prints a status line when a search starts and the full view
// when it ends. Everything in between stays quiet.
func (s *session) onUpdate(snap orchestrator.Snapshot) {
	s.mu.Lock()
	prev := s.lastPhase
	s.lastPhase = snap.Phase
	s.mu.Unlock()

	if snap.Phase == prev {
		return
	}
	switch snap.Phase {
	case orchestrator.InFlight:
		fmt.Fprintln(s.out, "Searching...")
	case orchestrator.Settled, orchestrator.Failed:
		s.render(snap)
	}
}

// exec runs one command line. It returns false when the session should end.
func (s *session) exec(line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
	case "q", "query":
		s.store.SetQuery(arg)
	case "location", "l":
		s.store.SetLocation(arg)
	case "company":
		s.store.SetCompany(arg)
	case "salary-min":
		s.store.SetSalaryMin(arg)
	case "salary-max":
		s.store.SetSalaryMax(arg)
	case "max-days":
		s.store.SetMaxDaysOld(arg)
	case "type":
		s.store.SetJobType(arg)
	case "sort":
		s.store.SetSortBy(arg)
	case "remote":
		s.store.SetRemoteOnly(arg == "on" || arg == "1" || arg == "true" || arg == "yes")
	case "per-page":
		n, _ := strconv.Atoi(arg)
		s.store.SetResultsPerPage(n)
	case "search":
		s.orch.Search()
	case "next":
		if !s.orch.Next() {
			fmt.Fprintln(s.out, "Already on the last page.")
		}
	case "prev":
		if !s.orch.Prev() {
			fmt.Fprintln(s.out, "Already on the first page.")
		}
	case "page":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			fmt.Fprintf(s.out, "Invalid page %q.\n", arg)
			break
		}
		s.orch.Go(n)
	case "view":
		s.store.SetView(arg)
		s.render(s.orch.Snapshot())
	case "list", "ls":
		s.render(s.orch.Snapshot())
	case "open":
		if !s.orch.Select(arg) {
			fmt.Fprintf(s.out, "No job with id %q in the results or saved jobs.\n", arg)
			break
		}
		s.renderSelected(s.orch.Snapshot())
	case "close":
		s.orch.Deselect()
	case "save", "unsave":
		id := arg
		if id == "" {
			id = s.store.State().SelectedID
		}
		nowSaved, found := s.orch.ToggleSave(id)
		switch {
		case !found:
			fmt.Fprintf(s.out, "No job with id %q to save.\n", id)
		case nowSaved:
			fmt.Fprintf(s.out, "Saved %s (%d saved).\n", id, s.saved.Len())
		default:
			fmt.Fprintf(s.out, "Removed %s from saved jobs.\n", id)
		}
	case "share":
		link, ok := s.orch.ShareLink(s.shareBase)
		if !ok {
			fmt.Fprintln(s.out, "Open a job first.")
			break
		}
		fmt.Fprintln(s.out, link)
	case "reset":
		s.store.Reset()
		s.render(s.orch.Snapshot())
	case "url":
		fmt.Fprintf(s.out, "?%s\n", query.Encode(s.store.State()))
	case "help", "?":
		fmt.Fprint(s.out, sessionHelp)
	case "quit", "exit":
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type \"help\".\n", cmd)
	}
	return true
}

func (s *session) render(snap orchestrator.Snapshot) {
	if snap.State.View == query.ViewSaved {
		s.checkWrite(s.printer.WriteSaved(snap.Saved))
		s.renderSelected(snap)
		return
	}

	if snap.Err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", snap.Err)
	}
	switch snap.Empty() {
	case orchestrator.NoSearch:
		if snap.Err == nil {
			fmt.Fprintln(s.out, "Enter some search criteria to find jobs.")
		}
		return
	case orchestrator.NoResults:
		s.checkWrite(s.printer.WriteJobs(nil))
	case orchestrator.NoMatches:
		fmt.Fprintln(s.out, "No jobs match these filters.")
	default:
		s.checkWrite(s.printer.WriteJobs(snap.Visible))
	}
	fmt.Fprintf(s.out, "%d job(s) in total. %s\n", snap.Results.Count, pager(snap))
	s.renderSelected(snap)
}

func (s *session) renderSelected(snap orchestrator.Snapshot) {
	if snap.Selected == nil {
		return
	}
	fmt.Fprintln(s.out)
	s.checkWrite(s.printer.WriteDetail(*snap.Selected, snap.IsSaved(snap.Selected.ID)))
}

func (s *session) checkWrite(err error) {
	if err != nil {
		s.logger.Warn("writing output failed", "err", err)
	}
}

// pager renders the page window, e.g. "Page 3 of 9: 1 2 [3] 4 5".
func pager(snap orchestrator.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Page %d of %d:", snap.State.Page, snap.TotalPages)
	for _, p := range snap.Pages {
		if p == snap.State.Page {
			fmt.Fprintf(&b, " [%d]", p)
		} else {
			fmt.Fprintf(&b, " %d", p)
		}
	}
	return b.String()
}
