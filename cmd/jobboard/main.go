package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rsilvagit/go-jobboard/internal/cache"
	"github.com/rsilvagit/go-jobboard/internal/config"
	"github.com/rsilvagit/go-jobboard/internal/filter"
	"github.com/rsilvagit/go-jobboard/internal/httpclient"
	"github.com/rsilvagit/go-jobboard/internal/model"
	"github.com/rsilvagit/go-jobboard/internal/output"
	"github.com/rsilvagit/go-jobboard/internal/query"
	"github.com/rsilvagit/go-jobboard/internal/saved"
	"github.com/rsilvagit/go-jobboard/internal/search"
	"github.com/rsilvagit/go-jobboard/internal/watch"
)

const usage = `Usage: jobboard <command> [flags]

Commands:
  session   interactive search session (default)
  search    run one search and print the results
  saved     list, show or remove saved jobs
  watch     re-run a search on a schedule and report new jobs
`

func envOrFlag(flagVal, envVal string) string {
	if flagVal != "" {
		return flagVal
	}
	return envVal
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	cmd, args := "session", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var run func(context.Context, *app, []string) error
	switch cmd {
	case "session":
		run = runSession
	case "search":
		run = runSearch
	case "saved":
		run = runSaved
	case "watch":
		run = runWatch
	case "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	err = run(ctx, a, args)
	a.Close()
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the dependencies shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	searcher search.Searcher
	saved    *saved.Collection
	closers  []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	client, err := httpclient.New(httpclient.Options{
		ProxyURL:    cfg.ProxyURL,
		MinInterval: cfg.RateLimit,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	a.searcher = search.NewAPI(client, cfg.APIBase)

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = cache.Connect(ctx, cfg.RedisURL)
		switch {
		case err != nil && cfg.SavedBackend == config.BackendRedis:
			return nil, err
		case err != nil:
			logger.Warn("redis unavailable, running without result cache", "err", err)
		default:
			a.closers = append(a.closers, rdb.Close)
			a.searcher = search.NewCached(a.searcher, cache.NewWithClient(rdb, cfg.CacheTTL), logger)
		}
	}

	var store saved.Store
	switch cfg.SavedBackend {
	case config.BackendSQLite:
		s, err := saved.OpenSQLite(cfg.SavedPath)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		store = s
	case config.BackendRedis:
		store = saved.NewRedisStore(rdb, saved.DefaultRedisKey)
	default:
		store = saved.FileStore{Path: cfg.SavedPath}
	}
	a.saved = saved.Open(ctx, store, logger)

	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Debug("close failed", "err", err)
		}
	}
	a.closers = nil
}

// notifiers returns the Telegram and Discord writers that have credentials.
func (a *app) notifiers(telegramToken, telegramChatID, discordURL string) []output.ResultWriter {
	var writers []output.ResultWriter
	tkn := envOrFlag(telegramToken, a.cfg.TelegramToken)
	chatID := envOrFlag(telegramChatID, a.cfg.TelegramChatID)
	if tkn != "" && chatID != "" {
		writers = append(writers, output.NewTelegramWriter(tkn, chatID))
	}
	if hook := envOrFlag(discordURL, a.cfg.DiscordWebhookURL); hook != "" {
		writers = append(writers, output.NewDiscordWriter(hook))
	}
	return writers
}

// criteriaFlags registers the search form on fs and applies the values
// that were set through a Store, so parsing stays as lenient as in a
// session.
type criteriaFlags struct {
	url       *string
	query     *string
	location  *string
	company   *string
	salaryMin *string
	salaryMax *string
	maxDays   *string
	jobType   *string
	sortBy    *string
	remote    *bool
	perPage   *int
	page      *int
}

func registerCriteria(fs *flag.FlagSet) *criteriaFlags {
	return &criteriaFlags{
		url:       fs.String("url", "", "Start from an encoded query string (e.g. \"q=golang&page=2\")"),
		query:     fs.String("q", "", "Search terms (e.g. \"golang developer\")"),
		location:  fs.String("l", "", "Location (e.g. \"Berlin\")"),
		company:   fs.String("company", "", "Company name (also filters locally)"),
		salaryMin: fs.String("salary-min", "", "Minimum salary"),
		salaryMax: fs.String("salary-max", "", "Maximum salary"),
		maxDays:   fs.String("max-days", "", "Only jobs posted within this many days"),
		jobType:   fs.String("type", "", "Job type: full_time, part_time, contract, permanent"),
		sortBy:    fs.String("sort", "", "Sort: relevance, date, salary"),
		remote:    fs.Bool("remote", false, "Only remote jobs"),
		perPage:   fs.Int("per-page", 0, "Results per page: 10, 20 or 50"),
		page:      fs.Int("page", 0, "Page number"),
	}
}

func (cf *criteriaFlags) state(fs *flag.FlagSet) (query.State, string) {
	st, pending := query.Decode(*cf.url)
	store := query.NewStore(st)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "q":
			store.SetQuery(*cf.query)
		case "l":
			store.SetLocation(*cf.location)
		case "company":
			store.SetCompany(*cf.company)
		case "salary-min":
			store.SetSalaryMin(*cf.salaryMin)
		case "salary-max":
			store.SetSalaryMax(*cf.salaryMax)
		case "max-days":
			store.SetMaxDaysOld(*cf.maxDays)
		case "type":
			store.SetJobType(*cf.jobType)
		case "sort":
			store.SetSortBy(*cf.sortBy)
		case "remote":
			store.SetRemoteOnly(*cf.remote)
		case "per-page":
			store.SetResultsPerPage(*cf.perPage)
		case "page":
			store.SetPage(*cf.page)
		}
	})
	return store.State(), pending
}

func runSearch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	cf := registerCriteria(fs)
	telegramToken := fs.String("telegram-token", "", "Telegram bot token")
	telegramChatID := fs.String("telegram-chat-id", "", "Telegram chat id")
	discordURL := fs.String("discord-webhook", "", "Discord webhook URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, _ := cf.state(fs)
	if !st.HasQuery() {
		fs.Usage()
		return errors.New("at least one of -q, -l, -company, -salary-min, -salary-max or -type is required")
	}

	page, err := a.searcher.Search(ctx, search.NewRequest(st.Criteria, st.Page))
	if err != nil {
		return err
	}
	visible := filter.Apply(page.Jobs, filter.Options{
		RemoteOnly: st.RemoteOnly,
		MaxDaysOld: st.MaxDaysOld,
		Company:    st.Company,
	}, time.Now())

	printer := output.NewConsolePrinter(os.Stdout)
	if len(page.Jobs) > 0 && len(visible) == 0 {
		fmt.Println("No jobs match these filters.")
	} else if err := printer.WriteJobs(visible); err != nil {
		return err
	}

	for _, w := range a.notifiers(*telegramToken, *telegramChatID, *discordURL) {
		if err := w.WriteJobs(visible); err != nil {
			fmt.Fprintf(os.Stderr, "Error delivering results: %v\n", err)
		}
	}

	total := model.TotalPages(page.Count, st.ResultsPerPage)
	fmt.Printf("\nPage %d of %d, %d job(s) in total.\n", st.Page, total, page.Count)
	fmt.Printf("Link: %s\n", query.ShareLink(a.cfg.ShareBaseURL, st, ""))
	return nil
}

func runSaved(ctx context.Context, a *app, args []string) error {
	printer := output.NewConsolePrinter(os.Stdout)
	if len(args) == 0 || args[0] == "list" {
		return printer.WriteSaved(a.saved.Items())
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: jobboard saved [list | show ID | remove ID]")
	}

	id := args[1]
	switch args[0] {
	case "show":
		item, ok := a.saved.Find(id)
		if !ok {
			return fmt.Errorf("no saved job with id %q", id)
		}
		return printer.WriteDetail(item.Job(), true)
	case "remove", "rm":
		if !a.saved.Remove(ctx, id) {
			return fmt.Errorf("no saved job with id %q", id)
		}
		fmt.Printf("Removed %s (%d saved).\n", id, a.saved.Len())
		return nil
	default:
		return fmt.Errorf("unknown saved command %q", args[0])
	}
}

func runWatch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	cf := registerCriteria(fs)
	schedule := fs.String("schedule", a.cfg.WatchSchedule, "Cron schedule (e.g. \"@every 30m\", \"0 9 * * *\")")
	telegramToken := fs.String("telegram-token", "", "Telegram bot token")
	telegramChatID := fs.String("telegram-chat-id", "", "Telegram chat id")
	discordURL := fs.String("discord-webhook", "", "Discord webhook URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Without explicit criteria, watch the search of the last session.
	if !hasCriteriaFlag(fs) {
		raw, err := query.FileBar{Path: a.cfg.StateFile}.Read()
		if err != nil {
			return err
		}
		*cf.url = raw
	}
	st, _ := cf.state(fs)
	if !st.HasQuery() {
		return errors.New("nothing to watch: pass search flags or run a session first")
	}

	writers := append([]output.ResultWriter{output.NewConsolePrinter(os.Stdout)},
		a.notifiers(*telegramToken, *telegramChatID, *discordURL)...)

	w := watch.New(a.searcher, st, writers, *schedule, a.logger)
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

func hasCriteriaFlag(fs *flag.FlagSet) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "schedule", "telegram-token", "telegram-chat-id", "discord-webhook":
		default:
			found = true
		}
	})
	return found
}
