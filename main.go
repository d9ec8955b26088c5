package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lennar_scraper/catalog"
	"lennar_scraper/config"
	"lennar_scraper/export"
	"lennar_scraper/httputil"
	"lennar_scraper/logging"
	"lennar_scraper/models"
	"lennar_scraper/scheduler"
	"lennar_scraper/scraper"
	"lennar_scraper/services"
	"lennar_scraper/storage"
)

var (
	states      = flag.String("states", "", "Comma-separated states to scrape (TX,FL or texas,florida)")
	markets     = flag.String("markets", "", "Comma-separated market codes to scrape (DFW,AUS)")
	allMarkets  = flag.Bool("all", false, "Scrape every market in the catalog")
	source      = flag.String("source", models.SourceLennar, "Listing source: lennar, zillow or both")
	headless    = flag.Bool("headless", true, "Run the browser headless")
	browserPath = flag.String("browser", "", "Path to a Chromium binary (default: bundled)")
	outCSV      = flag.String("out-csv", "", "CSV output path (default from CSV_PATH)")
	outJSON     = flag.String("out-json", "", "JSON output path (default from JSON_PATH)")
	outXLSX     = flag.String("out-xlsx", "", "Excel output path")
	timeout     = flag.Duration("timeout", 0, "Navigation timeout per page (default from NAV_TIMEOUT)")
	delay       = flag.Duration("delay", 0, "Delay between page actions (default from ACTION_DELAY)")
	maxLoadMore = flag.Int("max-load-more", 0, "Maximum load-more clicks per page (default from MAX_LOAD_MORE)")
	dbPath      = flag.String("db", "", "SQLite archive path (empty disables archiving)")
	dbURL       = flag.String("db-url", "", "Postgres archive connection string")
	daemon      = flag.Bool("daemon", false, "Keep running and scrape on a schedule")
	cronSpec    = flag.String("cron", "", "Cron schedule for daemon mode (default from SCRAPE_CRON)")
	verbose     = flag.Bool("v", false, "Verbose logging with file locations")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags)
	if *verbose {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	cfg := config.Load()
	applyFlags(cfg)

	logFile, err := logging.Setup(cfg.LogFile)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting lennar_scraper...")

	cat, err := catalog.Load(cfg.MarketsFile)
	if err != nil {
		log.Fatalf("Failed to load market catalog: %v", err)
	}

	selected, err := selectMarkets(cat)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("Selected %d markets", len(selected))
	for _, m := range selected {
		log.Printf("  - %s (%s, %s)", m.Name, m.Code, m.State)
	}

	clients := httputil.NewClients(cfg.ProxyURL)

	browser := scraper.NewBrowser(&cfg.Scraper)
	defer browser.Close()

	sources, err := scraper.NewSources(*source, browser, &cfg.Scraper, clients)
	if err != nil {
		log.Fatalf("%v", err)
	}

	archives, closers := openArchives(cfg)
	for _, c := range closers {
		defer c()
	}

	orchestrator := scraper.NewOrchestrator(sources, archives)
	exporter := &export.Exporter{
		CSVPath:  cfg.Output.CSVPath,
		JSONPath: cfg.Output.JSONPath,
		XLSXPath: cfg.Output.XLSXPath,
	}
	insights := services.NewInsightService()

	job := func(ctx context.Context) error {
		listings, run := orchestrator.Run(ctx, selected)
		exportErrs := exporter.WriteAll(listings)
		insights.Print(insights.Generate(listings))

		if run.Status == models.RunStatusFailed {
			return errors.New("all markets failed")
		}
		if len(exportErrs) > 0 {
			return errors.New("one or more exports failed")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !*daemon {
		if err := job(ctx); err != nil {
			log.Fatalf("Scrape finished with errors: %v", err)
		}
		log.Println("Scrape complete!")
		return
	}

	sched := scheduler.New(&cfg.Scheduler, job)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	cancel()
	sched.Stop()
	log.Println("Goodbye!")
}

// applyFlags overrides environment-derived config with explicit CLI flags.
func applyFlags(cfg *config.Config) {
	flagSet := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { flagSet[f.Name] = true })

	if flagSet["headless"] {
		cfg.Scraper.Headless = *headless
	}
	if *browserPath != "" {
		cfg.Scraper.BrowserPath = *browserPath
	}
	if *timeout > 0 {
		cfg.Scraper.NavTimeout = *timeout
	}
	if *delay > 0 {
		cfg.Scraper.ActionDelay = *delay
	}
	if *maxLoadMore > 0 {
		cfg.Scraper.MaxLoadMore = *maxLoadMore
	}
	if flagSet["out-csv"] {
		cfg.Output.CSVPath = *outCSV
	}
	if flagSet["out-json"] {
		cfg.Output.JSONPath = *outJSON
	}
	if flagSet["out-xlsx"] {
		cfg.Output.XLSXPath = *outXLSX
	}
	if *dbPath != "" {
		cfg.Archive.SQLitePath = *dbPath
	}
	if *dbURL != "" {
		cfg.Archive.PostgresURL = *dbURL
	}
	if *cronSpec != "" {
		cfg.Scheduler.Cron = *cronSpec
	}
}

// selectMarkets resolves the -states/-markets/-all flags against the catalog.
// An unknown state or code drops that selection only; the run continues with
// whatever resolved.
func selectMarkets(cat *catalog.Catalog) ([]catalog.Market, error) {
	if *allMarkets {
		return cat.All(), nil
	}

	var selected []catalog.Market
	seen := make(map[string]bool)

	add := func(m catalog.Market) {
		if !seen[m.Code] {
			seen[m.Code] = true
			selected = append(selected, m)
		}
	}

	for _, q := range splitList(*states) {
		ms, err := cat.ByState(q)
		if err != nil {
			log.Printf("Skipping state %q: %v", q, err)
			continue
		}
		for _, m := range ms {
			add(m)
		}
	}

	for _, code := range splitList(*markets) {
		m, err := cat.ByCode(code)
		if err != nil {
			log.Printf("Skipping market %q: %v", code, err)
			continue
		}
		add(m)
	}

	if len(selected) == 0 {
		return nil, errors.New("no markets selected: pass -states, -markets or -all")
	}
	return selected, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// openArchives opens the optional run archives. Failures here are warnings;
// scraping and export proceed without the archive.
func openArchives(cfg *config.Config) ([]storage.Archive, []func()) {
	var archives []storage.Archive
	var closers []func()

	if cfg.Archive.SQLitePath != "" {
		store, err := storage.NewSQLiteStore(cfg.Archive.SQLitePath)
		if err != nil {
			log.Printf("Warning: could not open SQLite archive: %v", err)
		} else {
			log.Printf("SQLite archive: %s", cfg.Archive.SQLitePath)
			archives = append(archives, store)
			closers = append(closers, func() { store.Close() })
		}
	}

	if cfg.Archive.PostgresURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := storage.NewPostgresStore(ctx, cfg.Archive.PostgresURL)
		cancel()
		if err != nil {
			log.Printf("Warning: could not connect to Postgres archive: %v", err)
		} else {
			log.Printf("Postgres archive: %s", maskConnectionString(cfg.Archive.PostgresURL))
			archives = append(archives, store)
			closers = append(closers, func() { store.Close() })
		}
	}

	return archives, closers
}

// maskConnectionString masks the password in a connection string for logging.
func maskConnectionString(connStr string) string {
	start := strings.Index(connStr, "://")
	if start < 0 {
		return connStr
	}
	rest := connStr[start+3:]
	at := strings.Index(rest, "@")
	if at < 0 {
		return connStr
	}
	colon := strings.Index(rest[:at], ":")
	if colon < 0 {
		return connStr
	}
	return connStr[:start+3+colon+1] + "****" + rest[at:]
}
