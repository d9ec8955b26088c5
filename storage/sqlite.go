package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"lennar_scraper/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scrape_runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		markets_total INTEGER,
		markets_failed INTEGER,
		listings_found INTEGER,
		errors_count INTEGER
	);

	CREATE TABLE IF NOT EXISTS listings (
		id INTEGER PRIMARY KEY,
		run_id TEXT NOT NULL,
		source TEXT,
		community TEXT,
		address TEXT,
		city TEXT,
		state TEXT,
		zip_code TEXT,
		price TEXT,
		price_numeric INTEGER,
		home_type TEXT,
		beds TEXT,
		baths TEXT,
		sqft TEXT,
		status TEXT,
		market TEXT,
		market_code TEXT,
		url TEXT,
		scraped_at DATETIME,
		FOREIGN KEY (run_id) REFERENCES scrape_runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_listings_run ON listings(run_id);
	CREATE INDEX IF NOT EXISTS idx_listings_market ON listings(market_code);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateRun(run *models.ScrapeRun) error {
	_, err := s.db.Exec(`
		INSERT INTO scrape_runs (id, started_at, status, markets_total, markets_failed, listings_found, errors_count)
		VALUES (?, ?, ?, ?, 0, 0, 0)`,
		run.ID, run.StartedAt, run.Status, run.MarketsTotal)
	if err != nil {
		return fmt.Errorf("sqlite create run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FinishRun(run *models.ScrapeRun) error {
	_, err := s.db.Exec(`
		UPDATE scrape_runs
		SET finished_at = ?, status = ?, markets_failed = ?, listings_found = ?, errors_count = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, run.MarketsFailed, run.ListingsFound, run.ErrorsCount, run.ID)
	if err != nil {
		return fmt.Errorf("sqlite finish run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SaveListings(runID string, listings []models.Listing) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite save listings: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO listings (run_id, source, community, address, city, state, zip_code,
			price, price_numeric, home_type, beds, baths, sqft, status, market, market_code, url, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite save listings: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		if _, err := stmt.Exec(runID, l.Source, l.Community, l.Address, l.City, l.State, l.ZipCode,
			l.Price, l.PriceNumeric, l.HomeType, l.Beds, l.Baths, l.SqFt, l.Status,
			l.Market, l.MarketCode, l.URL, l.ScrapedAt); err != nil {
			return fmt.Errorf("sqlite save listing %s: %w", l.Address, err)
		}
	}

	return tx.Commit()
}

// RunHistory returns the most recent runs, newest first.
func (s *SQLiteStore) RunHistory(limit int) ([]models.ScrapeRun, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, finished_at, status, markets_total, markets_failed, listings_found, errors_count
		FROM scrape_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.ScrapeRun
	for rows.Next() {
		var run models.ScrapeRun
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.StartedAt, &finished, &run.Status,
			&run.MarketsTotal, &run.MarketsFailed, &run.ListingsFound, &run.ErrorsCount); err != nil {
			return nil, err
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LastRunTime returns when the most recent run started, or the zero time
// when no run has been recorded. Selecting the column itself keeps the
// DATETIME declared type, which the driver needs to hand back a time.Time.
func (s *SQLiteStore) LastRunTime() (time.Time, error) {
	var started time.Time
	err := s.db.QueryRow(`SELECT started_at FROM scrape_runs ORDER BY started_at DESC LIMIT 1`).Scan(&started)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return started, nil
}
