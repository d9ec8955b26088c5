package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"lennar_scraper/models"
)

// PostgresStore mirrors the SQLite archive against a shared Postgres
// database, for runs that feed a central listings warehouse.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 5
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS scrape_runs (
		id UUID PRIMARY KEY,
		started_at TIMESTAMPTZ,
		finished_at TIMESTAMPTZ,
		status TEXT,
		markets_total INT,
		markets_failed INT,
		listings_found INT,
		errors_count INT
	);

	CREATE TABLE IF NOT EXISTS listings (
		id BIGSERIAL PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES scrape_runs(id),
		source TEXT,
		community TEXT,
		address TEXT,
		city TEXT,
		state TEXT,
		zip_code TEXT,
		price TEXT,
		price_numeric INT,
		home_type TEXT,
		beds TEXT,
		baths TEXT,
		sqft TEXT,
		status TEXT,
		market TEXT,
		market_code TEXT,
		url TEXT,
		scraped_at TIMESTAMPTZ
	);

	CREATE INDEX IF NOT EXISTS idx_listings_run ON listings(run_id);
	`
	_, err := s.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateRun(run *models.ScrapeRun) error {
	_, err := s.pool.Exec(context.Background(), `
		INSERT INTO scrape_runs (id, started_at, status, markets_total, markets_failed, listings_found, errors_count)
		VALUES ($1, $2, $3, $4, 0, 0, 0)`,
		run.ID, run.StartedAt, run.Status, run.MarketsTotal)
	if err != nil {
		return fmt.Errorf("postgres create run: %w", err)
	}
	return nil
}

func (s *PostgresStore) FinishRun(run *models.ScrapeRun) error {
	_, err := s.pool.Exec(context.Background(), `
		UPDATE scrape_runs
		SET finished_at = $1, status = $2, markets_failed = $3, listings_found = $4, errors_count = $5
		WHERE id = $6`,
		run.FinishedAt, run.Status, run.MarketsFailed, run.ListingsFound, run.ErrorsCount, run.ID)
	if err != nil {
		return fmt.Errorf("postgres finish run: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveListings(runID string, listings []models.Listing) error {
	ctx := context.Background()
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres save listings: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, l := range listings {
		if _, err := tx.Exec(ctx, `
			INSERT INTO listings (run_id, source, community, address, city, state, zip_code,
				price, price_numeric, home_type, beds, baths, sqft, status, market, market_code, url, scraped_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
			runID, l.Source, l.Community, l.Address, l.City, l.State, l.ZipCode,
			l.Price, l.PriceNumeric, l.HomeType, l.Beds, l.Baths, l.SqFt, l.Status,
			l.Market, l.MarketCode, l.URL, l.ScrapedAt); err != nil {
			return fmt.Errorf("postgres save listing %s: %w", l.Address, err)
		}
	}

	return tx.Commit(ctx)
}
