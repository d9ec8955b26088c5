package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusPartial   RunStatus = "partial"
	RunStatusFailed    RunStatus = "failed"
)

// ScrapeRun records one execution of the scraper across the selected markets.
type ScrapeRun struct {
	ID             string         `json:"id"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     *time.Time     `json:"finished_at"`
	Status         RunStatus      `json:"status"`
	MarketsTotal   int            `json:"markets_total"`
	MarketsFailed  int            `json:"markets_failed"`
	ListingsFound  int            `json:"listings_found"`
	ErrorsCount    int            `json:"errors_count"`
	MarketListings map[string]int `json:"market_listings"`
}
