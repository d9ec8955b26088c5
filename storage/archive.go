package storage

import "lennar_scraper/models"

// Archive persists run summaries and listing snapshots. Archives are
// optional sinks: callers treat every error as non-fatal.
type Archive interface {
	CreateRun(run *models.ScrapeRun) error
	SaveListings(runID string, listings []models.Listing) error
	FinishRun(run *models.ScrapeRun) error
	Close() error
}
