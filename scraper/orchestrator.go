package scraper

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"lennar_scraper/catalog"
	"lennar_scraper/models"
	"lennar_scraper/storage"
)

// Orchestrator drives every source across the selected markets, one market
// at a time to keep request rates low. A failing market never aborts the
// run; whatever was collected is still returned for export.
type Orchestrator struct {
	sources  []Source
	archives []storage.Archive
}

func NewOrchestrator(sources []Source, archives []storage.Archive) *Orchestrator {
	return &Orchestrator{sources: sources, archives: archives}
}

// Run scrapes all markets and returns the collected listings together with
// the run summary. Archive writes are best effort and logged like export
// errors.
func (o *Orchestrator) Run(ctx context.Context, markets []catalog.Market) ([]models.Listing, *models.ScrapeRun) {
	run := &models.ScrapeRun{
		ID:             uuid.NewString(),
		StartedAt:      time.Now(),
		Status:         models.RunStatusRunning,
		MarketsTotal:   len(markets),
		MarketListings: make(map[string]int),
	}

	for _, a := range o.archives {
		if err := a.CreateRun(run); err != nil {
			log.Printf("Archive error creating run: %v", err)
		}
	}

	var all []models.Listing
	for _, market := range markets {
		if ctx.Err() != nil {
			break
		}

		found, failed := o.runMarket(ctx, market)
		run.MarketListings[market.Code] = len(found)
		run.ListingsFound += len(found)
		if failed {
			run.MarketsFailed++
			run.ErrorsCount++
		}
		all = append(all, found...)

		log.Printf("Market %s (%s): %d listings", market.Name, market.Code, len(found))
	}

	if len(o.sources) > 1 {
		all = dedupeListings(all)
		// The summary counts what actually gets exported and archived, so
		// retally after the merge.
		run.ListingsFound = len(all)
		for code := range run.MarketListings {
			run.MarketListings[code] = 0
		}
		for _, l := range all {
			run.MarketListings[l.MarketCode]++
		}
	}

	now := time.Now()
	run.FinishedAt = &now
	switch {
	case run.MarketsFailed == run.MarketsTotal && run.MarketsTotal > 0:
		run.Status = models.RunStatusFailed
	case run.MarketsFailed > 0:
		run.Status = models.RunStatusPartial
	default:
		run.Status = models.RunStatusCompleted
	}

	for _, a := range o.archives {
		if err := a.SaveListings(run.ID, all); err != nil {
			log.Printf("Archive error saving listings: %v", err)
		}
		if err := a.FinishRun(run); err != nil {
			log.Printf("Archive error finishing run: %v", err)
		}
	}

	log.Printf("Run %s %s: %d listings across %d markets (%d failed)",
		run.ID[:8], run.Status, run.ListingsFound, run.MarketsTotal, run.MarketsFailed)
	return all, run
}

// runMarket scrapes one market with every source. A navigation timeout
// aborts that market's scrape only.
func (o *Orchestrator) runMarket(ctx context.Context, market catalog.Market) ([]models.Listing, bool) {
	var found []models.Listing
	failed := false

	for _, src := range o.sources {
		listings, err := src.Scrape(ctx, market)
		if err != nil {
			if errors.Is(err, ErrNavigationTimeout) {
				log.Printf("Market %s: %s navigation timed out: %v", market.Code, src.ID(), err)
			} else {
				log.Printf("Market %s: %s failed: %v", market.Code, src.ID(), err)
			}
			failed = true
			continue
		}
		found = append(found, listings...)
	}

	return found, failed
}
