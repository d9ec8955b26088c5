package scraper

import (
	"context"
	"fmt"

	"lennar_scraper/catalog"
	"lennar_scraper/config"
	"lennar_scraper/httputil"
	"lennar_scraper/models"
)

// Source scrapes one listing site for a single market.
type Source interface {
	ID() string
	Scrape(ctx context.Context, market catalog.Market) ([]models.Listing, error)
}

// NewSources resolves a source selector (lennar, zillow, both) into handlers
// sharing one browser instance.
func NewSources(selector string, browser *Browser, cfg *config.ScraperConfig, clients *httputil.Clients) ([]Source, error) {
	switch selector {
	case models.SourceLennar:
		return []Source{NewLennarSource(browser)}, nil
	case models.SourceZillow:
		return []Source{NewZillowSource(browser, cfg, clients)}, nil
	case "both":
		return []Source{
			NewLennarSource(browser),
			NewZillowSource(browser, cfg, clients),
		}, nil
	default:
		return nil, fmt.Errorf("unknown source %q (want lennar, zillow or both)", selector)
	}
}
