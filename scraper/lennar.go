package scraper

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lennar_scraper/catalog"
	"lennar_scraper/models"
)

const lennarBaseURL = "https://www.lennar.com"

// LennarSource scrapes the builder's own find-a-home search, which renders
// listing cards client-side behind a "load more" control.
type LennarSource struct {
	browser *Browser
}

func NewLennarSource(browser *Browser) *LennarSource {
	return &LennarSource{browser: browser}
}

func (s *LennarSource) ID() string {
	return models.SourceLennar
}

func (s *LennarSource) Scrape(ctx context.Context, market catalog.Market) ([]models.Listing, error) {
	searchURL := s.searchURL(market)
	log.Printf("[lennar] %s (%s): %s", market.Name, market.Code, searchURL)

	html, err := s.browser.FetchPaginated(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("lennar %s: %w", market.Code, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("lennar %s: parse page: %w", market.Code, err)
	}

	listings := ExtractListings(doc, market, models.SourceLennar, searchURL)
	log.Printf("[lennar] %s: %d listings", market.Code, len(listings))
	return listings, nil
}

func (s *LennarSource) searchURL(market catalog.Market) string {
	q := url.Values{}
	q.Set("state", market.State)
	q.Set("market", market.Code)
	return lennarBaseURL + "/find-a-home?" + q.Encode()
}
