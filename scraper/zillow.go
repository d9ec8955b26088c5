package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"lennar_scraper/catalog"
	"lennar_scraper/config"
	"lennar_scraper/httputil"
	"lennar_scraper/models"
)

const (
	zillowBaseURL = "https://www.zillow.com"
	builderName   = "lennar"
)

var searchStateRe = regexp.MustCompile(`(?s)\{.*"listResults".*\}`)

// ZillowSource scrapes Lennar inventory from Zillow's new-construction
// search. It normally drives the browser like the direct source; with
// ZillowHTTP set it fetches the page over plain HTTP and relies on the
// search-state JSON Zillow embeds in a script tag.
type ZillowSource struct {
	browser *Browser
	cfg     *config.ScraperConfig
	clients *httputil.Clients
}

func NewZillowSource(browser *Browser, cfg *config.ScraperConfig, clients *httputil.Clients) *ZillowSource {
	return &ZillowSource{browser: browser, cfg: cfg, clients: clients}
}

func (s *ZillowSource) ID() string {
	return models.SourceZillow
}

func (s *ZillowSource) Scrape(ctx context.Context, market catalog.Market) ([]models.Listing, error) {
	searchURL := s.searchURL(market)
	log.Printf("[zillow] %s (%s): %s", market.Name, market.Code, searchURL)

	var html string
	var err error
	if s.cfg.ZillowHTTP {
		html, err = s.fetchHTTP(ctx, searchURL)
	} else {
		html, err = s.browser.FetchPaginated(ctx, searchURL)
	}
	if err != nil {
		return nil, fmt.Errorf("zillow %s: %w", market.Code, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("zillow %s: parse page: %w", market.Code, err)
	}

	listings := ExtractListings(doc, market, models.SourceZillow, searchURL)

	// Zillow ships the full result set as JSON in a script tag; cards the
	// DOM pass missed (virtualized rows) show up there.
	if state := findSearchState(doc); state != nil {
		fromScript, err := ParseSearchState(state, market)
		if err != nil {
			log.Printf("[zillow] %s: search-state parse failed: %v", market.Code, err)
		} else {
			listings = append(listings, fromScript...)
		}
	}

	listings = dedupeListings(listings)
	log.Printf("[zillow] %s: %d listings", market.Code, len(listings))
	return listings, nil
}

func (s *ZillowSource) searchURL(market catalog.Market) string {
	slug := market.Name
	// "Dallas / Fort Worth" -> "dallas-fort-worth"
	slug = strings.ReplaceAll(slug, "/", " ")
	slug = strings.ReplaceAll(slug, ".", "")
	slug = strings.Join(strings.Fields(strings.ToLower(slug)), "-")
	return fmt.Sprintf("%s/%s-%s/new-construction/", zillowBaseURL, slug, strings.ToLower(market.State))
}

func (s *ZillowSource) fetchHTTP(ctx context.Context, url string) (string, error) {
	req, err := httputil.BrowserRequest(ctx, url)
	if err != nil {
		return "", err
	}
	resp, err := s.clients.Scraping.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNavigationTimeout, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// findSearchState locates the embedded search-state JSON in script tags.
func findSearchState(doc *goquery.Document) []byte {
	var state []byte
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if !strings.Contains(text, "listResults") {
			return true
		}
		if m := searchStateRe.FindString(text); m != "" {
			state = []byte(m)
			return false
		}
		return true
	})
	return state
}

type searchState struct {
	Cat1 struct {
		SearchResults searchResults `json:"searchResults"`
	} `json:"cat1"`
	SearchResults searchResults `json:"searchResults"`
}

type searchResults struct {
	ListResults []searchResult `json:"listResults"`
}

type searchResult struct {
	Address          string      `json:"address"`
	AddressStreet    string      `json:"addressStreet"`
	AddressCity      string      `json:"addressCity"`
	AddressState     string      `json:"addressState"`
	AddressZipcode   string      `json:"addressZipcode"`
	Price            string      `json:"price"`
	UnformattedPrice json.Number `json:"unformattedPrice"`
	Beds             json.Number `json:"beds"`
	Baths            json.Number `json:"baths"`
	Area             json.Number `json:"area"`
	StatusText       string      `json:"statusText"`
	DetailURL        string      `json:"detailUrl"`
	BuilderName      string      `json:"builderName"`
	HomeType         string      `json:"homeType"`
}

// ParseSearchState turns Zillow's embedded search-state JSON into listings,
// keeping only the Lennar builder's results.
func ParseSearchState(data []byte, market catalog.Market) ([]models.Listing, error) {
	var state searchState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal search state: %w", err)
	}

	results := state.Cat1.SearchResults.ListResults
	if len(results) == 0 {
		results = state.SearchResults.ListResults
	}

	now := time.Now()
	var listings []models.Listing
	for _, r := range results {
		if !strings.Contains(strings.ToLower(r.BuilderName), builderName) {
			continue
		}
		address := r.AddressStreet
		if address == "" {
			address = r.Address
		}
		if address == "" {
			continue
		}

		l := models.Listing{
			Source:       models.SourceZillow,
			Address:      address,
			City:         r.AddressCity,
			State:        orDefault(r.AddressState, market.State),
			ZipCode:      r.AddressZipcode,
			Price:        r.Price,
			PriceNumeric: parsePrice(r.Price),
			Beds:         r.Beds.String(),
			Baths:        r.Baths.String(),
			SqFt:         r.Area.String(),
			HomeType:     normalizeHomeType(r.HomeType),
			Status:       normalizeStatus(r.StatusText),
			Market:       market.Name,
			MarketCode:   market.Code,
			URL:          resolveURL(zillowBaseURL, r.DetailURL),
			ScrapedAt:    now,
		}
		if l.PriceNumeric == 0 {
			if n, err := r.UnformattedPrice.Int64(); err == nil && n > 0 {
				l.PriceNumeric = int(n)
				if l.Price == "" {
					l.Price = fmt.Sprintf("$%d", n)
				}
			}
		}
		listings = append(listings, l)
	}

	return listings, nil
}

// dedupeListings drops repeated (address, price) pairs, keeping first seen.
// Listings without an address are never merged.
func dedupeListings(listings []models.Listing) []models.Listing {
	seen := make(map[string]bool)
	out := listings[:0]
	for _, l := range listings {
		if l.Address == "" {
			out = append(out, l)
			continue
		}
		key := strings.ToLower(l.Address) + "|" + l.Price
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}

func normalizeStatus(statusText string) string {
	lower := strings.ToLower(statusText)
	for _, kw := range statusKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return kw
		}
	}
	if strings.Contains(lower, "new construction") {
		return models.StatusUnderConstruction
	}
	return ""
}

func normalizeHomeType(homeType string) string {
	switch strings.ToUpper(homeType) {
	case "SINGLE_FAMILY", "HOUSE":
		return "Single Family"
	case "TOWNHOUSE":
		return "Townhome"
	case "CONDO":
		return "Condominium"
	case "":
		return "Single Family"
	default:
		return homeType
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
