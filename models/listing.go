package models

import "time"

// Listing source identifiers.
const (
	SourceLennar = "lennar"
	SourceZillow = "zillow"
)

// Canonical status labels recognized in card text.
const (
	StatusMoveInReady       = "Move-In Ready"
	StatusQuickMoveIn       = "Quick Move-In"
	StatusUnderConstruction = "Under Construction"
	StatusComingSoon        = "Coming Soon"
	StatusNowSelling        = "Now Selling"
	StatusSoldOut           = "Sold Out"
	StatusPendingSale       = "Pending Sale"
	StatusAvailableNow      = "Available Now"
)

// Listing is one scraped home listing. Built once by the extractor and never
// mutated afterwards. Bed/bath/sqft stay as display strings so a half bath
// ("2.5") or a missing value (blank) survives export unchanged.
type Listing struct {
	Source       string    `json:"source"`
	Community    string    `json:"community"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ZipCode      string    `json:"zip_code"`
	Price        string    `json:"price"`
	PriceNumeric int       `json:"price_numeric"`
	HomeType     string    `json:"home_type"`
	Beds         string    `json:"beds"`
	Baths        string    `json:"baths"`
	SqFt         string    `json:"sqft"`
	Status       string    `json:"status"`
	Market       string    `json:"market"`
	MarketCode   string    `json:"market_code"`
	URL          string    `json:"url"`
	ScrapedAt    time.Time `json:"scraped_at"`
}
