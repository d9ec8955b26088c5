package export

import (
	"encoding/json"
	"os"
	"time"

	"lennar_scraper/models"
)

// Report is the JSON export envelope.
type Report struct {
	ScrapedAt     time.Time        `json:"scraped_at"`
	TotalListings int              `json:"total_listings"`
	Sources       []string         `json:"sources"`
	Listings      []models.Listing `json:"listings"`
}

// NewReport wraps the records so total_listings always matches the listings
// array, including the zero-record case.
func NewReport(listings []models.Listing) Report {
	if listings == nil {
		listings = []models.Listing{}
	}
	return Report{
		ScrapedAt:     time.Now(),
		TotalListings: len(listings),
		Sources:       sources(listings),
		Listings:      listings,
	}
}

func WriteJSON(path string, listings []models.Listing) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(listings))
}

func sources(listings []models.Listing) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, l := range listings {
		if l.Source != "" && !seen[l.Source] {
			seen[l.Source] = true
			out = append(out, l.Source)
		}
	}
	return out
}
