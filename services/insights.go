package services

import (
	"log"
	"sort"

	"lennar_scraper/models"
)

// MarketStats summarizes the listings collected for one market.
type MarketStats struct {
	Market      string
	Code        string
	Count       int
	MinPrice    int
	MaxPrice    int
	AvgPrice    int
	MoveInReady int
}

// InsightReport is the post-run summary printed after export.
type InsightReport struct {
	TotalListings int
	Priced        int
	Markets       []MarketStats
}

type InsightService struct{}

func NewInsightService() *InsightService {
	return &InsightService{}
}

// Generate computes per-market price stats. Listings without a numeric price
// count toward totals but not toward price aggregates.
func (s *InsightService) Generate(listings []models.Listing) *InsightReport {
	report := &InsightReport{TotalListings: len(listings)}

	byCode := make(map[string]*MarketStats)
	sums := make(map[string]int)
	priced := make(map[string]int)
	var order []string

	for _, l := range listings {
		stats, ok := byCode[l.MarketCode]
		if !ok {
			stats = &MarketStats{Market: l.Market, Code: l.MarketCode}
			byCode[l.MarketCode] = stats
			order = append(order, l.MarketCode)
		}

		stats.Count++
		if l.Status == models.StatusMoveInReady {
			stats.MoveInReady++
		}
		if l.PriceNumeric > 0 {
			report.Priced++
			if stats.MinPrice == 0 || l.PriceNumeric < stats.MinPrice {
				stats.MinPrice = l.PriceNumeric
			}
			if l.PriceNumeric > stats.MaxPrice {
				stats.MaxPrice = l.PriceNumeric
			}
			sums[l.MarketCode] += l.PriceNumeric
			priced[l.MarketCode]++
		}
	}

	sort.Strings(order)
	for _, code := range order {
		stats := byCode[code]
		if n := priced[code]; n > 0 {
			stats.AvgPrice = sums[code] / n
		}
		report.Markets = append(report.Markets, *stats)
	}

	return report
}

func (s *InsightService) Print(report *InsightReport) {
	log.Printf("Totals: %d listings (%d priced)", report.TotalListings, report.Priced)
	for _, m := range report.Markets {
		log.Printf("  %-24s %-4s %4d listings | price $%d-$%d avg $%d | %d move-in ready",
			m.Market, m.Code, m.Count, m.MinPrice, m.MaxPrice, m.AvgPrice, m.MoveInReady)
	}
}
