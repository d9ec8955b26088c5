package services

import (
	"testing"

	"lennar_scraper/models"
)

func TestGenerate(t *testing.T) {
	listings := []models.Listing{
		{Market: "Dallas / Fort Worth", MarketCode: "DFW", PriceNumeric: 300000, Status: models.StatusMoveInReady},
		{Market: "Dallas / Fort Worth", MarketCode: "DFW", PriceNumeric: 500000, Status: models.StatusUnderConstruction},
		{Market: "Dallas / Fort Worth", MarketCode: "DFW", PriceNumeric: 400000, Status: models.StatusMoveInReady},
		{Market: "Austin", MarketCode: "AUS", PriceNumeric: 0, Status: models.StatusComingSoon},
		{Market: "Austin", MarketCode: "AUS", PriceNumeric: 350000},
	}

	report := NewInsightService().Generate(listings)

	if report.TotalListings != 5 {
		t.Fatalf("expected 5 total, got %d", report.TotalListings)
	}
	if report.Priced != 4 {
		t.Fatalf("expected 4 priced, got %d", report.Priced)
	}
	if len(report.Markets) != 2 {
		t.Fatalf("expected 2 markets, got %d", len(report.Markets))
	}

	// Markets come out sorted by code.
	aus := report.Markets[0]
	if aus.Code != "AUS" || aus.Count != 2 {
		t.Fatalf("unexpected first market %+v", aus)
	}
	// The unpriced listing is excluded from price aggregates.
	if aus.MinPrice != 350000 || aus.MaxPrice != 350000 || aus.AvgPrice != 350000 {
		t.Fatalf("unexpected AUS prices %+v", aus)
	}

	dfw := report.Markets[1]
	if dfw.Code != "DFW" || dfw.Count != 3 {
		t.Fatalf("unexpected second market %+v", dfw)
	}
	if dfw.MinPrice != 300000 || dfw.MaxPrice != 500000 || dfw.AvgPrice != 400000 {
		t.Fatalf("unexpected DFW prices %+v", dfw)
	}
	if dfw.MoveInReady != 2 {
		t.Fatalf("expected 2 move-in ready in DFW, got %d", dfw.MoveInReady)
	}
}

func TestGenerateEmpty(t *testing.T) {
	report := NewInsightService().Generate(nil)
	if report.TotalListings != 0 || len(report.Markets) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
}
