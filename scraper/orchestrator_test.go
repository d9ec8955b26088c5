package scraper

import (
	"context"
	"errors"
	"testing"

	"lennar_scraper/catalog"
	"lennar_scraper/models"
)

type stubSource struct {
	id       string
	listings map[string][]models.Listing
	err      error
}

func (s *stubSource) ID() string { return s.id }

func (s *stubSource) Scrape(_ context.Context, market catalog.Market) ([]models.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.listings[market.Code], nil
}

var testMarkets = []catalog.Market{
	{State: "TX", StateName: "Texas", Name: "Dallas / Fort Worth", Code: "DFW"},
	{State: "TX", StateName: "Texas", Name: "Austin", Code: "AUS"},
}

func TestOrchestratorRun(t *testing.T) {
	src := &stubSource{
		id: models.SourceLennar,
		listings: map[string][]models.Listing{
			"DFW": {
				{Address: "5213 Meadow Ln", Price: "$300,000", MarketCode: "DFW"},
				{Address: "801 Juniper Ct", Price: "$450,000", MarketCode: "DFW"},
			},
			"AUS": {
				{Address: "98 Canyon Rim Dr", Price: "$520,000", MarketCode: "AUS"},
			},
		},
	}

	o := NewOrchestrator([]Source{src}, nil)
	listings, run := o.Run(context.Background(), testMarkets)

	if len(listings) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(listings))
	}
	if run.Status != models.RunStatusCompleted {
		t.Fatalf("expected status completed, got %s", run.Status)
	}
	if run.MarketsTotal != 2 || run.MarketsFailed != 0 {
		t.Fatalf("unexpected market counts %d / %d", run.MarketsTotal, run.MarketsFailed)
	}
	if run.ListingsFound != 3 {
		t.Fatalf("expected 3 found, got %d", run.ListingsFound)
	}
	if run.MarketListings["DFW"] != 2 || run.MarketListings["AUS"] != 1 {
		t.Fatalf("unexpected per-market counts %v", run.MarketListings)
	}
	if run.FinishedAt == nil {
		t.Fatal("expected finished timestamp")
	}
}

func TestOrchestratorRun_PartialFailure(t *testing.T) {
	good := &stubSource{
		id: models.SourceLennar,
		listings: map[string][]models.Listing{
			"DFW": {{Address: "5213 Meadow Ln", Price: "$300,000"}},
		},
	}
	bad := &stubSource{id: models.SourceZillow, err: ErrNavigationTimeout}

	o := NewOrchestrator([]Source{good, bad}, nil)
	listings, run := o.Run(context.Background(), testMarkets[:1])

	// The failing source marks the market failed but the good source's
	// listings survive.
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	if run.Status != models.RunStatusFailed {
		t.Fatalf("expected status failed, got %s", run.Status)
	}
	if run.MarketsFailed != 1 {
		t.Fatalf("expected 1 failed market, got %d", run.MarketsFailed)
	}
}

func TestOrchestratorRun_AllFail(t *testing.T) {
	bad := &stubSource{id: models.SourceLennar, err: errors.New("boom")}

	o := NewOrchestrator([]Source{bad}, nil)
	listings, run := o.Run(context.Background(), testMarkets)

	if len(listings) != 0 {
		t.Fatalf("expected 0 listings, got %d", len(listings))
	}
	if run.Status != models.RunStatusFailed {
		t.Fatalf("expected status failed, got %s", run.Status)
	}
}

func TestOrchestratorRun_MergesSources(t *testing.T) {
	lennar := &stubSource{
		id: models.SourceLennar,
		listings: map[string][]models.Listing{
			"DFW": {{Source: "lennar", Address: "5213 Meadow Ln", Price: "$300,000", MarketCode: "DFW"}},
		},
	}
	zillow := &stubSource{
		id: models.SourceZillow,
		listings: map[string][]models.Listing{
			"DFW": {
				{Source: "zillow", Address: "5213 Meadow Ln", Price: "$300,000", MarketCode: "DFW"},
				{Source: "zillow", Address: "2508 Harvest Bend Dr", Price: "$389,990", MarketCode: "DFW"},
			},
		},
	}

	o := NewOrchestrator([]Source{lennar, zillow}, nil)
	listings, run := o.Run(context.Background(), testMarkets[:1])

	if len(listings) != 2 {
		t.Fatalf("expected 2 listings after merge, got %d", len(listings))
	}
	if listings[0].Source != "lennar" {
		t.Fatalf("expected the first-seen record kept, got %q", listings[0].Source)
	}

	// The run summary counts the merged records, not the raw per-source hits.
	if run.ListingsFound != 2 {
		t.Fatalf("expected 2 found after merge, got %d", run.ListingsFound)
	}
	if run.MarketListings["DFW"] != 2 {
		t.Fatalf("expected per-market count 2 after merge, got %d", run.MarketListings["DFW"])
	}
}
