package scraper

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"lennar_scraper/catalog"
	"lennar_scraper/models"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return data
}

func fixtureDoc(t *testing.T, name string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(loadFixture(t, name)))
	if err != nil {
		t.Fatalf("failed to parse fixture %s: %v", name, err)
	}
	return doc
}

var dfw = catalog.Market{State: "TX", StateName: "Texas", Name: "Dallas / Fort Worth", Code: "DFW"}

func TestExtractListings_LennarResults(t *testing.T) {
	doc := fixtureDoc(t, "lennar_results.html")
	sourceURL := "https://www.lennar.com/find-a-home?market=DFW&state=TX"

	listings := ExtractListings(doc, dfw, models.SourceLennar, sourceURL)

	// Three cards on the page; the "Coming Soon" card has no price and is
	// skipped.
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	first := listings[0]
	if first.Price != "$300,000" {
		t.Fatalf("expected price $300,000, got %q", first.Price)
	}
	if first.PriceNumeric != 300000 {
		t.Fatalf("expected price_numeric 300000, got %d", first.PriceNumeric)
	}
	if first.Address != "5213 Meadow Ln" {
		t.Fatalf("unexpected address %q", first.Address)
	}
	if first.City != "Frisco" || first.State != "TX" || first.ZipCode != "75035" {
		t.Fatalf("unexpected location %q / %q / %q", first.City, first.State, first.ZipCode)
	}
	if first.Community != "Lakeside at Mustang" {
		t.Fatalf("unexpected community %q", first.Community)
	}
	if first.Beds != "4" || first.Baths != "3" || first.SqFt != "2100" {
		t.Fatalf("unexpected specs beds=%q baths=%q sqft=%q", first.Beds, first.Baths, first.SqFt)
	}
	if first.Status != models.StatusMoveInReady {
		t.Fatalf("expected status %q, got %q", models.StatusMoveInReady, first.Status)
	}
	if first.HomeType != "Single Family" {
		t.Fatalf("unexpected home type %q", first.HomeType)
	}
	if first.URL != "https://www.lennar.com/new-homes/tx/dallas/lakeside/residence-201" {
		t.Fatalf("unexpected URL %q", first.URL)
	}
	if first.Market != "Dallas / Fort Worth" || first.MarketCode != "DFW" {
		t.Fatalf("unexpected market %q / %q", first.Market, first.MarketCode)
	}
	if first.Source != models.SourceLennar {
		t.Fatalf("unexpected source %q", first.Source)
	}
	if first.ScrapedAt.IsZero() {
		t.Fatalf("expected scraped_at to be set")
	}

	second := listings[1]
	if second.PriceNumeric != 450000 {
		t.Fatalf("expected price_numeric 450000, got %d", second.PriceNumeric)
	}
	if second.City != "McKinney" || second.ZipCode != "75071" {
		t.Fatalf("unexpected location %q / %q", second.City, second.ZipCode)
	}
	if second.Baths != "2.5" {
		t.Fatalf("expected baths 2.5, got %q", second.Baths)
	}
	if second.Status != models.StatusUnderConstruction {
		t.Fatalf("expected status %q, got %q", models.StatusUnderConstruction, second.Status)
	}
	if second.HomeType != "Townhome" {
		t.Fatalf("expected home type Townhome, got %q", second.HomeType)
	}
}

func TestExtractListings_ZillowCards(t *testing.T) {
	doc := fixtureDoc(t, "zillow_results.html")

	listings := ExtractListings(doc, dfw, models.SourceZillow, "https://www.zillow.com/dallas-fort-worth-tx/new-construction/")

	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	l := listings[0]
	if l.PriceNumeric != 389990 {
		t.Fatalf("expected price_numeric 389990, got %d", l.PriceNumeric)
	}
	// The address element carries the full "street, city, ST zip" line; only
	// the street portion should survive.
	if l.Address != "2508 Harvest Bend Dr" {
		t.Fatalf("unexpected address %q", l.Address)
	}
	if l.City != "Fort Worth" || l.State != "TX" || l.ZipCode != "76123" {
		t.Fatalf("unexpected location %q / %q / %q", l.City, l.State, l.ZipCode)
	}
	if l.Beds != "4" || l.Baths != "2.5" || l.SqFt != "2208" {
		t.Fatalf("unexpected specs beds=%q baths=%q sqft=%q", l.Beds, l.Baths, l.SqFt)
	}
	if l.URL != "https://www.zillow.com/homedetails/2508-Harvest-Bend-Dr-Fort-Worth-TX-76123/245678901_zpid/" {
		t.Fatalf("unexpected URL %q", l.URL)
	}
}

func TestExtractListings_NoStatusKeyword(t *testing.T) {
	page := `<html><body>
		<article class="listing-card">
			<p class="address">42 Elm St</p>
			<span class="price">$275,000</span>
		</article>
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(page)))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	listings := ExtractListings(doc, dfw, models.SourceLennar, "https://www.lennar.com/find-a-home")
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	if listings[0].Status != "" {
		t.Fatalf("expected blank status, got %q", listings[0].Status)
	}
	if listings[0].Beds != "" || listings[0].SqFt != "" {
		t.Fatalf("expected blank specs, got beds=%q sqft=%q", listings[0].Beds, listings[0].SqFt)
	}
}

func TestExtractListings_EmptyPage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte("<html><body><p>No results found</p></body></html>")))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	listings := ExtractListings(doc, dfw, models.SourceLennar, "https://www.lennar.com/find-a-home")
	if len(listings) != 0 {
		t.Fatalf("expected 0 listings, got %d", len(listings))
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"$300,000", 300000},
		{"$1,249,990", 1249990},
		{"$450000", 450000},
		{"", 0},
		{"Coming soon", 0},
	}
	for _, c := range cases {
		if got := parsePrice(c.in); got != c.want {
			t.Errorf("parsePrice(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}
