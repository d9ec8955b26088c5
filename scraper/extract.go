package scraper

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"lennar_scraper/catalog"
	"lennar_scraper/models"
)

var (
	priceRe    = regexp.MustCompile(`\$\s?\d{1,3}(?:,\d{3})+|\$\s?\d{3,}`)
	bedsRe     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:bd|bds|br|bed|beds|bedroom|bedrooms)\b`)
	bathsRe    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:ba|bath|baths|bathroom|bathrooms)\b`)
	sqftRe     = regexp.MustCompile(`(?i)([\d,]+)\s*(?:sq\.?\s?ft|sqft|sf)\b`)
	cityLineRe = regexp.MustCompile(`([A-Za-z][A-Za-z .'\-]+),\s*([A-Z]{2})(?:\s+(\d{5}))?`)
	streetRe   = regexp.MustCompile(`\d+\s+[A-Za-z0-9 .'\-]+\b(?:St|Street|Ave|Avenue|Dr|Drive|Rd|Road|Ln|Lane|Blvd|Way|Ct|Court|Cir|Circle|Pl|Place|Trl|Trail|Pkwy|Loop)\.?\b`)
	cardHintRe = regexp.MustCompile(`(?i)card|listing|home|property|result|tile|qmi|inventory`)
)

// Status keywords searched for in card text, most specific first.
var statusKeywords = []string{
	models.StatusMoveInReady,
	models.StatusQuickMoveIn,
	models.StatusUnderConstruction,
	models.StatusComingSoon,
	models.StatusNowSelling,
	models.StatusSoldOut,
	models.StatusPendingSale,
	models.StatusAvailableNow,
}

// maxCardDepth bounds the upward walk from a price element to its card.
const maxCardDepth = 8

// ExtractListings pulls one Listing per price-bearing card out of a fully
// loaded page. Extraction is best effort: a field that cannot be located is
// left blank, and only a card with no price at all is skipped.
func ExtractListings(doc *goquery.Document, market catalog.Market, source, sourceURL string) []models.Listing {
	var listings []models.Listing
	seen := make(map[*html.Node]bool)
	now := time.Now()

	doc.Find("body *").Each(func(_ int, sel *goquery.Selection) {
		if !isInnermostPrice(sel) {
			return
		}

		card := cardFor(sel)
		if card == nil || card.Length() == 0 {
			return
		}
		root := card.Get(0)
		if seen[root] {
			return
		}
		seen[root] = true

		price := strings.Join(strings.Fields(priceRe.FindString(sel.Text())), "")
		l := models.Listing{
			Source:       source,
			Price:        price,
			PriceNumeric: parsePrice(price),
			State:        market.State,
			Market:       market.Name,
			MarketCode:   market.Code,
			ScrapedAt:    now,
		}
		fillFromCard(&l, card, sourceURL)
		listings = append(listings, l)
	})

	return listings
}

// isInnermostPrice reports whether sel contains a price and none of its child
// elements do, so nested wrappers around the same price text collapse to one
// anchor element.
func isInnermostPrice(sel *goquery.Selection) bool {
	if !priceRe.MatchString(sel.Text()) {
		return false
	}
	inner := false
	sel.Children().Each(func(_ int, c *goquery.Selection) {
		if priceRe.MatchString(c.Text()) {
			inner = true
		}
	})
	return !inner
}

// cardFor walks upward from a price element to the nearest ancestor that
// looks like a full listing card. When no ancestor matches within the depth
// bound, the price element's grandparent stands in as the card.
func cardFor(price *goquery.Selection) *goquery.Selection {
	cur := price
	var fallback *goquery.Selection
	for depth := 0; depth < maxCardDepth; depth++ {
		cur = cur.Parent()
		if cur.Length() == 0 || goquery.NodeName(cur) == "body" {
			break
		}
		if depth == 1 {
			fallback = cur
		}
		if looksLikeCard(cur) {
			return cur
		}
	}
	return fallback
}

func looksLikeCard(sel *goquery.Selection) bool {
	switch goquery.NodeName(sel) {
	case "article", "li":
		return true
	}
	if class, ok := sel.Attr("class"); ok && cardHintRe.MatchString(class) {
		return true
	}
	for _, attr := range []string{"data-testid", "data-test", "data-qa", "itemprop"} {
		if v, ok := sel.Attr(attr); ok && cardHintRe.MatchString(v) {
			return true
		}
	}
	return false
}

func fillFromCard(l *models.Listing, card *goquery.Selection, sourceURL string) {
	text := card.Text()

	l.Address = extractAddress(card, text)
	fillLocation(l, text)

	if m := bedsRe.FindStringSubmatch(text); m != nil {
		l.Beds = m[1]
	}
	if m := bathsRe.FindStringSubmatch(text); m != nil {
		l.Baths = m[1]
	}
	if m := sqftRe.FindStringSubmatch(text); m != nil {
		l.SqFt = strings.ReplaceAll(m[1], ",", "")
	}

	l.Community = firstText(card, "[class*=community], [data-community], [data-testid*=community]")
	l.HomeType = inferHomeType(card, text)
	l.Status = extractStatus(card, text)

	if href, ok := card.Find("a[href]").First().Attr("href"); ok {
		l.URL = resolveURL(sourceURL, href)
	}
}

func extractAddress(card *goquery.Selection, text string) string {
	if addr := firstText(card, "address, [class*=address], [itemprop=streetAddress], [data-testid*=addr]"); addr != "" {
		// Zillow-style address elements carry the full "street, city, ST zip"
		// line; keep only the street portion.
		if i := strings.Index(addr, ","); i > 0 && cityLineRe.MatchString(addr[i:]) {
			return strings.TrimSpace(addr[:i])
		}
		return addr
	}
	return strings.TrimSpace(streetRe.FindString(text))
}

// fillLocation parses a "City, ST 12345" fragment from the card text. The
// market's state stays in place when the card names no state of its own.
func fillLocation(l *models.Listing, text string) {
	for _, m := range cityLineRe.FindAllStringSubmatch(text, -1) {
		city := strings.TrimSpace(m[1])
		// The street line itself can match the pattern; a city name does not
		// start with a digit.
		if city == "" || (city[0] >= '0' && city[0] <= '9') {
			continue
		}
		l.City = city
		l.State = m[2]
		if m[3] != "" {
			l.ZipCode = m[3]
		}
		return
	}
}

func extractStatus(card *goquery.Selection, text string) string {
	lower := strings.ToLower(text)
	for _, kw := range statusKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return kw
		}
	}
	return firstText(card, "[class*=status], [class*=pill], [class*=badge], [class*=flag]")
}

func inferHomeType(card *goquery.Selection, text string) string {
	if t := firstText(card, "[class*=home-type], [class*=property-type], [data-testid*=type]"); t != "" {
		return t
	}
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "townhome"), strings.Contains(lower, "townhouse"):
		return "Townhome"
	case strings.Contains(lower, "condo"):
		return "Condominium"
	case strings.Contains(lower, "duplex"):
		return "Duplex"
	default:
		return "Single Family"
	}
}

func firstText(card *goquery.Selection, selector string) string {
	return strings.TrimSpace(card.Find(selector).First().Text())
}

func parsePrice(price string) int {
	var digits strings.Builder
	for _, c := range price {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}

func resolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(u).String()
}
