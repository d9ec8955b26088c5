package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a state or market code has no catalog entry.
var ErrNotFound = errors.New("market not found")

// Market is one sales region on lennar.com. The code is the short identifier
// the site's find-a-home search takes as a query parameter.
type Market struct {
	State     string `yaml:"state"`
	StateName string `yaml:"state_name"`
	Name      string `yaml:"name"`
	Code      string `yaml:"code"`
}

// Catalog holds the immutable market reference table, loaded once at startup.
type Catalog struct {
	markets []Market
}

// Load reads the market table from a YAML side file. A missing or empty path
// falls back to the built-in table of Lennar operating markets.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return &Catalog{markets: builtinMarkets}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalog{markets: builtinMarkets}, nil
		}
		return nil, fmt.Errorf("read market catalog: %w", err)
	}

	var file struct {
		Markets []Market `yaml:"markets"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse market catalog: %w", err)
	}
	if len(file.Markets) == 0 {
		return nil, fmt.Errorf("market catalog %s: no markets defined", path)
	}

	return &Catalog{markets: file.Markets}, nil
}

// All returns every market in catalog order.
func (c *Catalog) All() []Market {
	out := make([]Market, len(c.markets))
	copy(out, c.markets)
	return out
}

// ByState returns the markets for a state, accepting either the two-letter
// abbreviation ("TX") or the full name ("texas", "New Jersey").
func (c *Catalog) ByState(q string) ([]Market, error) {
	norm := normalizeState(q)
	var out []Market
	for _, m := range c.markets {
		if strings.EqualFold(m.State, norm) || normalizeState(m.StateName) == norm {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("state %q: %w", q, ErrNotFound)
	}
	return out, nil
}

// ByCode returns the single market with the given code.
func (c *Catalog) ByCode(code string) (Market, error) {
	for _, m := range c.markets {
		if strings.EqualFold(m.Code, code) {
			return m, nil
		}
	}
	return Market{}, fmt.Errorf("market code %q: %w", code, ErrNotFound)
}

func normalizeState(q string) string {
	q = strings.TrimSpace(strings.ToLower(q))
	q = strings.ReplaceAll(q, "-", " ")
	return q
}

// Markets Lennar operates in, used when no config/markets.yaml is present.
var builtinMarkets = []Market{
	{State: "AZ", StateName: "Arizona", Name: "Phoenix", Code: "PHX"},
	{State: "AZ", StateName: "Arizona", Name: "Tucson", Code: "TUS"},
	{State: "CA", StateName: "California", Name: "Inland Empire", Code: "IEM"},
	{State: "CA", StateName: "California", Name: "Sacramento", Code: "SAC"},
	{State: "CA", StateName: "California", Name: "San Diego", Code: "SAN"},
	{State: "CO", StateName: "Colorado", Name: "Denver", Code: "DEN"},
	{State: "FL", StateName: "Florida", Name: "Jacksonville", Code: "JAX"},
	{State: "FL", StateName: "Florida", Name: "Miami / Fort Lauderdale", Code: "MIA"},
	{State: "FL", StateName: "Florida", Name: "Orlando", Code: "ORL"},
	{State: "FL", StateName: "Florida", Name: "Tampa / St. Petersburg", Code: "TPA"},
	{State: "GA", StateName: "Georgia", Name: "Atlanta", Code: "ATL"},
	{State: "ID", StateName: "Idaho", Name: "Boise", Code: "BOI"},
	{State: "IN", StateName: "Indiana", Name: "Indianapolis", Code: "IND"},
	{State: "MD", StateName: "Maryland", Name: "Baltimore", Code: "BWI"},
	{State: "MN", StateName: "Minnesota", Name: "Minneapolis / St. Paul", Code: "MSP"},
	{State: "NV", StateName: "Nevada", Name: "Las Vegas", Code: "LAS"},
	{State: "NV", StateName: "Nevada", Name: "Reno", Code: "RNO"},
	{State: "NJ", StateName: "New Jersey", Name: "Northern New Jersey", Code: "EWR"},
	{State: "NC", StateName: "North Carolina", Name: "Charlotte", Code: "CLT"},
	{State: "NC", StateName: "North Carolina", Name: "Raleigh / Durham", Code: "RDU"},
	{State: "OR", StateName: "Oregon", Name: "Portland", Code: "PDX"},
	{State: "SC", StateName: "South Carolina", Name: "Charleston", Code: "CHS"},
	{State: "TN", StateName: "Tennessee", Name: "Nashville", Code: "BNA"},
	{State: "TX", StateName: "Texas", Name: "Austin", Code: "AUS"},
	{State: "TX", StateName: "Texas", Name: "Dallas / Fort Worth", Code: "DFW"},
	{State: "TX", StateName: "Texas", Name: "Houston", Code: "HOU"},
	{State: "TX", StateName: "Texas", Name: "San Antonio", Code: "SAT"},
	{State: "UT", StateName: "Utah", Name: "Salt Lake City", Code: "SLC"},
	{State: "VA", StateName: "Virginia", Name: "Richmond", Code: "RIC"},
	{State: "WA", StateName: "Washington", Name: "Seattle", Code: "SEA"},
}
