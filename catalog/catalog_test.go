package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestByCode(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	m, err := c.ByCode("DFW")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if m.State != "TX" {
		t.Fatalf("expected TX, got %s", m.State)
	}
	if m.Name != "Dallas / Fort Worth" {
		t.Fatalf("unexpected market name %s", m.Name)
	}

	// Case-insensitive
	if _, err := c.ByCode("dfw"); err != nil {
		t.Fatalf("lowercase lookup failed: %v", err)
	}
}

func TestByCodeUnknown(t *testing.T) {
	c, _ := Load("")
	_, err := c.ByCode("XXX")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestByState(t *testing.T) {
	c, _ := Load("")

	tx, err := c.ByState("TX")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(tx) != 4 {
		t.Fatalf("expected 4 Texas markets, got %d", len(tx))
	}
	// Catalog order is preserved
	if tx[0].Code != "AUS" || tx[3].Code != "SAT" {
		t.Fatalf("unexpected ordering: %s .. %s", tx[0].Code, tx[3].Code)
	}

	byName, err := c.ByState("texas")
	if err != nil {
		t.Fatalf("full-name lookup failed: %v", err)
	}
	if len(byName) != len(tx) {
		t.Fatalf("full-name lookup returned %d markets, want %d", len(byName), len(tx))
	}

	slug, err := c.ByState("new-jersey")
	if err != nil {
		t.Fatalf("slug lookup failed: %v", err)
	}
	if slug[0].Code != "EWR" {
		t.Fatalf("expected EWR, got %s", slug[0].Code)
	}
}

func TestByStateUnknown(t *testing.T) {
	c, _ := Load("")
	_, err := c.ByState("ZZ")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadSideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "markets.yaml")
	data := `markets:
  - state: TX
    state_name: Texas
    name: El Paso
    code: ELP
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(c.All()) != 1 {
		t.Fatalf("expected 1 market, got %d", len(c.All()))
	}
	m, err := c.ByCode("ELP")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if m.Name != "El Paso" {
		t.Fatalf("unexpected name %s", m.Name)
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	c, err := Load("does/not/exist.yaml")
	if err != nil {
		t.Fatalf("expected builtin fallback, got %v", err)
	}
	if len(c.All()) == 0 {
		t.Fatal("builtin catalog is empty")
	}
}
