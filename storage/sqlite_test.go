package storage

import (
	"path/filepath"
	"testing"
	"time"

	"lennar_scraper/models"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openTestStore(t)

	run := &models.ScrapeRun{
		ID:           "11111111-2222-3333-4444-555555555555",
		StartedAt:    time.Now(),
		Status:       models.RunStatusRunning,
		MarketsTotal: 2,
	}
	if err := store.CreateRun(run); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	listings := []models.Listing{
		{Source: "lennar", Address: "5213 Meadow Ln", Price: "$300,000", PriceNumeric: 300000, MarketCode: "DFW", ScrapedAt: time.Now()},
		{Source: "lennar", Address: "801 Juniper Ct", Price: "$450,000", PriceNumeric: 450000, MarketCode: "DFW", ScrapedAt: time.Now()},
	}
	if err := store.SaveListings(run.ID, listings); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	now := time.Now()
	run.FinishedAt = &now
	run.Status = models.RunStatusCompleted
	run.ListingsFound = 2
	if err := store.FinishRun(run); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	history, err := store.RunHistory(10)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 run, got %d", len(history))
	}
	if history[0].Status != models.RunStatusCompleted {
		t.Fatalf("expected completed, got %s", history[0].Status)
	}
	if history[0].ListingsFound != 2 {
		t.Fatalf("expected 2 listings found, got %d", history[0].ListingsFound)
	}

	last, err := store.LastRunTime()
	if err != nil {
		t.Fatalf("last run time failed: %v", err)
	}
	if last.IsZero() {
		t.Fatal("expected a last run time")
	}
}

func TestLastRunTime(t *testing.T) {
	store := openTestStore(t)

	// No runs yet: zero time, not an error.
	last, err := store.LastRunTime()
	if err != nil {
		t.Fatalf("last run time on empty store failed: %v", err)
	}
	if !last.IsZero() {
		t.Fatalf("expected zero time, got %v", last)
	}

	older := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 2, 6, 0, 0, 0, time.UTC)
	for i, started := range []time.Time{newer, older} {
		run := &models.ScrapeRun{ID: string(rune('a' + i)), StartedAt: started, Status: models.RunStatusCompleted}
		if err := store.CreateRun(run); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	last, err = store.LastRunTime()
	if err != nil {
		t.Fatalf("last run time failed: %v", err)
	}
	if !last.Equal(newer) {
		t.Fatalf("expected %v, got %v", newer, last)
	}
}

func TestSaveListingsEmpty(t *testing.T) {
	store := openTestStore(t)

	run := &models.ScrapeRun{ID: "run-empty", StartedAt: time.Now(), Status: models.RunStatusRunning}
	if err := store.CreateRun(run); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := store.SaveListings(run.ID, nil); err != nil {
		t.Fatalf("save of empty batch failed: %v", err)
	}
}
