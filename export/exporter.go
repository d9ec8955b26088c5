package export

import (
	"fmt"
	"log"

	"lennar_scraper/models"
)

// Exporter writes the collected records to every configured output format.
// An empty path disables that format.
type Exporter struct {
	CSVPath  string
	JSONPath string
	XLSXPath string
}

// WriteAll attempts each configured format independently: one writer failing
// is logged and does not stop the others. The returned errors are for the
// caller's exit code only.
func (e *Exporter) WriteAll(listings []models.Listing) []error {
	var errs []error

	attempt := func(format, path string, write func() error) {
		if path == "" {
			return
		}
		if err := write(); err != nil {
			log.Printf("Export %s failed: %v", format, err)
			errs = append(errs, fmt.Errorf("%s: %w", format, err))
			return
		}
		log.Printf("Exported %d listings to %s", len(listings), path)
	}

	attempt("csv", e.CSVPath, func() error { return WriteCSV(e.CSVPath, listings) })
	attempt("json", e.JSONPath, func() error { return WriteJSON(e.JSONPath, listings) })
	attempt("xlsx", e.XLSXPath, func() error { return WriteXLSX(e.XLSXPath, listings) })

	return errs
}
