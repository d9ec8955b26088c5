package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"lennar_scraper/models"
)

const sheetName = "Listings"

// WriteXLSX writes the records to a spreadsheet mirroring the CSV columns.
func WriteXLSX(path string, listings []models.Listing) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheetName)

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	for i, l := range listings {
		cells := row(l)
		values := make([]interface{}, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		// Numeric price stays a number in the sheet
		values[7] = l.PriceNumeric

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	return f.SaveAs(path)
}
