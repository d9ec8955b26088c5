package export

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"lennar_scraper/models"
)

// Header is the fixed CSV column order, mirrored by the XLSX sheet.
var Header = []string{
	"source", "community", "address", "city", "state", "zip_code",
	"price", "price_numeric", "home_type", "beds", "baths", "sqft",
	"status", "market", "market_code", "url", "scraped_at",
}

func WriteCSV(path string, listings []models.Listing) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, l := range listings {
		if err := writer.Write(row(l)); err != nil {
			return err
		}
	}
	return writer.Error()
}

func row(l models.Listing) []string {
	return []string{
		l.Source,
		l.Community,
		l.Address,
		l.City,
		l.State,
		l.ZipCode,
		l.Price,
		strconv.Itoa(l.PriceNumeric),
		l.HomeType,
		l.Beds,
		l.Baths,
		l.SqFt,
		l.Status,
		l.Market,
		l.MarketCode,
		l.URL,
		l.ScrapedAt.Format(time.RFC3339),
	}
}
