package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Scraper   ScraperConfig
	Output    OutputConfig
	Archive   ArchiveConfig
	Scheduler SchedulerConfig
	ProxyURL  string
	LogFile   string

	// MarketsFile points at the YAML market catalog; the built-in table is
	// used when the file does not exist.
	MarketsFile string
}

type ScraperConfig struct {
	Headless     bool
	BrowserPath  string
	NavTimeout   time.Duration
	ActionDelay  time.Duration
	MaxLoadMore  int
	ClickRetries int
	// ZillowHTTP switches the Zillow source to plain HTTP fetching instead
	// of driving the browser.
	ZillowHTTP bool
}

type OutputConfig struct {
	CSVPath  string
	JSONPath string
	XLSXPath string
}

type ArchiveConfig struct {
	SQLitePath  string
	PostgresURL string
}

type SchedulerConfig struct {
	Cron     string
	Interval time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Scraper: ScraperConfig{
			Headless:     getEnv("HEADLESS", "true") == "true",
			BrowserPath:  os.Getenv("BROWSER_PATH"),
			NavTimeout:   getEnvDuration("NAV_TIMEOUT", 60*time.Second),
			ActionDelay:  getEnvDuration("ACTION_DELAY", 2*time.Second),
			MaxLoadMore:  getEnvInt("MAX_LOAD_MORE", 40),
			ClickRetries: getEnvInt("CLICK_RETRIES", 3),
			ZillowHTTP:   os.Getenv("ZILLOW_HTTP") == "true",
		},
		Output: OutputConfig{
			CSVPath:  getEnv("CSV_PATH", "lennar_listings.csv"),
			JSONPath: getEnv("JSON_PATH", "lennar_listings.json"),
			XLSXPath: os.Getenv("XLSX_PATH"),
		},
		Archive: ArchiveConfig{
			SQLitePath:  os.Getenv("DB_PATH"),
			PostgresURL: os.Getenv("POSTGRES_URL"),
		},
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("SCRAPE_CRON"),
		},
		ProxyURL:    os.Getenv("PROXY_URL"),
		LogFile:     getEnv("LOG_FILE", "scraper.log"),
		MarketsFile: getEnv("MARKETS_FILE", "config/markets.yaml"),
	}

	if interval := os.Getenv("SCRAPE_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
