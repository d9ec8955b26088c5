package httputil

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

type Clients struct {
	Scraping *http.Client // target sites, optionally proxied
	Direct   *http.Client // everything else
}

func NewClients(proxyURL string) *Clients {
	transport := &http.Transport{ForceAttemptHTTP2: false}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}

	return &Clients{
		Scraping: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Direct: &http.Client{Timeout: 30 * time.Second},
	}
}

// BrowserRequest builds a GET request with headers a listing site expects
// from a real browser.
func BrowserRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	return req, nil
}
