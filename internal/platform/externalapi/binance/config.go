// Package binance provides the two interchangeable exchange backends: one
// built on the go-binance SDK client and one issuing direct HTTP calls.
package binance

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend selects the concrete market data implementation.
type Backend string

const (
	// BackendSDK uses the github.com/adshao/go-binance/v2 client.
	BackendSDK Backend = "sdk"
	// BackendREST calls the public REST endpoints directly.
	BackendREST Backend = "rest"
)

const (
	// DefaultBaseURL is the main spot API host.
	DefaultBaseURL = "https://api.binance.com"
	// DataAPIBaseURL is the public market-data-only host.
	DataAPIBaseURL = "https://data-api.binance.vision"

	// BrowserUserAgent is sent when MARKET_USER_AGENT=browser.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	defaultTimeout = 10 * time.Second
)

// Config holds configuration for the exchange backends.
type Config struct {
	Backend   Backend       // "sdk" or "rest"
	BaseURL   string        // API host, e.g. DefaultBaseURL or DataAPIBaseURL
	UserAgent string        // optional request header; empty leaves the transport default
	Timeout   time.Duration // whole-request timeout
	RateLimit float64       // outbound requests per second; 0 disables pacing
}

// LoadConfig loads exchange configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		Backend:   ParseBackend(os.Getenv("MARKET_BACKEND")),
		BaseURL:   ResolveBaseURL(os.Getenv("MARKET_BASE_URL")),
		UserAgent: ResolveUserAgent(os.Getenv("MARKET_USER_AGENT")),
		Timeout:   defaultTimeout,
	}
	if d, err := time.ParseDuration(os.Getenv("MARKET_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	if r, err := strconv.ParseFloat(os.Getenv("MARKET_RATE_LIMIT"), 64); err == nil && r > 0 {
		cfg.RateLimit = r
	}
	return cfg
}

// ParseBackend normalizes a backend name. Empty selects BackendSDK.
func ParseBackend(raw string) Backend {
	b := Backend(strings.ToLower(strings.TrimSpace(raw)))
	if b == "" {
		return BackendSDK
	}
	return b
}

// ResolveBaseURL trims raw and expands the "data-api" alias. Empty selects DefaultBaseURL.
func ResolveBaseURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	switch strings.ToLower(u) {
	case "":
		return DefaultBaseURL
	case "data-api":
		return DataAPIBaseURL
	}
	return u
}

// ResolveUserAgent expands the "browser" alias.
func ResolveUserAgent(raw string) string {
	ua := strings.TrimSpace(raw)
	if strings.EqualFold(ua, "browser") {
		return BrowserUserAgent
	}
	return ua
}
