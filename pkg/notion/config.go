package notion

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultBaseURL is the public Notion REST API root.
	DefaultBaseURL = "https://api.notion.com/v1"

	// DefaultVersion is the Notion-Version header sent with every request.
	DefaultVersion = "2022-06-28"

	// DefaultTimeout bounds a single upstream call.
	DefaultTimeout = 30 * time.Second
)

// Config contains configuration for the Notion API client.
//
// Example configuration (HCL):
//
//	notion {
//	  api_key  = "ntn_..."
//	  base_url = "https://api.notion.com/v1"
//	  version  = "2022-06-28"
//	  timeout  = "30s"
//	}
type Config struct {
	// BaseURL is the root of the Notion API, without a trailing slash.
	BaseURL string

	// APIKey is the integration token sent as a Bearer token.
	APIKey string

	// Version is sent as the Notion-Version header.
	Version string

	// Timeout for a single API request. There are no retries, so this is also
	// the upper bound for one upstream operation.
	Timeout time.Duration
}

// DefaultConfig returns a Config with the public API defaults and no API key.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Version: DefaultVersion,
		Timeout: DefaultTimeout,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("base_url must use http or https scheme, got: %s", parsedURL.Scheme)
	}

	if c.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}

	if c.Version == "" {
		return fmt.Errorf("version is required")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %v", c.Timeout)
	}

	return nil
}

// NewHTTPClient creates a configured HTTP client for the Notion API.
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}
