package wiki

import (
	"os"
	"time"
)

// DefaultAPIURL is the English Wikipedia query API endpoint.
const DefaultAPIURL = "https://en.wikipedia.org/w/api.php"

// Config holds MediaWiki connection settings
type Config struct {
	// BaseURL is the wiki API endpoint (e.g., https://en.wikipedia.org/w/api.php)
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// UserAgent identifies the client to the wiki
	UserAgent string
}

// LoadConfig loads configuration from environment variables.
// All variables are optional; defaults target English Wikipedia.
func LoadConfig() (*Config, error) {
	baseURL := os.Getenv("WIKIPEDIA_API_URL")
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	timeout := 30 * time.Second
	if t := os.Getenv("WIKIPEDIA_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	userAgent := os.Getenv("WIKIPEDIA_USER_AGENT")
	if userAgent == "" {
		userAgent = "WikipediaMCPServer/1.0 (https://github.com/olgasafonova/wikipedia-mcp-server)"
	}

	return &Config{
		BaseURL:   baseURL,
		Timeout:   timeout,
		UserAgent: userAgent,
	}, nil
}
