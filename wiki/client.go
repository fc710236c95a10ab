package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/olgasafonova/wikipedia-mcp-server/metrics"
)

// Client handles communication with the MediaWiki query API.
// It is read-only: no authentication, no caching, no retries. A request
// either succeeds or its error is returned to the caller as-is.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new MediaWiki API client
func NewClient(config *Config, logger *slog.Logger) *Client {
	// Configure HTTP transport for better connection reuse and performance
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false, // Enable gzip compression
		ForceAttemptHTTP2:   true,  // Use HTTP/2 when available
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// apiRequest makes a single GET request to the MediaWiki API and decodes
// the JSON response. The response body is closed before returning on every
// path. There is no retry: a transport fault, a non-200 status, or an
// undecodable body is the caller's error.
func (c *Client) apiRequest(ctx context.Context, params url.Values) (map[string]interface{}, error) {
	params.Set("format", "json")

	action := params.Get("action")
	start := time.Now()

	reqURL := c.config.BaseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(action, time.Since(start).Seconds(), false, "transport")
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close() // Error ignored intentionally; body already read

	if err != nil {
		metrics.RecordAPICall(action, time.Since(start).Seconds(), false, "read")
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.RecordAPICall(action, time.Since(start).Seconds(), false, fmt.Sprintf("http_%d", resp.StatusCode))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		metrics.RecordAPICall(action, time.Since(start).Seconds(), false, "decode")
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for API errors
	if errObj, ok := result["error"].(map[string]interface{}); ok {
		code := getString(errObj["code"])
		info := getString(errObj["info"])
		metrics.RecordAPICall(action, time.Since(start).Seconds(), false, code)
		return nil, fmt.Errorf("API error [%s]: %s", code, info)
	}

	metrics.RecordAPICall(action, time.Since(start).Seconds(), true, "")
	return result, nil
}

// normalizeTitle normalizes a page title the way the search and links
// endpoints expect it: trimmed, with spaces replaced by underscores.
func normalizeTitle(title string) string {
	return strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
}

// Loosely-typed accessors for the decoded JSON. MediaWiki responses are
// consumed as map[string]interface{} because the shape varies by module.

func getMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func getSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

func getString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func getInt(v interface{}) int {
	f, _ := v.(float64)
	return int(f)
}
