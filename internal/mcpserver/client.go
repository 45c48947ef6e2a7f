package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mbd888/numerics/internal/retry"
)

// Config holds the MCP server settings.
type Config struct {
	DefaultLocale   string // e.g. "en-US"
	DefaultCurrency string // e.g. "USD"
	APIURL          string // Base URL of the numerics API, e.g. "http://localhost:8080". Empty disables the preset tools.
	APIKey          string // Optional bearer token sent to the API
}

// errNoAPI is returned by the preset tools when no API URL is configured.
var errNoAPI = errors.New("no API URL configured; set NUMERICS_API_URL to use presets")

// APIClient is a pure HTTP client for the numerics preset API.
type APIClient struct {
	cfg        Config
	httpClient *http.Client
	retry      retry.Policy
}

// NewAPIClient creates a client for the numerics API. It returns nil when
// cfg has no APIURL.
func NewAPIClient(cfg Config) *APIClient {
	if cfg.APIURL == "" {
		return nil
	}
	return &APIClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		retry: retry.Policy{Attempts: 3, BaseDelay: 200 * time.Millisecond, MaxDelay: 2 * time.Second},
	}
}

// apiError represents an error response from the API.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doRequest makes an HTTP request to the API and returns the response body.
// Transport failures and 5xx responses are retried; 4xx responses are not.
func (c *APIClient) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u, err := url.Parse(c.cfg.APIURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var data []byte
	if body != nil {
		if data, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	var out json.RawMessage
	err = retry.Do(ctx, c.retry, func(ctx context.Context) error {
		var reqBody io.Reader
		if data != nil {
			reqBody = bytes.NewReader(data)
		}
		req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
		if err != nil {
			return retry.Permanent(fmt.Errorf("create request: %w", err))
		}
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}
		if data != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode >= 400 {
			apiErr := responseError(resp.StatusCode, respBody)
			if resp.StatusCode < 500 {
				return retry.Permanent(apiErr)
			}
			return apiErr
		}

		out = json.RawMessage(respBody)
		return nil
	})
	return out, err
}

func responseError(status int, body []byte) error {
	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		return fmt.Errorf("API error (%d): %s", status, apiErr.Message)
	}
	return fmt.Errorf("API error (%d): %s", status, string(body))
}

// ListPresets returns one page of stored presets.
func (c *APIClient) ListPresets(ctx context.Context, limit int, cursor string) (json.RawMessage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	return c.doRequest(ctx, http.MethodGet, "/v1/presets", q, nil)
}

// FormatWithPreset formats value with the preset identified by ref, an ID
// or a name.
func (c *APIClient) FormatWithPreset(ctx context.Context, ref, value, trigger string) (json.RawMessage, error) {
	body := map[string]string{
		"preset":  ref,
		"value":   value,
		"trigger": trigger,
	}
	return c.doRequest(ctx, http.MethodPost, "/v1/format", nil, body)
}
