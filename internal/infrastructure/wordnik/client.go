package wordnik

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ArticleCourier/internal/ports"
)

// Client talks to a Wordnik-style dictionary API for word frequency and
// definition lookups. Authentication is a query-string api_key.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ ports.WordLookup = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Frequency returns the corpus occurrence count for term. Lower means
// rarer; callers compare it against their rarity threshold.
func (c *Client) Frequency(ctx context.Context, term string) (float64, error) {
	var resp struct {
		TotalCount float64 `json:"totalCount"`
	}
	endpoint := fmt.Sprintf("%s/word.json/%s/frequency", c.baseURL, url.PathEscape(term))
	if err := c.get(ctx, endpoint, nil, &resp); err != nil {
		return 0, fmt.Errorf("frequency %q: %w", term, err)
	}
	return resp.TotalCount, nil
}

// Definitions returns up to limit definition texts for term. A term the
// service knows but has no definitions for yields an empty slice.
func (c *Client) Definitions(ctx context.Context, term string, limit int) ([]string, error) {
	var resp []struct {
		Text string `json:"text"`
	}
	endpoint := fmt.Sprintf("%s/word.json/%s/definitions", c.baseURL, url.PathEscape(term))
	params := url.Values{"limit": []string{strconv.Itoa(limit)}}
	if err := c.get(ctx, endpoint, params, &resp); err != nil {
		return nil, fmt.Errorf("definitions %q: %w", term, err)
	}

	definitions := make([]string, 0, len(resp))
	for _, def := range resp {
		if def.Text != "" {
			definitions = append(definitions, def.Text)
		}
	}
	return definitions, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, v any) error {
	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	// Non-200 means "no data for this term", which the enricher treats
	// as a skip, not a fatal failure.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
