// Package razorpay is a minimal client for the Razorpay Orders API and
// the checkout signature scheme.
package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/domain"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// Client creates provider orders. Credentials are the dashboard key
// id/secret pair; they are sent as HTTP basic auth and never logged.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURL points the client at a different API host, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func NewClient(keyID, keySecret string, opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder mints a payment-intent order for the given minor-unit
// amount. Any transport or non-2xx failure wraps domain.ErrProvider so
// callers can distinguish provider trouble from their own bad input.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*domain.ProviderOrder, error) {
	body, err := json.Marshal(orderRequest{Amount: amount, Currency: currency, Receipt: receipt})
	if err != nil {
		return nil, fmt.Errorf("%w: encode order request: %v", domain.ErrProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build order request: %v", domain.ErrProvider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Bounded read so a misbehaving provider cannot balloon the error.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrProvider, resp.StatusCode, detail)
	}

	var order domain.ProviderOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("%w: decode order response: %v", domain.ErrProvider, err)
	}
	return &order, nil
}
