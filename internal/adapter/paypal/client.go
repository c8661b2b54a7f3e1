// Package paypal implements usecase.PaymentGateway against the PayPal
// Orders v2 REST API.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/usecase"
)

const (
	sandboxBaseURL    = "https://api-m.sandbox.paypal.com"
	productionBaseURL = "https://api-m.paypal.com"

	// Refresh the OAuth token this long before PayPal says it expires.
	tokenExpirySlack = 60 * time.Second
)

// Config holds PayPal API credentials and settings.
type Config struct {
	ClientID    string
	Secret      string
	Environment string // "sandbox" or "production"
	Timeout     time.Duration
}

// Client talks to the PayPal REST API. Safe for concurrent use; the OAuth
// token is cached and refreshed lazily.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
	logger     *slog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new PayPal client. Returns ErrGatewayNotConfigured
// when credentials are missing so callers can degrade instead of issuing
// requests that can only fail.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.ClientID == "" || cfg.Secret == "" {
		return nil, domain.ErrGatewayNotConfigured
	}

	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	baseURL := sandboxBaseURL
	if cfg.Environment == "production" || cfg.Environment == "live" {
		baseURL = productionBaseURL
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		clientID:   cfg.ClientID,
		secret:     cfg.Secret,
		logger:     logger,
	}, nil
}

// CreateOrder creates a CAPTURE-intent order and returns its ID.
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal, currency string) (string, error) {
	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"amount": map[string]string{
					"currency_code": currency,
					"value":         amount.StringFixed(2),
				},
			},
		},
	}

	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v2/checkout/orders", body, &resp); err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}

	c.logger.InfoContext(ctx, "created paypal order",
		slog.String("order_id", resp.ID),
		slog.String("status", resp.Status))

	return resp.ID, nil
}

// CaptureOrder captures an approved order and returns the capture outcome.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*usecase.CaptureResult, error) {
	path := "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"

	var resp struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					ID     string `json:"id"`
					Status string `json:"status"`
					Amount struct {
						CurrencyCode string `json:"currency_code"`
						Value        string `json:"value"`
					} `json:"amount"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := c.doJSON(ctx, http.MethodPost, path, struct{}{}, &resp); err != nil {
		return nil, fmt.Errorf("capture order %s: %w", orderID, err)
	}

	result := &usecase.CaptureResult{
		OrderID: resp.ID,
		Status:  resp.Status,
	}

	if len(resp.PurchaseUnits) > 0 && len(resp.PurchaseUnits[0].Payments.Captures) > 0 {
		capture := resp.PurchaseUnits[0].Payments.Captures[0]
		result.CaptureID = capture.ID
		result.Currency = capture.Amount.CurrencyCode

		amount, err := decimal.NewFromString(capture.Amount.Value)
		if err != nil {
			return nil, fmt.Errorf("capture order %s: bad amount %q: %w", orderID, capture.Amount.Value, err)
		}
		result.Amount = amount
	}

	return result, nil
}

// Verify checks that the configured credentials can obtain a token.
func (c *Client) Verify(ctx context.Context) error {
	_, err := c.token(ctx)

	return err
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	// Idempotency key: PayPal replays the original response for retried
	// requests carrying the same value.
	requestID := uuid.New().String()

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("PayPal-Request-Id", requestID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= 500 {
			return fmt.Errorf("paypal %s %s: status %d", method, path, resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("paypal %s %s: status %d: %s", method, path, resp.StatusCode, truncate(respBody, 512)))
		}

		if out != nil {
			if err := json.Unmarshal(respBody, out); err != nil {
				return backoff.Permanent(err)
			}
		}

		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)

	return backoff.Retry(operation, policy)
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token: status %d: %s", resp.StatusCode, truncate(respBody, 512))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return "", fmt.Errorf("paypal token: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("paypal token: empty access_token in response")
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - tokenExpirySlack)

	return c.accessToken, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}

	return string(b[:n]) + "..."
}
