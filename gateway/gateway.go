// Package gateway talks to the external payment provider. Transactions are
// correlated by tx_ref; the provider's verify endpoint is the only source
// of truth for whether money actually moved.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// InitRequest starts a hosted checkout for an order.
type InitRequest struct {
	TxRef       string  `json:"tx_ref"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	RedirectURL string  `json:"redirect_url"`
	Customer    struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"customer"`
	Meta map[string]string `json:"meta,omitempty"`
}

// InitResponse carries the hosted payment page the user is redirected to.
type InitResponse struct {
	Link string
}

// VerifyResult is the provider's authoritative view of a transaction.
type VerifyResult struct {
	TxRef    string
	Status   string // "successful", "failed", "pending"
	Amount   float64
	Currency string
}

// Successful reports whether the provider confirmed the charge.
func (v VerifyResult) Successful() bool {
	return v.Status == "successful"
}

// Client is what the payment flow depends on; the callback handler takes
// this interface so verification can be faked in tests.
type Client interface {
	Initialize(ctx context.Context, req InitRequest) (InitResponse, error)
	Verify(ctx context.Context, txRef string) (VerifyResult, error)
}

type httpClient struct {
	baseURL   string
	secretKey string
	hc        *http.Client
}

// New builds the provider client from environment configuration.
func New() Client {
	baseURL := os.Getenv("PAYMENT_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.flutterwave.com/v3"
	}
	return &httpClient{
		baseURL:   baseURL,
		secretKey: os.Getenv("PAYMENT_SECRET_KEY"),
		hc:        &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *httpClient) do(ctx context.Context, method, url string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("payment provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("payment provider returned %d: %s", resp.StatusCode, respBody)
	}
	return json.Unmarshal(respBody, out)
}

func (c *httpClient) Initialize(ctx context.Context, req InitRequest) (InitResponse, error) {
	payload, _ := json.Marshal(req)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Link string `json:"link"`
		} `json:"data"`
	}
	err := c.do(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(payload), &resp)
	if err != nil {
		return InitResponse{}, err
	}
	if resp.Status != "success" || resp.Data.Link == "" {
		return InitResponse{}, fmt.Errorf("payment initialization rejected: %s", resp.Status)
	}
	return InitResponse{Link: resp.Data.Link}, nil
}

func (c *httpClient) Verify(ctx context.Context, txRef string) (VerifyResult, error) {
	url := fmt.Sprintf("%s/transactions/verify_by_reference?tx_ref=%s", c.baseURL, txRef)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			TxRef    string  `json:"tx_ref"`
			Status   string  `json:"status"`
			Amount   float64 `json:"amount"`
			Currency string  `json:"currency"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return VerifyResult{}, err
	}
	return VerifyResult{
		TxRef:    resp.Data.TxRef,
		Status:   resp.Data.Status,
		Amount:   resp.Data.Amount,
		Currency: resp.Data.Currency,
	}, nil
}
