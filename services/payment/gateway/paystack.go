package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"hallbook/config"
)

// Gateway abstracts the card payment provider so services and tests can
// swap the live client for a fake.
type Gateway interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error)
	Verify(ctx context.Context, reference string) (*VerifyResponse, error)
}

// InitializeRequest starts a hosted card charge.
type InitializeRequest struct {
	Email       string            `json:"email"`
	AmountKobo  int64             `json:"amount"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// InitializeResponse is the hosted-checkout handle returned by the provider.
type InitializeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifyResponse is the provider's settled view of one charge.
type VerifyResponse struct {
	Status        string `json:"status"`
	Reference     string `json:"reference"`
	AmountKobo    int64  `json:"amount"`
	GatewayTxnID  string `json:"id"`
	Channel       string `json:"channel"`
	CardLast4     string `json:"last4"`
	CardType      string `json:"card_type"`
	GatewayStatus string `json:"gateway_response"`
	PaidAt        string `json:"paid_at"`
}

// Succeeded reports whether the provider settled the charge.
func (v *VerifyResponse) Succeeded() bool {
	return v.Status == "success"
}

// PaystackClient is the live HTTP client for the Paystack API.
type PaystackClient struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewPaystackClient creates a client from the application config.
func NewPaystackClient() *PaystackClient {
	return &PaystackClient{
		baseURL:   config.AppConfig.PaystackBaseURL,
		secretKey: config.AppConfig.PaystackSecretKey,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize starts a hosted checkout session for the given charge.
func (c *PaystackClient) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode initialize request: %w", err)
	}

	data, err := c.post(ctx, "/transaction/initialize", body)
	if err != nil {
		return nil, err
	}
	var out InitializeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode initialize response: %w", err)
	}
	return &out, nil
}

// Verify fetches the settled state of a charge by reference.
func (c *PaystackClient) Verify(ctx context.Context, reference string) (*VerifyResponse, error) {
	data, err := c.get(ctx, "/transaction/verify/"+reference)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Status          string `json:"status"`
		Reference       string `json:"reference"`
		Amount          int64  `json:"amount"`
		ID              int64  `json:"id"`
		Channel         string `json:"channel"`
		GatewayResponse string `json:"gateway_response"`
		PaidAt          string `json:"paid_at"`
		Authorization   struct {
			Last4    string `json:"last4"`
			CardType string `json:"card_type"`
		} `json:"authorization"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}
	return &VerifyResponse{
		Status:        raw.Status,
		Reference:     raw.Reference,
		AmountKobo:    raw.Amount,
		GatewayTxnID:  fmt.Sprintf("%d", raw.ID),
		Channel:       raw.Channel,
		CardLast4:     raw.Authorization.Last4,
		CardType:      raw.Authorization.CardType,
		GatewayStatus: raw.GatewayResponse,
		PaidAt:        raw.PaidAt,
	}, nil
}

func (c *PaystackClient) post(ctx context.Context, path string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *PaystackClient) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	return c.do(req)
}

func (c *PaystackClient) do(req *http.Request) (json.RawMessage, error) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var envelope paystackEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if resp.StatusCode >= 400 || !envelope.Status {
		return nil, fmt.Errorf("gateway error (%d): %s", resp.StatusCode, envelope.Message)
	}
	return envelope.Data, nil
}
