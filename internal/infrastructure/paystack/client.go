package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/config"
	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	defaultBaseURL = "https://api.paystack.co"
	// Paystack amounts are in the currency's minor unit (pesewas for GHS).
	minorUnitsPerMajor = 100
	maxErrorBodyBytes  = 4 << 10
)

var errNotConfigured = errors.New("paystack secret key is not set")

type Client struct {
	secretKey   string
	baseURL     string
	currency    string
	callbackURL string
	httpClient  *http.Client
}

func NewClient(cfg config.Paystack) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "GHS"
	}
	return &Client{
		secretKey:   cfg.SecretKey,
		baseURL:     baseURL,
		currency:    currency,
		callbackURL: cfg.CallbackTarget(),
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type initializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Reference   string            `json:"reference"`
	Currency    string            `json:"currency"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

// ToMinorUnits converts a decimal amount to pesewas, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(minorUnitsPerMajor)).Round(0).IntPart()
}

// FromMinorUnits converts pesewas back to a decimal amount.
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}

func (c *Client) InitializePayment(ctx context.Context, req domain.InitializePaymentRequest) (*domain.InitializePaymentResult, error) {
	if c.secretKey == "" {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, errNotConfigured)
	}

	body := initializeRequest{
		Email:       req.Email,
		Amount:      ToMinorUnits(req.Amount),
		Reference:   req.Reference,
		Currency:    c.currency,
		CallbackURL: c.callbackURL,
		Metadata:    req.Metadata,
	}
	env, status, err := c.do(ctx, http.MethodPost, "/transaction/initialize", body)
	if err != nil {
		return nil, err
	}
	if status >= 300 || !env.Status {
		return nil, fmt.Errorf("%w: initialize failed with status %d: %s", domain.ErrGatewayUnavailable, status, env.Message)
	}

	var data initializeData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed initialize response: %v", domain.ErrGatewayUnavailable, err)
	}
	return &domain.InitializePaymentResult{AuthorizationURL: data.AuthorizationURL, AccessCode: data.AccessCode}, nil
}

// StatusCurrencyMismatch is reported for a successful charge made in a
// currency other than the configured one.
const StatusCurrencyMismatch = "currency_mismatch"

// VerifyPayment asks Paystack for the state of a transaction. A 4xx answer
// (for example an unknown reference) is reported as a non-success status so
// the deal stays pending. Transport failures, 5xx answers and rejected
// credentials mean the gateway is unavailable.
func (c *Client) VerifyPayment(ctx context.Context, reference string) (*domain.VerifyPaymentResult, error) {
	if c.secretKey == "" {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, errNotConfigured)
	}

	env, status, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}
	if status >= 500 || status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: verify failed with status %d: %s", domain.ErrGatewayUnavailable, status, env.Message)
	}
	if status >= 300 || !env.Status {
		return &domain.VerifyPaymentResult{Status: "failed", Amount: decimal.Zero, RawPayload: env.Data}, nil
	}

	var data verifyData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed verify response: %v", domain.ErrGatewayUnavailable, err)
	}
	if data.Status == domain.GatewayStatusSuccess && !strings.EqualFold(data.Currency, c.currency) {
		return &domain.VerifyPaymentResult{
			Status:     StatusCurrencyMismatch,
			Amount:     FromMinorUnits(data.Amount),
			RawPayload: env.Data,
		}, nil
	}
	return &domain.VerifyPaymentResult{
		Status:     data.Status,
		Amount:     FromMinorUnits(data.Amount),
		RawPayload: env.Data,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*envelope, int, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: reading response: %v", domain.ErrGatewayUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if len(raw) > maxErrorBodyBytes {
			raw = raw[:maxErrorBodyBytes]
		}
		return nil, resp.StatusCode, fmt.Errorf("%w: unexpected response (status %d): %s", domain.ErrGatewayUnavailable, resp.StatusCode, string(raw))
	}
	return &env, resp.StatusCode, nil
}
