package domain

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

const GatewayStatusSuccess = "success"

type InitializePaymentRequest struct {
	Email     string
	Amount    decimal.Decimal
	Reference string
	Metadata  map[string]string
}

type InitializePaymentResult struct {
	AuthorizationURL string
	AccessCode       string
}

type VerifyPaymentResult struct {
	Status     string
	Amount     decimal.Decimal
	RawPayload json.RawMessage
}

// PaymentGateway is the remote processor that collects buyer payments.
// Implementations report every transport or configuration failure as
// ErrGatewayUnavailable and work in decimal currency units.
type PaymentGateway interface {
	InitializePayment(ctx context.Context, req InitializePaymentRequest) (*InitializePaymentResult, error)
	VerifyPayment(ctx context.Context, reference string) (*VerifyPaymentResult, error)
}
