package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
)

const (
	SignatureHeader    = "x-paystack-signature"
	EventChargeSuccess = "charge.success"
)

var ErrInvalidSignature = errors.New("invalid paystack signature")

type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

// Sign returns the hex HMAC-SHA512 of body keyed with the secret key, the
// value Paystack sends in SignatureHeader.
func Sign(secretKey string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ParseWebhook checks the signature and decodes the event.
func ParseWebhook(secretKey string, body []byte, signature string) (*WebhookEvent, error) {
	if secretKey == "" || signature == "" {
		return nil, ErrInvalidSignature
	}
	expected := Sign(secretKey, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, ErrInvalidSignature
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
