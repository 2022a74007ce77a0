package notifier

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/config"
	"github.com/LavaJover/safelink-deal-service/internal/domain"
)

// SignatureHeader carries the hex HMAC-SHA256 of the body when a secret is configured.
const SignatureHeader = "X-SafeLink-Signature"

// CallbackNotifier posts deal lifecycle events to an external URL, e.g. the
// frontend backend that messages buyers and sellers.
type CallbackNotifier struct {
	callbackURL string
	secret      string
	client      *http.Client
}

func NewCallbackNotifier(cfg config.Notifier) *CallbackNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CallbackNotifier{
		callbackURL: cfg.CallbackURL,
		secret:      cfg.Secret,
		client:      &http.Client{Timeout: timeout},
	}
}

func (n *CallbackNotifier) PublishDealEvent(ctx context.Context, eventType domain.DealEventType, deal *domain.Deal) error {
	body, err := json.Marshal(CallbackPayload{
		Event:      string(eventType),
		DealID:     deal.ID,
		Reference:  deal.Reference,
		Status:     string(deal.Status),
		TotalToPay: json.Number(deal.TotalToPay.StringFixed(2)),
		Resolution: string(deal.Resolution),
		OccurredAt: deal.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal callback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.callbackURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.secret != "" {
		req.Header.Set(SignatureHeader, Sign(n.secret, body))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("callback failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("callback returned status %d", resp.StatusCode)
	}
	return nil
}

func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
