package notifier

import (
	"encoding/json"
	"time"
)

// CallbackPayload is the body posted to the deal status callback URL.
type CallbackPayload struct {
	Event      string      `json:"event"`
	DealID     string      `json:"deal_id"`
	Reference  string      `json:"reference"`
	Status     string      `json:"status"`
	TotalToPay json.Number `json:"total_to_pay"`
	Resolution string      `json:"resolution,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
