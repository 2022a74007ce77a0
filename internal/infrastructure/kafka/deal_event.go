package kafka

import (
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
)

// DealEvent is the message body published for every lifecycle change.
type DealEvent struct {
	EventID       string     `json:"event_id"`
	EventType     string     `json:"event_type"`
	SchemaVersion int        `json:"schema_version"`
	DealID        string     `json:"deal_id"`
	Reference     string     `json:"reference"`
	Status        string     `json:"status"`
	ItemName      string     `json:"item_name"`
	Price         string     `json:"price"`
	ServiceFee    string     `json:"service_fee"`
	TotalToPay    string     `json:"total_to_pay"`
	SellerMoMo    string     `json:"seller_momo"`
	BuyerEmail    string     `json:"buyer_email"`
	DisputeReason string     `json:"dispute_reason,omitempty"`
	Resolution    string     `json:"resolution,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

func NewDealEvent(eventID string, eventType domain.DealEventType, deal *domain.Deal) DealEvent {
	return DealEvent{
		EventID:       eventID,
		EventType:     string(eventType),
		SchemaVersion: deal.SchemaVersion,
		DealID:        deal.ID,
		Reference:     deal.Reference,
		Status:        string(deal.Status),
		ItemName:      deal.ItemName,
		Price:         deal.Price.StringFixed(2),
		ServiceFee:    deal.ServiceFee.StringFixed(2),
		TotalToPay:    deal.TotalToPay.StringFixed(2),
		SellerMoMo:    deal.SellerMoMo,
		BuyerEmail:    deal.BuyerEmail,
		DisputeReason: deal.DisputeReason,
		Resolution:    string(deal.Resolution),
		CreatedAt:     deal.CreatedAt,
		PaidAt:        deal.PaidAt,
		OccurredAt:    deal.UpdatedAt,
	}
}
