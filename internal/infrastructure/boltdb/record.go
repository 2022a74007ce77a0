package boltdb

import (
	"encoding/json"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/shopspring/decimal"
)

// dealRecord is the JSON document stored under the deal id. Money is kept as
// fixed two-decimal strings.
type dealRecord struct {
	ID               string          `json:"id"`
	SchemaVersion    int             `json:"schemaVersion"`
	ItemName         string          `json:"itemName"`
	Price            string          `json:"price"`
	ServiceFee       string          `json:"serviceFee"`
	TotalToPay       string          `json:"totalToPay"`
	SellerMoMo       string          `json:"sellerMoMo"`
	BuyerEmail       string          `json:"buyerEmail"`
	Status           string          `json:"status"`
	Reference        string          `json:"reference"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	PaidAt           *time.Time      `json:"paidAt,omitempty"`
	CompletedAt      *time.Time      `json:"completedAt,omitempty"`
	CancelledAt      *time.Time      `json:"cancelledAt,omitempty"`
	DisputedAt       *time.Time      `json:"disputedAt,omitempty"`
	PaymentReference string          `json:"paymentReference,omitempty"`
	GatewayPayload   json.RawMessage `json:"gatewayPayload,omitempty"`
	DisputeReason    string          `json:"disputeReason,omitempty"`
	Resolution       string          `json:"resolution,omitempty"`
}

func toRecord(d *domain.Deal) dealRecord {
	return dealRecord{
		ID:               d.ID,
		SchemaVersion:    d.SchemaVersion,
		ItemName:         d.ItemName,
		Price:            d.Price.StringFixed(2),
		ServiceFee:       d.ServiceFee.StringFixed(2),
		TotalToPay:       d.TotalToPay.StringFixed(2),
		SellerMoMo:       d.SellerMoMo,
		BuyerEmail:       d.BuyerEmail,
		Status:           string(d.Status),
		Reference:        d.Reference,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		PaidAt:           d.PaidAt,
		CompletedAt:      d.CompletedAt,
		CancelledAt:      d.CancelledAt,
		DisputedAt:       d.DisputedAt,
		PaymentReference: d.PaymentReference,
		GatewayPayload:   d.GatewayPayload,
		DisputeReason:    d.DisputeReason,
		Resolution:       string(d.Resolution),
	}
}

func (r dealRecord) toDomain() (*domain.Deal, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return nil, err
	}
	fee, err := decimal.NewFromString(r.ServiceFee)
	if err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(r.TotalToPay)
	if err != nil {
		return nil, err
	}
	return &domain.Deal{
		ID:               r.ID,
		SchemaVersion:    r.SchemaVersion,
		ItemName:         r.ItemName,
		Price:            price,
		ServiceFee:       fee,
		TotalToPay:       total,
		SellerMoMo:       r.SellerMoMo,
		BuyerEmail:       r.BuyerEmail,
		Status:           domain.DealStatus(r.Status),
		Reference:        r.Reference,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		PaidAt:           r.PaidAt,
		CompletedAt:      r.CompletedAt,
		CancelledAt:      r.CancelledAt,
		DisputedAt:       r.DisputedAt,
		PaymentReference: r.PaymentReference,
		GatewayPayload:   r.GatewayPayload,
		DisputeReason:    r.DisputeReason,
		Resolution:       domain.DisputeResolution(r.Resolution),
	}, nil
}
