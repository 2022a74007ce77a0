package mongodb

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type dealDocument struct {
	ID               string               `bson:"_id"`
	SchemaVersion    int                  `bson:"schema_version"`
	ItemName         string               `bson:"item_name"`
	Price            primitive.Decimal128 `bson:"price"`
	ServiceFee       primitive.Decimal128 `bson:"service_fee"`
	TotalToPay       primitive.Decimal128 `bson:"total_to_pay"`
	SellerMoMo       string               `bson:"seller_momo"`
	BuyerEmail       string               `bson:"buyer_email"`
	Status           string               `bson:"status"`
	Reference        string               `bson:"reference"`
	CreatedAt        time.Time            `bson:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at"`
	PaidAt           *time.Time           `bson:"paid_at,omitempty"`
	CompletedAt      *time.Time           `bson:"completed_at,omitempty"`
	CancelledAt      *time.Time           `bson:"cancelled_at,omitempty"`
	DisputedAt       *time.Time           `bson:"disputed_at,omitempty"`
	PaymentReference string               `bson:"payment_reference,omitempty"`
	GatewayPayload   string               `bson:"gateway_payload,omitempty"`
	DisputeReason    string               `bson:"dispute_reason,omitempty"`
	Resolution       string               `bson:"resolution,omitempty"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.StringFixed(2))
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

func toDocument(d *domain.Deal) (*dealDocument, error) {
	price, err := toDecimal128(d.Price)
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	fee, err := toDecimal128(d.ServiceFee)
	if err != nil {
		return nil, fmt.Errorf("service fee: %w", err)
	}
	total, err := toDecimal128(d.TotalToPay)
	if err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}
	return &dealDocument{
		ID:               d.ID,
		SchemaVersion:    d.SchemaVersion,
		ItemName:         d.ItemName,
		Price:            price,
		ServiceFee:       fee,
		TotalToPay:       total,
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
		GatewayPayload:   string(d.GatewayPayload),
		DisputeReason:    d.DisputeReason,
		Resolution:       string(d.Resolution),
	}, nil
}

func (doc *dealDocument) toDomain() (*domain.Deal, error) {
	price, err := fromDecimal128(doc.Price)
	if err != nil {
		return nil, err
	}
	fee, err := fromDecimal128(doc.ServiceFee)
	if err != nil {
		return nil, err
	}
	total, err := fromDecimal128(doc.TotalToPay)
	if err != nil {
		return nil, err
	}
	deal := &domain.Deal{
		ID:               doc.ID,
		SchemaVersion:    doc.SchemaVersion,
		ItemName:         doc.ItemName,
		Price:            price,
		ServiceFee:       fee,
		TotalToPay:       total,
		SellerMoMo:       doc.SellerMoMo,
		BuyerEmail:       doc.BuyerEmail,
		Status:           domain.DealStatus(doc.Status),
		Reference:        doc.Reference,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
		PaidAt:           doc.PaidAt,
		CompletedAt:      doc.CompletedAt,
		CancelledAt:      doc.CancelledAt,
		DisputedAt:       doc.DisputedAt,
		PaymentReference: doc.PaymentReference,
		DisputeReason:    doc.DisputeReason,
		Resolution:       domain.DisputeResolution(doc.Resolution),
	}
	if doc.GatewayPayload != "" {
		deal.GatewayPayload = json.RawMessage(doc.GatewayPayload)
	}
	return deal, nil
}

// patchToSet builds the $set document for a partial update.
func patchToSet(patch domain.DealPatch) bson.M {
	set := bson.M{}
	if patch.Status != "" {
		set["status"] = string(patch.Status)
	}
	if patch.PaidAt != nil {
		set["paid_at"] = *patch.PaidAt
	}
	if patch.CompletedAt != nil {
		set["completed_at"] = *patch.CompletedAt
	}
	if patch.CancelledAt != nil {
		set["cancelled_at"] = *patch.CancelledAt
	}
	if patch.DisputedAt != nil {
		set["disputed_at"] = *patch.DisputedAt
	}
	if patch.PaymentReference != "" {
		set["payment_reference"] = patch.PaymentReference
	}
	if len(patch.GatewayPayload) > 0 {
		set["gateway_payload"] = string(patch.GatewayPayload)
	}
	if patch.DisputeReason != "" {
		set["dispute_reason"] = patch.DisputeReason
	}
	if patch.Resolution != "" {
		set["resolution"] = string(patch.Resolution)
	}
	if !patch.UpdatedAt.IsZero() {
		set["updated_at"] = patch.UpdatedAt
	}
	return set
}
