package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type DealStatus string

const (
	StatusPendingPayment DealStatus = "pending_payment"
	StatusPaid           DealStatus = "paid"
	StatusCompleted      DealStatus = "completed"
	StatusDisputed       DealStatus = "disputed"
	StatusCancelled      DealStatus = "cancelled"
)

// DealSchemaVersion is stamped on every persisted deal record.
const DealSchemaVersion = 1

// ReferencePrefix is prepended to the deal id to build the gateway reference.
const ReferencePrefix = "SL-"

type DisputeResolution string

const (
	ResolutionRefund  DisputeResolution = "refund"
	ResolutionRelease DisputeResolution = "release"
)

type Deal struct {
	ID            string
	SchemaVersion int
	ItemName      string
	Price         decimal.Decimal
	ServiceFee    decimal.Decimal
	TotalToPay    decimal.Decimal
	SellerMoMo    string
	BuyerEmail    string
	Status        DealStatus
	Reference     string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	PaidAt      *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
	DisputedAt  *time.Time

	PaymentReference string
	GatewayPayload   json.RawMessage
	DisputeReason    string
	Resolution       DisputeResolution
}

// ReferenceForID derives the gateway reference of a deal from its id.
func ReferenceForID(id string) string {
	return ReferencePrefix + id
}

// IsTerminal reports whether no further transition can leave the status.
func (s DealStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// HoldsFunds reports whether a deal in this status counts as money held in escrow.
func (s DealStatus) HoldsFunds() bool {
	return s == StatusPaid || s == StatusDisputed
}

func (s DealStatus) Valid() bool {
	switch s {
	case StatusPendingPayment, StatusPaid, StatusCompleted, StatusDisputed, StatusCancelled:
		return true
	}
	return false
}

// DealPatch holds the fields a lifecycle transition writes. Nil pointers and
// empty values are left untouched by the store.
type DealPatch struct {
	Status           DealStatus
	PaidAt           *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
	DisputedAt       *time.Time
	PaymentReference string
	GatewayPayload   json.RawMessage
	DisputeReason    string
	Resolution       DisputeResolution
	UpdatedAt        time.Time
}

// Apply merges the patch into a copy of the deal.
func (p DealPatch) Apply(d Deal) Deal {
	if p.Status != "" {
		d.Status = p.Status
	}
	if p.PaidAt != nil {
		d.PaidAt = p.PaidAt
	}
	if p.CompletedAt != nil {
		d.CompletedAt = p.CompletedAt
	}
	if p.CancelledAt != nil {
		d.CancelledAt = p.CancelledAt
	}
	if p.DisputedAt != nil {
		d.DisputedAt = p.DisputedAt
	}
	if p.PaymentReference != "" {
		d.PaymentReference = p.PaymentReference
	}
	if len(p.GatewayPayload) > 0 {
		d.GatewayPayload = p.GatewayPayload
	}
	if p.DisputeReason != "" {
		d.DisputeReason = p.DisputeReason
	}
	if p.Resolution != "" {
		d.Resolution = p.Resolution
	}
	if !p.UpdatedAt.IsZero() {
		d.UpdatedAt = p.UpdatedAt
	}
	return d
}
