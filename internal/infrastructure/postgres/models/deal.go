package models

import (
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type DealModel struct {
	ID            string            `gorm:"primaryKey;type:uuid"`
	SchemaVersion int               `gorm:"not null;default:1"`
	ItemName      string            `gorm:"size:200;not null"`
	Price         decimal.Decimal   `gorm:"type:numeric(18,2);not null"`
	ServiceFee    decimal.Decimal   `gorm:"type:numeric(18,2);not null"`
	TotalToPay    decimal.Decimal   `gorm:"type:numeric(18,2);not null"`
	SellerMoMo    string            `gorm:"column:seller_momo;size:64;not null"`
	BuyerEmail    string            `gorm:"size:254;not null"`
	Status        domain.DealStatus `gorm:"size:32;not null;index:idx_deals_status_created"`
	Reference     string            `gorm:"size:64;not null;uniqueIndex"`
	CreatedAt     time.Time         `gorm:"index:idx_deals_status_created"`
	UpdatedAt     time.Time

	PaidAt      *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
	DisputedAt  *time.Time

	PaymentReference string
	GatewayPayload   datatypes.JSON
	DisputeReason    string `gorm:"size:1000"`
	Resolution       string `gorm:"size:16"`
}

func (DealModel) TableName() string {
	return "deals"
}
