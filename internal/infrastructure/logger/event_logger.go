package logger

import (
	"context"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/jaevor/go-nanoid"
	"gorm.io/gorm"
)

// DealEventRecord is one row of the deal audit trail.
type DealEventRecord struct {
	ID         string `gorm:"primaryKey;size:21"`
	DealID     string `gorm:"index;not null"`
	EventType  string `gorm:"index;not null"`
	Status     string `gorm:"not null"`
	Reference  string
	TotalToPay string
	Timestamp  time.Time `gorm:"index"`
}

func (DealEventRecord) TableName() string {
	return "deal_events"
}

// PGDealEventLogger writes every deal event to the audit table. It satisfies
// domain.DealEventPublisher so it can sit next to the Kafka publisher.
type PGDealEventLogger struct {
	db    *gorm.DB
	newID func() string
}

func NewPGDealEventLogger(db *gorm.DB) (*PGDealEventLogger, error) {
	newID, err := nanoid.Standard(21)
	if err != nil {
		return nil, err
	}
	return &PGDealEventLogger{db: db, newID: newID}, nil
}

func (l *PGDealEventLogger) PublishDealEvent(ctx context.Context, eventType domain.DealEventType, deal *domain.Deal) error {
	record := DealEventRecord{
		ID:         l.newID(),
		DealID:     deal.ID,
		EventType:  string(eventType),
		Status:     string(deal.Status),
		Reference:  deal.Reference,
		TotalToPay: deal.TotalToPay.StringFixed(2),
		Timestamp:  deal.UpdatedAt,
	}
	return l.db.WithContext(ctx).Create(&record).Error
}

// EventsForDeal returns the audit trail of one deal, oldest first.
func (l *PGDealEventLogger) EventsForDeal(ctx context.Context, dealID string) ([]DealEventRecord, error) {
	var records []DealEventRecord
	err := l.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("timestamp ASC").
		Find(&records).Error
	return records, err
}
