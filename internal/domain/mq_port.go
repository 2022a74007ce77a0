package domain

import "context"

type DealEventType string

const (
	EventDealCreated         DealEventType = "deal.created"
	EventDealPaid            DealEventType = "deal.paid"
	EventDealCompleted       DealEventType = "deal.completed"
	EventDealCancelled       DealEventType = "deal.cancelled"
	EventDealDisputed        DealEventType = "deal.disputed"
	EventDealDisputeRefunded DealEventType = "deal.dispute_refunded"
	EventDealDisputeReleased DealEventType = "deal.dispute_released"
)

type DealEventPublisher interface {
	PublishDealEvent(ctx context.Context, eventType DealEventType, deal *Deal) error
}
