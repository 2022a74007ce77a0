package domain

import (
	"context"
	"time"
)

type DealRepository interface {
	CreateDeal(ctx context.Context, deal *Deal) error
	GetDealByID(ctx context.Context, dealID string) (*Deal, error)
	GetDealByReference(ctx context.Context, reference string) (*Deal, error)
	ListDeals(ctx context.Context, filter DealFilter) ([]*Deal, error)
	// UpdateDeal merges patch into the deal only if its current status is one
	// of expected. It returns ErrDealNotFound or ErrStatusMismatch otherwise.
	UpdateDeal(ctx context.Context, dealID string, expected []DealStatus, patch DealPatch) (*Deal, error)
}

type DealFilter struct {
	Statuses      []DealStatus
	CreatedBefore *time.Time
	Limit         int
	// OldestFirst sorts by creation time ascending. The default is newest first.
	OldestFirst bool
}
