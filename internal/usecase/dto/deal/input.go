package dealdto

import "time"

type CreateDealInput struct {
	ItemName   string `validate:"required,max=200"`
	Price      string `validate:"required,max=32"`
	SellerMoMo string `validate:"required,max=64"`
	BuyerEmail string `validate:"required,max=254"`
}

type DisputeInput struct {
	DealID string
	Reason string `validate:"max=1000"`
}

type ListDealsInput struct {
	Statuses []string
}

type FeePreviewInput struct {
	Amount      string
	IncludeLevy bool
}

type ReconcileInput struct {
	MinAge    time.Duration
	BatchSize int
}
