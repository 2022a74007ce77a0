package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/metrics"
	dealdto "github.com/LavaJover/safelink-deal-service/internal/usecase/dto/deal"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
)

type DealUsecase interface {
	CreateDeal(ctx context.Context, input *dealdto.CreateDealInput) (*dealdto.CreateDealOutput, error)
	VerifyPayment(ctx context.Context, reference string) (*domain.Deal, error)

	ConfirmReceipt(ctx context.Context, dealID string) (*domain.Deal, error)
	CancelDeal(ctx context.Context, dealID string) (*domain.Deal, error)
	OpenDispute(ctx context.Context, input *dealdto.DisputeInput) (*domain.Deal, error)
	ResolveDisputeRefund(ctx context.Context, dealID string) (*domain.Deal, error)
	ResolveDisputeRelease(ctx context.Context, dealID string) (*domain.Deal, error)

	GetDealByID(ctx context.Context, dealID string) (*domain.Deal, error)
	ListDeals(ctx context.Context, input *dealdto.ListDealsInput) ([]*domain.Deal, error)
	GetSummary(ctx context.Context) (*domain.DealSummary, error)
	PreviewFees(input *dealdto.FeePreviewInput) domain.FeeBreakdown

	ReconcilePendingPayments(ctx context.Context, input *dealdto.ReconcileInput) (*dealdto.ReconcileOutput, error)
}

type DefaultDealUsecase struct {
	DealRepo  domain.DealRepository
	Gateway   domain.PaymentGateway
	Publisher domain.DealEventPublisher
	Metrics   *metrics.DealMetrics
	FeeRates  domain.FeeRates

	now      func() time.Time
	validate *validator.Validate
	verifies singleflight.Group
}

func NewDefaultDealUsecase(
	dealRepo domain.DealRepository,
	gateway domain.PaymentGateway,
	publisher domain.DealEventPublisher,
	dealMetrics *metrics.DealMetrics,
	feeRates domain.FeeRates,
) *DefaultDealUsecase {

	return &DefaultDealUsecase{
		DealRepo:  dealRepo,
		Gateway:   gateway,
		Publisher: publisher,
		Metrics:   dealMetrics,
		FeeRates:  feeRates,
		now:       func() time.Time { return time.Now().UTC() },
		validate:  validator.New(),
	}
}

// WithClock replaces the time source, used by tests.
func (uc *DefaultDealUsecase) WithClock(now func() time.Time) *DefaultDealUsecase {
	uc.now = now
	return uc
}
