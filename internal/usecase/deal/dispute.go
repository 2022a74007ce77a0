package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	dealdto "github.com/LavaJover/safelink-deal-service/internal/usecase/dto/deal"
	"github.com/go-playground/validator/v10"
)

// OpenDispute freezes a paid deal. Funds stay held until the dispute is
// resolved one way or the other.
func (uc *DefaultDealUsecase) OpenDispute(ctx context.Context, input *dealdto.DisputeInput) (*domain.Deal, error) {
	if input == nil {
		return nil, &domain.ValidationError{Field: "request", Reason: "is empty"}
	}
	input.Reason = strings.TrimSpace(input.Reason)
	if err := uc.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			err = &domain.ValidationError{Field: fieldName(fieldErrs[0].Field()), Reason: describeTag(fieldErrs[0])}
		}
		uc.recordErrorMetrics(string(domain.OpDispute), err)
		return nil, err
	}

	deal, err := uc.processTransition(ctx, input.DealID, domain.OpDispute, func(_ *domain.Deal, now time.Time) domain.DealPatch {
		return domain.DealPatch{DisputedAt: &now, DisputeReason: input.Reason}
	})
	if err != nil {
		uc.recordErrorMetrics(string(domain.OpDispute), err)
		return nil, err
	}

	uc.publishDealEvent(domain.EventDealDisputed, deal)
	return deal, nil
}

// ResolveDisputeRefund settles a dispute in the buyer's favour; the deal ends cancelled.
func (uc *DefaultDealUsecase) ResolveDisputeRefund(ctx context.Context, dealID string) (*domain.Deal, error) {
	deal, err := uc.processTransition(ctx, dealID, domain.OpResolveRefund, func(_ *domain.Deal, now time.Time) domain.DealPatch {
		return domain.DealPatch{CancelledAt: &now, Resolution: domain.ResolutionRefund}
	})
	if err != nil {
		uc.recordErrorMetrics(string(domain.OpResolveRefund), err)
		return nil, err
	}

	uc.publishDealEvent(domain.EventDealDisputeRefunded, deal)
	return deal, nil
}

// ResolveDisputeRelease settles a dispute in the seller's favour; the deal ends completed.
func (uc *DefaultDealUsecase) ResolveDisputeRelease(ctx context.Context, dealID string) (*domain.Deal, error) {
	deal, err := uc.processTransition(ctx, dealID, domain.OpResolveRelease, func(_ *domain.Deal, now time.Time) domain.DealPatch {
		return domain.DealPatch{CompletedAt: &now, Resolution: domain.ResolutionRelease}
	})
	if err != nil {
		uc.recordErrorMetrics(string(domain.OpResolveRelease), err)
		return nil, err
	}

	uc.publishDealEvent(domain.EventDealDisputeReleased, deal)
	return deal, nil
}
