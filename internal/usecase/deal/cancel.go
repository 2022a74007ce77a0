package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
)

// CancelDeal cancels a deal that is still awaiting payment or is paid but not
// yet completed. Refunding a paid buyer is handled outside the service.
func (uc *DefaultDealUsecase) CancelDeal(ctx context.Context, dealID string) (*domain.Deal, error) {
	deal, err := uc.processTransition(ctx, dealID, domain.OpCancel, func(_ *domain.Deal, now time.Time) domain.DealPatch {
		return domain.DealPatch{CancelledAt: &now}
	})
	if err != nil {
		uc.recordErrorMetrics(string(domain.OpCancel), err)
		return nil, err
	}

	uc.publishDealEvent(domain.EventDealCancelled, deal)
	return deal, nil
}
