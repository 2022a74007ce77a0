package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
)

// ConfirmReceipt is the buyer's acknowledgement that the item arrived. It
// releases the escrowed funds by moving a paid deal to completed.
func (uc *DefaultDealUsecase) ConfirmReceipt(ctx context.Context, dealID string) (*domain.Deal, error) {
	deal, err := uc.processTransition(ctx, dealID, domain.OpConfirmReceipt, func(_ *domain.Deal, now time.Time) domain.DealPatch {
		return domain.DealPatch{CompletedAt: &now}
	})
	if err != nil {
		uc.recordErrorMetrics(string(domain.OpConfirmReceipt), err)
		return nil, err
	}

	uc.publishDealEvent(domain.EventDealCompleted, deal)
	return deal, nil
}
