package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
)

// A lost compare-and-swap is retried against the fresh status this many times
// before the operation gives up with an InvalidTransition.
const maxTransitionAttempts = 3

const publishTimeout = 10 * time.Second

type patchBuilder func(deal *domain.Deal, now time.Time) domain.DealPatch

// processTransition runs read -> guard -> conditional write for one lifecycle
// operation. The store only applies the patch if the deal is still in the
// status that was read, so concurrent operations on one deal cannot both win.
func (uc *DefaultDealUsecase) processTransition(ctx context.Context, dealID string, op domain.Operation, build patchBuilder) (*domain.Deal, error) {
	var deal *domain.Deal
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		var err error
		deal, err = uc.DealRepo.GetDealByID(ctx, dealID)
		if err != nil {
			return nil, err
		}

		to, err := domain.CheckTransition(deal, op)
		if err != nil {
			return nil, err
		}

		now := uc.now()
		patch := domain.DealPatch{}
		if build != nil {
			patch = build(deal, now)
		}
		patch.Status = to
		patch.UpdatedAt = now

		updated, err := uc.DealRepo.UpdateDeal(ctx, deal.ID, []domain.DealStatus{deal.Status}, patch)
		if errors.Is(err, domain.ErrStatusMismatch) {
			slog.Debug("deal status changed during transition, retrying", "deal_id", dealID, "operation", op, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to %s deal %s: %w", op, dealID, err)
		}

		slog.Info("deal transitioned", "deal_id", updated.ID, "operation", op, "from", deal.Status, "to", updated.Status)
		uc.recordTransitionMetrics(op, updated)
		return updated, nil
	}

	status := domain.DealStatus("")
	if deal != nil {
		status = deal.Status
	}
	return nil, &domain.TransitionError{DealID: dealID, Status: status, Operation: op}
}

func (uc *DefaultDealUsecase) publishDealEvent(eventType domain.DealEventType, deal *domain.Deal) {
	if uc.Publisher == nil {
		return
	}
	snapshot := *deal
	go func(eventType domain.DealEventType, deal domain.Deal) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := uc.Publisher.PublishDealEvent(ctx, eventType, &deal); err != nil {
			slog.Error("failed to publish deal event", "event", eventType, "deal_id", deal.ID, "error", err.Error())
		}
	}(eventType, snapshot)
}
