package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	dealdto "github.com/LavaJover/safelink-deal-service/internal/usecase/dto/deal"
)

const defaultReconcileBatchSize = 50

// ReconcilePendingPayments re-verifies deals that have been waiting for
// payment longer than MinAge. It recovers payments whose redirect back to the
// client never happened. Per-deal failures are logged and counted, only a
// failure to list deals is returned. The caller logs the pass summary.
func (uc *DefaultDealUsecase) ReconcilePendingPayments(ctx context.Context, input *dealdto.ReconcileInput) (*dealdto.ReconcileOutput, error) {
	batchSize := defaultReconcileBatchSize
	// Oldest first, so a backlog of abandoned deals cannot starve older ones.
	filter := domain.DealFilter{
		Statuses:    []domain.DealStatus{domain.StatusPendingPayment},
		OldestFirst: true,
	}
	if input != nil {
		if input.BatchSize > 0 {
			batchSize = input.BatchSize
		}
		if input.MinAge > 0 {
			cutoff := uc.now().Add(-input.MinAge)
			filter.CreatedBefore = &cutoff
		}
	}
	filter.Limit = batchSize

	deals, err := uc.DealRepo.ListDeals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending deals: %w", err)
	}

	out := &dealdto.ReconcileOutput{}
	for _, deal := range deals {
		if ctx.Err() != nil {
			break
		}
		out.Checked++

		_, err := uc.VerifyPayment(ctx, deal.Reference)
		switch {
		case err == nil:
			out.Paid++
			uc.recordReconcileOutcome("paid")
		case errors.Is(err, domain.ErrPaymentNotSuccessful):
			slog.Debug("pending deal still unpaid", "deal_id", deal.ID, "reference", deal.Reference)
			uc.recordReconcileOutcome("unpaid")
		case errors.Is(err, domain.ErrInvalidTransition):
			// cancelled while we were looking at it
			uc.recordReconcileOutcome("skipped")
		case errors.Is(err, domain.ErrGatewayUnavailable):
			out.Failed++
			slog.Warn("gateway unavailable during reconciliation", "deal_id", deal.ID, "error", err.Error())
			uc.recordReconcileOutcome("failed")
		default:
			out.Failed++
			slog.Error("failed to reconcile pending deal", "deal_id", deal.ID, "error", err.Error())
			uc.recordReconcileOutcome("failed")
		}
	}

	return out, nil
}
