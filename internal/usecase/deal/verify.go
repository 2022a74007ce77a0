package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

const sharedVerifyTimeout = time.Minute

// VerifyPayment confirms the gateway payment behind reference and moves the
// deal from pending_payment to paid. Repeated calls for a deal that has
// already been paid return the stored deal untouched. Concurrent calls for
// the same reference share a single gateway round trip.
func (uc *DefaultDealUsecase) VerifyPayment(ctx context.Context, reference string) (*domain.Deal, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, &domain.ValidationError{Field: "reference", Reason: "is required"}
	}

	// The shared call must not inherit one caller's cancellation; each caller
	// stops waiting on its own context instead.
	ch := uc.verifies.DoChan(reference, func() (interface{}, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedVerifyTimeout)
		defer cancel()
		return uc.verifyPayment(sharedCtx, reference)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Shared {
		slog.Debug("verify-payment coalesced with in-flight call", "reference", reference)
	}
	if res.Err != nil {
		return nil, res.Err
	}
	deal := res.Val.(*domain.Deal)
	// Each caller gets its own copy of the shared result.
	out := *deal
	return &out, nil
}

func (uc *DefaultDealUsecase) verifyPayment(ctx context.Context, reference string) (*domain.Deal, error) {
	deal, err := uc.DealRepo.GetDealByReference(ctx, reference)
	if err != nil {
		uc.recordVerification(verifyResultNotFound)
		return nil, err
	}
	if done, err := alreadyVerified(deal); done || err != nil {
		return uc.finishNoop(deal, err)
	}

	result, err := uc.Gateway.VerifyPayment(ctx, reference)
	if err != nil {
		uc.recordVerification(verifyResultGatewayError)
		return nil, err
	}
	if result == nil || result.Status != domain.GatewayStatusSuccess {
		status := "empty response"
		if result != nil {
			status = result.Status
		}
		slog.Warn("payment verification not successful", "deal_id", deal.ID, "reference", reference, "gateway_status", status)
		uc.recordVerification(verifyResultNotSuccessful)
		return nil, fmt.Errorf("%w: gateway status %q", domain.ErrPaymentNotSuccessful, status)
	}
	if result.Amount.LessThan(deal.TotalToPay) {
		slog.Warn("payment verified for less than the deal total",
			"deal_id", deal.ID, "paid", result.Amount.StringFixed(2), "expected", deal.TotalToPay.StringFixed(2))
		uc.recordVerification(verifyResultUnderpaid)
		return nil, fmt.Errorf("%w: paid %s, expected %s",
			domain.ErrPaymentNotSuccessful, result.Amount.StringFixed(2), deal.TotalToPay.StringFixed(2))
	}

	now := uc.now()
	patch := domain.DealPatch{
		Status:           domain.StatusPaid,
		PaidAt:           &now,
		PaymentReference: reference,
		GatewayPayload:   result.RawPayload,
		UpdatedAt:        now,
	}
	updated, err := uc.DealRepo.UpdateDeal(ctx, deal.ID, []domain.DealStatus{domain.StatusPendingPayment}, patch)
	if errors.Is(err, domain.ErrStatusMismatch) {
		// Another process moved the deal between our read and write.
		current, gerr := uc.DealRepo.GetDealByID(ctx, deal.ID)
		if gerr != nil {
			return nil, gerr
		}
		if done, err := alreadyVerified(current); done || err != nil {
			return uc.finishNoop(current, err)
		}
		return nil, &domain.TransitionError{DealID: deal.ID, Status: current.Status, Operation: domain.OpVerifyPayment}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark deal %s paid: %w", deal.ID, err)
	}

	slog.Info("deal transitioned", "deal_id", updated.ID, "operation", domain.OpVerifyPayment, "from", deal.Status, "to", updated.Status)
	uc.recordTransitionMetrics(domain.OpVerifyPayment, updated)
	uc.recordVerification(verifyResultPaid)
	uc.recordTimeToPayment(updated)
	uc.publishDealEvent(domain.EventDealPaid, updated)
	return updated, nil
}

// alreadyVerified reports whether verify-payment is a no-op for the deal. A
// deal that was paid at some point is returned as is; any other deal that is
// no longer awaiting payment cannot be paid.
func alreadyVerified(deal *domain.Deal) (bool, error) {
	if deal.PaidAt != nil {
		return true, nil
	}
	if deal.Status != domain.StatusPendingPayment {
		return false, &domain.TransitionError{DealID: deal.ID, Status: deal.Status, Operation: domain.OpVerifyPayment}
	}
	return false, nil
}

func (uc *DefaultDealUsecase) finishNoop(deal *domain.Deal, err error) (*domain.Deal, error) {
	if err != nil {
		uc.recordVerification(verifyResultInvalidState)
		return nil, err
	}
	slog.Info("verify-payment on already paid deal, nothing to do", "deal_id", deal.ID, "status", deal.Status)
	uc.recordVerification(verifyResultAlreadyPaid)
	return deal, nil
}
