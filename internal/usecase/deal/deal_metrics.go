package usecase

import (
	"errors"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
)

const (
	verifyResultPaid          = "paid"
	verifyResultAlreadyPaid   = "already_paid"
	verifyResultNotFound      = "not_found"
	verifyResultInvalidState  = "invalid_state"
	verifyResultNotSuccessful = "not_successful"
	verifyResultUnderpaid     = "underpaid"
	verifyResultGatewayError  = "gateway_error"
)

// recordDealCreatedMetrics is called once a deal is persisted
func (uc *DefaultDealUsecase) recordDealCreatedMetrics(deal *domain.Deal) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordDealCreated(deal.TotalToPay.InexactFloat64(), deal.ServiceFee.InexactFloat64())
}

func (uc *DefaultDealUsecase) recordTransitionMetrics(op domain.Operation, deal *domain.Deal) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordTransition(string(op), string(deal.Status))
}

func (uc *DefaultDealUsecase) recordVerification(result string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordVerification(result)
}

func (uc *DefaultDealUsecase) recordTimeToPayment(deal *domain.Deal) {
	if uc.Metrics == nil || deal.PaidAt == nil {
		return
	}
	uc.Metrics.RecordTimeToPayment(deal.PaidAt.Sub(deal.CreatedAt).Seconds())
}

func (uc *DefaultDealUsecase) recordGatewayInitFailure() {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordGatewayInitFailure()
}

// recordErrorMetrics counts a failed operation under the kind of its error
func (uc *DefaultDealUsecase) recordErrorMetrics(operation string, err error) {
	if uc.Metrics == nil || err == nil {
		return
	}
	uc.Metrics.RecordError(operation, errorKind(err))
}

func (uc *DefaultDealUsecase) recordReconcileOutcome(outcome string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordReconcileOutcome(outcome)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrDealNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrPaymentNotSuccessful):
		return "payment_not_successful"
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return "gateway_unavailable"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	}
	return "internal"
}
