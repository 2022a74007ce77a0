package dealdto

import "github.com/LavaJover/safelink-deal-service/internal/domain"

type CreateDealOutput struct {
	Deal             *domain.Deal
	AuthorizationURL string
	PaymentDisabled  bool
	PaymentError     string
}

type ReconcileOutput struct {
	Checked int
	Paid    int
	Failed  int
}
