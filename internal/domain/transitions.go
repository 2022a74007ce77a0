package domain

type Operation string

const (
	OpVerifyPayment  Operation = "verify-payment"
	OpConfirmReceipt Operation = "confirm-receipt"
	OpDispute        Operation = "dispute"
	OpCancel         Operation = "cancel"
	OpResolveRefund  Operation = "resolve-refund"
	OpResolveRelease Operation = "resolve-release"
)

type transition struct {
	from []DealStatus
	to   DealStatus
}

// Every edge of the deal lifecycle. Creation is the only way into
// pending_payment and is handled separately.
var transitions = map[Operation]transition{
	OpVerifyPayment:  {from: []DealStatus{StatusPendingPayment}, to: StatusPaid},
	OpConfirmReceipt: {from: []DealStatus{StatusPaid}, to: StatusCompleted},
	OpDispute:        {from: []DealStatus{StatusPaid}, to: StatusDisputed},
	OpCancel:         {from: []DealStatus{StatusPaid, StatusPendingPayment}, to: StatusCancelled},
	OpResolveRefund:  {from: []DealStatus{StatusDisputed}, to: StatusCancelled},
	OpResolveRelease: {from: []DealStatus{StatusDisputed}, to: StatusCompleted},
}

// AllowedFrom returns the statuses an operation may start from.
func AllowedFrom(op Operation) []DealStatus {
	t, ok := transitions[op]
	if !ok {
		return nil
	}
	out := make([]DealStatus, len(t.from))
	copy(out, t.from)
	return out
}

// Target returns the status an operation leads to.
func Target(op Operation) (DealStatus, bool) {
	t, ok := transitions[op]
	return t.to, ok
}

// CheckTransition returns the target status for op, or a *TransitionError
// when the deal's current status does not permit it.
func CheckTransition(d *Deal, op Operation) (DealStatus, error) {
	t, ok := transitions[op]
	if !ok {
		return "", &TransitionError{DealID: d.ID, Status: d.Status, Operation: op}
	}
	for _, s := range t.from {
		if d.Status == s {
			return t.to, nil
		}
	}
	return "", &TransitionError{DealID: d.ID, Status: d.Status, Operation: op}
}
