package domain

import "github.com/shopspring/decimal"

const (
	baseTrustScore      = 50
	completedTrustBonus = 5
	cancelledTrustCost  = 10
)

type DealSummary struct {
	DealCount      int
	CountsByStatus map[DealStatus]int
	HoldingBalance decimal.Decimal
	TrustScore     int
}

// Summarize derives the escrow projection from the deals themselves; nothing
// here is stored.
func Summarize(deals []*Deal) DealSummary {
	summary := DealSummary{
		DealCount:      len(deals),
		CountsByStatus: make(map[DealStatus]int),
		HoldingBalance: decimal.Zero,
	}
	for _, d := range deals {
		summary.CountsByStatus[d.Status]++
		if d.Status.HoldsFunds() {
			summary.HoldingBalance = summary.HoldingBalance.Add(d.TotalToPay)
		}
	}

	score := baseTrustScore +
		completedTrustBonus*summary.CountsByStatus[StatusCompleted] -
		cancelledTrustCost*summary.CountsByStatus[StatusCancelled]
	summary.TrustScore = min(100, max(0, score))

	return summary
}
