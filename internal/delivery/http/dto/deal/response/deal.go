package response

import (
	"encoding/json"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/shopspring/decimal"
)

type Deal struct {
	ID               string          `json:"id"`
	SchemaVersion    int             `json:"schemaVersion"`
	ItemName         string          `json:"itemName"`
	Price            json.Number     `json:"price"`
	ServiceFee       json.Number     `json:"serviceFee"`
	TotalToPay       json.Number     `json:"totalToPay"`
	SellerMoMo       string          `json:"sellerMoMo"`
	BuyerEmail       string          `json:"buyerEmail"`
	Status           string          `json:"status"`
	Reference        string          `json:"reference"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	PaidAt           *time.Time      `json:"paidAt,omitempty"`
	CompletedAt      *time.Time      `json:"completedAt,omitempty"`
	CancelledAt      *time.Time      `json:"cancelledAt,omitempty"`
	DisputedAt       *time.Time      `json:"disputedAt,omitempty"`
	PaymentReference string          `json:"paymentReference,omitempty"`
	PaystackData     json.RawMessage `json:"paystackData,omitempty"`
	DisputeReason    string          `json:"disputeReason,omitempty"`
	Resolution       string          `json:"resolution,omitempty"`
}

// Money renders a decimal as a JSON number with two fraction digits.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func FromDomain(d *domain.Deal) Deal {
	return Deal{
		ID:               d.ID,
		SchemaVersion:    d.SchemaVersion,
		ItemName:         d.ItemName,
		Price:            Money(d.Price),
		ServiceFee:       Money(d.ServiceFee),
		TotalToPay:       Money(d.TotalToPay),
		SellerMoMo:       d.SellerMoMo,
		BuyerEmail:       d.BuyerEmail,
		Status:           string(d.Status),
		Reference:        d.Reference,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		PaidAt:           d.PaidAt,
		CompletedAt:      d.CompletedAt,
		CancelledAt:      d.CancelledAt,
		DisputedAt:       d.DisputedAt,
		PaymentReference: d.PaymentReference,
		PaystackData:     d.GatewayPayload,
		DisputeReason:    d.DisputeReason,
		Resolution:       string(d.Resolution),
	}
}

func FromDomainList(deals []*domain.Deal) []Deal {
	out := make([]Deal, 0, len(deals))
	for _, d := range deals {
		out = append(out, FromDomain(d))
	}
	return out
}

type DealEnvelope struct {
	Deal Deal `json:"deal"`
}

type CreateDealResponse struct {
	Deal             Deal    `json:"deal"`
	AuthorizationURL *string `json:"authorizationUrl"`
	PaymentDisabled  bool    `json:"paymentDisabled"`
	PaymentError     *string `json:"paymentError"`
}

type FeeBreakdown struct {
	Base                  json.Number `json:"base"`
	ServiceFee            json.Number `json:"serviceFee"`
	SecondaryLevyEstimate json.Number `json:"secondaryLevyEstimate"`
	TotalToLock           json.Number `json:"totalToLock"`
	EstimatedTotalDebit   json.Number `json:"estimatedTotalDebit"`
	ServiceFeeRate        json.Number `json:"serviceFeeRate"`
	LevyRate              json.Number `json:"levyRate"`
	IncludeLevy           bool        `json:"includeLevy"`
}

func FromFeeBreakdown(b domain.FeeBreakdown) FeeBreakdown {
	return FeeBreakdown{
		Base:                  Money(b.Base),
		ServiceFee:            Money(b.ServiceFee),
		SecondaryLevyEstimate: Money(b.SecondaryLevyEstimate),
		TotalToLock:           Money(b.TotalToLock),
		EstimatedTotalDebit:   Money(b.EstimatedTotalDebit),
		ServiceFeeRate:        json.Number(b.ServiceFeeRate.String()),
		LevyRate:              json.Number(b.LevyRate.String()),
		IncludeLevy:           b.IncludeLevy,
	}
}

type Summary struct {
	DealCount      int            `json:"dealCount"`
	CountsByStatus map[string]int `json:"countsByStatus"`
	HoldingBalance json.Number    `json:"holdingBalance"`
	TrustScore     int            `json:"trustScore"`
}

func FromSummary(s *domain.DealSummary) Summary {
	counts := make(map[string]int, len(s.CountsByStatus))
	for status, n := range s.CountsByStatus {
		counts[string(status)] = n
	}
	return Summary{
		DealCount:      s.DealCount,
		CountsByStatus: counts,
		HoldingBalance: Money(s.HoldingBalance),
		TrustScore:     s.TrustScore,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
