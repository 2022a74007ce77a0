package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// MaxAmount is the largest price or total a deal can carry. It is the
	// range of the numeric(18,2) amount columns.
	MaxAmount = decimal.RequireFromString("9999999999999999.99")

	ErrAmountFormat   = errors.New("must be a plain decimal number")
	ErrAmountTooLarge = errors.New("must not exceed " + MaxAmount.StringFixed(2))
)

// MaxAmountLength bounds the text of an amount before it is parsed.
const MaxAmountLength = 32

var (
	DefaultServiceFeeRate = decimal.RequireFromString("0.01")
	DefaultLevyRate       = decimal.RequireFromString("0.01")
)

// FeeRates is fixed at configuration time and passed to the calculator
// explicitly so that previews and persisted deals agree.
type FeeRates struct {
	ServiceFeeRate decimal.Decimal
	LevyRate       decimal.Decimal
}

func DefaultFeeRates() FeeRates {
	return FeeRates{ServiceFeeRate: DefaultServiceFeeRate, LevyRate: DefaultLevyRate}
}

type FeeBreakdown struct {
	Base                  decimal.Decimal
	ServiceFee            decimal.Decimal
	SecondaryLevyEstimate decimal.Decimal
	TotalToLock           decimal.Decimal
	EstimatedTotalDebit   decimal.Decimal
	ServiceFeeRate        decimal.Decimal
	LevyRate              decimal.Decimal
	IncludeLevy           bool
}

// CalculateFees computes the service fee, the informational levy estimate and
// the totals for a base amount. Negative bases are clamped to zero. Each
// output is rounded to cents; the totals are derived from the unrounded
// products and rounded once.
func CalculateFees(base decimal.Decimal, rates FeeRates, includeLevy bool) FeeBreakdown {
	if base.IsNegative() {
		base = decimal.Zero
	}
	serviceFee := base.Mul(rates.ServiceFeeRate)
	levy := decimal.Zero
	if includeLevy {
		levy = base.Mul(rates.LevyRate)
	}
	totalToLock := base.Add(serviceFee)
	estimated := totalToLock.Add(levy)

	return FeeBreakdown{
		Base:                  round2(base),
		ServiceFee:            round2(serviceFee),
		SecondaryLevyEstimate: round2(levy),
		TotalToLock:           round2(totalToLock),
		EstimatedTotalDebit:   round2(estimated),
		ServiceFeeRate:        rates.ServiceFeeRate,
		LevyRate:              rates.LevyRate,
		IncludeLevy:           includeLevy,
	}
}

// ParseDecimalAmount parses a plain decimal amount such as "120.50".
// Exponent notation, overlong text and values above MaxAmount are rejected
// before any arithmetic runs on them.
func ParseDecimalAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > MaxAmountLength || strings.ContainsAny(raw, "eE") {
		return decimal.Zero, ErrAmountFormat
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrAmountFormat
	}
	if d.GreaterThan(MaxAmount) {
		return decimal.Zero, ErrAmountTooLarge
	}
	return d, nil
}

// ParseAmount reads a user supplied amount for previews. Anything that
// ParseDecimalAmount rejects yields zero, matching the calculator's clamping
// rule.
func ParseAmount(raw string) decimal.Decimal {
	d, err := ParseDecimalAmount(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// round2 rounds half away from zero, which is half-up for the non-negative
// amounts the calculator produces.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
