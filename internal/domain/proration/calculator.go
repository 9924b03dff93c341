package proration

import (
	"time"

	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/shopspring/decimal"
)

// Calculator computes prorated amounts: a percentage-based deductible
// (expense business-use ratio) and a day-based partial-period fee credit.
type Calculator interface {
	// Deductible scales fullAmount by an integer percentage ratio (0-100)
	// with round-half-up semantics. A ratio of 0 yields zero and a ratio
	// of 100 yields fullAmount unchanged, exactly.
	Deductible(fullAmount decimal.Decimal, ratio int) (decimal.Decimal, error)

	// PeriodCredit computes the creditable share of fullAmount for the
	// unused remainder of a billing period, by whole days. The change day
	// counts toward the credited remainder; the period end is exclusive.
	PeriodCredit(fullAmount decimal.Decimal, periodStart, periodEnd, changeDate time.Time) (decimal.Decimal, error)
}

// NewCalculator creates the default proration calculator
func NewCalculator() Calculator {
	return &calculator{}
}

type calculator struct{}

var oneHundred = decimal.NewFromInt(100)

func (c *calculator) Deductible(fullAmount decimal.Decimal, ratio int) (decimal.Decimal, error) {
	if fullAmount.IsNegative() {
		return decimal.Zero, ierr.NewError("invalid full amount").
			WithHint("Amount must not be negative").
			Mark(ierr.ErrValidation)
	}
	if ratio < 0 || ratio > 100 {
		return decimal.Zero, ierr.NewError("invalid ratio").
			WithHintf("Ratio must be an integer percentage between 0 and 100, got %d", ratio).
			Mark(ierr.ErrValidation)
	}

	switch ratio {
	case 0:
		return decimal.Zero, nil
	case 100:
		// exact round-trip, no scaling applied at all
		return fullAmount, nil
	}

	// Round is half away from zero, which is round-half-up for the
	// non-negative amounts handled here
	return fullAmount.Mul(decimal.NewFromInt(int64(ratio))).Div(oneHundred).Round(0), nil
}

func (c *calculator) PeriodCredit(fullAmount decimal.Decimal, periodStart, periodEnd, changeDate time.Time) (decimal.Decimal, error) {
	if fullAmount.IsNegative() {
		return decimal.Zero, ierr.NewError("invalid full amount").
			WithHint("Amount must not be negative").
			Mark(ierr.ErrValidation)
	}

	totalDays := wholeDays(periodStart, periodEnd)
	if totalDays <= 0 {
		return decimal.Zero, ierr.NewError("invalid billing period").
			WithHintf("Period end %s must be after period start %s",
				periodEnd.Format(time.DateOnly), periodStart.Format(time.DateOnly)).
			Mark(ierr.ErrValidation)
	}

	remainingDays := wholeDays(changeDate, periodEnd)
	if remainingDays < 0 {
		remainingDays = 0 // change happened after the period ended
	}
	if remainingDays > totalDays {
		remainingDays = totalDays
	}

	coefficient := decimal.NewFromInt(int64(remainingDays)).
		Div(decimal.NewFromInt(int64(totalDays)))
	return fullAmount.Mul(coefficient).Round(0), nil
}

func wholeDays(from, to time.Time) int {
	return int(to.UTC().Truncate(24*time.Hour).Sub(from.UTC().Truncate(24*time.Hour)).Hours() / 24)
}
