package types

import (
	"time"

	ierr "github.com/invoflow/invoflow/internal/errors"
)

// BillingMonth identifies a billing period month as "YYYY-MM".
// The zero value means "no period recorded yet" and compares before
// every valid month.
type BillingMonth string

const billingMonthLayout = "2006-01"

// ParseBillingMonth parses a "YYYY-MM" string
func ParseBillingMonth(s string) (BillingMonth, error) {
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(billingMonthLayout, s); err != nil {
		return "", ierr.WithError(err).
			WithHintf("Billing month must be in YYYY-MM format, got %q", s).
			Mark(ierr.ErrValidation)
	}
	return BillingMonth(s), nil
}

// BillingMonthFromTime derives the billing month of a point in time (UTC)
func BillingMonthFromTime(t time.Time) BillingMonth {
	return BillingMonth(t.UTC().Format(billingMonthLayout))
}

func (m BillingMonth) String() string {
	return string(m)
}

func (m BillingMonth) IsZero() bool {
	return m == ""
}

// Before reports whether m is strictly earlier than other.
// Zero-padded "YYYY-MM" strings order lexically.
func (m BillingMonth) Before(other BillingMonth) bool {
	if m.IsZero() {
		return !other.IsZero()
	}
	return string(m) < string(other)
}

// Max returns the later of the two months. Used to keep a client's
// last paid period monotonically non-decreasing.
func (m BillingMonth) Max(other BillingMonth) BillingMonth {
	if m.Before(other) {
		return other
	}
	return m
}

func (m BillingMonth) Validate() error {
	_, err := ParseBillingMonth(string(m))
	return err
}
