package client

import (
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/shopspring/decimal"
)

// Client represents a billed client of the tenant. AccumulatedDifference
// and LastPaidPeriod are mutated only through payment reconciliation,
// never directly by callers.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// BillingFrequency is how often the management fee is billed
	BillingFrequency types.BillingFrequency `json:"billing_frequency"`

	// CurrentManagementFee is the recurring fee billed per period
	CurrentManagementFee decimal.Decimal `json:"current_management_fee"`

	// AccumulatedDifference is the running total of (paid - billed) across
	// all settled invoices. Positive means the client is in credit,
	// negative means the client owes a shortfall. It is the sole source of
	// truth for future invoice adjustments.
	AccumulatedDifference decimal.Decimal `json:"accumulated_difference"`

	// LastPaidPeriod is the most recent billing period with a confirmed
	// payment. Monotonic: confirmations only ever advance it.
	LastPaidPeriod types.BillingMonth `json:"last_paid_period,omitempty"`

	// PaymentMethodRef is the processor's reference for the client's saved
	// payment method, when card charging is enabled
	PaymentMethodRef string `json:"payment_method_ref,omitempty"`

	// Version guards the ledger's read-modify-write cycle in the store
	Version int `json:"version"`

	types.BaseModel
}

// Validate validates the client
func (c *Client) Validate() error {
	if c.Name == "" {
		return ierr.NewError("client name is required").
			WithHint("Name must not be empty").
			Mark(ierr.ErrValidation)
	}
	if err := c.BillingFrequency.Validate(); err != nil {
		return err
	}
	if !c.CurrentManagementFee.IsPositive() {
		return ierr.NewError("invalid management fee").
			WithHint("Management fee must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	if err := c.LastPaidPeriod.Validate(); err != nil {
		return err
	}
	return nil
}

// ApplyReconciliation folds a settled payment into the client ledger:
// the payment difference accumulates and the last paid period advances
// monotonically. Both fields change in the same write.
func (c *Client) ApplyReconciliation(difference decimal.Decimal, period types.BillingMonth) {
	c.AccumulatedDifference = c.AccumulatedDifference.Add(difference)
	c.LastPaidPeriod = c.LastPaidPeriod.Max(period)
}
