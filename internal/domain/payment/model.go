package payment

import (
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/shopspring/decimal"
)

// Payment is the immutable record of one confirmed payment against an
// invoice. It is written once during reconciliation and never mutated.
type Payment struct {
	// Unique identifier for this payment record
	ID string `json:"id"`
	// ReceiptNumber is the short human-facing reference printed on receipts
	ReceiptNumber string `json:"receipt_number,omitempty"`
	// IdempotencyKey prevents duplicate confirmation processing
	IdempotencyKey string `json:"idempotency_key"`
	// InvoiceID is the invoice this payment settled
	InvoiceID string `json:"invoice_id"`
	// ClientID is the owning client, denormalized for ledger queries
	ClientID string `json:"client_id"`
	// Amount actually received
	Amount decimal.Decimal `json:"amount"`
	// Difference is amount minus the invoice total at confirmation time
	Difference decimal.Decimal `json:"difference"`
	// PaymentMethodType defines how the payment was made
	PaymentMethodType types.PaymentMethodType `json:"payment_method_type"`
	// PaymentStatus is the outcome of the confirmation
	PaymentStatus types.PaymentStatus `json:"payment_status"`
	// GatewayChargeID is the processor's charge identifier for card
	// payments confirmed through the gateway (optional)
	GatewayChargeID *string `json:"gateway_charge_id,omitempty"`
	// RecordedAt is when the confirmation was applied
	RecordedAt types.Timestamp `json:"recorded_at"`
	// Metadata holds additional custom key-value pairs (optional)
	Metadata types.Metadata `json:"metadata,omitempty"`

	types.BaseModel
}

// Validate validates the payment record
func (p *Payment) Validate() error {
	if p.InvoiceID == "" {
		return ierr.NewError("invalid invoice id").
			WithHint("Payment must reference an invoice").
			Mark(ierr.ErrValidation)
	}
	if p.ClientID == "" {
		return ierr.NewError("invalid client id").
			WithHint("Payment must reference a client").
			Mark(ierr.ErrValidation)
	}
	if p.Amount.IsNegative() {
		return ierr.NewError("invalid amount").
			WithHint("Amount must not be negative").
			Mark(ierr.ErrValidation)
	}
	if err := p.PaymentMethodType.Validate(); err != nil {
		return err
	}
	return nil
}
