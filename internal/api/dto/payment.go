package dto

import (
	"time"

	"github.com/invoflow/invoflow/internal/domain/payment"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/shopspring/decimal"
)

// ConfirmPaymentRequest represents a request to confirm a payment against
// an invoice
type ConfirmPaymentRequest struct {
	InvoiceID         string                  `json:"invoice_id" binding:"required"`
	Amount            decimal.Decimal         `json:"amount" binding:"required"`
	PaymentMethodType types.PaymentMethodType `json:"payment_method_type" binding:"required"`
	PaidAt            *time.Time              `json:"paid_at,omitempty"`
	IdempotencyKey    string                  `json:"idempotency_key,omitempty"`
	Metadata          types.Metadata          `json:"metadata,omitempty"`
}

func (r *ConfirmPaymentRequest) Validate() error {
	if r.Amount.IsNegative() {
		return ierr.NewError("invalid amount").
			WithHint("Amount must not be negative").
			Mark(ierr.ErrValidation)
	}
	return r.PaymentMethodType.Validate()
}

// ChargePaymentRequest represents a request to charge the client's stored
// payment method for the full invoice amount and confirm the result
type ChargePaymentRequest struct {
	InvoiceID      string         `json:"invoice_id" binding:"required"`
	Currency       string         `json:"currency,omitempty"`
	IdempotencyKey string         `json:"idempotency_key,omitempty"`
	Metadata       types.Metadata `json:"metadata,omitempty"`
}

// BulkConfirmItem identifies one invoice inside a bulk confirmation
type BulkConfirmItem struct {
	InvoiceID string     `json:"invoice_id" binding:"required"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

// BulkConfirmPaymentsRequest represents a bulk confirmation. Every invoice
// must belong to the same client; each item settles its full invoice amount.
type BulkConfirmPaymentsRequest struct {
	ClientID          string                  `json:"client_id" binding:"required"`
	PaymentMethodType types.PaymentMethodType `json:"payment_method_type" binding:"required"`
	Items             []BulkConfirmItem       `json:"items" binding:"required,min=1"`
	PaidAt            *time.Time              `json:"paid_at,omitempty"`
	IdempotencyKey    string                  `json:"idempotency_key,omitempty"`
}

func (r *BulkConfirmPaymentsRequest) Validate() error {
	if len(r.Items) == 0 {
		return ierr.NewError("no items to confirm").
			WithHint("Bulk confirmation requires at least one invoice").
			Mark(ierr.ErrValidation)
	}
	return r.PaymentMethodType.Validate()
}

// BulkConfirmFailure describes one invoice that could not be confirmed
type BulkConfirmFailure struct {
	InvoiceID string `json:"invoice_id"`
	Reason    string `json:"reason"`
}

// BulkConfirmPaymentsResponse is the per-item outcome of a bulk confirmation
type BulkConfirmPaymentsResponse struct {
	Succeeded []string             `json:"succeeded"`
	Failed    []BulkConfirmFailure `json:"failed"`
}

// PaymentResponse represents a payment record
type PaymentResponse struct {
	*payment.Payment
}

// NewPaymentResponse creates a payment response from a domain payment
func NewPaymentResponse(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{Payment: p}
}

// ListPaymentsResponse represents a paginated list of payments
type ListPaymentsResponse struct {
	Items []*PaymentResponse `json:"items"`
	Total int                `json:"total"`
}
