package types

import (
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/samber/lo"
)

// InvoiceStatus represents the current state of an invoice in its lifecycle
type InvoiceStatus string

const (
	// InvoiceStatusDraft indicates invoice is in draft state and can be modified or deleted
	InvoiceStatusDraft InvoiceStatus = "DRAFT"
	// InvoiceStatusIssued indicates invoice has been issued to the client and is awaiting payment
	InvoiceStatusIssued InvoiceStatus = "ISSUED"
	// InvoiceStatusOverdue indicates an issued invoice whose due date has passed without payment.
	// It is derived at read time; a persisted ISSUED invoice past its due date reports OVERDUE.
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
	// InvoiceStatusPaid indicates payment has been confirmed for the invoice. Terminal.
	InvoiceStatusPaid InvoiceStatus = "PAID"
	// InvoiceStatusCanceled indicates the invoice has been canceled. Terminal.
	InvoiceStatusCanceled InvoiceStatus = "CANCELED"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusIssued,
		InvoiceStatusOverdue,
		InvoiceStatusPaid,
		InvoiceStatusCanceled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHintf("Invoice status must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsTerminal returns true for states that permit no further transitions
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCanceled
}

// IsPayable returns true when a payment confirmation may be applied
func (s InvoiceStatus) IsPayable() bool {
	return s == InvoiceStatusIssued || s == InvoiceStatusOverdue
}

// PaymentMethodType defines how a payment was made
type PaymentMethodType string

const (
	PaymentMethodTypeCard         PaymentMethodType = "card"
	PaymentMethodTypeBankTransfer PaymentMethodType = "bank_transfer"
	PaymentMethodTypeOther        PaymentMethodType = "other"
)

func (t PaymentMethodType) String() string {
	return string(t)
}

func (t PaymentMethodType) Validate() error {
	allowed := []PaymentMethodType{
		PaymentMethodTypeCard,
		PaymentMethodTypeBankTransfer,
		PaymentMethodTypeOther,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid payment method type").
			WithHintf("Payment method must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentStatus represents the state of a recorded payment
type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)
