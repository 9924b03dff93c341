package events

import (
	"time"

	"github.com/invoflow/invoflow/internal/types"
	"github.com/invoflow/invoflow/internal/validator"
	"github.com/shopspring/decimal"
)

const (
	EventPaymentReconciled     = "payment.reconciled"
	EventBulkPaymentReconciled = "payment.bulk_reconciled"
	EventInvoiceFinalized      = "invoice.finalized"
	EventInvoiceCanceled       = "invoice.canceled"
)

// Event represents a reconciliation event emitted after an invoice state change
type Event struct {
	// Unique identifier for the event
	ID string `json:"id" validate:"required"`

	// Tenant identifier
	TenantID string `json:"tenant_id" validate:"required"`

	// Event name identifies the kind of state change, ex payment.reconciled
	EventName string `json:"event_name" validate:"required"`

	// Invoice the event refers to
	InvoiceID string `json:"invoice_id"`

	// Client owning the invoice
	ClientID string `json:"client_id"`

	// Amount involved in the state change
	Amount decimal.Decimal `json:"amount"`

	// Difference between the paid amount and the invoiced total, if any
	Difference decimal.Decimal `json:"difference"`

	// Source of the event
	Source string `json:"source"`

	// Timestamp of the state change
	Timestamp time.Time `json:"timestamp" validate:"required"`

	// Additional properties
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// NewEvent creates a new event with defaults
func NewEvent(eventName, tenantID, invoiceID, clientID string, amount, difference decimal.Decimal, timestamp time.Time) *Event {
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	} else {
		timestamp = timestamp.UTC()
	}

	return &Event{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_EVENT),
		TenantID:   tenantID,
		EventName:  eventName,
		InvoiceID:  invoiceID,
		ClientID:   clientID,
		Amount:     amount,
		Difference: difference,
		Source:     "invoflow",
		Timestamp:  timestamp,
	}
}

// Validate validates the event
func (e *Event) Validate() error {
	return validator.ValidateRequest(e)
}
