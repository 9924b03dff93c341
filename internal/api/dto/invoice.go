package dto

import (
	"time"

	"github.com/invoflow/invoflow/internal/domain/invoice"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest represents a request to create a draft invoice
type CreateInvoiceRequest struct {
	ClientID           string          `json:"client_id" binding:"required"`
	TotalAmount        decimal.Decimal `json:"total_amount" binding:"required"`
	BillingPeriodStart *time.Time      `json:"billing_period_start,omitempty"`
	BillingPeriodEnd   *time.Time      `json:"billing_period_end,omitempty"`
	BillingMonth       string          `json:"billing_month,omitempty"`
	Metadata           types.Metadata  `json:"metadata,omitempty"`
}

// ToInvoice builds a draft invoice from the request. Issue and due dates
// are derived from the tenant's settings by the service.
func (r *CreateInvoiceRequest) ToInvoice() (*invoice.Invoice, error) {
	billingMonth, err := types.ParseBillingMonth(r.BillingMonth)
	if err != nil {
		return nil, err
	}

	return &invoice.Invoice{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		ClientID:           r.ClientID,
		Status:             types.InvoiceStatusDraft,
		TotalAmount:        r.TotalAmount,
		BillingPeriodStart: r.BillingPeriodStart,
		BillingPeriodEnd:   r.BillingPeriodEnd,
		BillingMonth:       billingMonth,
		Metadata:           r.Metadata,
		Version:            1,
	}, nil
}

// InvoiceResponse represents an invoice with its derived status
type InvoiceResponse struct {
	*invoice.Invoice

	// EffectiveStatus reports overdue for issued invoices past their due
	// date; the stored status never holds overdue authoritatively
	EffectiveStatus types.InvoiceStatus `json:"effective_status"`
}

// NewInvoiceResponse creates an invoice response, deriving the effective
// status at the given time
func NewInvoiceResponse(inv *invoice.Invoice, now time.Time) *InvoiceResponse {
	return &InvoiceResponse{
		Invoice:         inv,
		EffectiveStatus: inv.EffectiveStatus(now),
	}
}

// ListInvoicesResponse represents a paginated list of invoices
type ListInvoicesResponse struct {
	Items []*InvoiceResponse `json:"items"`
	Total int                `json:"total"`
}
