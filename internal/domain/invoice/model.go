package invoice

import (
	"time"

	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice represents the invoice domain model and owns its lifecycle:
// draft -> issued -> {paid, canceled}, with overdue derived at read time
// for issued invoices past their due date.
type Invoice struct {
	ID            string              `json:"id"`
	ClientID      string              `json:"client_id"`
	InvoiceNumber string              `json:"invoice_number"`
	Status        types.InvoiceStatus `json:"status"`

	// TotalAmount is the billed amount for the period
	TotalAmount decimal.Decimal `json:"total_amount"`

	// BillingPeriodStart/End bound the period covered; BillingMonth is the
	// fallback used by older documents that only recorded the month
	BillingPeriodStart *time.Time         `json:"billing_period_start,omitempty"`
	BillingPeriodEnd   *time.Time         `json:"billing_period_end,omitempty"`
	BillingMonth       types.BillingMonth `json:"billing_month,omitempty"`

	IssueDate time.Time `json:"issue_date"`
	DueDate   time.Time `json:"due_date"`

	// PaidAmount and PaymentDifference are set together, exactly once, when
	// a payment is confirmed, and are immutable afterward. A correction
	// requires a new invoice, not a mutation.
	PaidAmount        *decimal.Decimal        `json:"paid_amount,omitempty"`
	PaymentDifference *decimal.Decimal        `json:"payment_difference,omitempty"`
	PaymentMethod     types.PaymentMethodType `json:"payment_method,omitempty"`
	PaidAt            types.Timestamp         `json:"paid_at,omitempty"`

	Metadata types.Metadata `json:"metadata,omitempty"`
	Version  int            `json:"version"`

	types.BaseModel
}

// Validate checks structural invariants of the invoice
func (i *Invoice) Validate() error {
	if i.ClientID == "" {
		return ierr.NewError("client id is required").
			WithHint("Invoice must belong to a client").
			Mark(ierr.ErrValidation)
	}

	if !i.TotalAmount.IsPositive() {
		return ierr.NewError("invalid total amount").
			WithHint("Total amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}

	if err := i.Status.Validate(); err != nil {
		return err
	}

	if i.BillingPeriodStart != nil && i.BillingPeriodEnd != nil {
		if i.BillingPeriodEnd.Before(*i.BillingPeriodStart) {
			return ierr.NewError("invalid billing period").
				WithHint("Billing period end must not precede its start").
				Mark(ierr.ErrValidation)
		}
	}

	if i.BillingPeriodEnd == nil && i.BillingMonth.IsZero() {
		return ierr.NewError("missing billing period").
			WithHint("Invoice requires a billing period end or a billing month").
			Mark(ierr.ErrValidation)
	}

	if err := i.BillingMonth.Validate(); err != nil {
		return err
	}

	return nil
}

// Finalize transitions a draft invoice to issued. Requires a positive
// total, a resolvable client and consistent issue/due dates.
func (i *Invoice) Finalize() error {
	if i.Status != types.InvoiceStatusDraft {
		return ierr.NewError("invoice is not a draft").
			WithHintf("Only draft invoices can be issued, current status is %s", i.Status).
			WithReportableDetails(map[string]any{"invoice_id": i.ID, "status": i.Status}).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := i.Validate(); err != nil {
		return err
	}

	if i.IssueDate.IsZero() || i.DueDate.IsZero() {
		return ierr.NewError("missing issue or due date").
			WithHint("Issue date and due date must be set before issuing").
			Mark(ierr.ErrValidation)
	}

	if i.DueDate.Before(i.IssueDate) {
		return ierr.NewError("due date precedes issue date").
			WithHint("Due date must not be earlier than the issue date").
			Mark(ierr.ErrValidation)
	}

	i.Status = types.InvoiceStatusIssued
	return nil
}

// MarkPaid records a confirmed payment. It may only be applied once and
// only to a payable invoice; re-confirming an already paid invoice is a
// conflict, not a silent overwrite.
func (i *Invoice) MarkPaid(paidAmount decimal.Decimal, method types.PaymentMethodType, paidAt time.Time) error {
	if i.Status == types.InvoiceStatusPaid {
		return ierr.NewError("invoice already paid").
			WithHint("The invoice has already been paid").
			WithReportableDetails(map[string]any{"invoice_id": i.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	if i.Status == types.InvoiceStatusCanceled {
		return ierr.NewError("invoice is canceled").
			WithHint("A canceled invoice cannot receive payments").
			WithReportableDetails(map[string]any{"invoice_id": i.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	if !i.Status.IsPayable() {
		return ierr.NewError("invoice is not payable").
			WithHintf("Payments can only be confirmed for issued invoices, current status is %s", i.Status).
			WithReportableDetails(map[string]any{"invoice_id": i.ID, "status": i.Status}).
			Mark(ierr.ErrValidation)
	}

	if paidAmount.IsNegative() {
		return ierr.NewError("invalid paid amount").
			WithHint("Paid amount must not be negative").
			Mark(ierr.ErrValidation)
	}

	if err := method.Validate(); err != nil {
		return err
	}

	difference := paidAmount.Sub(i.TotalAmount)

	i.Status = types.InvoiceStatusPaid
	i.PaidAmount = &paidAmount
	i.PaymentDifference = &difference
	i.PaymentMethod = method
	i.PaidAt = types.NewTimestamp(paidAt)
	return nil
}

// RevertPaid undoes MarkPaid during compensation when the client ledger
// write could not be applied. The invoice returns to issued; read paths
// re-derive overdue from the due date.
func (i *Invoice) RevertPaid() {
	i.Status = types.InvoiceStatusIssued
	i.PaidAmount = nil
	i.PaymentDifference = nil
	i.PaymentMethod = ""
	i.PaidAt = types.Timestamp{}
}

// Cancel transitions the invoice to canceled. Allowed from any
// non-terminal state; a paid invoice needs a correcting invoice instead.
func (i *Invoice) Cancel() error {
	if i.Status == types.InvoiceStatusPaid {
		return ierr.NewError("invoice is paid").
			WithHint("A paid invoice cannot be canceled, create a correcting invoice instead").
			WithReportableDetails(map[string]any{"invoice_id": i.ID}).
			Mark(ierr.ErrInvalidOperation)
	}
	if i.Status == types.InvoiceStatusCanceled {
		return ierr.NewError("invoice already canceled").
			WithHint("The invoice has already been canceled").
			Mark(ierr.ErrAlreadyExists)
	}

	i.Status = types.InvoiceStatusCanceled
	return nil
}

// EffectiveStatus derives the reported status at a point in time: an
// issued invoice past its due date reports overdue. No stored transition
// exists for overdue; every read path applies this derivation, which also
// keeps any persisted OVERDUE status consistent on re-read.
func (i *Invoice) EffectiveStatus(now time.Time) types.InvoiceStatus {
	if (i.Status == types.InvoiceStatusIssued || i.Status == types.InvoiceStatusOverdue) &&
		!i.DueDate.IsZero() && i.DueDate.Before(now) {
		return types.InvoiceStatusOverdue
	}
	if i.Status == types.InvoiceStatusOverdue {
		// persisted overdue whose due date no longer qualifies reads as issued
		return types.InvoiceStatusIssued
	}
	return i.Status
}

// PeriodMonth is the billing month the invoice settles: the period end's
// month, falling back to the recorded billing month.
func (i *Invoice) PeriodMonth() types.BillingMonth {
	if i.BillingPeriodEnd != nil {
		return types.BillingMonthFromTime(*i.BillingPeriodEnd)
	}
	return i.BillingMonth
}
