package dto

import (
	"time"

	"github.com/invoflow/invoflow/internal/domain/settings"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/types"
)

// UpdateInvoiceSettingsRequest represents a request to save the tenant's
// invoice settings
type UpdateInvoiceSettingsRequest struct {
	ClosingDayType           types.ClosingDayType `json:"closing_day_type" binding:"required"`
	ClosingDay               *int                 `json:"closing_day,omitempty"`
	IssueDayType             types.IssueDayType   `json:"issue_day_type" binding:"required"`
	IssueDay                 *int                 `json:"issue_day,omitempty"`
	DueDateType              types.DueDateType    `json:"due_date_type" binding:"required"`
	DueDateDays              *int                 `json:"due_date_days,omitempty"`
	DueDateDay               *int                 `json:"due_date_day,omitempty"`
	AdjustDueDateForHolidays bool                 `json:"adjust_due_date_for_holidays"`
}

// ToInvoiceSettings builds the domain settings model from the request
func (r *UpdateInvoiceSettingsRequest) ToInvoiceSettings() *settings.InvoiceSettings {
	return &settings.InvoiceSettings{
		ID:                       types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SETTING),
		ClosingDayType:           r.ClosingDayType,
		ClosingDay:               r.ClosingDay,
		IssueDayType:             r.IssueDayType,
		IssueDay:                 r.IssueDay,
		DueDateType:              r.DueDateType,
		DueDateDays:              r.DueDateDays,
		DueDateDay:               r.DueDateDay,
		AdjustDueDateForHolidays: r.AdjustDueDateForHolidays,
	}
}

// InvoiceSettingsResponse represents the tenant's effective invoice settings
type InvoiceSettingsResponse struct {
	*settings.InvoiceSettings

	// IsDefault is true when the tenant has not saved settings and the
	// engine-wide defaults apply
	IsDefault bool `json:"is_default"`
}

// PreviewBillingDatesRequest asks for the billing dates derived from the
// effective settings for one reference date
type PreviewBillingDatesRequest struct {
	ReferenceDate string `json:"reference_date" binding:"required"`
}

// ParseReferenceDate parses the reference date, which must be YYYY-MM-DD
func (r *PreviewBillingDatesRequest) ParseReferenceDate() (time.Time, error) {
	t, err := time.Parse(time.DateOnly, r.ReferenceDate)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHintf("Reference date must be YYYY-MM-DD, got %q", r.ReferenceDate).
			Mark(ierr.ErrValidation)
	}
	return t.UTC(), nil
}

// BillingDatesResponse represents the derived closing, issue and due dates
type BillingDatesResponse struct {
	ClosingDate string `json:"closing_date"`
	IssueDate   string `json:"issue_date"`
	DueDate     string `json:"due_date"`
}
