package settings

import (
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/types"
)

// InvoiceSettings is the per-tenant billing configuration from which
// closing, issue and due dates are derived.
type InvoiceSettings struct {
	// ID is the unique identifier for the settings document
	ID string `json:"id"`

	// ClosingDayType determines the billing period cutoff
	ClosingDayType types.ClosingDayType `json:"closing_day_type"`
	// ClosingDay is the day-of-month cutoff, required for specific_day
	ClosingDay *int `json:"closing_day,omitempty"`

	// IssueDayType determines when invoices are issued
	IssueDayType types.IssueDayType `json:"issue_day_type"`
	// IssueDay is the day-of-month in the month after closing, required for specific_day
	IssueDay *int `json:"issue_day,omitempty"`

	// DueDateType determines the payment deadline
	DueDateType types.DueDateType `json:"due_date_type"`
	// DueDateDays is the day count after issue, required for days_after_issue
	DueDateDays *int `json:"due_date_days,omitempty"`
	// DueDateDay is the day-of-month in the issue month, required for specific_day
	DueDateDay *int `json:"due_date_day,omitempty"`

	// AdjustDueDateForHolidays shifts a due date landing on a weekend to the
	// preceding business day. Issue dates are never shifted.
	AdjustDueDateForHolidays bool `json:"adjust_due_date_for_holidays"`

	types.BaseModel
}

// DefaultInvoiceSettings returns the configuration applied before a tenant
// saves its own: close at month end, issue on the first of the next month,
// due at the end of the issue month.
func DefaultInvoiceSettings() *InvoiceSettings {
	return &InvoiceSettings{
		ClosingDayType: types.ClosingDayTypeEndOfMonth,
		IssueDayType:   types.IssueDayTypeFirstOfNextMonth,
		DueDateType:    types.DueDateTypeEndOfIssueMonth,
	}
}

// Validate checks enum values and companion-field completeness. A type that
// requires a day or day-count companion without one is a configuration
// error; this surfaces at settings-save time, never at invoice generation.
func (s *InvoiceSettings) Validate() error {
	if err := s.ClosingDayType.Validate(); err != nil {
		return err
	}
	if err := s.IssueDayType.Validate(); err != nil {
		return err
	}
	if err := s.DueDateType.Validate(); err != nil {
		return err
	}

	if s.ClosingDayType == types.ClosingDayTypeSpecificDay {
		if err := validateDayOfMonth(s.ClosingDay, "closing_day"); err != nil {
			return err
		}
	}

	if s.IssueDayType == types.IssueDayTypeSpecificDay {
		if err := validateDayOfMonth(s.IssueDay, "issue_day"); err != nil {
			return err
		}
	}

	switch s.DueDateType {
	case types.DueDateTypeDaysAfterIssue:
		if s.DueDateDays == nil || *s.DueDateDays < 0 {
			return ierr.NewError("missing or invalid due date days").
				WithHint("Due date type days_after_issue requires a non-negative day count").
				Mark(ierr.ErrConfiguration)
		}
	case types.DueDateTypeSpecificDay:
		if err := validateDayOfMonth(s.DueDateDay, "due_date_day"); err != nil {
			return err
		}
	}

	return nil
}

func validateDayOfMonth(day *int, field string) error {
	if day == nil {
		return ierr.NewErrorf("missing %s", field).
			WithHintf("A specific_day setting requires %s", field).
			Mark(ierr.ErrConfiguration)
	}
	if *day < 1 || *day > 31 {
		return ierr.NewErrorf("invalid %s", field).
			WithHintf("%s must be between 1 and 31, got %d", field, *day).
			WithReportableDetails(map[string]any{field: *day}).
			Mark(ierr.ErrConfiguration)
	}
	return nil
}
