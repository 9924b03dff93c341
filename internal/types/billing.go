package types

import (
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/samber/lo"
)

// BillingFrequency is how often a client is billed the management fee
type BillingFrequency string

const (
	BillingFrequencyMonthly BillingFrequency = "monthly"
	BillingFrequencyYearly  BillingFrequency = "yearly"
)

func (f BillingFrequency) Validate() error {
	allowed := []BillingFrequency{BillingFrequencyMonthly, BillingFrequencyYearly}
	if !lo.Contains(allowed, f) {
		return ierr.NewError("invalid billing frequency").
			WithHintf("Billing frequency must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ClosingDayType determines the cutoff date of a billing period
type ClosingDayType string

const (
	ClosingDayTypeEndOfMonth  ClosingDayType = "end_of_month"
	ClosingDayTypeSpecificDay ClosingDayType = "specific_day"
)

func (t ClosingDayType) Validate() error {
	allowed := []ClosingDayType{ClosingDayTypeEndOfMonth, ClosingDayTypeSpecificDay}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid closing day type").
			WithHintf("Closing day type must be one of %v", allowed).
			Mark(ierr.ErrConfiguration)
	}
	return nil
}

// IssueDayType determines when an invoice is issued relative to the closing date
type IssueDayType string

const (
	IssueDayTypeNextDay          IssueDayType = "next_day"
	IssueDayTypeFirstOfNextMonth IssueDayType = "first_of_next_month"
	IssueDayTypeSpecificDay      IssueDayType = "specific_day"
)

func (t IssueDayType) Validate() error {
	allowed := []IssueDayType{IssueDayTypeNextDay, IssueDayTypeFirstOfNextMonth, IssueDayTypeSpecificDay}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid issue day type").
			WithHintf("Issue day type must be one of %v", allowed).
			Mark(ierr.ErrConfiguration)
	}
	return nil
}

// DueDateType determines the payment due date relative to the issue date
type DueDateType string

const (
	DueDateTypeEndOfIssueMonth DueDateType = "end_of_issue_month"
	DueDateTypeDaysAfterIssue  DueDateType = "days_after_issue"
	DueDateTypeSpecificDay     DueDateType = "specific_day"
)

func (t DueDateType) Validate() error {
	allowed := []DueDateType{DueDateTypeEndOfIssueMonth, DueDateTypeDaysAfterIssue, DueDateTypeSpecificDay}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid due date type").
			WithHintf("Due date type must be one of %v", allowed).
			Mark(ierr.ErrConfiguration)
	}
	return nil
}
