package schedule

import (
	"time"

	"github.com/invoflow/invoflow/internal/calendar"
	"github.com/invoflow/invoflow/internal/domain/settings"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/types"
)

// BillingDates holds the dates derived for one billing cycle
type BillingDates struct {
	ClosingDate time.Time `json:"closing_date"`
	IssueDate   time.Time `json:"issue_date"`
	DueDate     time.Time `json:"due_date"`
}

// Calculator derives closing, issue and due dates from a tenant's invoice
// settings and a reference date (the end of the period being billed).
type Calculator interface {
	Calculate(referenceDate time.Time, cfg *settings.InvoiceSettings) (*BillingDates, error)
}

// NewCalculator creates the default billing date calculator
func NewCalculator() Calculator {
	return &calculator{}
}

type calculator struct{}

func (c *calculator) Calculate(referenceDate time.Time, cfg *settings.InvoiceSettings) (*BillingDates, error) {
	if cfg == nil {
		return nil, ierr.NewError("invoice settings are required").
			WithHint("Invoice settings must be configured before computing billing dates").
			Mark(ierr.ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ref := calendar.BeginningOfDay(referenceDate)

	closing := c.closingDate(ref, cfg)
	issue := c.issueDate(closing, cfg)
	due := c.dueDate(issue, cfg)

	if cfg.AdjustDueDateForHolidays {
		adjusted := calendar.PrevBusinessDay(due)
		// the back-shift must never move the due date before the issue date
		if adjusted.Before(issue) {
			adjusted = issue
		}
		due = adjusted
	}

	return &BillingDates{
		ClosingDate: closing,
		IssueDate:   issue,
		DueDate:     due,
	}, nil
}

func (c *calculator) closingDate(ref time.Time, cfg *settings.InvoiceSettings) time.Time {
	switch cfg.ClosingDayType {
	case types.ClosingDayTypeSpecificDay:
		return calendar.ClampDayOfMonth(ref, *cfg.ClosingDay)
	default: // end_of_month
		return calendar.EndOfMonth(ref)
	}
}

func (c *calculator) issueDate(closing time.Time, cfg *settings.InvoiceSettings) time.Time {
	switch cfg.IssueDayType {
	case types.IssueDayTypeNextDay:
		return closing.AddDate(0, 0, 1)
	case types.IssueDayTypeSpecificDay:
		nextMonth := calendar.AddClampedDate(closing, 0, 1, 0)
		return calendar.ClampDayOfMonth(nextMonth, *cfg.IssueDay)
	default: // first_of_next_month
		nextMonth := calendar.AddClampedDate(closing, 0, 1, 0)
		return calendar.ClampDayOfMonth(nextMonth, 1)
	}
}

// dueDate resolves the due date relative to the issue date. A specific_day
// due date means that day-of-month within the issue month, clamped to the
// issue month's last day; it never rolls into the next month.
func (c *calculator) dueDate(issue time.Time, cfg *settings.InvoiceSettings) time.Time {
	switch cfg.DueDateType {
	case types.DueDateTypeDaysAfterIssue:
		return issue.AddDate(0, 0, *cfg.DueDateDays)
	case types.DueDateTypeSpecificDay:
		return calendar.ClampDayOfMonth(issue, *cfg.DueDateDay)
	default: // end_of_issue_month
		return calendar.EndOfMonth(issue)
	}
}

// probeReferenceDates is a representative year of reference dates used to
// reject configurations that can ever produce due < issue or issue <
// closing: every month end of a leap year plus one mid-month date.
var probeReferenceDates = func() []time.Time {
	dates := make([]time.Time, 0, 13)
	for m := time.January; m <= time.December; m++ {
		dates = append(dates, calendar.EndOfMonth(calendar.Date(2024, m, 1)))
	}
	dates = append(dates, calendar.Date(2024, time.June, 15))
	return dates
}()

// ValidateOrdering rejects configurations that violate
// closing <= issue <= due for any probed reference date. Called at
// settings-save time so invoice generation never sees a bad configuration.
func ValidateOrdering(calc Calculator, cfg *settings.InvoiceSettings) error {
	for _, ref := range probeReferenceDates {
		dates, err := calc.Calculate(ref, cfg)
		if err != nil {
			return err
		}
		if dates.IssueDate.Before(dates.ClosingDate) {
			return ierr.NewError("issue date precedes closing date").
				WithHintf("Configuration yields issue date %s before closing date %s",
					dates.IssueDate.Format(time.DateOnly), dates.ClosingDate.Format(time.DateOnly)).
				Mark(ierr.ErrConfiguration)
		}
		if dates.DueDate.Before(dates.IssueDate) {
			return ierr.NewError("due date precedes issue date").
				WithHintf("Configuration yields due date %s before issue date %s",
					dates.DueDate.Format(time.DateOnly), dates.IssueDate.Format(time.DateOnly)).
				WithReportableDetails(map[string]any{
					"reference_date": ref.Format(time.DateOnly),
				}).
				Mark(ierr.ErrConfiguration)
		}
	}
	return nil
}
