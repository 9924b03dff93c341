package schedule

import (
	"testing"
	"time"

	"github.com/invoflow/invoflow/internal/calendar"
	"github.com/invoflow/invoflow/internal/domain/settings"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculator_Calculate(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name        string
		cfg         *settings.InvoiceSettings
		reference   time.Time
		wantClosing time.Time
		wantIssue   time.Time
		wantDue     time.Time
	}{
		{
			name: "end_of_month_first_of_next_month_end_of_issue_month",
			cfg: &settings.InvoiceSettings{
				ClosingDayType:           types.ClosingDayTypeEndOfMonth,
				IssueDayType:             types.IssueDayTypeFirstOfNextMonth,
				DueDateType:              types.DueDateTypeEndOfIssueMonth,
				AdjustDueDateForHolidays: true,
			},
			reference:   calendar.Date(2025, time.January, 31),
			wantClosing: calendar.Date(2025, time.January, 31),
			wantIssue:   calendar.Date(2025, time.February, 1),
			// 2025-02-28 is a Friday, no weekend shift applies
			wantDue: calendar.Date(2025, time.February, 28),
		},
		{
			name: "due_on_weekend_shifts_to_preceding_friday",
			cfg: &settings.InvoiceSettings{
				ClosingDayType:           types.ClosingDayTypeEndOfMonth,
				IssueDayType:             types.IssueDayTypeFirstOfNextMonth,
				DueDateType:              types.DueDateTypeEndOfIssueMonth,
				AdjustDueDateForHolidays: true,
			},
			// 2025-08-31 is a Sunday
			reference:   calendar.Date(2025, time.July, 10),
			wantClosing: calendar.Date(2025, time.July, 31),
			wantIssue:   calendar.Date(2025, time.August, 1),
			wantDue:     calendar.Date(2025, time.August, 29),
		},
		{
			name: "weekend_due_without_adjustment_is_kept",
			cfg: &settings.InvoiceSettings{
				ClosingDayType: types.ClosingDayTypeEndOfMonth,
				IssueDayType:   types.IssueDayTypeFirstOfNextMonth,
				DueDateType:    types.DueDateTypeEndOfIssueMonth,
			},
			reference:   calendar.Date(2025, time.July, 10),
			wantClosing: calendar.Date(2025, time.July, 31),
			wantIssue:   calendar.Date(2025, time.August, 1),
			wantDue:     calendar.Date(2025, time.August, 31),
		},
		{
			name: "specific_closing_day_clamped_in_short_month",
			cfg: &settings.InvoiceSettings{
				ClosingDayType: types.ClosingDayTypeSpecificDay,
				ClosingDay:     lo.ToPtr(31),
				IssueDayType:   types.IssueDayTypeNextDay,
				DueDateType:    types.DueDateTypeDaysAfterIssue,
				DueDateDays:    lo.ToPtr(14),
			},
			reference:   calendar.Date(2025, time.February, 10),
			wantClosing: calendar.Date(2025, time.February, 28),
			wantIssue:   calendar.Date(2025, time.March, 1),
			wantDue:     calendar.Date(2025, time.March, 15),
		},
		{
			name: "specific_issue_and_due_days",
			cfg: &settings.InvoiceSettings{
				ClosingDayType: types.ClosingDayTypeSpecificDay,
				ClosingDay:     lo.ToPtr(20),
				IssueDayType:   types.IssueDayTypeSpecificDay,
				IssueDay:       lo.ToPtr(5),
				DueDateType:    types.DueDateTypeSpecificDay,
				DueDateDay:     lo.ToPtr(25),
			},
			reference:   calendar.Date(2025, time.March, 31),
			wantClosing: calendar.Date(2025, time.March, 20),
			wantIssue:   calendar.Date(2025, time.April, 5),
			wantDue:     calendar.Date(2025, time.April, 25),
		},
		{
			name: "specific_due_day_clamps_to_issue_month_end",
			cfg: &settings.InvoiceSettings{
				ClosingDayType: types.ClosingDayTypeEndOfMonth,
				IssueDayType:   types.IssueDayTypeFirstOfNextMonth,
				DueDateType:    types.DueDateTypeSpecificDay,
				DueDateDay:     lo.ToPtr(31),
			},
			reference:   calendar.Date(2025, time.January, 31),
			wantClosing: calendar.Date(2025, time.January, 31),
			wantIssue:   calendar.Date(2025, time.February, 1),
			wantDue:     calendar.Date(2025, time.February, 28),
		},
		{
			name: "leap_february_end_of_month",
			cfg: &settings.InvoiceSettings{
				ClosingDayType: types.ClosingDayTypeEndOfMonth,
				IssueDayType:   types.IssueDayTypeNextDay,
				DueDateType:    types.DueDateTypeEndOfIssueMonth,
			},
			reference:   calendar.Date(2024, time.February, 1),
			wantClosing: calendar.Date(2024, time.February, 29),
			wantIssue:   calendar.Date(2024, time.March, 1),
			wantDue:     calendar.Date(2024, time.March, 31),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates, err := calc.Calculate(tt.reference, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantClosing, dates.ClosingDate, "closing date")
			assert.Equal(t, tt.wantIssue, dates.IssueDate, "issue date")
			assert.Equal(t, tt.wantDue, dates.DueDate, "due date")
		})
	}
}

func TestCalculator_OrderingInvariant(t *testing.T) {
	calc := NewCalculator()

	configs := []*settings.InvoiceSettings{
		{
			ClosingDayType: types.ClosingDayTypeEndOfMonth,
			IssueDayType:   types.IssueDayTypeFirstOfNextMonth,
			DueDateType:    types.DueDateTypeEndOfIssueMonth,
		},
		{
			ClosingDayType: types.ClosingDayTypeSpecificDay,
			ClosingDay:     lo.ToPtr(15),
			IssueDayType:   types.IssueDayTypeNextDay,
			DueDateType:    types.DueDateTypeDaysAfterIssue,
			DueDateDays:    lo.ToPtr(30),
		},
		{
			ClosingDayType:           types.ClosingDayTypeSpecificDay,
			ClosingDay:               lo.ToPtr(31),
			IssueDayType:             types.IssueDayTypeSpecificDay,
			IssueDay:                 lo.ToPtr(1),
			DueDateType:              types.DueDateTypeSpecificDay,
			DueDateDay:               lo.ToPtr(28),
			AdjustDueDateForHolidays: true,
		},
	}

	// closing <= issue <= due must hold for every month of the year,
	// weekend adjustment included
	for _, cfg := range configs {
		for m := time.January; m <= time.December; m++ {
			for _, year := range []int{2024, 2025} {
				ref := calendar.EndOfMonth(calendar.Date(year, m, 1))
				dates, err := calc.Calculate(ref, cfg)
				require.NoError(t, err)
				assert.False(t, dates.IssueDate.Before(dates.ClosingDate),
					"issue %s before closing %s for ref %s", dates.IssueDate, dates.ClosingDate, ref)
				assert.False(t, dates.DueDate.Before(dates.IssueDate),
					"due %s before issue %s for ref %s", dates.DueDate, dates.IssueDate, ref)
			}
		}
	}
}

func TestCalculator_ConfigurationErrors(t *testing.T) {
	calc := NewCalculator()
	ref := calendar.Date(2025, time.January, 31)

	tests := []struct {
		name string
		cfg  *settings.InvoiceSettings
	}{
		{
			name: "specific_closing_day_without_day",
			cfg: &settings.InvoiceSettings{
				ClosingDayType: types.ClosingDayTypeSpecificDay,
				IssueDayType:   types.IssueDayTypeNextDay,
				DueDateType:    types.DueDateTypeEndOfIssueMonth,
			},
		},
		{
			name: "days_after_issue_without_count",
			cfg: &settings.InvoiceSettings{
				ClosingDayType: types.ClosingDayTypeEndOfMonth,
				IssueDayType:   types.IssueDayTypeNextDay,
				DueDateType:    types.DueDateTypeDaysAfterIssue,
			},
		},
		{
			name: "closing_day_out_of_range",
			cfg: &settings.InvoiceSettings{
				ClosingDayType: types.ClosingDayTypeSpecificDay,
				ClosingDay:     lo.ToPtr(32),
				IssueDayType:   types.IssueDayTypeNextDay,
				DueDateType:    types.DueDateTypeEndOfIssueMonth,
			},
		},
		{
			name: "unknown_issue_day_type",
			cfg: &settings.InvoiceSettings{
				ClosingDayType: types.ClosingDayTypeEndOfMonth,
				IssueDayType:   types.IssueDayType("whenever"),
				DueDateType:    types.DueDateTypeEndOfIssueMonth,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Calculate(ref, tt.cfg)
			require.Error(t, err)
			assert.True(t, ierr.IsConfiguration(err), "expected configuration error, got %v", err)
		})
	}
}

func TestValidateOrdering(t *testing.T) {
	calc := NewCalculator()

	// issue on the 20th but due on the 10th of the issue month can never
	// satisfy issue <= due
	bad := &settings.InvoiceSettings{
		ClosingDayType: types.ClosingDayTypeEndOfMonth,
		IssueDayType:   types.IssueDayTypeSpecificDay,
		IssueDay:       lo.ToPtr(20),
		DueDateType:    types.DueDateTypeSpecificDay,
		DueDateDay:     lo.ToPtr(10),
	}
	err := ValidateOrdering(calc, bad)
	require.Error(t, err)
	assert.True(t, ierr.IsConfiguration(err))

	good := &settings.InvoiceSettings{
		ClosingDayType: types.ClosingDayTypeEndOfMonth,
		IssueDayType:   types.IssueDayTypeSpecificDay,
		IssueDay:       lo.ToPtr(5),
		DueDateType:    types.DueDateTypeSpecificDay,
		DueDateDay:     lo.ToPtr(25),
	}
	require.NoError(t, ValidateOrdering(calc, good))
}
