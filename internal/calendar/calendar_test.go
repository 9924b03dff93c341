package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		{name: "january", year: 2025, month: time.January, want: 31},
		{name: "april", year: 2025, month: time.April, want: 30},
		{name: "february_non_leap", year: 2025, month: time.February, want: 28},
		{name: "february_leap", year: 2024, month: time.February, want: 29},
		{name: "february_century_non_leap", year: 1900, month: time.February, want: 28},
		{name: "february_400_leap", year: 2000, month: time.February, want: 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestEndOfMonth(t *testing.T) {
	assert.Equal(t, Date(2025, time.January, 31), EndOfMonth(Date(2025, time.January, 15)))
	assert.Equal(t, Date(2024, time.February, 29), EndOfMonth(Date(2024, time.February, 1)))
	assert.Equal(t, Date(2025, time.December, 31), EndOfMonth(Date(2025, time.December, 31)))
}

func TestClampDayOfMonth(t *testing.T) {
	// 31st in a 30-day month clamps to the 30th
	assert.Equal(t, Date(2025, time.April, 30), ClampDayOfMonth(Date(2025, time.April, 10), 31))
	// 31st in February clamps to month end
	assert.Equal(t, Date(2025, time.February, 28), ClampDayOfMonth(Date(2025, time.February, 5), 31))
	assert.Equal(t, Date(2024, time.February, 29), ClampDayOfMonth(Date(2024, time.February, 5), 30))
	// valid day is untouched
	assert.Equal(t, Date(2025, time.April, 15), ClampDayOfMonth(Date(2025, time.April, 1), 15))
}

func TestAddClampedDate(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		years  int
		months int
		days   int
		want   time.Time
	}{
		{
			name:   "jan_31_plus_one_month_clamps_to_feb_end",
			start:  Date(2025, time.January, 31),
			months: 1,
			want:   Date(2025, time.February, 28),
		},
		{
			name:   "jan_31_plus_one_month_leap_year",
			start:  Date(2024, time.January, 31),
			months: 1,
			want:   Date(2024, time.February, 29),
		},
		{
			name:   "november_plus_two_months_rolls_year",
			start:  Date(2025, time.November, 15),
			months: 2,
			want:   Date(2026, time.January, 15),
		},
		{
			name:   "minus_one_month_rolls_back_year",
			start:  Date(2025, time.January, 15),
			months: -1,
			want:   Date(2024, time.December, 15),
		},
		{
			name:  "plus_days_crosses_month",
			start: Date(2025, time.January, 31),
			days:  1,
			want:  Date(2025, time.February, 1),
		},
		{
			name:  "plus_one_year_on_leap_day",
			start: Date(2024, time.February, 29),
			years: 1,
			want:  Date(2025, time.February, 28),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddClampedDate(tt.start, tt.years, tt.months, tt.days))
		})
	}
}

func TestPrevBusinessDay(t *testing.T) {
	// 2025-03-01 is a Saturday, 2025-03-02 a Sunday
	sat := Date(2025, time.March, 1)
	sun := Date(2025, time.March, 2)
	fri := Date(2025, time.February, 28)
	mon := Date(2025, time.March, 3)

	assert.Equal(t, fri, PrevBusinessDay(sat))
	assert.Equal(t, fri, PrevBusinessDay(sun))
	assert.Equal(t, mon, PrevBusinessDay(mon))

	assert.False(t, IsBusinessDay(sat))
	assert.False(t, IsBusinessDay(sun))
	assert.True(t, IsBusinessDay(fri))
}
