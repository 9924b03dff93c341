package calendar

import "time"

// Package calendar holds pure date arithmetic used by the billing date
// calculator. All functions treat dates as UTC calendar days; callers
// pass dates at midnight UTC and get dates at midnight UTC back.

// Date builds a UTC calendar day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// BeginningOfDay truncates a time to its UTC calendar day
func BeginningOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return Date(y, m, d)
}

// DaysInMonth returns the number of calendar days in the given month
func DaysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// EndOfMonth returns the last calendar day of t's month
func EndOfMonth(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return Date(y, m, DaysInMonth(y, m))
}

// ClampDayOfMonth returns the given day-of-month within t's month,
// clamped to the last valid day if the month is shorter
func ClampDayOfMonth(t time.Time, day int) time.Time {
	y, m, _ := t.UTC().Date()
	if last := DaysInMonth(y, m); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return Date(y, m, day)
}

// AddClampedDate adds years, months and days to t, clamping the
// day-of-month to the last valid day of the resulting month instead of
// letting it spill over (time.AddDate would turn Jan 31 + 1 month into
// Mar 2 or 3).
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	newY := y + years
	newM := time.Month(int(m) + months)

	// If we move beyond December, it adjusts correctly,
	// for example adding 2 months to November will land on January next year.
	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	if last := DaysInMonth(newY, newM); d > last {
		d = last
	}

	result := time.Date(newY, newM, d, h, min, sec, t.Nanosecond(), t.Location())
	if days != 0 {
		result = result.AddDate(0, 0, days)
	}
	return result
}

// IsBusinessDay reports whether t falls on a business day. Public
// holidays are out of scope, so this is a weekends-only approximation.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// PrevBusinessDay walks backward one day at a time until landing on a
// business day. A date already on a business day is returned unchanged.
func PrevBusinessDay(t time.Time) time.Time {
	for !IsBusinessDay(t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}
