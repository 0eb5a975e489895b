package domain

import (
	"fmt"
	"time"
)

// FirstDataYear is the first year with published Mesonet summaries.
const FirstDataYear = 1994

// GenerateDate builds a timestamp from calendar components in loc.
// Unlike time.Date it rejects out-of-range components instead of normalizing
// them, so February 30 is an error rather than March 2.
func GenerateDate(year, month, day, hour, minute int, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day ||
		t.Hour() != hour || t.Minute() != minute {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d %02d:%02d", ErrInvalidDate, year, month, day, hour, minute)
	}
	return t, nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Yesterday returns midnight of the calendar day before now.
func Yesterday(now time.Time) time.Time {
	return StartOfDay(now).AddDate(0, 0, -1)
}

// ValidateDate rejects dates in the future or before FirstDataYear.
func ValidateDate(date, now time.Time) error {
	if date.After(now) {
		return fmt.Errorf("%w: %s is in the future", ErrInvalidDate, date.Format(time.DateOnly))
	}
	if date.Year() < FirstDataYear {
		return fmt.Errorf("%w: %s is before %d", ErrInvalidDate, date.Format(time.DateOnly), FirstDataYear)
	}
	return nil
}

// MonthDays lists the days of the given month that already have a complete
// daily summary, i.e. day 1 through the earlier of month end and yesterday.
// Zero year or month default to the month of now.
func MonthDays(year, month int, now time.Time) ([]time.Time, error) {
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	if year < FirstDataYear {
		return nil, fmt.Errorf("%w: year %d is before %d", ErrInvalidDate, year, FirstDataYear)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
	last := Yesterday(now)

	var days []time.Time
	for d := first; d.Month() == first.Month() && !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: %04d-%02d has no complete days yet", ErrNoData, year, month)
	}
	return days, nil
}
