package core

import "time"

const (
	DateFull   DateStyle = "full"
	DateLong   DateStyle = "long"
	DateMedium DateStyle = "medium"
	DateShort  DateStyle = "short"
)

// DateStyle mirrors the four CLDR date format lengths.
type DateStyle string

// DateRange is an inclusive interval of calendar days.
type DateRange struct {
	StartDate time.Time
	EndDate   time.Time
}

// Contains reports whether t falls inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.StartDate) && !t.After(r.EndDate)
}

// MonthRange returns the first and last day of the given month in the local
// zone. Months outside 1..12 roll over into neighbouring years.
func MonthRange(year int, month time.Month) DateRange {
	return DateRange{
		StartDate: time.Date(year, month, 1, 0, 0, 0, 0, time.Local),
		// day 0 of the next month is the last day of this one
		EndDate: time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local),
	}
}

// CurrentMonthRange returns the range of the month offset months away from
// now. An offset of 0 is the current month, -1 the previous one.
func CurrentMonthRange(now time.Time, offset int) DateRange {
	return MonthRange(now.Year(), now.Month()+time.Month(offset))
}

func (s DateStyle) IsValid() bool {
	switch s {
	case DateFull, DateLong, DateMedium, DateShort:
		return true
	}
	return false
}

// FormatDate renders date using en-US conventions for style. Unknown styles
// fall back to long.
func FormatDate(date time.Time, style DateStyle) string {
	switch style {
	case DateFull:
		return date.Format("Monday, January 2, 2006")
	case DateMedium:
		return date.Format("Jan 2, 2006")
	case DateShort:
		return date.Format("1/2/06")
	default:
		return date.Format("January 2, 2006")
	}
}
