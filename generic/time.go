package generic

import (
	"time"
)

// =============================================================================
// TIME POINT - Calendar-day abstraction (this IS a calendar-driven system)
// =============================================================================

// TimePoint is a single calendar day. The zero value is the zero day.
//
// A TimePoint is zone-free: it identifies a day on the calendar, not an
// instant. Conversion to instants (start-of-day, a clock time within the
// day) happens explicitly against a *time.Location, because the synthesizer
// formats all emitted times in UTC while day boundaries follow the working
// timezone.
type TimePoint struct {
	Time time.Time
}

const dayLayout = "2006-01-02"

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a YYYY-MM-DD string. Inputs longer than a full date
// (date-time strings) are truncated to their date portion.
func ParseDay(s string) (TimePoint, error) {
	if len(s) > len(dayLayout) {
		s = s[:len(dayLayout)]
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return TimePoint{}, err
	}
	return TimePoint{Time: t}, nil
}

func Today() TimePoint {
	now := time.Now()
	return NewTimePoint(now.Year(), now.Month(), now.Day())
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

// ISOWeekday returns the ISO 8601 weekday number: Monday=1 .. Sunday=7.
func (tp TimePoint) ISOWeekday() int {
	wd := int(tp.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func (tp TimePoint) IsWeekend() bool {
	wd := tp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (tp TimePoint) String() string { return tp.normalize().Format(dayLayout) }

// StartOfDay returns midnight of this day in the given location.
func (tp TimePoint) StartOfDay(loc *time.Location) time.Time {
	return time.Date(tp.Year(), tp.Month(), tp.Day(), 0, 0, 0, 0, loc)
}

// At returns the instant at the given clock time within this day, in the
// given location.
func (tp TimePoint) At(hour, min, sec int, loc *time.Location) time.Time {
	return time.Date(tp.Year(), tp.Month(), tp.Day(), hour, min, sec, 0, loc)
}

// =============================================================================
// HOLIDAY CALENDAR - Jurisdiction-scoped public holidays
// =============================================================================

// HolidayCalendar answers whether a day is a public holiday. Implementations
// are jurisdiction-scoped: one calendar is constructed per run for the
// configured region and passed explicitly to the exclusion logic.
type HolidayCalendar interface {
	IsHoliday(day TimePoint) bool
}

// NoHolidays is a calendar with no public holidays.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(day TimePoint) bool { return false }

// IsNonWorkingDay reports whether a day is a weekend or a public holiday in
// the calendar's jurisdiction.
func IsNonWorkingDay(cal HolidayCalendar, day TimePoint) bool {
	if day.IsWeekend() {
		return true
	}
	return cal != nil && cal.IsHoliday(day)
}

// DaysBetween returns the number of whole days from one day to another.
func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}
