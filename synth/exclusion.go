package synth

import (
	"github.com/warp/effort-engine/generic"
)

// =============================================================================
// EXCLUSION RESOLVER - Which days produce entries
// =============================================================================

// Resolver decides, for one person, whether a calendar day is excluded from
// generation and how many partial-day events reduce its hour budget. It
// holds no mutable state; both methods are pure.
type Resolver struct {
	Calendar         generic.HolidayCalendar
	CompanyHolidays  []string // formatted YYYY-MM-DD, exact match
	Intervals        []Interval
	OffWeekdays      []int
	OffWeekdayRanges []generic.Period
}

// ShouldExclude applies the exclusion rules in order, first match wins:
//
//  1. weekend or public holiday
//  2. company holiday (exact date-string match)
//  3. fixed off-weekday, honored only inside an applicability sub-range
//  4. full-day vacation
//
// The order is load-bearing: a vacation overlapping a weekend must still
// report the day as a weekend exclusion, and an off-weekday outside every
// applicability sub-range does not exclude.
func (r *Resolver) ShouldExclude(day generic.TimePoint) bool {
	if generic.IsNonWorkingDay(r.Calendar, day) {
		return true
	}
	formatted := day.String()
	for _, h := range r.CompanyHolidays {
		if h == formatted {
			return true
		}
	}
	if r.isOffWeekday(day) {
		return true
	}
	for _, iv := range r.Intervals {
		if iv.Kind == FullDayVacation && iv.Period().Contains(day) {
			return true
		}
	}
	return false
}

// isOffWeekday requires both conditions: the day falls inside a configured
// applicability sub-range AND its ISO weekday is in the off set.
func (r *Resolver) isOffWeekday(day generic.TimePoint) bool {
	inRange := false
	for _, p := range r.OffWeekdayRanges {
		if p.Contains(day) {
			inRange = true
			break
		}
	}
	if !inRange {
		return false
	}
	wd := day.ISOWeekday()
	for _, off := range r.OffWeekdays {
		if off == wd {
			return true
		}
	}
	return false
}

// UnavailabilityCount returns how many partial-day events end on the given
// day. Each one subtracts an hour from the day's budget; a count at or above
// the daily hours leaves a non-positive budget, which the allocator turns
// into zero rows.
func (r *Resolver) UnavailabilityCount(day generic.TimePoint) int {
	n := 0
	for _, iv := range r.Intervals {
		if iv.Kind == PartialDayEvent && iv.End.Equal(day) {
			n++
		}
	}
	return n
}
