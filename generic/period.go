package generic

// =============================================================================
// PERIOD - Inclusive day range
// =============================================================================

// Period is an inclusive [Start, End] range of calendar days.
//
// Examples:
//   - A reporting boundary: [2020-10-01, 2020-12-31]
//   - A vacation: [2023-06-01, 2023-06-05]
//   - An off-weekday applicability sub-range
type Period struct {
	Start TimePoint
	End   TimePoint
}

func NewPeriod(start, end TimePoint) Period { return Period{Start: start, End: end} }

// IsValid reports whether Start is on or before End.
func (p Period) IsValid() bool { return p.Start.BeforeOrEqual(p.End) }

// Contains returns true if the day is within the period [Start, End].
func (p Period) Contains(day TimePoint) bool {
	return day.AfterOrEqual(p.Start) && day.BeforeOrEqual(p.End)
}

// Intersect returns the overlap of two periods. The second return value is
// false when the periods do not overlap at all.
func (p Period) Intersect(other Period) (Period, bool) {
	out := p
	if other.Start.After(out.Start) {
		out.Start = other.Start
	}
	if other.End.Before(out.End) {
		out.End = other.End
	}
	if !out.IsValid() {
		return Period{}, false
	}
	return out, true
}

// Days returns all days in the period in chronological order.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
