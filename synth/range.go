package synth

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/effort-engine/generic"
)

// =============================================================================
// RANGE SYNTHESIZER - Per-person driving loop
// =============================================================================

// Synthesizer drives the exclusion resolver and task allocator across every
// day of a person's effective range. One Synthesizer serves a whole run; it
// is safe to call for each person in roster order.
type Synthesizer struct {
	Calendar        generic.HolidayCalendar
	CompanyHolidays []string
	Rand            generic.Source
	Location        *time.Location

	DailyHours decimal.Decimal
	StartHour  int
	StartMin   int
	StartSec   int

	// Primary names the task category whose weight the per-range margin
	// perturbs; the remaining categories absorb the leftover evenly.
	Primary string
}

// EffectiveRange clamps the person's active span to the reporting boundary.
// A person with no end date is treated as active through the boundary end.
// The second return value is false when the person falls entirely outside
// the boundary.
func EffectiveRange(p Person, boundary generic.Period) (generic.Period, bool) {
	end := p.End
	if end.IsZero() {
		end = boundary.End
	}
	return generic.Period{Start: p.Start, End: end}.Intersect(boundary)
}

// Redistribute scales the primary category's weight by margin and gives each
// remaining category an equal share of what is left, modeling "this period
// the primary task ran over/under plan, the rest spreads evenly". When the
// primary is missing or has no peers the weights are returned unchanged.
// Assuming the input weights sum to 1, the output weights still sum to 1.
func Redistribute(primary string, margin float64, categories []Category) []Category {
	out := make([]Category, len(categories))
	copy(out, categories)

	idx := -1
	for i, c := range out {
		if c.Task == primary {
			idx = i
			break
		}
	}
	if idx < 0 || len(out) < 2 {
		return out
	}

	scaled := out[idx].Weight.Mul(decimal.NewFromFloat(margin))
	out[idx].Weight = scaled

	peers := decimal.NewFromInt(int64(len(out) - 1))
	share := decimal.NewFromInt(1).Sub(scaled).Div(peers)
	for i := range out {
		if i != idx {
			out[i].Weight = share
		}
	}
	return out
}

// SynthesizeRange produces the person's full contribution for the run, in
// day order. One redistribution margin is drawn for the whole range; each
// admitted day is then allocated independently with a budget of the daily
// hours minus that day's unavailability count.
func (s *Synthesizer) SynthesizeRange(p Person, boundary generic.Period, categories []Category) []Row {
	eff, ok := EffectiveRange(p, boundary)
	if !ok {
		return nil
	}

	margin := generic.Jitter(s.Rand, ErrorSpread)
	cats := Redistribute(s.Primary, margin, applyOverrides(categories, p.Weights))

	resolver := &Resolver{
		Calendar:         s.Calendar,
		CompanyHolidays:  s.CompanyHolidays,
		Intervals:        p.Intervals,
		OffWeekdays:      p.OffWeekdays,
		OffWeekdayRanges: p.OffWeekdayRanges,
	}
	alloc := &Allocator{
		Rand:      s.Rand,
		Location:  s.Location,
		StartHour: s.StartHour,
		StartMin:  s.StartMin,
		StartSec:  s.StartSec,
	}

	var rows []Row
	for day := eff.Start; day.BeforeOrEqual(eff.End); day = day.AddDays(1) {
		if resolver.ShouldExclude(day) {
			continue
		}
		budget := s.DailyHours.Sub(decimal.NewFromInt(int64(resolver.UnavailabilityCount(day))))
		rows = append(rows, alloc.AllocateDay(p.Email, day, budget, cats)...)
	}
	return rows
}

// applyOverrides replaces matching category weights with the person's
// configured ones. The override happens before redistribution so a person
// with a heavier primary share keeps it through the margin scaling.
func applyOverrides(categories []Category, weights map[string]decimal.Decimal) []Category {
	if len(weights) == 0 {
		return categories
	}
	out := make([]Category, len(categories))
	copy(out, categories)
	for i, c := range out {
		if w, ok := weights[c.Task]; ok {
			out[i].Weight = w
		}
	}
	return out
}
