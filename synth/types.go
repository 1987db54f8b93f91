/*
Package synth generates plausible daily work-time entries.

PURPOSE:

	This package is the time-allocation and exclusion engine. Given a person's
	active span intersected with a reporting boundary, it decides which
	calendar days produce entries, and for each producing day partitions an
	hour budget across a shuffled category set with randomized per-category
	error, emitting sequential non-overlapping time blocks from a fixed daily
	start time.

KEY CONCEPTS IN THIS FILE (types.go):
  - Category: a (project, task) pair with a fractional weight
  - Interval: a tagged absence variant - full-day vacation or partial-day event
  - Person: roster identity plus per-person exclusion configuration
  - Row: one emitted time block

DESIGN PRINCIPLES:
 1. Precision: decimal.Decimal for weights and budgets, time.Duration at edges
 2. Explicit variants: absence kind is tagged at the loading boundary, the
    engine never inspects string shape
 3. Injected capabilities: holiday calendar and random source are passed in,
    never global

SEE ALSO:
  - exclusion.go: which days produce entries
  - allocator.go: how a producing day's budget is split
  - range.go: the per-person driving loop and weight redistribution
*/
package synth

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/effort-engine/generic"
)

// ErrorSpread is the half-width of the uniform multiplicative jitter applied
// to per-category durations and to the per-range redistribution margin:
// factors are drawn as 1 + U(-1,1)*ErrorSpread.
const ErrorSpread = 0.111

// =============================================================================
// CATEGORY - (project, task) with a weight
// =============================================================================

// Category is a (project, task) pair holding a fraction of the daily hour
// budget. Weights across a set need not sum to 1; the allocator scales each
// category independently and never normalizes.
type Category struct {
	Project string
	Task    string
	Weight  decimal.Decimal
}

// NewCategory builds a category from a float weight.
func NewCategory(project, task string, weight float64) Category {
	return Category{Project: project, Task: task, Weight: decimal.NewFromFloat(weight)}
}

// =============================================================================
// INTERVAL - Tagged absence variant
// =============================================================================

type IntervalKind int

const (
	// FullDayVacation excludes every day it covers.
	FullDayVacation IntervalKind = iota
	// PartialDayEvent reduces the available hours of the single day matching
	// its End date; the day itself still produces entries.
	PartialDayEvent
)

// Interval is one absence record. Start..End is inclusive. For a
// PartialDayEvent only End is significant: it names the affected day.
type Interval struct {
	Kind  IntervalKind
	Start generic.TimePoint
	End   generic.TimePoint
}

// Period returns the inclusive day range the interval covers.
func (iv Interval) Period() generic.Period {
	return generic.Period{Start: iv.Start, End: iv.End}
}

// =============================================================================
// PERSON - Roster identity plus exclusion configuration
// =============================================================================

// Person is one row of the roster enriched with absence and off-weekday
// configuration. Email is lowercased at the loading boundary.
type Person struct {
	Email string
	Start generic.TimePoint
	End   generic.TimePoint // zero value = active through the boundary end

	// Intervals holds the person's vacations and partial-day events.
	Intervals []Interval

	// OffWeekdays lists ISO weekdays (Mon=1..Sun=7) the person has off,
	// honored only inside OffWeekdayRanges.
	OffWeekdays      []int
	OffWeekdayRanges []generic.Period

	// Weights optionally overrides category weights by task name.
	Weights map[string]decimal.Decimal
}

// =============================================================================
// ROW - One emitted time block
// =============================================================================

// Row is a single generated time entry. Start is the UTC instant the block
// begins; formatting to the CSV wire shape happens in the report package.
type Row struct {
	Email    string
	Project  string
	Task     string
	Day      generic.TimePoint
	Start    time.Time
	Duration time.Duration
}
