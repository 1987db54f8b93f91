package synth

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/effort-engine/generic"
)

// =============================================================================
// TASK ALLOCATOR - Splitting one day's budget into sequential blocks
// =============================================================================

var msPerHour = decimal.NewFromInt(3_600_000)

// Allocator partitions a day's hour budget across a category set, producing
// chronologically sequential rows with no gaps or overlaps.
type Allocator struct {
	Rand     generic.Source
	Location *time.Location

	// Start-of-day clock time in Location.
	StartHour, StartMin, StartSec int
}

// ParseClock parses an HH:mm:ss clock string.
func ParseClock(s string) (hour, min, sec int, err error) {
	if _, err = fmt.Sscanf(s, "%d:%d:%d", &hour, &min, &sec); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return hour, min, sec, nil
}

// AllocateDay emits one row per positive-weight category, in a uniformly
// random order. Each category's duration is budget * weight * err hours,
// where err is an independent draw of 1 + U(-1,1)*ErrorSpread. The first
// row starts at the configured start-of-day instant; each subsequent row
// starts where the previous one ended.
//
// The random order affects only start-time sequencing, not totals; it keeps
// the same task from mechanically opening every day. A non-positive budget
// yields zero rows, not an error.
func (a *Allocator) AllocateDay(email string, day generic.TimePoint, budget decimal.Decimal, categories []Category) []Row {
	if !budget.IsPositive() {
		return nil
	}

	active := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.Weight.IsPositive() {
			active = append(active, c)
		}
	}
	a.Rand.Shuffle(len(active), func(i, j int) {
		active[i], active[j] = active[j], active[i]
	})

	cursor := day.At(a.StartHour, a.StartMin, a.StartSec, a.Location).UTC()

	rows := make([]Row, 0, len(active))
	for _, c := range active {
		err := generic.Jitter(a.Rand, ErrorSpread)
		hours := budget.Mul(c.Weight).Mul(decimal.NewFromFloat(err))
		dur := time.Duration(hours.Mul(msPerHour).IntPart()) * time.Millisecond

		rows = append(rows, Row{
			Email:    email,
			Project:  c.Project,
			Task:     c.Task,
			Day:      day,
			Start:    cursor,
			Duration: dur,
		})
		cursor = cursor.Add(dur)
	}
	return rows
}
