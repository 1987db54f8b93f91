package synth_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/effort-engine/generic"
	"github.com/warp/effort-engine/synth"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// fixedSource replays a fixed Float64 sequence and never permutes, so tests
// can assert the allocation arithmetic exactly. A value of 0.5 yields a
// jitter factor of exactly 1.
type fixedSource struct {
	vals []float64
	i    int
}

func (f *fixedSource) Float64() float64 {
	if len(f.vals) == 0 {
		return 0.5
	}
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

func (f *fixedSource) Shuffle(n int, swap func(i, j int)) {}

var _ generic.Source = (*fixedSource)(nil)

func day(y int, m time.Month, d int) generic.TimePoint { return generic.NewTimePoint(y, m, d) }

func defaultCategories() []synth.Category {
	return []synth.Category{
		synth.NewCategory("Engineering", "Development", 0.7),
		synth.NewCategory("Engineering", "Research/Design", 0.1),
		synth.NewCategory("Engineering", "QA/Maintenance", 0.1),
		synth.NewCategory("Engineering", "Admin/Ops", 0.1),
	}
}

func toronto() *time.Location {
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		panic(err)
	}
	return loc
}

func hours(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func totalDuration(rows []synth.Row) time.Duration {
	var total time.Duration
	for _, r := range rows {
		total += r.Duration
	}
	return total
}

// fakeHolidays marks an explicit day set as public holidays.
type fakeHolidays map[string]bool

func (f fakeHolidays) IsHoliday(d generic.TimePoint) bool { return f[d.String()] }
