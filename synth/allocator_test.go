package synth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/effort-engine/synth"
)

func newAllocator(src *fixedSource) *synth.Allocator {
	return &synth.Allocator{
		Rand:      src,
		Location:  toronto(),
		StartHour: 9,
	}
}

func TestAllocateDay_ExactPartition(t *testing.T) {
	// GIVEN: an 8h budget, default weights, and a jitter factor pinned to 1
	a := newAllocator(&fixedSource{})
	rows := a.AllocateDay("a@b.co", day(2023, time.June, 5), hours(8), defaultCategories())
	require.Len(t, rows, 4)

	// THEN: durations are exactly budget*weight and the day totals 8h
	assert.Equal(t, 5*time.Hour+36*time.Minute, rows[0].Duration) // 8 * 0.7
	assert.Equal(t, 48*time.Minute, rows[1].Duration)             // 8 * 0.1
	assert.Equal(t, 8*time.Hour, totalDuration(rows))
}

func TestAllocateDay_SequentialNoGaps(t *testing.T) {
	a := newAllocator(&fixedSource{vals: []float64{0.2, 0.9, 0.5, 0.7}})
	rows := a.AllocateDay("a@b.co", day(2023, time.June, 5), hours(8), defaultCategories())
	require.Len(t, rows, 4)

	// First block starts at 09:00 Toronto = 13:00 UTC (EDT).
	assert.Equal(t, "13:00:00", rows[0].Start.Format("15:04:05"))
	for i := 1; i < len(rows); i++ {
		expected := rows[i-1].Start.Add(rows[i-1].Duration)
		assert.True(t, rows[i].Start.Equal(expected),
			"row %d should start where row %d ended", i, i-1)
	}
}

func TestAllocateDay_JitterStaysInBounds(t *testing.T) {
	// Extreme draws: 0 -> factor 0.889, 1 -> factor 1.111.
	low := newAllocator(&fixedSource{vals: []float64{0}})
	high := newAllocator(&fixedSource{vals: []float64{1}})
	cats := []synth.Category{synth.NewCategory("Engineering", "Development", 1)}

	lowRows := low.AllocateDay("a@b.co", day(2023, time.June, 5), hours(8), cats)
	highRows := high.AllocateDay("a@b.co", day(2023, time.June, 5), hours(8), cats)
	require.Len(t, lowRows, 1)
	require.Len(t, highRows, 1)

	// 8h * 0.889 and 8h * 1.111, to millisecond precision.
	assert.InDelta(t, 7.112, lowRows[0].Duration.Hours(), 1e-6)
	assert.InDelta(t, 8.888, highRows[0].Duration.Hours(), 1e-6)
}

func TestAllocateDay_DropsNonPositiveWeights(t *testing.T) {
	a := newAllocator(&fixedSource{})
	cats := append(defaultCategories(), synth.NewCategory("Engineering", "Idle", 0))
	rows := a.AllocateDay("a@b.co", day(2023, time.June, 5), hours(8), cats)
	assert.Len(t, rows, 4)
	for _, r := range rows {
		assert.NotEqual(t, "Idle", r.Task)
	}
}

func TestAllocateDay_NonPositiveBudget(t *testing.T) {
	a := newAllocator(&fixedSource{})
	assert.Empty(t, a.AllocateDay("a@b.co", day(2023, time.June, 5), hours(0), defaultCategories()))
	assert.Empty(t, a.AllocateDay("a@b.co", day(2023, time.June, 5), hours(-2), defaultCategories()))
}

func TestAllocateDay_NoNormalization(t *testing.T) {
	// Weights summing to 0.5 allocate half the budget, by design.
	a := newAllocator(&fixedSource{})
	cats := []synth.Category{
		synth.NewCategory("Engineering", "Development", 0.3),
		synth.NewCategory("Engineering", "Admin/Ops", 0.2),
	}
	rows := a.AllocateDay("a@b.co", day(2023, time.June, 5), hours(8), cats)
	assert.Equal(t, 4*time.Hour, totalDuration(rows))
}

func TestParseClock(t *testing.T) {
	h, m, s, err := synth.ParseClock("09:30:15")
	require.NoError(t, err)
	assert.Equal(t, []int{9, 30, 15}, []int{h, m, s})

	_, _, _, err = synth.ParseClock("morning")
	assert.Error(t, err)
}
