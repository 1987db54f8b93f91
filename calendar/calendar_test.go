package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/effort-engine/calendar"
	"github.com/warp/effort-engine/generic"
)

func TestNew_UnknownJurisdiction(t *testing.T) {
	_, err := calendar.New("XX-YY")
	assert.Error(t, err)
}

func TestOntarioStatutoryHolidays(t *testing.T) {
	hc, err := calendar.New("CA-ON")
	require.NoError(t, err)

	cases := []struct {
		name string
		day  generic.TimePoint
		want bool
	}{
		{"Christmas Day 2023", generic.NewTimePoint(2023, time.December, 25), true},
		{"Family Day 2023", generic.NewTimePoint(2023, time.February, 20), true},
		{"Canada Day 2023", generic.NewTimePoint(2023, time.July, 1), true},
		{"ordinary Wednesday", generic.NewTimePoint(2023, time.June, 7), false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, hc.IsHoliday(c.day), c.name)
	}
}

func TestIsNonWorkingDay_HolidayOnWeekday(t *testing.T) {
	hc, err := calendar.New("CA-ON")
	require.NoError(t, err)

	// 2023-12-25 is a Monday.
	assert.True(t, generic.IsNonWorkingDay(hc, generic.NewTimePoint(2023, time.December, 25)))
	// The Thursday after Boxing Day is a regular working day.
	assert.False(t, generic.IsNonWorkingDay(hc, generic.NewTimePoint(2023, time.December, 28)))
}
