package generic_test

import (
	"testing"
	"time"

	"github.com/warp/effort-engine/generic"
)

func TestParseDay_TruncatesDateTimeStrings(t *testing.T) {
	got, err := generic.ParseDay("2023-06-01T09:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := generic.NewTimePoint(2023, time.June, 1)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestParseDay_RejectsGarbage(t *testing.T) {
	if _, err := generic.ParseDay("not-a-date"); err == nil {
		t.Error("expected error for malformed input")
	}
}

func TestISOWeekday(t *testing.T) {
	cases := []struct {
		day  generic.TimePoint
		want int
	}{
		{generic.NewTimePoint(2023, time.June, 5), 1}, // Monday
		{generic.NewTimePoint(2023, time.June, 3), 6}, // Saturday
		{generic.NewTimePoint(2023, time.June, 4), 7}, // Sunday
	}
	for _, c := range cases {
		if got := c.day.ISOWeekday(); got != c.want {
			t.Errorf("%s: expected ISO weekday %d, got %d", c.day, c.want, got)
		}
	}
}

func TestIsNonWorkingDay_WeekendWithoutCalendar(t *testing.T) {
	saturday := generic.NewTimePoint(2023, time.June, 3)
	if !generic.IsNonWorkingDay(generic.NoHolidays{}, saturday) {
		t.Error("Saturday should be a non-working day")
	}
	monday := generic.NewTimePoint(2023, time.June, 5)
	if generic.IsNonWorkingDay(generic.NoHolidays{}, monday) {
		t.Error("plain Monday should be a working day")
	}
}

func TestTimePoint_At_ConvertsThroughLocation(t *testing.T) {
	// GIVEN: 09:00 in Toronto during daylight saving time
	// THEN: the UTC instant is 13:00
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	day := generic.NewTimePoint(2023, time.June, 5)
	got := day.At(9, 0, 0, loc).UTC()
	if got.Hour() != 13 {
		t.Errorf("expected 13:00 UTC, got %s", got.Format("15:04"))
	}
}
