/*
Package calendar provides jurisdiction-aware public-holiday lookup.

PURPOSE:

	Implements generic.HolidayCalendar on top of the rickar/cal holiday
	definitions. Holiday rules are jurisdiction data, not logic: this package
	only selects the right definition set for a region code and delegates the
	date math to the library.

JURISDICTIONS:

	"CA"    National Canadian statutory holidays
	"CA-ON" Ontario statutory holidays (the default working jurisdiction)

	Adding a region means adding a definition set to the registry below.

USAGE:

	hc, err := calendar.New("CA-ON")
	if generic.IsNonWorkingDay(hc, day) { ... }

SEE ALSO:
  - generic/time.go: HolidayCalendar interface, weekend handling
  - synth/exclusion.go: first gate of the exclusion order
*/
package calendar

import (
	"fmt"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/ca"

	"github.com/warp/effort-engine/generic"
)

// ontario is the Ontario statutory set: the national days plus the
// provincially observed ones.
var ontario = []*cal.Holiday{
	ca.NewYear,
	ca.FamilyDay,
	ca.GoodFriday,
	ca.VictoriaDay,
	ca.CanadaDay,
	ca.LabourDay,
	ca.ThanksgivingDay,
	ca.ChristmasDay,
	ca.BoxingDay,
}

var regions = map[string][]*cal.Holiday{
	"CA":    ca.Holidays,
	"CA-ON": ontario,
}

// Calendar answers public-holiday queries for one jurisdiction. Construct
// one per run and pass it explicitly; there is no process-wide instance.
type Calendar struct {
	region string
	cal    *cal.Calendar
}

var _ generic.HolidayCalendar = (*Calendar)(nil)

// New builds a calendar for the given region code.
func New(region string) (*Calendar, error) {
	defs, ok := regions[region]
	if !ok {
		return nil, fmt.Errorf("unknown holiday jurisdiction %q", region)
	}
	c := &cal.Calendar{Name: region, Cacheable: true}
	c.AddHoliday(defs...)
	return &Calendar{region: region, cal: c}, nil
}

// Region returns the jurisdiction code this calendar was built for.
func (c *Calendar) Region() string { return c.region }

// IsHoliday reports whether the day is a public holiday, either on its
// actual date or as the observed substitute.
func (c *Calendar) IsHoliday(day generic.TimePoint) bool {
	actual, observed, _ := c.cal.IsHoliday(day.Time)
	return actual || observed
}
