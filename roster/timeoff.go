package roster

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/warp/effort-engine/generic"
	"github.com/warp/effort-engine/synth"
)

// timeOffRecord mirrors the HR time-off export. The sheet carries more
// columns (status, manager, leave type); only these drive generation.
type timeOffRecord struct {
	Email      string `csv:"Email"`
	Department string `csv:"Department"`
	From       string `csv:"Date From"`
	To         string `csv:"Date To"`
}

const fullDateLen = len("2006-01-02")

// TagInterval classifies one absence record. A date-only end value (a full
// 10-character calendar date) marks a full-day vacation; a longer date-time
// end marks a partial-day event affecting the single day it ends on.
func TagInterval(start, end string) (synth.Interval, error) {
	endDay, err := generic.ParseDay(end)
	if err != nil {
		return synth.Interval{}, fmt.Errorf("invalid absence end %q: %w", end, err)
	}
	startDay, err := generic.ParseDay(start)
	if err != nil {
		return synth.Interval{}, fmt.Errorf("invalid absence start %q: %w", start, err)
	}

	kind := synth.PartialDayEvent
	if len(strings.TrimSpace(end)) == fullDateLen {
		kind = synth.FullDayVacation
	}
	return synth.Interval{Kind: kind, Start: startDay, End: endDay}, nil
}

// LoadTimeOff reads the HR export, keeps rows whose department matches
// case-insensitively, and groups tagged intervals per lowercased email.
func LoadTimeOff(r io.Reader, department string) (map[string][]synth.Interval, error) {
	var records []timeOffRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("parse time-off sheet: %w", err)
	}

	out := make(map[string][]synth.Interval)
	for _, rec := range records {
		if !strings.EqualFold(strings.TrimSpace(rec.Department), department) {
			continue
		}
		email := strings.ToLower(strings.TrimSpace(rec.Email))
		if email == "" {
			continue
		}
		iv, err := TagInterval(rec.From, rec.To)
		if err != nil {
			return nil, fmt.Errorf("time-off %s: %w", email, err)
		}
		out[email] = append(out[email], iv)
	}
	return out, nil
}
