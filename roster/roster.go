// Package roster loads the people and absence inputs: the roster CSV
// (email, active start, optional end) and the HR time-off export. Absence
// rows are tagged as full-day vacations or partial-day events here, at the
// loading boundary, so the engine never inspects date-string shape.
package roster

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/warp/effort-engine/generic"
	"github.com/warp/effort-engine/synth"
)

type personRecord struct {
	Name  string `csv:"name"`
	Email string `csv:"Email"`
	Start string `csv:"start"`
	End   string `csv:"end"`
}

// LoadPeople reads the roster CSV, preserving row order. Emails are
// lowercased; an empty end date means active through the boundary end.
func LoadPeople(r io.Reader) ([]synth.Person, error) {
	var records []personRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	people := make([]synth.Person, 0, len(records))
	for _, rec := range records {
		email := strings.ToLower(strings.TrimSpace(rec.Email))
		if email == "" {
			continue
		}
		start, err := generic.ParseDay(rec.Start)
		if err != nil {
			return nil, fmt.Errorf("roster %s: invalid start date %q: %w", email, rec.Start, err)
		}
		p := synth.Person{Email: email, Start: start}
		if strings.TrimSpace(rec.End) != "" {
			end, err := generic.ParseDay(rec.End)
			if err != nil {
				return nil, fmt.Errorf("roster %s: invalid end date %q: %w", email, rec.End, err)
			}
			p.End = end
		}
		people = append(people, p)
	}
	return people, nil
}
