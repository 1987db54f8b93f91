/*
Package report assembles the generated output: it runs the synthesizer once
per person in roster order, writes the rows as quoted CSV, and builds the
per-(email, project, task) duration summary.

FORMAT:

	Rows:    "Email","Project","Task","Start date","Start time","Duration"
	         with every field double-quoted. Fields are assumed quote-free.
	Summary: Email,Project,Task,Duration (unquoted), Duration as H:mm:ss with
	         unbounded hours.

	The summary is deliberately a re-aggregation of the written file, not of
	the in-memory rows: parsing what was actually written keeps the two files
	consistent under the second-level truncation of the row format.
*/
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/warp/effort-engine/generic"
	"github.com/warp/effort-engine/synth"
)

// Header is the generated-file header, in column order.
var Header = []string{"Email", "Project", "Task", "Start date", "Start time", "Duration"}

const clockLayout = "15:04:05"

// =============================================================================
// ROW WRITER
// =============================================================================

// Writer emits generated rows as quoted CSV lines.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// WriteHeader writes the quoted header line.
func (w *Writer) WriteHeader() error {
	return w.writeQuoted(Header)
}

// WriteRows writes one line per row. Start times are UTC; durations use the
// clock portion of the elapsed span, which wraps at 24 hours - per-category
// durations stay far below that with any sane daily budget.
func (w *Writer) WriteRows(rows []synth.Row) error {
	for _, r := range rows {
		fields := []string{
			r.Email,
			r.Project,
			r.Task,
			r.Day.String(),
			r.Start.UTC().Format(clockLayout),
			FormatClock(r.Duration),
		}
		if err := w.writeQuoted(fields); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeQuoted(fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + f + `"`
	}
	_, err := fmt.Fprintln(w.w, strings.Join(quoted, ","))
	return err
}

// FormatClock formats a duration as HH:mm:ss, wrapping at 24 hours.
func FormatClock(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600%24, total/60%60, total%60)
}

// =============================================================================
// ASSEMBLER
// =============================================================================

// Assembler drives generation for a whole roster.
type Assembler struct {
	Synth *synth.Synthesizer
	Log   *zap.Logger
}

// Generate writes the header and every person's rows, in roster order, to
// out. People whose effective range is empty contribute nothing.
func (a *Assembler) Generate(people []synth.Person, boundary generic.Period, categories []synth.Category, out io.Writer) error {
	log := a.Log
	if log == nil {
		log = zap.NewNop()
	}

	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range people {
		rows := a.Synth.SynthesizeRange(p, boundary, categories)
		if err := w.WriteRows(rows); err != nil {
			return fmt.Errorf("write rows for %s: %w", p.Email, err)
		}
		log.Info("generated", zap.String("email", p.Email), zap.Int("rows", len(rows)))
	}
	return nil
}

// =============================================================================
// SUMMARY
// =============================================================================

type generatedRecord struct {
	Email    string `csv:"Email"`
	Project  string `csv:"Project"`
	Task     string `csv:"Task"`
	Duration string `csv:"Duration"`
}

type summaryKey struct {
	email, project, task string
}

// Summarize re-parses a generated file and writes cumulative durations per
// (email, project, task). Output order follows first appearance in the
// input, so it tracks roster order.
func Summarize(in io.Reader, out io.Writer) error {
	var records []generatedRecord
	if err := gocsv.Unmarshal(in, &records); err != nil {
		return fmt.Errorf("parse generated rows: %w", err)
	}

	totals := make(map[summaryKey]int64)
	var order []summaryKey
	for _, rec := range records {
		secs, err := parseClockSeconds(rec.Duration)
		if err != nil {
			return fmt.Errorf("row for %s: %w", rec.Email, err)
		}
		k := summaryKey{rec.Email, rec.Project, rec.Task}
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] += secs
	}

	if _, err := fmt.Fprintln(out, "Email,Project,Task,Duration"); err != nil {
		return err
	}
	for _, k := range order {
		total := totals[k]
		if _, err := fmt.Fprintf(out, "%s,%s,%s,%d:%02d:%02d\n",
			k.email, k.project, k.task, total/3600, total/60%60, total%60); err != nil {
			return err
		}
	}
	return nil
}

// parseClockSeconds parses an HH:mm:ss duration field into seconds.
func parseClockSeconds(s string) (int64, error) {
	var h, m, sec int64
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return h*3600 + m*60 + sec, nil
}
