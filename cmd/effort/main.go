/*
main.go - effort CLI entry point

PURPOSE:

	Command-line surface for the effort engine. Three subcommands:

	generate  Synthesize daily time entries for a roster over a date boundary
	          and write the timesheet CSV plus a per-(email, project, task)
	          duration summary.
	adjust    Scale the stored durations of one user's tracked entries by a
	          percentage, within a date boundary.
	delete    Remove one user's tracked entries within a date boundary.

EXAMPLES:

	# Generate from a roster and HR time-off export
	effort generate --after 2023-10-01 --before 2023-12-31 \
	    --roster people.csv --timeoff timeoff.csv --out timesheet.csv

	# Source absences from the availability workspace instead of a CSV
	AVAIL_API_TOKEN=... AVAIL_WORKSPACE=... effort generate \
	    --after 2023-10-01 --before 2023-12-31 --roster people.csv

	# Scale a user's entries down to 80%
	TRACK_API_TOKEN=... effort adjust --after 2023-10-01 --before 2023-12-31 \
	    --user a@b.co --workspace "Dev" --project Engineering --percent 80

ENVIRONMENT:

	TRACK_API_TOKEN   Time-tracking service API token (adjust, delete)
	AVAIL_API_TOKEN   Availability workspace token (generate, when no
	                  --timeoff sheet is given)
	AVAIL_WORKSPACE   Availability workspace gid
	AVAIL_PROJECT     Availability project gid filter (optional)
	AVAIL_SECTIONS    Comma-separated section gids (optional)

EXIT BEHAVIOR:

	Any failure logs the error and exits non-zero. Lookup failures carry the
	identifier that failed to resolve.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/warp/effort-engine/avail"
	"github.com/warp/effort-engine/calendar"
	"github.com/warp/effort-engine/config"
	"github.com/warp/effort-engine/generic"
	"github.com/warp/effort-engine/report"
	"github.com/warp/effort-engine/roster"
	"github.com/warp/effort-engine/synth"
	"github.com/warp/effort-engine/track"
)

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "generate":
		err = runGenerate(os.Args[2:], log)
	case "adjust":
		err = runAdjust(os.Args[2:], log)
	case "delete":
		err = runDelete(os.Args[2:], log)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: effort <generate|adjust|delete> [flags]

Run "effort <command> --help" for command flags.`)
}

// =============================================================================
// GENERATE
// =============================================================================

func runGenerate(args []string, log *zap.Logger) error {
	fs := pflag.NewFlagSet("generate", pflag.ExitOnError)
	after := fs.String("after", "", "boundary start date YYYY-MM-DD")
	before := fs.String("before", "", "boundary end date YYYY-MM-DD")
	rosterFile := fs.String("roster", "", "CSV file with people \"name,Email,start,end\"")
	timeoffFile := fs.String("timeoff", "", "CSV export of HR time-off requests; omit to query the availability workspace")
	project := fs.String("project", "Engineering", "project name stamped on every row")
	department := fs.String("department", "Product & Development", "department filter for the time-off sheet")
	out := fs.String("out", "timesheet.csv", "CSV output file")
	taskSplit := fs.String("task-split", "", "comma-separated task weights, in configured task order")
	configFile := fs.String("config", "", "YAML config file; defaults apply when omitted")
	if err := fs.Parse(args); err != nil {
		return err
	}

	boundary, err := parseBoundary(*after, *before)
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if *configFile != "" {
		if cfg, err = config.Load(*configFile); err != nil {
			return err
		}
	}
	split, err := config.ParseSplit(*taskSplit)
	if err != nil {
		return err
	}
	cfg.ApplySplit(split)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	hcal, err := calendar.New(cfg.Jurisdiction)
	if err != nil {
		return err
	}

	people, err := loadPeople(*rosterFile)
	if err != nil {
		return err
	}
	intervals, err := loadIntervals(*timeoffFile, *department, boundary, log)
	if err != nil {
		return err
	}
	for i := range people {
		p := &people[i]
		p.Intervals = intervals[p.Email]
		p.OffWeekdays, p.OffWeekdayRanges, p.Weights, err = cfg.Overrides(p.Email)
		if err != nil {
			return fmt.Errorf("overrides for %s: %w", p.Email, err)
		}
	}

	hour, min, sec, err := synth.ParseClock(cfg.StartOfDay)
	if err != nil {
		return err
	}
	assembler := &report.Assembler{
		Synth: &synth.Synthesizer{
			Calendar:        hcal,
			CompanyHolidays: cfg.CompanyHolidays,
			Rand:            generic.NewSource(),
			Location:        loc,
			DailyHours:      decimal.NewFromFloat(cfg.DailyHours),
			StartHour:       hour,
			StartMin:        min,
			StartSec:        sec,
			Primary:         cfg.PrimaryTask,
		},
		Log: log,
	}

	outFile, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	err = assembler.Generate(people, boundary, cfg.Categories(*project), outFile)
	if cerr := outFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	return summarize(*out, log)
}

func loadPeople(path string) ([]synth.Person, error) {
	if path == "" {
		return nil, fmt.Errorf("--roster is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()
	return roster.LoadPeople(f)
}

// loadIntervals prefers the HR sheet when given, otherwise queries the
// availability workspace.
func loadIntervals(timeoffFile, department string, boundary generic.Period, log *zap.Logger) (map[string][]synth.Interval, error) {
	if timeoffFile != "" {
		f, err := os.Open(timeoffFile)
		if err != nil {
			return nil, fmt.Errorf("open time-off sheet: %w", err)
		}
		defer f.Close()
		return roster.LoadTimeOff(f, department)
	}

	token := os.Getenv("AVAIL_API_TOKEN")
	workspace := os.Getenv("AVAIL_WORKSPACE")
	if token == "" || workspace == "" {
		return nil, fmt.Errorf("no --timeoff sheet given and AVAIL_API_TOKEN/AVAIL_WORKSPACE are unset")
	}
	client := avail.NewClient(token, workspace, avail.WithLogger(log))
	return client.Intervals(context.Background(), avail.SearchParams{
		Boundary: boundary,
		Projects: os.Getenv("AVAIL_PROJECT"),
		Sections: os.Getenv("AVAIL_SECTIONS"),
	})
}

func summarize(outPath string, log *zap.Logger) error {
	in, err := os.Open(outPath)
	if err != nil {
		return fmt.Errorf("reopen %s: %w", outPath, err)
	}
	defer in.Close()

	summaryPath := outPath + "_summary.csv"
	out, err := os.Create(summaryPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", summaryPath, err)
	}
	err = report.Summarize(in, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		log.Info("wrote summary", zap.String("file", summaryPath))
	}
	return err
}

// =============================================================================
// ADJUST / DELETE
// =============================================================================

func runAdjust(args []string, log *zap.Logger) error {
	fs := pflag.NewFlagSet("adjust", pflag.ExitOnError)
	params, configFile := effortFlags(fs)
	percent := fs.Float64("percent", 0, "percentage of the current duration to keep, 1-99")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *percent <= 0 {
		return fmt.Errorf("--percent is required")
	}

	cfg := config.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return err
		}
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	client, err := trackClient(log)
	if err != nil {
		return err
	}
	return client.AdjustEffort(context.Background(), *params, *percent, loc)
}

func runDelete(args []string, log *zap.Logger) error {
	fs := pflag.NewFlagSet("delete", pflag.ExitOnError)
	params, _ := effortFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	client, err := trackClient(log)
	if err != nil {
		return err
	}
	return client.DeleteEffort(context.Background(), *params)
}

func effortFlags(fs *pflag.FlagSet) (*track.EffortParams, *string) {
	p := &track.EffortParams{}
	fs.StringVar(&p.Since, "after", "", "boundary start date YYYY-MM-DD")
	fs.StringVar(&p.Until, "before", "", "boundary end date YYYY-MM-DD")
	fs.StringVar(&p.User, "user", "", "user email")
	fs.StringVar(&p.Workspace, "workspace", "EQ Dev", "workspace name")
	fs.StringVar(&p.Project, "project", "Engineering", "project name")
	configFile := fs.String("config", "", "YAML config file")
	return p, configFile
}

func trackClient(log *zap.Logger) (*track.Client, error) {
	token := os.Getenv("TRACK_API_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TRACK_API_TOKEN is unset")
	}
	return track.New(token, track.WithLogger(log)), nil
}

func parseBoundary(after, before string) (generic.Period, error) {
	if after == "" || before == "" {
		return generic.Period{}, fmt.Errorf("--after and --before are required")
	}
	start, err := generic.ParseDay(after)
	if err != nil {
		return generic.Period{}, fmt.Errorf("invalid --after: %w", err)
	}
	end, err := generic.ParseDay(before)
	if err != nil {
		return generic.Period{}, fmt.Errorf("invalid --before: %w", err)
	}
	p := generic.Period{Start: start, End: end}
	if !p.IsValid() {
		return generic.Period{}, fmt.Errorf("boundary %s ends before it starts", p)
	}
	return p, nil
}
