// Package config holds the YAML run configuration: working timezone and
// jurisdiction, the daily hour budget and start-of-day, the default task
// categories, company holidays, and per-person overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/effort-engine/generic"
	"github.com/warp/effort-engine/synth"
)

// TaskConfig is one task category and its default share of the daily budget.
type TaskConfig struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

// PersonConfig carries per-person overrides keyed by email.
type PersonConfig struct {
	Email string `yaml:"email"`

	// OffWeekdays lists ISO weekdays (Mon=1..Sun=7) the person has off.
	OffWeekdays []int `yaml:"off_weekdays,omitempty"`

	// OffWeekdayRanges lists the sub-ranges during which the off-weekdays
	// are honored, each as "YYYY-MM-DD to YYYY-MM-DD".
	OffWeekdayRanges []string `yaml:"off_weekday_ranges,omitempty"`

	// Weights overrides task weights by task name.
	Weights map[string]float64 `yaml:"weights,omitempty"`
}

// Config is the top-level run configuration.
type Config struct {
	// Timezone is the IANA working timezone; day boundaries and start-of-day
	// are interpreted in it (e.g. "America/Toronto").
	Timezone string `yaml:"timezone"`

	// Jurisdiction is the public-holiday region code (e.g. "CA-ON").
	Jurisdiction string `yaml:"jurisdiction"`

	// DailyHours is the hour budget of a producing day.
	DailyHours float64 `yaml:"daily_hours"`

	// StartOfDay is the clock time the first block of a day begins, HH:mm:ss.
	StartOfDay string `yaml:"start_of_day"`

	// PrimaryTask names the category perturbed by the per-range margin.
	PrimaryTask string `yaml:"primary_task"`

	// Tasks is the default category set in declaration order.
	Tasks []TaskConfig `yaml:"tasks"`

	// CompanyHolidays lists company-wide closure days as YYYY-MM-DD strings.
	CompanyHolidays []string `yaml:"company_holidays"`

	// People holds per-person overrides.
	People []PersonConfig `yaml:"people,omitempty"`
}

// DefaultConfig returns the in-memory defaults used when no config file is
// given.
func DefaultConfig() *Config {
	return &Config{
		Timezone:     "America/Toronto",
		Jurisdiction: "CA-ON",
		DailyHours:   8,
		StartOfDay:   "09:00:00",
		PrimaryTask:  "Development",
		Tasks: []TaskConfig{
			{Name: "Development", Weight: 0.7},
			{Name: "Research/Design", Weight: 0.1},
			{Name: "QA/Maintenance", Weight: 0.1},
			{Name: "Admin/Ops", Weight: 0.1},
		},
		CompanyHolidays: []string{
			"2022-01-01",
			"2022-01-02",
			// office closed
			"2023-12-25",
			"2023-12-26",
			"2023-12-27",
			"2023-12-28",
			"2023-12-29",
		},
	}
}

// Normalize fills in missing/zero values so partially-filled config files
// still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.Jurisdiction == "" {
		c.Jurisdiction = def.Jurisdiction
	}
	if c.DailyHours <= 0 {
		c.DailyHours = def.DailyHours
	}
	if c.StartOfDay == "" {
		c.StartOfDay = def.StartOfDay
	}
	if c.PrimaryTask == "" {
		c.PrimaryTask = def.PrimaryTask
	}
	if len(c.Tasks) == 0 {
		c.Tasks = def.Tasks
	}
}

// Load reads and normalizes a YAML config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.Normalize()
	return &c, nil
}

// Categories materializes the configured task set for one project name.
func (c *Config) Categories(project string) []synth.Category {
	cats := make([]synth.Category, 0, len(c.Tasks))
	for _, t := range c.Tasks {
		cats = append(cats, synth.NewCategory(project, t.Name, t.Weight))
	}
	return cats
}

// ApplySplit replaces the task weights with CLI-provided fractions, in task
// declaration order. Extra fractions are ignored; missing ones keep the
// configured weight.
func (c *Config) ApplySplit(split []float64) {
	for i := range c.Tasks {
		if i < len(split) {
			c.Tasks[i].Weight = split[i]
		}
	}
}

// ParseSplit parses a comma-separated fraction list such as
// "0.7,0.1,0.1,0.1".
func ParseSplit(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid task split %q: %w", s, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Overrides resolves the per-person configuration for an email, lowercased.
// It returns zero values when the person has no overrides.
func (c *Config) Overrides(email string) (offWeekdays []int, ranges []generic.Period, weights map[string]decimal.Decimal, err error) {
	email = strings.ToLower(email)
	for _, p := range c.People {
		if strings.ToLower(p.Email) != email {
			continue
		}
		offWeekdays = p.OffWeekdays
		for _, r := range p.OffWeekdayRanges {
			pr, perr := parseRange(r)
			if perr != nil {
				return nil, nil, nil, perr
			}
			ranges = append(ranges, pr)
		}
		if len(p.Weights) > 0 {
			weights = make(map[string]decimal.Decimal, len(p.Weights))
			for task, w := range p.Weights {
				weights[task] = decimal.NewFromFloat(w)
			}
		}
		return offWeekdays, ranges, weights, nil
	}
	return nil, nil, nil, nil
}

// parseRange parses "YYYY-MM-DD to YYYY-MM-DD" into an inclusive period.
func parseRange(s string) (generic.Period, error) {
	start, end, ok := strings.Cut(s, "to")
	if !ok {
		return generic.Period{}, fmt.Errorf("invalid range %q: want \"YYYY-MM-DD to YYYY-MM-DD\"", s)
	}
	from, err := generic.ParseDay(strings.TrimSpace(start))
	if err != nil {
		return generic.Period{}, fmt.Errorf("invalid range start in %q: %w", s, err)
	}
	to, err := generic.ParseDay(strings.TrimSpace(end))
	if err != nil {
		return generic.Period{}, fmt.Errorf("invalid range end in %q: %w", s, err)
	}
	return generic.Period{Start: from, End: to}, nil
}
