// Package timerange resolves named lookback windows and explicit dates into
// the since/until bounds used when reading branch histories.
package timerange

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the accepted format for explicit --since/--until dates.
const DateLayout = "2006-01-02"

// Preset is a named lookback window.
type Preset string

const (
	All         Preset = "all"
	Week        Preset = "week"
	TwoWeeks    Preset = "two-weeks"
	Month       Preset = "month"
	ThreeMonths Preset = "three-months"
	HalfYear    Preset = "half-year"
	Year        Preset = "year"
)

type presetInfo struct {
	preset  Preset
	days    int
	label   string
	aliases []string
}

var presets = []presetInfo{
	{All, 0, "All time", []string{"", "any"}},
	{Week, 7, "Last week", []string{"1w", "7d"}},
	{TwoWeeks, 14, "Last two weeks", []string{"2w", "14d"}},
	{Month, 30, "Last month", []string{"1m", "30d"}},
	{ThreeMonths, 90, "Last three months", []string{"3m", "90d"}},
	{HalfYear, 180, "Last half year", []string{"6m", "180d"}},
	{Year, 365, "Last year", []string{"1y", "365d"}},
}

// Presets returns all presets in increasing window order, All first.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	for i, p := range presets {
		out[i] = p.preset
	}
	return out
}

// Parse resolves a preset name or alias (e.g. "2w", "3m"). Empty means All.
func Parse(s string) (Preset, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range presets {
		if s == string(p.preset) {
			return p.preset, nil
		}
		for _, a := range p.aliases {
			if s == a {
				return p.preset, nil
			}
		}
	}
	return "", fmt.Errorf("invalid time range %q (expected one of %s)", s, strings.Join(names(), ", "))
}

func names() []string {
	out := make([]string, len(presets))
	for i, p := range presets {
		out[i] = string(p.preset)
	}
	return out
}

func (p Preset) info() presetInfo {
	for _, info := range presets {
		if info.preset == p {
			return info
		}
	}
	return presets[0]
}

// Days returns the window length; zero for All.
func (p Preset) Days() int {
	return p.info().days
}

// Label returns a human-readable description for reports.
func (p Preset) Label() string {
	return p.info().label
}

// Range is a resolved, inclusive date window. Nil bounds are open.
type Range struct {
	Since *time.Time
	Until *time.Time
	Label string
}

// IsAll reports whether the range is unbounded.
func (r Range) IsAll() bool {
	return r.Since == nil && r.Until == nil
}

// Contains reports whether t falls within the range.
func (r Range) Contains(t time.Time) bool {
	if r.Since != nil && t.Before(*r.Since) {
		return false
	}
	if r.Until != nil && t.After(*r.Until) {
		return false
	}
	return true
}

// Resolve converts a preset to bounds relative to now in loc:
// Since is midnight N days ago, Until is the last second of today.
func Resolve(p Preset, now time.Time, loc *time.Location) Range {
	if loc == nil {
		loc = time.Local
	}
	info := p.info()
	if info.days == 0 {
		return Range{Label: info.label}
	}

	local := now.In(loc)
	since := startOfDay(local.AddDate(0, 0, -info.days))
	until := endOfDay(local)
	return Range{Since: &since, Until: &until, Label: info.label}
}

// Build resolves a preset and then applies explicit YYYY-MM-DD overrides.
// An explicit since starts at midnight; an explicit until ends at 23:59:59.
func Build(preset, since, until string, now time.Time, loc *time.Location) (Range, error) {
	if loc == nil {
		loc = time.Local
	}
	p, err := Parse(preset)
	if err != nil {
		return Range{}, err
	}
	r := Resolve(p, now, loc)

	if since != "" {
		t, err := ParseDate(since, loc)
		if err != nil {
			return Range{}, fmt.Errorf("invalid since date: %w", err)
		}
		r.Since = &t
	}
	if until != "" {
		t, err := ParseDate(until, loc)
		if err != nil {
			return Range{}, fmt.Errorf("invalid until date: %w", err)
		}
		t = endOfDay(t)
		r.Until = &t
	}
	if r.Since != nil && r.Until != nil && r.Since.After(*r.Until) {
		return Range{}, fmt.Errorf("since %s is after until %s", r.Since.Format(DateLayout), r.Until.Format(DateLayout))
	}

	if since != "" || until != "" {
		r.Label = explicitLabel(r)
	}
	return r, nil
}

func explicitLabel(r Range) string {
	switch {
	case r.Since != nil && r.Until != nil:
		return fmt.Sprintf("%s to %s", r.Since.Format(DateLayout), r.Until.Format(DateLayout))
	case r.Since != nil:
		return "Since " + r.Since.Format(DateLayout)
	default:
		return "Until " + r.Until.Format(DateLayout)
	}
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

// LoadLocation resolves an IANA zone name. Empty and "Local" mean the system zone.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
