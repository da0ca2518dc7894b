// Package timefilter implements the relative time-range presets of the chart.
package timefilter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

// Filter is a relative time-range preset. The zero value shows the full series.
type Filter string

// Presets.
const (
	None     Filter = ""
	OneDay   Filter = "1D"
	OneWeek  Filter = "1W"
	OneMonth Filter = "1M"
	OneYear  Filter = "1Y"
)

// daysInWeekWindow counts the days before the reference kept by OneWeek.
const daysInWeekWindow = 6

// ErrUnknownFilter is returned for tokens that are not a preset.
var ErrUnknownFilter = errors.New("unknown filter")

// Presets lists the selectable filters in button order.
var Presets = []Filter{OneDay, OneWeek, OneMonth, OneYear}

// Parse converts a token such as "1W" to a Filter. Matching ignores case.
// The empty string and "none" yield None.
func Parse(token string) (Filter, error) {
	normalized := strings.ToUpper(strings.TrimSpace(token))
	if normalized == "" || normalized == "NONE" {
		return None, nil
	}

	f := Filter(normalized)
	if !lo.Contains(Presets, f) {
		return None, fmt.Errorf("%w: %q", ErrUnknownFilter, token)
	}

	return f, nil
}

// Active reports whether the filter restricts the series.
func (f Filter) Active() bool {
	return f != None
}

// String returns the token, or "none" for None.
func (f Filter) String() string {
	if f == None {
		return "none"
	}

	return string(f)
}

// Description returns a human label of the window, e.g. "Last week".
func (f Filter) Description() string {
	switch f {
	case OneDay:
		return "Last day"
	case OneWeek:
		return "Last week"
	case OneMonth:
		return "Last month"
	case OneYear:
		return "Last year"
	default:
		return "Full history"
	}
}

// Cutoff returns the first day kept by the filter relative to ref.
// The boolean is false for None.
func (f Filter) Cutoff(ref time.Time) (time.Time, bool) {
	ref = storypoints.Truncate(ref)

	switch f {
	case OneDay:
		return ref.AddDate(0, 0, -1), true
	case OneWeek:
		return ref.AddDate(0, 0, -daysInWeekWindow), true
	case OneMonth:
		return ref.AddDate(0, -1, 0), true
	case OneYear:
		return ref.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// Apply keeps the entries dated on or after the cutoff of f. None returns the series unchanged.
func Apply(series []storypoints.StoryPointData, f Filter, ref time.Time) []storypoints.StoryPointData {
	cutoff, ok := f.Cutoff(ref)
	if !ok {
		return series
	}

	return lo.Filter(series, func(d storypoints.StoryPointData, _ int) bool {
		return !d.Date.Before(cutoff)
	})
}

// Toggle returns the filter after the user picks selected while current is active.
// Picking the active preset clears it.
func Toggle(current, selected Filter) Filter {
	if current == selected {
		return None
	}

	return selected
}

// Clear always yields None.
func Clear(Filter) Filter {
	return None
}
