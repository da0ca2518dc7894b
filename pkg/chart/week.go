package chart

import (
	"time"

	"github.com/samber/lo"

	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

const daysPerWeek = 7

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CurrentWeek returns the Sunday-start week containing ref.
func CurrentWeek(ref time.Time) Range {
	ref = storypoints.Truncate(ref)
	start := ref.AddDate(0, 0, -int(ref.Weekday()))

	return Range{Start: start, End: start.AddDate(0, 0, daysPerWeek-1)}
}

// Contains reports whether the day of t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	day := storypoints.Truncate(t)

	return !day.Before(r.Start) && !day.After(r.End)
}

// Label formats the range as "Jul 14 - Jul 20".
func (r Range) Label() string {
	return r.Start.Format(axisDateLayout) + " - " + r.End.Format(axisDateLayout)
}

// WeekIndices returns the ascending indices of the entries dated inside week.
func WeekIndices(series []storypoints.StoryPointData, week Range) []int {
	return lo.FilterMap(series, func(d storypoints.StoryPointData, i int) (int, bool) {
		return i, week.Contains(d.Date)
	})
}
