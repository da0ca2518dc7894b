// Package export serializes dashboard data: schema-checked JSON and YAML
// documents, LZ4 frames and PNG renditions of the chart.
package export

import (
	"github.com/samber/lo"

	"github.com/Sumatoshi-tech/storypulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

// Profile is the exported profile with its completion rate.
type Profile struct {
	storypoints.ProfileData `yaml:",inline"`

	CompletionRate int `json:"completion_rate" yaml:"completion_rate"`
}

// Point is one exported day.
type Point struct {
	Date       string `json:"date"        yaml:"date"`
	Total      int    `json:"total"       yaml:"total"`
	Closed     int    `json:"closed"      yaml:"closed"`
	InProgress int    `json:"in_progress" yaml:"in_progress"`
}

// Document is the exported state of one dashboard view.
type Document struct {
	View      string  `json:"view"      yaml:"view"`
	Filter    string  `json:"filter"    yaml:"filter"`
	Seed      uint64  `json:"seed"      yaml:"seed"`
	Start     string  `json:"start"     yaml:"start"`
	Reference string  `json:"reference" yaml:"reference"`
	Profile   Profile `json:"profile"   yaml:"profile"`
	Series    []Point `json:"series"    yaml:"series"`
}

// NewDocument exports the profile and the filtered series of the state's view.
func NewDocument(ds *storypoints.Dataset, state dashboard.State) (Document, error) {
	profile, profileErr := ds.Profile(state.View())
	if profileErr != nil {
		return Document{}, profileErr
	}

	series, seriesErr := dashboard.VisibleSeries(ds, state)
	if seriesErr != nil {
		return Document{}, seriesErr
	}

	return Document{
		View:      state.View().String(),
		Filter:    state.Filter.String(),
		Seed:      ds.Seed,
		Start:     ds.Start.Format(storypoints.DateLayout),
		Reference: ds.Reference.Format(storypoints.DateLayout),
		Profile:   Profile{ProfileData: profile, CompletionRate: profile.CompletionRate()},
		Series:    Points(series),
	}, nil
}

// Points converts a series to exported points.
func Points(series []storypoints.StoryPointData) []Point {
	return lo.Map(series, func(d storypoints.StoryPointData, _ int) Point {
		return Point{Date: d.DateString(), Total: d.Total, Closed: d.Closed, InProgress: d.InProgress}
	})
}
