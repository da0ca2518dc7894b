// Package storypoints models story point progress for one contributor and
// generates the deterministic daily series plotted by the dashboard.
package storypoints

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// View selects the perspective the metrics are reported from.
type View string

// Supported views.
const (
	// ViewAssigned reports work assigned to the contributor.
	ViewAssigned View = "assigned"
	// ViewReportee reports work the contributor delegated to their team.
	ViewReportee View = "reportee"
)

// ErrUnknownView is returned when a view name is not recognized.
var ErrUnknownView = errors.New("unknown view")

// Views lists all views in display order.
var Views = []View{ViewAssigned, ViewReportee}

const percentScale = 100

const defaultAvatar = "https://images.pexels.com/photos/2379004/pexels-photo-2379004.jpeg" +
	"?auto=compress&cs=tinysrgb&w=150&h=150&dpr=2"

// ParseView converts a view name to a View. The empty string selects ViewAssigned.
func ParseView(name string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(name))) {
	case "", ViewAssigned:
		return ViewAssigned, nil
	case ViewReportee:
		return ViewReportee, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
}

// String returns the view name.
func (v View) String() string {
	return string(v)
}

// ProfileData describes the contributor and the aggregate story points of one view.
type ProfileData struct {
	Name                  string `json:"name"                     yaml:"name"`
	Designation           string `json:"designation"              yaml:"designation"`
	Avatar                string `json:"avatar"                   yaml:"avatar"`
	TotalStoryPoints      int    `json:"total_story_points"       yaml:"total_story_points"`
	ClosedStoryPoints     int    `json:"closed_story_points"      yaml:"closed_story_points"`
	InProgressStoryPoints int    `json:"in_progress_story_points" yaml:"in_progress_story_points"`
}

var profiles = map[View]ProfileData{
	ViewAssigned: {
		Name:                  "Sarah Chen",
		Designation:           "Lead Product Manager",
		Avatar:                defaultAvatar,
		TotalStoryPoints:      1247,
		ClosedStoryPoints:     1089,
		InProgressStoryPoints: 158,
	},
	ViewReportee: {
		Name:                  "Sarah Chen",
		Designation:           "Lead Product Manager",
		Avatar:                defaultAvatar,
		TotalStoryPoints:      2847,
		ClosedStoryPoints:     2456,
		InProgressStoryPoints: 391,
	},
}

// Profile returns the mock profile for the view.
func Profile(view View) (ProfileData, error) {
	p, ok := profiles[view]
	if !ok {
		return ProfileData{}, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}

	return p, nil
}

// CompletionRate returns closed points as a rounded percentage of total points.
func (p ProfileData) CompletionRate() int {
	if p.TotalStoryPoints <= 0 {
		return 0
	}

	return int(math.Round(float64(p.ClosedStoryPoints) / float64(p.TotalStoryPoints) * percentScale))
}
