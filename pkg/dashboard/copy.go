package dashboard

import (
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

// Page-wide texts.
const (
	PageTitle       = "Performance Analytics Suite"
	PageDescription = "Enterprise-grade story point tracking and team performance insights"
	ChartTitle      = "Performance Trends & Analytics"
	ClearLabel      = "Clear"
	LegendTotal     = "Total Story Points"
	LegendClosed    = "Closed Story Points"

	totalTrend      = "+12% from last month"
	closedBadge     = "↗ +5%"
	inProgressTrend = "Active sprint work"
	weekBannerText  = "Current week is highlighted and blinking in the chart"
)

// Copy is the view-specific wording of the dashboard.
type Copy struct {
	TabLabel        string
	ProfileSubtitle string
	TotalLabel      string
	ClosedLabel     string
	InProgressLabel string
	ChartSubtitle   string
}

var copies = map[storypoints.View]Copy{
	storypoints.ViewAssigned: {
		TabLabel:        "My Performance",
		ProfileSubtitle: "Individual Contributor Metrics",
		TotalLabel:      "Total Assigned Points",
		ClosedLabel:     "Completed Points",
		InProgressLabel: "In Progress Points",
		ChartSubtitle:   "Track your personal progress",
	},
	storypoints.ViewReportee: {
		TabLabel:        "Team Leadership",
		ProfileSubtitle: "Leadership & Delegation Metrics",
		TotalLabel:      "Total Delegated Points",
		ClosedLabel:     "Team Completed Points",
		InProgressLabel: "Team In Progress Points",
		ChartSubtitle:   "Track your team's progress",
	},
}

// CopyFor returns the wording of a view; unknown views get the assigned wording.
func CopyFor(view storypoints.View) Copy {
	c, ok := copies[view]
	if !ok {
		return copies[storypoints.ViewAssigned]
	}

	return c
}
