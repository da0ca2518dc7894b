package dashboard

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/plotpage"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
	"github.com/Sumatoshi-tech/storypulse/pkg/timefilter"
)

// Layout fixes the drawing surface of the chart and the look of the page.
type Layout struct {
	Canvas  chart.Canvas
	Tooltip chart.Size
	Theme   plotpage.Theme
}

// DefaultLayout returns the 800x300 canvas, the 200x100 tooltip and the light theme.
func DefaultLayout() Layout {
	return Layout{
		Canvas:  chart.DefaultCanvas(),
		Tooltip: chart.DefaultTooltipSize,
		Theme:   plotpage.ThemeLight,
	}
}

// Link is a navigation target rendered as a tab or a button.
type Link struct {
	Label  string
	Href   string
	Active bool
}

// MetricCard is one of the three summary tiles.
type MetricCard struct {
	Label    string
	Value    string
	Trend    string
	Color    plotpage.BadgeColor
	Badge    string
	Progress *int
}

// LegendItem names a plotted line.
type LegendItem struct {
	Label string
	Color string
}

// TooltipView is the hover tooltip as served to clients. A hidden tooltip
// encodes as {"visible":false}.
type TooltipView struct {
	Visible    bool    `json:"visible"`
	Index      int     `json:"index"`
	Date       string  `json:"date"`
	Label      string  `json:"label"`
	Total      int     `json:"total"`
	Closed     int     `json:"closed"`
	InProgress int     `json:"in_progress"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

type hiddenTooltip struct {
	Visible bool `json:"visible"`
}

// MarshalJSON implements json.Marshaler.
func (t TooltipView) MarshalJSON() ([]byte, error) {
	type visibleTooltip TooltipView

	var (
		data []byte
		err  error
	)

	if t.Visible {
		data, err = json.Marshal(visibleTooltip(t))
	} else {
		data, err = json.Marshal(hiddenTooltip{})
	}

	if err != nil {
		return nil, fmt.Errorf("encode tooltip: %w", err)
	}

	return data, nil
}

// ViewModel is everything the dashboard page displays.
type ViewModel struct {
	State       State
	Title       string
	Description string
	Tabs        []Link

	Profile         storypoints.ProfileData
	ProfileSubtitle string
	Cards           []MetricCard

	ChartTitle    string
	ChartSubtitle string
	Filters       []Link
	// Clear is nil when no filter is active.
	Clear *Link
	// WeekBanner is empty when a filter is active.
	WeekBanner string
	Legend     []LegendItem
	Canvas     chart.Canvas
	Chart      template.HTML
	Points     int
	Tooltip    TooltipView
}

// Build assembles the view model of state. Links are produced by link.
func Build(ds *storypoints.Dataset, state State, layout Layout, link Linker) (*ViewModel, error) {
	view := state.View()
	state.Tab = view

	profile, profileErr := ds.Profile(view)
	if profileErr != nil {
		return nil, profileErr
	}

	series, seriesErr := VisibleSeries(ds, state)
	if seriesErr != nil {
		return nil, seriesErr
	}

	copyText := CopyFor(view)
	week := chart.CurrentWeek(ds.Reference)

	opts := chart.Options{Canvas: layout.Canvas}
	if !state.Filter.Active() {
		opts.Week = &week
	}

	svg, svgErr := chart.SVG(series, opts)
	if svgErr != nil {
		return nil, fmt.Errorf("render chart: %w", svgErr)
	}

	tooltip, hoverErr := hoverSeries(series, state, layout)
	if hoverErr != nil {
		return nil, hoverErr
	}

	vm := &ViewModel{
		State:           state,
		Title:           PageTitle,
		Description:     PageDescription,
		Tabs:            tabLinks(state, link),
		Profile:         profile,
		ProfileSubtitle: copyText.ProfileSubtitle,
		Cards:           metricCards(profile, copyText),
		ChartTitle:      ChartTitle,
		ChartSubtitle:   copyText.ChartSubtitle,
		Filters:         filterLinks(state, link),
		Legend:          legend,
		Canvas:          layout.Canvas,
		Chart:           svg,
		Points:          len(series),
		Tooltip:         tooltip,
	}

	if state.Filter.Active() {
		vm.Clear = &Link{Label: ClearLabel, Href: link(state.Apply(ClearFilter{}))}
	} else {
		vm.WeekBanner = fmt.Sprintf("%s (%s)", weekBannerText, week.Label())
	}

	return vm, nil
}

// Hover resolves a pointer over the chart of state to a tooltip. A pointer
// outside the plot area, or an empty chart, yields an invisible tooltip.
func Hover(ds *storypoints.Dataset, state State, layout Layout, pointer chart.Pointer) (TooltipView, error) {
	series, seriesErr := VisibleSeries(ds, state)
	if seriesErr != nil {
		return TooltipView{}, seriesErr
	}

	state.Hover = &pointer

	return hoverSeries(series, state, layout)
}

// VisibleSeries returns the series of the selected tab after the time filter.
func VisibleSeries(ds *storypoints.Dataset, state State) ([]storypoints.StoryPointData, error) {
	series, err := ds.Series(state.View())
	if err != nil {
		return nil, err
	}

	return timefilter.Apply(series, state.Filter, ds.Reference), nil
}

func hoverSeries(series []storypoints.StoryPointData, state State, layout Layout) (TooltipView, error) {
	if state.Hover == nil || len(series) == 0 {
		return TooltipView{}, nil
	}

	m, mapperErr := chart.NewMapper(layout.Canvas, series)
	if mapperErr != nil {
		return TooltipView{}, mapperErr
	}

	tip, ok := m.Hover(*state.Hover, layout.Tooltip)
	if !ok {
		return TooltipView{}, nil
	}

	return TooltipView{
		Visible:    true,
		Index:      tip.Index,
		Date:       tip.Point.DateString(),
		Label:      tip.DateLabel(),
		Total:      tip.Point.Total,
		Closed:     tip.Point.Closed,
		InProgress: tip.Point.InProgress,
		X:          tip.X,
		Y:          tip.Y,
	}, nil
}

func tabLinks(state State, link Linker) []Link {
	return lo.Map(storypoints.Views, func(v storypoints.View, _ int) Link {
		return Link{
			Label:  CopyFor(v).TabLabel,
			Href:   link(state.Apply(SelectTab{View: v})),
			Active: v == state.View(),
		}
	})
}

func filterLinks(state State, link Linker) []Link {
	return lo.Map(timefilter.Presets, func(f timefilter.Filter, _ int) Link {
		return Link{
			Label:  string(f),
			Href:   link(state.Apply(ToggleFilter{Filter: f})),
			Active: f == state.Filter,
		}
	})
}

func metricCards(profile storypoints.ProfileData, copyText Copy) []MetricCard {
	rate := profile.CompletionRate()

	return []MetricCard{
		{
			Label: copyText.TotalLabel,
			Value: humanize.Comma(int64(profile.TotalStoryPoints)),
			Trend: totalTrend,
			Color: plotpage.BadgeInfo,
		},
		{
			Label:    copyText.ClosedLabel,
			Value:    humanize.Comma(int64(profile.ClosedStoryPoints)),
			Trend:    strconv.Itoa(rate) + "% completion rate",
			Color:    plotpage.BadgeSuccess,
			Badge:    closedBadge,
			Progress: &rate,
		},
		{
			Label: copyText.InProgressLabel,
			Value: humanize.Comma(int64(profile.InProgressStoryPoints)),
			Trend: inProgressTrend,
			Color: plotpage.BadgeWarning,
		},
	}
}

var legend = []LegendItem{
	{Label: LegendTotal, Color: "#3B82F6"},
	{Label: LegendClosed, Color: "#22C55E"},
}
