package dashboard

import (
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/plotpage"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

const (
	areaOpacity  = 0.3
	recentRows   = 7
	echartsLabel = "Jan 2"
)

// NewEChartsPage renders the series of state as interactive go-echarts charts:
// the cumulative trend, the daily deltas and a table of the latest days.
func NewEChartsPage(ds *storypoints.Dataset, state State, theme plotpage.Theme) (*plotpage.Page, error) {
	series, err := VisibleSeries(ds, state)
	if err != nil {
		return nil, err
	}

	copyText := CopyFor(state.View())
	page := plotpage.NewPage(ChartTitle, copyText.ChartSubtitle).WithTheme(theme)
	page.ShowThemeToggle = true

	if len(series) == 0 {
		page.Add(plotpage.Section{Chart: plotpage.NewAlert("", chart.NoDataMessage, plotpage.BadgeInfo)})

		return page, nil
	}

	palette := plotpage.GetChartPalette(theme)
	cOpts := plotpage.NewChartOpts(theme)
	labels := lo.Map(series, func(d storypoints.StoryPointData, _ int) string {
		return d.Date.Format(echartsLabel)
	})

	total := plotpage.LineSeries{
		Name:        LegendTotal,
		Data:        seriesValues(series, func(d storypoints.StoryPointData) int { return d.Total }),
		Color:       palette.Primary[0],
		AreaOpacity: areaOpacity,
	}

	if !state.Filter.Active() {
		week := chart.CurrentWeek(ds.Reference)
		if idx := chart.WeekIndices(series, week); len(idx) > 0 {
			total.Mark = &plotpage.MarkRange{
				Name:  CurrentWeekBadge,
				From:  labels[idx[0]],
				To:    labels[idx[len(idx)-1]],
				Color: palette.Highlight,
			}
		}
	}

	closed := plotpage.LineSeries{
		Name:  LegendClosed,
		Data:  seriesValues(series, func(d storypoints.StoryPointData) int { return d.Closed }),
		Color: palette.Primary[1],
	}

	trend := plotpage.BuildLineChart(cOpts, labels, []plotpage.LineSeries{total, closed}, "Story points")

	full, fullErr := ds.Series(state.View())
	if fullErr != nil {
		return nil, fullErr
	}

	// The filter keeps a suffix of the full series, so deltas are taken over
	// the full series and the same suffix is plotted.
	added, completed := dailyDeltas(full)
	offset := len(full) - len(series)
	added, completed = added[offset:], completed[offset:]
	deltas := plotpage.BuildBarChart(cOpts, labels, []plotpage.BarSeries{
		{Name: "Added", Data: added, Color: palette.Primary[0]},
		{Name: "Completed", Data: completed, Color: palette.Primary[1]},
	}, "Points per day")

	page.Add(
		plotpage.Section{
			Title:    copyText.TabLabel,
			Subtitle: state.Filter.Description(),
			Chart:    plotpage.WrapChart(trend),
			Hint: plotpage.Hint{
				Title: "Reading the trend",
				Items: []string{
					"The shaded band marks the current week when no time range is selected.",
					"Totals stop growing once the profile total is reached.",
				},
			},
		},
		plotpage.Section{Title: "Daily movement", Chart: plotpage.WrapChart(deltas)},
		plotpage.Section{Title: "Latest days", Chart: recentTable(series)},
	)

	return page, nil
}

func seriesValues(series []storypoints.StoryPointData, value func(storypoints.StoryPointData) int) []plotpage.SeriesData {
	return lo.Map(series, func(d storypoints.StoryPointData, _ int) plotpage.SeriesData {
		return value(d)
	})
}

// dailyDeltas returns the points added and completed on each day. The first
// generated day counts its cumulative values.
func dailyDeltas(series []storypoints.StoryPointData) ([]plotpage.SeriesData, []plotpage.SeriesData) {
	added := make([]plotpage.SeriesData, len(series))
	completed := make([]plotpage.SeriesData, len(series))

	prev := storypoints.StoryPointData{}

	for i, d := range series {
		added[i] = d.Total - prev.Total
		completed[i] = d.Closed - prev.Closed
		prev = d
	}

	return added, completed
}

func recentTable(series []storypoints.StoryPointData) *plotpage.Table {
	table := plotpage.NewTable("Date", "Total", "Closed", "In Progress")

	for _, d := range series[max(0, len(series)-recentRows):] {
		table.AddRow(
			d.Date.Format(chart.TooltipDateLayout),
			humanize.Comma(int64(d.Total)),
			humanize.Comma(int64(d.Closed)),
			humanize.Comma(int64(d.InProgress)),
		)
	}

	return table
}
