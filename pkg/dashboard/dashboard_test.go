package dashboard_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/storypulse/pkg/plotpage"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
	"github.com/Sumatoshi-tech/storypulse/pkg/timefilter"
)

func newDataset(t *testing.T) *storypoints.Dataset {
	t.Helper()

	ds, err := storypoints.NewDataset(storypoints.DefaultOptions())
	require.NoError(t, err)

	return ds
}

func TestBuild_Default(t *testing.T) {
	t.Parallel()

	vm, err := dashboard.Build(newDataset(t), dashboard.State{}, dashboard.DefaultLayout(), dashboard.QueryLinker("/", nil))
	require.NoError(t, err)

	require.Len(t, vm.Tabs, 2)
	assert.Equal(t, dashboard.Link{Label: "My Performance", Href: "/?tab=assigned", Active: true}, vm.Tabs[0])
	assert.Equal(t, dashboard.Link{Label: "Team Leadership", Href: "/?tab=reportee"}, vm.Tabs[1])

	assert.Equal(t, "Individual Contributor Metrics", vm.ProfileSubtitle)
	assert.Equal(t, "Track your personal progress", vm.ChartSubtitle)

	require.Len(t, vm.Cards, 3)
	assert.Equal(t, "1,247", vm.Cards[0].Value)
	assert.Equal(t, "+12% from last month", vm.Cards[0].Trend)
	assert.Equal(t, "1,089", vm.Cards[1].Value)
	assert.Equal(t, "87% completion rate", vm.Cards[1].Trend)
	require.NotNil(t, vm.Cards[1].Progress)
	assert.Equal(t, 87, *vm.Cards[1].Progress)
	assert.Equal(t, "158", vm.Cards[2].Value)
	assert.Equal(t, "Active sprint work", vm.Cards[2].Trend)

	require.Len(t, vm.Filters, 4)
	assert.Equal(t, "/?filter=1W&tab=assigned", vm.Filters[1].Href)
	assert.False(t, vm.Filters[1].Active)
	assert.Nil(t, vm.Clear)

	assert.Equal(t, "Current week is highlighted and blinking in the chart (Jul 14 - Jul 20)", vm.WeekBanner)
	assert.Equal(t, 197, vm.Points)
	assert.Contains(t, string(vm.Chart), "CURRENT WEEK")
	assert.False(t, vm.Tooltip.Visible)
}

func TestBuild_FilteredReportee(t *testing.T) {
	t.Parallel()

	state := dashboard.State{Tab: storypoints.ViewReportee, Filter: timefilter.OneWeek}

	vm, err := dashboard.Build(newDataset(t), state, dashboard.DefaultLayout(), dashboard.SiteLinker)
	require.NoError(t, err)

	assert.Equal(t, "Team Leadership", vm.Tabs[1].Label)
	assert.True(t, vm.Tabs[1].Active)
	assert.Equal(t, "assigned-1w.html", vm.Tabs[0].Href)
	assert.Equal(t, "Total Delegated Points", vm.Cards[0].Label)
	assert.Equal(t, "2,847", vm.Cards[0].Value)

	assert.True(t, vm.Filters[1].Active)
	assert.Equal(t, "reportee.html", vm.Filters[1].Href)
	assert.Equal(t, "reportee-1m.html", vm.Filters[2].Href)

	require.NotNil(t, vm.Clear)
	assert.Equal(t, "Clear", vm.Clear.Label)
	assert.Equal(t, "reportee.html", vm.Clear.Href)

	assert.Empty(t, vm.WeekBanner)
	assert.Equal(t, 7, vm.Points)
	assert.NotContains(t, string(vm.Chart), "CURRENT WEEK")
}

func TestBuild_WithHover(t *testing.T) {
	t.Parallel()

	state := dashboard.State{}.Apply(dashboard.PointerMove{Pointer: chart.Pointer{
		OffsetX: 760, ClientX: 400, ClientY: 300, ViewportWidth: 1280,
	}})

	vm, err := dashboard.Build(newDataset(t), state, dashboard.DefaultLayout(), dashboard.SiteLinker)
	require.NoError(t, err)

	assert.True(t, vm.Tooltip.Visible)
	assert.Equal(t, 196, vm.Tooltip.Index)
	assert.Equal(t, "2024-07-15", vm.Tooltip.Date)
	assert.Equal(t, "Mon, Jul 15, 2024", vm.Tooltip.Label)
	assert.Equal(t, vm.Tooltip.Total-vm.Tooltip.Closed, vm.Tooltip.InProgress)
	assert.InDelta(t, 400.0, vm.Tooltip.X, 1e-9)
	assert.InDelta(t, 290.0, vm.Tooltip.Y, 1e-9)
}

func TestHover(t *testing.T) {
	t.Parallel()

	ds := newDataset(t)
	layout := dashboard.DefaultLayout()
	state := dashboard.State{Filter: timefilter.OneWeek}

	tip, err := dashboard.Hover(ds, state, layout, chart.Pointer{OffsetX: 20, ElementWidth: 400, ViewportWidth: 1000})
	require.NoError(t, err)
	assert.True(t, tip.Visible)
	assert.Equal(t, 0, tip.Index)
	assert.Equal(t, "2024-07-09", tip.Date)

	tip, err = dashboard.Hover(ds, state, layout, chart.Pointer{OffsetX: 5, ViewportWidth: 1000})
	require.NoError(t, err)
	assert.False(t, tip.Visible)

	_, err = dashboard.Hover(ds, dashboard.State{Tab: "boss"}, layout, chart.Pointer{})
	require.ErrorIs(t, err, storypoints.ErrUnknownView)
}

func TestTooltipView_JSON(t *testing.T) {
	t.Parallel()

	ds := newDataset(t)
	state := dashboard.State{Filter: timefilter.OneWeek}

	tip, err := dashboard.Hover(ds, state, dashboard.DefaultLayout(), chart.Pointer{OffsetX: 40, ClientY: 300})
	require.NoError(t, err)
	require.True(t, tip.Visible)

	data, err := json.Marshal(tip)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"index":0,`)
	assert.Contains(t, string(data), `"x":0,`)

	var decoded dashboard.TooltipView
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, tip, decoded)

	hidden, err := json.Marshal(dashboard.TooltipView{Index: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"visible":false}`, string(hidden))
}

func TestRenderPage(t *testing.T) {
	t.Parallel()

	ds := newDataset(t)

	vm, err := dashboard.Build(ds, dashboard.State{}, dashboard.DefaultLayout(), dashboard.QueryLinker("/", nil))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dashboard.RenderPage(&buf, vm, plotpage.ThemeLight,
		dashboard.PageOptions{HoverEndpoint: "/api/hover?tab=assigned"}))

	html := buf.String()
	assert.Contains(t, html, "Performance Analytics Suite")
	assert.Contains(t, html, "Enterprise-grade story point tracking and team performance insights")
	assert.Contains(t, html, "Sarah Chen")
	assert.Contains(t, html, "Lead Product Manager")
	assert.Contains(t, html, "My Performance")
	assert.Contains(t, html, "Performance Trends &amp; Analytics")
	assert.Contains(t, html, "CURRENT WEEK")
	assert.Contains(t, html, "Jul 14 - Jul 20")
	assert.Contains(t, html, `data-hover-endpoint="/api/hover?tab=assigned"`)
	assert.Contains(t, html, "getBoundingClientRect")
	assert.Contains(t, html, "Total Story Points")
	assert.Contains(t, html, "Closed Story Points")
	assert.Contains(t, html, `id="story-tooltip"`)
	assert.Contains(t, html, "bg-amber-500 text-white\">"+dashboard.CurrentWeekBadge+"</span>")
	assert.Contains(t, html, "flex items-center gap-6")
}

func TestRenderPage_StaticHasNoScript(t *testing.T) {
	t.Parallel()

	state := dashboard.State{Filter: timefilter.OneDay}

	vm, err := dashboard.Build(newDataset(t), state, dashboard.DefaultLayout(), dashboard.SiteLinker)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dashboard.RenderPage(&buf, vm, plotpage.ThemeDark, dashboard.PageOptions{}))

	html := buf.String()
	assert.NotContains(t, html, "data-hover-endpoint")
	assert.NotContains(t, html, "getBoundingClientRect")
	assert.NotContains(t, html, "Current week is highlighted")
	assert.Contains(t, html, ">Clear<")
	assert.Contains(t, html, "bg-indigo-100 text-indigo-800\">Last day</span>")
	assert.NotContains(t, html, dashboard.CurrentWeekBadge)
}

func TestRenderSite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, dashboard.RenderSite(dir, newDataset(t), dashboard.DefaultLayout()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(dashboard.SiteStates())+1)

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `href="reportee-1y.html"`)

	page, err := os.ReadFile(filepath.Join(dir, "assigned.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `href="reportee.html"`)
	assert.Contains(t, string(page), `href="assigned-1w.html"`)
	assert.Contains(t, string(page), `href="index.html"`)
}

func TestNewEChartsPage(t *testing.T) {
	t.Parallel()

	ds := newDataset(t)

	page, err := dashboard.NewEChartsPage(ds, dashboard.State{}, plotpage.ThemeLight)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	html := buf.String()
	assert.Equal(t, 2, strings.Count(html, "echarts.init"))
	assert.Contains(t, html, "CURRENT WEEK")
	assert.Contains(t, html, "Latest days")
	assert.Contains(t, html, "Mon, Jul 15, 2024")

	filtered, err := dashboard.NewEChartsPage(ds, dashboard.State{Filter: timefilter.OneMonth}, plotpage.ThemeDark)
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, filtered.Render(&buf))
	assert.NotContains(t, buf.String(), "CURRENT WEEK")
}
