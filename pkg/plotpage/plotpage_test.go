package plotpage_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/storypulse/pkg/plotpage"
)

var errBroken = errors.New("broken component")

type brokenComponent struct{}

func (brokenComponent) Render(io.Writer) error {
	return errBroken
}

func TestPage_Render(t *testing.T) {
	t.Parallel()

	page := plotpage.NewPage("Performance Analytics Suite", "Story point tracking")
	page.Add(plotpage.Section{
		Title:    "Trends",
		Subtitle: "Track your progress",
		Chart:    plotpage.NewBadge("<b>escaped</b>"),
		Hint:     plotpage.Hint{Title: "Reading the chart", Items: []string{"Blue is total"}},
	})

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "cdn.tailwindcss.com")
	assert.Contains(t, html, "Performance Analytics Suite")
	assert.Contains(t, html, "Track your progress")
	assert.Contains(t, html, "&lt;b&gt;escaped&lt;/b&gt;")
	assert.Contains(t, html, "Blue is total")
	assert.NotContains(t, html, `class="dark"`)
}

func TestPage_RenderDarkWithScript(t *testing.T) {
	t.Parallel()

	page := plotpage.NewPage("Dark", "").WithTheme(plotpage.ThemeDark)
	page.ShowThemeToggle = true

	var buf bytes.Buffer
	require.NoError(t, plotpage.HTMLRenderer{Script: "console.log(1);"}.Render(&buf, page))

	html := buf.String()
	assert.Contains(t, html, `class="dark"`)
	assert.Contains(t, html, "theme-toggle")
	assert.Contains(t, html, "console.log(1);")
}

func TestPage_RenderPropagatesComponentError(t *testing.T) {
	t.Parallel()

	page := plotpage.NewPage("Broken", "")
	page.Add(plotpage.Section{Title: "Bad", Chart: brokenComponent{}})

	err := page.Render(io.Discard)
	require.ErrorIs(t, err, errBroken)
}

func TestComponents(t *testing.T) {
	t.Parallel()

	grid := plotpage.NewGrid(3,
		plotpage.NewStat("Completed Points", "1,089").
			WithTrend("87% completion rate", plotpage.BadgeSuccess).
			WithBadge("↗ +5%").
			WithProgress(187),
		plotpage.NewCard("Card", "sub").WithContent(plotpage.NewBadge("CURRENT WEEK").WithColor(plotpage.BadgeWarning)),
		plotpage.NewAlert("Heads up", "Current week is highlighted", plotpage.BadgeWarning),
	)

	var buf bytes.Buffer
	require.NoError(t, grid.Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "md:grid-cols-3")
	assert.Contains(t, html, "1,089")
	assert.Contains(t, html, "87% completion rate")
	assert.Contains(t, html, "↗ &#43;5%")
	assert.Contains(t, html, "width: 100%")
	assert.Contains(t, html, "bg-amber-100")
	assert.Contains(t, html, "Current week is highlighted")
}

func TestNewGrid_ClampsColumns(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, plotpage.NewGrid(0).Columns)
	assert.Equal(t, 4, plotpage.NewGrid(9).Columns)
}

func TestNavTabs(t *testing.T) {
	t.Parallel()

	tabs := plotpage.NewNavTabs(
		plotpage.NavTab{Label: "My Performance", Href: "?tab=assigned&filter=1W", Active: true},
		plotpage.NavTab{Label: "Team Leadership", Href: "?tab=reportee"},
	)

	var buf bytes.Buffer
	require.NoError(t, tabs.Render(&buf))

	html := buf.String()
	assert.Contains(t, html, `href="?tab=assigned&amp;filter=1W"`)
	assert.Contains(t, html, `aria-selected="true"`)
	assert.Equal(t, 2, strings.Count(html, "<a "))

	buf.Reset()
	require.NoError(t, plotpage.NewNavTabs().Render(&buf))
	assert.Empty(t, buf.String())
}

func TestTable(t *testing.T) {
	t.Parallel()

	table := plotpage.NewTable("Date", "Total").AddRow("2024-07-14", "<1>").AddRow("2024-07-15", "2")

	var buf bytes.Buffer
	require.NoError(t, table.Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "&lt;1&gt;")
	assert.Contains(t, html, "bg-slate-50")
}

func TestParseTheme(t *testing.T) {
	t.Parallel()

	theme, err := plotpage.ParseTheme("")
	require.NoError(t, err)
	assert.Equal(t, plotpage.ThemeLight, theme)

	theme, err = plotpage.ParseTheme("DARK")
	require.NoError(t, err)
	assert.Equal(t, plotpage.ThemeDark, theme)

	_, err = plotpage.ParseTheme("neon")
	require.ErrorIs(t, err, plotpage.ErrUnknownTheme)

	assert.NotEqual(t, plotpage.GetChartPalette(plotpage.ThemeLight), plotpage.GetChartPalette(plotpage.ThemeDark))
}

func TestWrapChart_ExtractsEChartsFragment(t *testing.T) {
	t.Parallel()

	line := plotpage.BuildLineChart(nil, []string{"a", "b"},
		[]plotpage.LineSeries{{Name: "s", Data: []plotpage.SeriesData{1, 2}}}, "")

	var buf bytes.Buffer
	require.NoError(t, plotpage.WrapChart(line).Render(&buf))

	html := buf.String()
	assert.NotContains(t, html, "<!DOCTYPE")
	assert.Contains(t, html, `class="echart-box"`)
	assert.Contains(t, html, "echarts.init")
}

func TestSiteRenderer(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "site")
	site := &plotpage.SiteRenderer{OutputDir: dir, Title: "storypulse", Theme: plotpage.ThemeLight}

	page := plotpage.NewPage("Assigned", "")
	page.Add(plotpage.Section{Title: "Section One"})

	require.NoError(t, site.RenderPage("assigned", page))
	require.NoError(t, site.RenderIndex([]plotpage.PageMeta{
		{ID: "assigned", Title: "My Performance", Description: "All time"},
	}))

	pageHTML, err := os.ReadFile(filepath.Join(dir, "assigned.html"))
	require.NoError(t, err)
	assert.Contains(t, string(pageHTML), "Section One")
	assert.Contains(t, string(pageHTML), `href="index.html"`)

	indexHTML, err := os.ReadFile(filepath.Join(dir, plotpage.IndexFileName))
	require.NoError(t, err)
	assert.Contains(t, string(indexHTML), `href="assigned.html"`)
	assert.Contains(t, string(indexHTML), "My Performance")
}
