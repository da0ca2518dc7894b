package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
	"github.com/Sumatoshi-tech/storypulse/pkg/terminal"
	"github.com/Sumatoshi-tech/storypulse/pkg/timefilter"
)

const (
	axisDateLayout = "Jan 2"
	titleGap       = 2
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleActive = lipgloss.NewStyle().Bold(true).Reverse(true)
	styleDim    = lipgloss.NewStyle().Faint(true)
	styleGreen  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleBlue   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleYellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

var filterHotkeys = []struct {
	key    string
	filter timefilter.Filter
}{
	{"d", timefilter.OneDay},
	{"w", timefilter.OneWeek},
	{"m", timefilter.OneMonth},
	{"y", timefilter.OneYear},
}

// HelpBar is the key summary shown under the chart.
const HelpBar = "tab/1/2: view · d/w/m/y: range · c: clear · ←/→: inspect · esc: leave · ?: help · q: quit"

var helpLines = []string{
	"tab      switch between My Performance and Team Leadership",
	"1 / 2    select a view",
	"d w m y  toggle the last day, week, month or year",
	"c        clear the time range",
	"← → h l  inspect the previous or next day",
	"home end jump to the first or last day",
	"esc      stop inspecting",
	"mouse    hover the chart to inspect a day",
	"q        quit",
}

// View implements tea.Model.
func (m Model) View() string {
	if m.help {
		return styleTitle.Render("Keys") + "\n\n" + strings.Join(helpLines, "\n") + "\n\n" +
			styleDim.Render("press any key to return")
	}

	if m.err != nil {
		return styleError.Render("Error: "+m.err.Error()) + "\n"
	}

	profile, err := m.ds.Profile(m.state.View())
	if err != nil {
		return styleError.Render("Error: "+err.Error()) + "\n"
	}

	copyText := dashboard.CopyFor(m.state.View())
	lay := m.layout()
	week := m.week()

	lines := []string{
		m.titleLine(profile),
		m.tabsLine(),
		cardsLine(profile, copyText),
		m.filterLine(),
		m.bannerLine(week),
	}

	cursor := noCursor
	if idx, ok := m.Cursor(); ok {
		cursor = idx
	}

	lines = append(lines, renderPlot(m.series, lay, plotOptions{week: week, cursor: cursor})...)
	lines = append(lines, m.axisLine(lay), m.tooltipLine(), styleDim.Render(HelpBar))

	return strings.Join(lines, "\n")
}

// titleLine shortens the profile so the line fits the window.
func (m Model) titleLine(profile storypoints.ProfileData) string {
	room := m.width - utf8.RuneCountInString(dashboard.PageTitle) - titleGap

	return styleTitle.Render(dashboard.PageTitle) + strings.Repeat(" ", titleGap) +
		terminal.TruncateWithEllipsis(profile.Name+" · "+profile.Designation, room)
}

func (m Model) week() *chart.Range {
	if m.state.Filter.Active() {
		return nil
	}

	w := chart.CurrentWeek(m.ds.Reference)

	return &w
}

func (m Model) tabsLine() string {
	parts := make([]string, 0, len(storypoints.Views))

	for i, v := range storypoints.Views {
		label := fmt.Sprintf(" %d %s ", i+1, dashboard.CopyFor(v).TabLabel)
		if v == m.state.View() {
			label = styleActive.Render(label)
		}

		parts = append(parts, label)
	}

	return strings.Join(parts, " ")
}

func cardsLine(p storypoints.ProfileData, c dashboard.Copy) string {
	return fmt.Sprintf("%s %s · %s %s (%d%%) · %s %s",
		c.TotalLabel, styleBlue.Render(humanize.Comma(int64(p.TotalStoryPoints))),
		c.ClosedLabel, styleGreen.Render(humanize.Comma(int64(p.ClosedStoryPoints))), p.CompletionRate(),
		c.InProgressLabel, styleYellow.Render(humanize.Comma(int64(p.InProgressStoryPoints))))
}

func (m Model) filterLine() string {
	parts := make([]string, 0, len(filterHotkeys)+1)

	for _, hk := range filterHotkeys {
		label := fmt.Sprintf("[%s] %s", hk.key, hk.filter)
		if hk.filter == m.state.Filter {
			label = styleActive.Render(label)
		}

		parts = append(parts, label)
	}

	if m.state.Filter.Active() {
		parts = append(parts, "[c] "+dashboard.ClearLabel)
	}

	return "Range " + strings.Join(parts, " ") + "  " + styleDim.Render(m.state.Filter.Description())
}

func (m Model) bannerLine(week *chart.Range) string {
	if week == nil {
		return ""
	}

	return styleYellow.Render("● Current week is highlighted (" + week.Label() + ")")
}

func (m Model) axisLine(lay layout) string {
	if len(m.series) == 0 {
		return ""
	}

	first := m.series[0].Date.Format(axisDateLayout)
	last := m.series[len(m.series)-1].Date.Format(axisDateLayout)
	gap := max(lay.plotCols-len(first)-len(last), 1)

	return strings.Repeat(" ", gutterWidth) + styleDim.Render(first+strings.Repeat(" ", gap)+last)
}

func (m Model) tooltipLine() string {
	idx, ok := m.Cursor()
	if !ok || idx >= len(m.series) {
		return styleDim.Render("use ←/→ or the mouse to inspect a day")
	}

	tip := chart.Tooltip{Index: idx, Point: m.series[idx]}
	d := tip.Point

	return fmt.Sprintf("%s  Total %s · Closed %s · In Progress %s",
		lipgloss.NewStyle().Bold(true).Render(tip.DateLabel()),
		humanize.Comma(int64(d.Total)), humanize.Comma(int64(d.Closed)), humanize.Comma(int64(d.InProgress)))
}
