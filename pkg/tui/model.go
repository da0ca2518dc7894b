// Package tui is the interactive terminal dashboard. The keyboard switches the
// view and time range, and the arrow keys or the mouse inspect single days.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
	"github.com/Sumatoshi-tech/storypulse/pkg/timefilter"
)

// Terminal size assumed until the first WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

const noCursor = -1

var filterKeys = map[string]timefilter.Filter{
	"d": timefilter.OneDay,
	"w": timefilter.OneWeek,
	"m": timefilter.OneMonth,
	"y": timefilter.OneYear,
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	ds     *storypoints.Dataset
	state  dashboard.State
	series []storypoints.StoryPointData
	cursor int
	width  int
	height int
	help   bool
	err    error
}

// New returns a model showing the assigned view without a time filter.
func New(ds *storypoints.Dataset) Model {
	m := Model{
		ds:     ds,
		cursor: noCursor,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.reload()

	return m
}

// State returns the dashboard state.
func (m Model) State() dashboard.State {
	return m.state
}

// Series returns the plotted series.
func (m Model) Series() []storypoints.StoryPointData {
	return m.series
}

// Cursor returns the inspected index. The boolean is false when no day is inspected.
func (m Model) Cursor() (int, bool) {
	return m.cursor, m.cursor != noCursor
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.help {
			m.help = false

			return m, nil
		}

		return m.handleKey(msg.String())
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.help = true
	case "tab":
		next := storypoints.ViewReportee
		if m.state.View() == storypoints.ViewReportee {
			next = storypoints.ViewAssigned
		}

		m.apply(dashboard.SelectTab{View: next})
	case "1":
		m.apply(dashboard.SelectTab{View: storypoints.ViewAssigned})
	case "2":
		m.apply(dashboard.SelectTab{View: storypoints.ViewReportee})
	case "c":
		m.apply(dashboard.ClearFilter{})
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "home":
		m.setCursor(0)
	case "end":
		m.setCursor(len(m.series) - 1)
	case "esc":
		m.cursor = noCursor
	default:
		if f, ok := filterKeys[key]; ok {
			m.apply(dashboard.ToggleFilter{Filter: f})
		}
	}

	return m, nil
}

func (m *Model) apply(ev dashboard.Event) {
	m.state = m.state.Apply(ev)
	m.cursor = noCursor
	m.reload()
}

func (m *Model) reload() {
	series, err := dashboard.VisibleSeries(m.ds, m.state)
	m.series, m.err = series, err
}

func (m *Model) moveCursor(step int) {
	if len(m.series) == 0 {
		return
	}

	if m.cursor == noCursor {
		if step < 0 {
			m.cursor = len(m.series) - 1
		} else {
			m.cursor = 0
		}

		return
	}

	m.setCursor(m.cursor + step)
}

func (m *Model) setCursor(idx int) {
	if len(m.series) == 0 {
		return
	}

	m.cursor = min(max(idx, 0), len(m.series)-1)
}

// handleMouse hit-tests pointer motion over the plot the same way the web
// chart does. Leaving the plot clears the cursor.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionMotion {
		return
	}

	lay := m.layout()
	if msg.Y < lay.chartTop || msg.Y >= lay.chartTop+lay.chartRows || len(m.series) == 0 {
		m.cursor = noCursor

		return
	}

	mapper, err := chart.NewMapper(lay.canvas(), m.series)
	if err != nil {
		m.cursor = noCursor

		return
	}

	idx, ok := mapper.IndexAt(float64(msg.X - gutterWidth))
	if !ok {
		m.cursor = noCursor

		return
	}

	m.cursor = idx
}
