package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

// Rows above and below the plot.
const (
	headerRows   = 5
	footerRows   = 3
	minChartRows = 4
	minPlotCols  = 10
	gutterWidth  = 8
)

// Plot glyphs. Closed points fill solid; in-progress points are shaded.
const (
	glyphClosed = "█"
	glyphOpen   = "▒"
	glyphCursor = "│"
	glyphEmpty  = " "
)

type cell int

const (
	cellEmpty cell = iota
	cellClosed
	cellOpen
	cellWeek
	cellCursor
	cellCursorFill
)

var cellStyles = map[cell]lipgloss.Style{
	cellEmpty:      lipgloss.NewStyle(),
	cellClosed:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	cellOpen:       lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	cellWeek:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	cellCursor:     lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Bold(true),
	cellCursorFill: lipgloss.NewStyle().Reverse(true),
}

var cellGlyphs = map[cell]string{
	cellEmpty:      glyphEmpty,
	cellClosed:     glyphClosed,
	cellOpen:       glyphOpen,
	cellWeek:       glyphOpen,
	cellCursor:     glyphCursor,
	cellCursorFill: glyphClosed,
}

// layout is the geometry of the plot inside the terminal.
type layout struct {
	chartTop  int
	chartRows int
	plotCols  int
}

func (m Model) layout() layout {
	return layout{
		chartTop:  headerRows,
		chartRows: max(m.height-headerRows-footerRows, minChartRows),
		plotCols:  max(m.width-gutterWidth, minPlotCols),
	}
}

// canvas maps one series point per terminal cell: x in columns, y in rows.
func (l layout) canvas() chart.Canvas {
	return chart.Canvas{Width: float64(l.plotCols - 1), Height: float64(l.chartRows - 1)}
}

// plotOptions controls renderPlot.
type plotOptions struct {
	week   *chart.Range
	cursor int
}

// renderPlot draws series as a filled area chart with a y-axis gutter.
func renderPlot(series []storypoints.StoryPointData, lay layout, opts plotOptions) []string {
	lines := make([]string, lay.chartRows)

	mapper, err := chart.NewMapper(lay.canvas(), series)
	if err != nil {
		for i := range lines {
			lines[i] = strings.Repeat(" ", gutterWidth)
		}

		lines[lay.chartRows/2] += chart.NoDataMessage

		return lines
	}

	grid := plotGrid(mapper, lay, opts)

	for r, row := range grid {
		lines[r] = gutterLabel(mapper, r, lay.chartRows) + renderRow(row)
	}

	return lines
}

func plotGrid(mapper *chart.Mapper, lay layout, opts plotOptions) [][]cell {
	grid := make([][]cell, lay.chartRows)
	for r := range grid {
		grid[r] = make([]cell, lay.plotCols)
	}

	for c := range lay.plotCols {
		idx, ok := mapper.IndexAt(float64(c))
		if !ok {
			continue
		}

		d := mapper.Point(idx)
		totalTop := int(math.Round(mapper.Y(float64(d.Total))))
		closedTop := int(math.Round(mapper.Y(float64(d.Closed))))
		inWeek := opts.week != nil && opts.week.Contains(d.Date)
		isCursor := idx == opts.cursor

		for r := range lay.chartRows {
			var kind cell

			switch {
			case d.Total > 0 && r >= closedTop && d.Closed > 0:
				kind = cellClosed
			case d.Total > 0 && r >= totalTop && inWeek:
				kind = cellWeek
			case d.Total > 0 && r >= totalTop:
				kind = cellOpen
			}

			if isCursor {
				if kind == cellEmpty {
					kind = cellCursor
				} else {
					kind = cellCursorFill
				}
			}

			grid[r][c] = kind
		}
	}

	return grid
}

// renderRow styles runs of equal cells at once.
func renderRow(row []cell) string {
	var b strings.Builder

	for start := 0; start < len(row); {
		end := start
		for end < len(row) && row[end] == row[start] {
			end++
		}

		kind := row[start]
		b.WriteString(cellStyles[kind].Render(strings.Repeat(cellGlyphs[kind], end-start)))
		start = end
	}

	return b.String()
}

func gutterLabel(mapper *chart.Mapper, row, rows int) string {
	var label string

	switch row {
	case 0:
		label = humanize.Comma(int64(mapper.MaxTotal()))
	case rows - 1:
		label = "0"
	}

	return lipgloss.NewStyle().Width(gutterWidth-1).Align(lipgloss.Right).Render(label) + " "
}
