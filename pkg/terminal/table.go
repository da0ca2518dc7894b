package terminal

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

// WeekMarker flags rows of the current week.
const WeekMarker = "●"

// TableOptions controls WriteSeriesTable.
type TableOptions struct {
	// Week marks the rows inside the range when set.
	Week *chart.Range
	// Tail keeps only the last Tail rows when positive.
	Tail int
}

// WriteSeriesTable writes series as a table with one row per day.
func WriteSeriesTable(w io.Writer, series []storypoints.StoryPointData, opts TableOptions, cfg Config) error {
	rows := series
	if opts.Tail > 0 && len(rows) > opts.Tail {
		rows = rows[len(rows)-opts.Tail:]
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.AppendHeader(table.Row{"Date", "Total", "Closed", "In Progress", "Done", ""})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	for _, d := range rows {
		marker := ""
		if opts.Week != nil && opts.Week.Contains(d.Date) {
			marker = WeekMarker
		}

		tbl.AppendRow(table.Row{
			d.DateString(),
			humanize.Comma(int64(d.Total)),
			humanize.Comma(int64(d.Closed)),
			humanize.Comma(int64(d.InProgress)),
			fmt.Sprintf("%d%%", completion(d.Closed, d.Total)),
			marker,
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("%d of %d days", len(rows), len(series))})

	if !cfg.NoColor {
		tbl.SetRowPainter(table.RowPainter(func(row table.Row) text.Colors {
			if len(row) > 0 && row[len(row)-1] == WeekMarker {
				return text.Colors{text.FgHiYellow}
			}

			return nil
		}))
	}

	_, writeErr := fmt.Fprintln(w, tbl.Render())
	if writeErr != nil {
		return fmt.Errorf("write series table: %w", writeErr)
	}

	return nil
}

func completion(closed, total int) int {
	if total <= 0 {
		return 0
	}

	return (closed*PercentMultiplier + total/2) / total
}
