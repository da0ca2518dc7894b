package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
	"github.com/Sumatoshi-tech/storypulse/pkg/timefilter"
)

const (
	labelWidth = 22
	barWidth   = 30
)

// Summary is the headline of one dashboard view.
type Summary struct {
	Profile storypoints.ProfileData
	View    storypoints.View
	Filter  timefilter.Filter
	Series  []storypoints.StoryPointData
	// Week is shown as a hint line when set.
	Week *chart.Range
}

// WriteSummary writes the profile header, the three metrics, the completion
// bar and the visible range of s.
func WriteSummary(w io.Writer, s Summary, cfg Config) error {
	var b strings.Builder

	p := s.Profile
	rate := float64(p.CompletionRate()) / PercentMultiplier

	b.WriteString(DrawHeader(p.Name+" · "+p.Designation, viewTitle(s.View)+" · "+s.Filter.Description(), cfg.Width))
	b.WriteString("\n")
	writeMetric(&b, "Total Story Points", humanize.Comma(int64(p.TotalStoryPoints)), ColorBlue, cfg)
	writeMetric(&b, "Closed Story Points", humanize.Comma(int64(p.ClosedStoryPoints)), ColorGreen, cfg)
	writeMetric(&b, "In Progress", humanize.Comma(int64(p.InProgressStoryPoints)), ColorYellow, cfg)
	b.WriteString(cfg.Colorize(DrawPercentBar("Completion", rate, labelWidth, barWidth), ColorForRate(rate)))
	b.WriteString("\n")
	b.WriteString(DrawSeparator(min(cfg.Width, labelWidth+barWidth+6)))
	b.WriteString("\n")

	if len(s.Series) == 0 {
		b.WriteString(cfg.Colorize(chart.NoDataMessage, ColorGray))
	} else {
		first, last := s.Series[0], s.Series[len(s.Series)-1]
		fmt.Fprintf(&b, "%s %s → %s (%s days), %s closed of %s",
			PadRight("Visible range", labelWidth), first.DateString(), last.DateString(),
			humanize.Comma(int64(len(s.Series))), humanize.Comma(int64(last.Closed)), humanize.Comma(int64(last.Total)))
	}

	b.WriteString("\n")

	if s.Week != nil && !s.Filter.Active() {
		b.WriteString(cfg.Colorize(PadRight("Current week", labelWidth)+" "+WeekMarker+" "+s.Week.Label(), ColorAmber))
		b.WriteString("\n")
	}

	_, writeErr := io.WriteString(w, b.String())
	if writeErr != nil {
		return fmt.Errorf("write summary: %w", writeErr)
	}

	return nil
}

func writeMetric(b *strings.Builder, label, value string, c Color, cfg Config) {
	b.WriteString(PadRight(label, labelWidth))
	b.WriteString(" ")
	b.WriteString(cfg.Colorize(value, c))
	b.WriteString("\n")
}

func viewTitle(v storypoints.View) string {
	if v == storypoints.ViewReportee {
		return "Reportee"
	}

	return "Assigned"
}
