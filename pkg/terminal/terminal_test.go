package terminal_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
	"github.com/Sumatoshi-tech/storypulse/pkg/terminal"
	"github.com/Sumatoshi-tech/storypulse/pkg/timefilter"
)

var plain = terminal.Config{Width: terminal.DefaultWidth, NoColor: true}

//nolint:paralleltest // t.Setenv forbids t.Parallel.
func TestDetectWidth(t *testing.T) {
	t.Setenv("COLUMNS", "")
	assert.Equal(t, terminal.DefaultWidth, terminal.DetectWidth())

	t.Setenv("COLUMNS", "100")
	assert.Equal(t, 100, terminal.DetectWidth())

	t.Setenv("COLUMNS", "20")
	assert.Equal(t, terminal.MinWidth, terminal.DetectWidth())

	t.Setenv("COLUMNS", "500")
	assert.Equal(t, terminal.MaxWidth, terminal.DetectWidth())

	t.Setenv("COLUMNS", "wide")
	assert.Equal(t, terminal.DefaultWidth, terminal.DetectWidth())
}

func TestColorize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "done", plain.Colorize("done", terminal.ColorGreen))

	colored := terminal.Config{}.Colorize("done", terminal.ColorGreen)
	assert.NotEqual(t, "done", colored)
	assert.Contains(t, colored, "\x1b[32m")
	assert.Contains(t, colored, "done")

	assert.Equal(t, "done", terminal.Config{}.Colorize("done", terminal.ColorNone))
}

func TestColorForRate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, terminal.ColorGreen, terminal.ColorForRate(0.87))
	assert.Equal(t, terminal.ColorYellow, terminal.ColorForRate(0.5))
	assert.Equal(t, terminal.ColorRed, terminal.ColorForRate(0.1))
}

func TestDrawProgressBar(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "███████░░░", terminal.DrawProgressBar(0.7, 10))
	assert.Equal(t, "░░░░", terminal.DrawProgressBar(-1, 4))
	assert.Equal(t, "████", terminal.DrawProgressBar(2, 4))
	assert.Empty(t, terminal.DrawProgressBar(0.5, 0))
	assert.Equal(t, "Closed ██░░  50%", terminal.DrawPercentBar("Closed", 0.5, 6, 4))
}

func TestText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Sarah...", terminal.TruncateWithEllipsis("Sarah Chen", 8))
	assert.Equal(t, "..", terminal.TruncateWithEllipsis("Sarah Chen", 2))
	assert.Equal(t, "Sarah", terminal.TruncateWithEllipsis("Sarah", 8))
	assert.Equal(t, "ab  ", terminal.PadRight("ab", 4))
	assert.Equal(t, "─── ", terminal.PadRight("───", 4))
}

func TestDrawHeader(t *testing.T) {
	t.Parallel()

	header := terminal.DrawHeader("Sarah", "1W", 20)
	lines := strings.Split(header, "\n")
	require.Len(t, lines, 3)

	for _, line := range lines {
		assert.Equal(t, 20, len([]rune(line)), line)
	}

	assert.Equal(t, "┃ Sarah         1W ┃", lines[1])

	grown := strings.Split(terminal.DrawHeader("A long profile title", "Reportee", 10), "\n")
	assert.Equal(t, len([]rune(grown[0])), len([]rune(grown[1])))
}

func dataset(t *testing.T) *storypoints.Dataset {
	t.Helper()

	ds, err := storypoints.NewDataset(storypoints.DefaultOptions())
	require.NoError(t, err)

	return ds
}

func TestWriteSeriesTable(t *testing.T) {
	t.Parallel()

	ds := dataset(t)

	series, err := ds.Series(storypoints.ViewAssigned)
	require.NoError(t, err)

	week := chart.CurrentWeek(ds.Reference)

	var buf bytes.Buffer
	require.NoError(t, terminal.WriteSeriesTable(&buf, series, terminal.TableOptions{Week: &week, Tail: 3}, plain))

	out := buf.String()
	assert.Contains(t, out, "IN PROGRESS")
	assert.Contains(t, out, "2024-07-15")
	assert.NotContains(t, out, "2024-07-12")
	assert.Equal(t, 2, strings.Count(out, terminal.WeekMarker))
	assert.Contains(t, out, "3 of 197 days")
	assert.NotContains(t, out, "\x1b[")
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	ds := dataset(t)

	profile, err := ds.Profile(storypoints.ViewReportee)
	require.NoError(t, err)

	series, err := ds.Series(storypoints.ViewReportee)
	require.NoError(t, err)

	week := chart.CurrentWeek(ds.Reference)

	var buf bytes.Buffer
	require.NoError(t, terminal.WriteSummary(&buf, terminal.Summary{
		Profile: profile,
		View:    storypoints.ViewReportee,
		Series:  series,
		Week:    &week,
	}, plain))

	out := buf.String()
	assert.Contains(t, out, "Sarah Chen · Lead Product Manager")
	assert.Contains(t, out, "Reportee · Full history")
	assert.Contains(t, out, "2,847")
	assert.Contains(t, out, "2,456")
	assert.Contains(t, out, " 86%")
	assert.Contains(t, out, "2024-01-01 → 2024-07-15 (197 days)")
	assert.Contains(t, out, "Jul 14 - Jul 20")
}

func TestWriteSummary_FilteredAndEmpty(t *testing.T) {
	t.Parallel()

	ds := dataset(t)

	profile, err := ds.Profile(storypoints.ViewAssigned)
	require.NoError(t, err)

	week := chart.CurrentWeek(ds.Reference)

	var buf bytes.Buffer
	require.NoError(t, terminal.WriteSummary(&buf, terminal.Summary{
		Profile: profile,
		View:    storypoints.ViewAssigned,
		Filter:  timefilter.OneWeek,
		Week:    &week,
	}, plain))

	out := buf.String()
	assert.Contains(t, out, "Assigned · Last week")
	assert.Contains(t, out, chart.NoDataMessage)
	assert.NotContains(t, out, "Current week")
}
