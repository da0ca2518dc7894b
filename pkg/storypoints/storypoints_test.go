package storypoints_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

func TestParseView(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  storypoints.View
	}{
		{"", storypoints.ViewAssigned},
		{"assigned", storypoints.ViewAssigned},
		{"Reportee", storypoints.ViewReportee},
		{" reportee ", storypoints.ViewReportee},
	}

	for _, tt := range tests {
		got, err := storypoints.ParseView(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := storypoints.ParseView("manager")
	require.ErrorIs(t, err, storypoints.ErrUnknownView)
}

func TestProfile(t *testing.T) {
	t.Parallel()

	assigned, err := storypoints.Profile(storypoints.ViewAssigned)
	require.NoError(t, err)
	assert.Equal(t, "Sarah Chen", assigned.Name)
	assert.Equal(t, 1247, assigned.TotalStoryPoints)
	assert.Equal(t, 1089, assigned.ClosedStoryPoints)
	assert.Equal(t, 158, assigned.InProgressStoryPoints)
	assert.Equal(t, 87, assigned.CompletionRate())

	reportee, err := storypoints.Profile(storypoints.ViewReportee)
	require.NoError(t, err)
	assert.Equal(t, 2847, reportee.TotalStoryPoints)
	assert.Equal(t, 86, reportee.CompletionRate())

	_, err = storypoints.Profile("unknown")
	require.ErrorIs(t, err, storypoints.ErrUnknownView)
}

func TestCompletionRate_ZeroTotal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, storypoints.ProfileData{}.CompletionRate())
}

func TestGenerator_BetweenBounds(t *testing.T) {
	t.Parallel()

	gen := storypoints.NewGenerator(1, 1)

	for range 1000 {
		v := gen.Between(2, 6)
		assert.GreaterOrEqual(t, v, 2)
		assert.LessOrEqual(t, v, 6)
	}
}

func TestGenerateSeries_Invariants(t *testing.T) {
	t.Parallel()

	for _, view := range storypoints.Views {
		profile, err := storypoints.Profile(view)
		require.NoError(t, err)

		for seed := range uint64(20) {
			series := storypoints.GenerateSeries(profile, storypoints.NewGenerator(seed, 1),
				storypoints.DefaultStart, storypoints.DefaultReference)

			require.Len(t, series, 197)

			prev := storypoints.StoryPointData{}

			for i, d := range series {
				assert.GreaterOrEqual(t, d.Closed, 0)
				assert.LessOrEqual(t, d.Closed, d.Total)
				assert.LessOrEqual(t, d.Total, profile.TotalStoryPoints)
				assert.Equal(t, d.Total-d.Closed, d.InProgress)
				assert.LessOrEqual(t, d.Closed, profile.ClosedStoryPoints)

				if i > 0 {
					assert.Equal(t, prev.Date.AddDate(0, 0, 1), d.Date)
					assert.GreaterOrEqual(t, d.Total, prev.Total)
					assert.GreaterOrEqual(t, d.Closed, prev.Closed)
				}

				prev = d
			}
		}
	}
}

func TestGenerateSeries_TightProfile(t *testing.T) {
	t.Parallel()

	profile := storypoints.ProfileData{TotalStoryPoints: 50, ClosedStoryPoints: 10, InProgressStoryPoints: 5}
	series := storypoints.GenerateSeries(profile, storypoints.NewGenerator(7, 1),
		storypoints.Day(2024, time.January, 1), storypoints.Day(2024, time.March, 1))

	last := series[len(series)-1]
	assert.Equal(t, 50, last.Total)
	assert.Equal(t, 10, last.Closed)
	assert.Equal(t, 40, last.InProgress)
}

func TestGenerateSeries_StartAfterEnd(t *testing.T) {
	t.Parallel()

	profile, err := storypoints.Profile(storypoints.ViewAssigned)
	require.NoError(t, err)

	series := storypoints.GenerateSeries(profile, storypoints.NewGenerator(1, 1),
		storypoints.DefaultReference, storypoints.DefaultStart)
	assert.Empty(t, series)
}

func TestNewDataset_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := storypoints.NewDataset(storypoints.DefaultOptions())
	require.NoError(t, err)

	second, err := storypoints.NewDataset(storypoints.DefaultOptions())
	require.NoError(t, err)

	for _, view := range storypoints.Views {
		a, seriesErr := first.Series(view)
		require.NoError(t, seriesErr)

		b, seriesErr := second.Series(view)
		require.NoError(t, seriesErr)

		assert.Equal(t, a, b)
	}

	assigned, err := first.Series(storypoints.ViewAssigned)
	require.NoError(t, err)

	reportee, err := first.Series(storypoints.ViewReportee)
	require.NoError(t, err)

	assert.NotEqual(t, assigned, reportee)
	assert.Equal(t, "2024-01-01", assigned[0].DateString())
	assert.Equal(t, "2024-07-15", assigned[len(assigned)-1].DateString())
}

func TestNewDataset_SeriesIsCopy(t *testing.T) {
	t.Parallel()

	ds, err := storypoints.NewDataset(storypoints.DefaultOptions())
	require.NoError(t, err)

	series, err := ds.Series(storypoints.ViewAssigned)
	require.NoError(t, err)

	original := series[0].Total
	series[0].Total = -1

	again, err := ds.Series(storypoints.ViewAssigned)
	require.NoError(t, err)
	assert.Equal(t, original, again[0].Total)
}

func TestNewDataset_InvalidRange(t *testing.T) {
	t.Parallel()

	opts := storypoints.DefaultOptions()
	opts.Start = storypoints.Day(2024, time.August, 1)

	_, err := storypoints.NewDataset(opts)
	require.ErrorIs(t, err, storypoints.ErrInvalidDateRange)

	_, err = storypoints.NewDataset(storypoints.Options{})
	require.ErrorIs(t, err, storypoints.ErrInvalidDateRange)
}

func TestDataset_UnknownView(t *testing.T) {
	t.Parallel()

	ds, err := storypoints.NewDataset(storypoints.DefaultOptions())
	require.NoError(t, err)

	_, err = ds.Series("nobody")
	require.ErrorIs(t, err, storypoints.ErrUnknownView)

	_, err = ds.Profile("nobody")
	require.ErrorIs(t, err, storypoints.ErrUnknownView)
}
