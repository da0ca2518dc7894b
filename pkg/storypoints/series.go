package storypoints

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/samber/lo"
)

// DateLayout is the ISO calendar-day layout used for series dates.
const DateLayout = "2006-01-02"

// Daily draw bounds, inclusive.
const (
	minDailyIncrease  = 2
	maxDailyIncrease  = 6
	minDailyCompleted = 1
	maxDailyCompleted = 4
)

// DefaultSeed is the generator seed used when none is configured.
const DefaultSeed uint64 = 20240715

var (
	// DefaultStart is the first day of generated series.
	DefaultStart = Day(2024, time.January, 1)
	// DefaultReference is the fixed "current" day of the dashboard.
	DefaultReference = Day(2024, time.July, 15)
)

// ErrInvalidDateRange is returned when the start day is after the reference day.
var ErrInvalidDateRange = errors.New("invalid date range")

// StoryPointData is the cumulative state of one calendar day.
type StoryPointData struct {
	Date       time.Time
	Total      int
	Closed     int
	InProgress int
}

// DateString returns the day as "2006-01-02".
func (d StoryPointData) DateString() string {
	return d.Date.Format(DateLayout)
}

// Day returns midnight UTC of the given calendar day.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate strips the clock from t and returns the calendar day in UTC.
func Truncate(t time.Time) time.Time {
	return Day(t.Year(), t.Month(), t.Day())
}

// Generator draws the daily increments. Equal seeds and streams produce equal draws.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator on a PCG source.
func NewGenerator(seed, stream uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, stream))}
}

// Between returns a uniformly drawn integer in [lo, hi].
func (g *Generator) Between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

// GenerateSeries produces one entry per day from start through end inclusive.
// Totals are capped by the profile, and closed points are kept inside the
// window that leaves in-progress work within the profile bound.
func GenerateSeries(profile ProfileData, gen *Generator, start, end time.Time) []StoryPointData {
	start, end = Truncate(start), Truncate(end)
	if start.After(end) {
		return nil
	}

	days := int(end.Sub(start).Hours()/24) + 1
	series := make([]StoryPointData, 0, days)

	cumTotal, cumClosed := 0, 0

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		cumTotal += gen.Between(minDailyIncrease, maxDailyIncrease)
		cumClosed = min(cumClosed+gen.Between(minDailyCompleted, maxDailyCompleted), cumTotal)

		total := min(cumTotal, profile.TotalStoryPoints)
		closed := clampClosed(cumClosed, total, profile)

		series = append(series, StoryPointData{
			Date:       day,
			Total:      total,
			Closed:     closed,
			InProgress: total - closed,
		})
	}

	return series
}

// clampClosed bounds closed points so that 0 <= closed <= min(profile.Closed, total)
// and total-closed stays within profile.InProgress when possible. The upper bound wins.
func clampClosed(cumClosed, total int, profile ProfileData) int {
	upper := min(profile.ClosedStoryPoints, total)
	lower := min(max(0, total-profile.InProgressStoryPoints), upper)

	return lo.Clamp(cumClosed, lower, upper)
}

// Options configures dataset generation.
type Options struct {
	Seed      uint64
	Start     time.Time
	Reference time.Time
}

// DefaultOptions returns the options of the stock dashboard.
func DefaultOptions() Options {
	return Options{
		Seed:      DefaultSeed,
		Start:     DefaultStart,
		Reference: DefaultReference,
	}
}

// Validate checks the date range.
func (o Options) Validate() error {
	if o.Start.IsZero() || o.Reference.IsZero() {
		return fmt.Errorf("%w: start and reference are required", ErrInvalidDateRange)
	}

	if Truncate(o.Start).After(Truncate(o.Reference)) {
		return fmt.Errorf("%w: start %s is after reference %s", ErrInvalidDateRange,
			o.Start.Format(DateLayout), o.Reference.Format(DateLayout))
	}

	return nil
}

// Dataset holds the profiles and generated series for every view.
type Dataset struct {
	Start     time.Time
	Reference time.Time
	Seed      uint64

	profiles map[View]ProfileData
	series   map[View][]StoryPointData
}

// NewDataset generates the series of every view. Each view draws from its own
// stream of the seed so the two perspectives differ.
func NewDataset(opts Options) (*Dataset, error) {
	validateErr := opts.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	ds := &Dataset{
		Start:     Truncate(opts.Start),
		Reference: Truncate(opts.Reference),
		Seed:      opts.Seed,
		profiles:  make(map[View]ProfileData, len(Views)),
		series:    make(map[View][]StoryPointData, len(Views)),
	}

	for i, view := range Views {
		profile := profiles[view]
		gen := NewGenerator(opts.Seed, uint64(i+1))

		ds.profiles[view] = profile
		ds.series[view] = GenerateSeries(profile, gen, ds.Start, ds.Reference)
	}

	return ds, nil
}

// Profile returns the profile of the view.
func (d *Dataset) Profile(view View) (ProfileData, error) {
	p, ok := d.profiles[view]
	if !ok {
		return ProfileData{}, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}

	return p, nil
}

// Series returns a copy of the series of the view.
func (d *Dataset) Series(view View) ([]StoryPointData, error) {
	s, ok := d.series[view]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}

	return slices.Clone(s), nil
}
