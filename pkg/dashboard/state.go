// Package dashboard holds the interactive state of the story point dashboard,
// turns it into a view model and renders that as HTML.
package dashboard

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
	"github.com/Sumatoshi-tech/storypulse/pkg/timefilter"
)

// Query parameter names.
const (
	ParamTab           = "tab"
	ParamFilter        = "filter"
	ParamOffsetX       = "x"
	ParamElementWidth  = "w"
	ParamClientX       = "cx"
	ParamClientY       = "cy"
	ParamViewportWidth = "vw"
)

// ErrInvalidPointer is returned when pointer query values are not numbers.
var ErrInvalidPointer = errors.New("invalid pointer")

// State is everything the user can change on the dashboard. The zero value
// shows the assigned view over the full range with no tooltip.
type State struct {
	Tab    storypoints.View
	Filter timefilter.Filter
	// Hover is the last pointer position over the chart, nil when the pointer is outside.
	Hover *chart.Pointer
}

// View returns the selected tab, defaulting to the assigned view.
func (s State) View() storypoints.View {
	if s.Tab == "" {
		return storypoints.ViewAssigned
	}

	return s.Tab
}

// Event is a user interaction that moves the dashboard to a new state.
type Event interface {
	apply(s State) State
}

// SelectTab switches the perspective.
type SelectTab struct {
	View storypoints.View
}

// ToggleFilter picks a preset, or clears it when it is already active.
type ToggleFilter struct {
	Filter timefilter.Filter
}

// ClearFilter removes the active preset.
type ClearFilter struct{}

// PointerMove reports the pointer over the chart.
type PointerMove struct {
	Pointer chart.Pointer
}

// PointerLeave reports the pointer leaving the chart.
type PointerLeave struct{}

func (e SelectTab) apply(s State) State {
	s.Tab = e.View
	s.Hover = nil

	return s
}

func (e ToggleFilter) apply(s State) State {
	s.Filter = timefilter.Toggle(s.Filter, e.Filter)
	s.Hover = nil

	return s
}

func (ClearFilter) apply(s State) State {
	s.Filter = timefilter.Clear(s.Filter)
	s.Hover = nil

	return s
}

func (e PointerMove) apply(s State) State {
	p := e.Pointer
	s.Hover = &p

	return s
}

func (PointerLeave) apply(s State) State {
	s.Hover = nil

	return s
}

// Apply returns the state after ev. Tab and filter changes drop the hover
// because the plotted data changes under the pointer.
func (s State) Apply(ev Event) State {
	return ev.apply(s)
}

// ParseQuery reads the state from URL query parameters. Pointer parameters
// set the hover when x is present.
func ParseQuery(q url.Values) (State, error) {
	view, viewErr := storypoints.ParseView(q.Get(ParamTab))
	if viewErr != nil {
		return State{}, viewErr
	}

	filter, filterErr := timefilter.Parse(q.Get(ParamFilter))
	if filterErr != nil {
		return State{}, filterErr
	}

	state := State{Tab: view, Filter: filter}

	if !q.Has(ParamOffsetX) {
		return state, nil
	}

	pointer, pointerErr := ParsePointer(q)
	if pointerErr != nil {
		return State{}, pointerErr
	}

	state.Hover = &pointer

	return state, nil
}

// ParsePointer reads pointer coordinates from query parameters. Missing
// values are zero; x is required.
func ParsePointer(q url.Values) (chart.Pointer, error) {
	var p chart.Pointer

	fields := []struct {
		name     string
		dst      *float64
		required bool
	}{
		{ParamOffsetX, &p.OffsetX, true},
		{ParamElementWidth, &p.ElementWidth, false},
		{ParamClientX, &p.ClientX, false},
		{ParamClientY, &p.ClientY, false},
		{ParamViewportWidth, &p.ViewportWidth, false},
	}

	for _, f := range fields {
		raw := strings.TrimSpace(q.Get(f.name))
		if raw == "" {
			if f.required {
				return chart.Pointer{}, fmt.Errorf("%w: %s is required", ErrInvalidPointer, f.name)
			}

			continue
		}

		v, parseErr := strconv.ParseFloat(raw, 64)
		if parseErr != nil {
			return chart.Pointer{}, fmt.Errorf("%w: %s=%q", ErrInvalidPointer, f.name, raw)
		}

		*f.dst = v
	}

	return p, nil
}

// Query encodes the tab and filter. The hover is transient and not encoded.
func (s State) Query() url.Values {
	q := url.Values{}
	q.Set(ParamTab, s.View().String())

	if s.Filter.Active() {
		q.Set(ParamFilter, string(s.Filter))
	}

	return q
}

// PageID names the static page of the state, e.g. "assigned" or "reportee-1w".
func (s State) PageID() string {
	if !s.Filter.Active() {
		return s.View().String()
	}

	return s.View().String() + "-" + strings.ToLower(string(s.Filter))
}

// Linker turns a target state into a link.
type Linker func(State) string

// QueryLinker links to base with the state in the query string. Extra
// parameters, such as the seed, are carried along.
func QueryLinker(base string, extra url.Values) Linker {
	return func(s State) string {
		q := s.Query()

		for k, vs := range extra {
			for _, v := range vs {
				q.Add(k, v)
			}
		}

		return base + "?" + q.Encode()
	}
}

// SiteLinker links to the static page of each state.
func SiteLinker(s State) string {
	return s.PageID() + ".html"
}
