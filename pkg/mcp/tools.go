package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/storypulse/pkg/export"
	"github.com/Sumatoshi-tech/storypulse/pkg/observability"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
	"github.com/Sumatoshi-tech/storypulse/pkg/timefilter"
)

// Tool names.
const (
	ToolNameProfile = "storypulse_profile"
	ToolNameSeries  = "storypulse_series"
	ToolNameHover   = "storypulse_hover"
)

// ProfileInput is the input of storypulse_profile.
type ProfileInput struct {
	View string `json:"view,omitempty" jsonschema:"assigned (default) or reportee"`
}

// SeriesInput is the input of storypulse_series.
type SeriesInput struct {
	View   string  `json:"view,omitempty"   jsonschema:"assigned (default) or reportee"`
	Filter string  `json:"filter,omitempty" jsonschema:"time range: 1D, 1W, 1M or 1Y; empty for the full history"`
	Seed   *uint64 `json:"seed,omitempty"   jsonschema:"generator seed; the server default when omitted"`
}

// HoverInput is the input of storypulse_hover.
type HoverInput struct {
	View          string  `json:"view,omitempty"           jsonschema:"assigned (default) or reportee"`
	Filter        string  `json:"filter,omitempty"         jsonschema:"time range: 1D, 1W, 1M or 1Y; empty for the full history"`
	Seed          *uint64 `json:"seed,omitempty"           jsonschema:"generator seed; the server default when omitted"`
	X             float64 `json:"x"                        jsonschema:"pointer x relative to the chart element"`
	ElementWidth  float64 `json:"element_width,omitempty"  jsonschema:"rendered chart width; omit when drawn at canvas scale"`
	ClientX       float64 `json:"client_x,omitempty"       jsonschema:"pointer x in the viewport"`
	ClientY       float64 `json:"client_y,omitempty"       jsonschema:"pointer y in the viewport"`
	ViewportWidth float64 `json:"viewport_width,omitempty" jsonschema:"viewport width bounding the tooltip"`
}

// ProfileOutput is the result of storypulse_profile.
type ProfileOutput struct {
	View    string         `json:"view"`
	Profile export.Profile `json:"profile"`
}

// ToolOutput is the structured output of every tool.
type ToolOutput struct {
	Data any `json:"data"`
}

func (s *Server) handleProfile(
	_ context.Context, _ *mcpsdk.CallToolRequest, input ProfileInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	view, err := storypoints.ParseView(input.View)
	if err != nil {
		return errorResult(err)
	}

	ds, err := s.dataset(s.opts)
	if err != nil {
		return errorResult(err)
	}

	profile, err := ds.Profile(view)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(ProfileOutput{
		View:    view.String(),
		Profile: export.Profile{ProfileData: profile, CompletionRate: profile.CompletionRate()},
	})
}

func (s *Server) handleSeries(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input SeriesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	state, ds, err := s.resolve(input.View, input.Filter, input.Seed)
	if err != nil {
		return errorResult(err)
	}

	doc, err := export.NewDocument(ds, state)
	if err != nil {
		return errorResult(err)
	}

	err = export.Validate(doc)
	if err != nil {
		return errorResult(err)
	}

	s.renders.Record(ctx, observability.RenderStats{
		Format: "mcp", View: doc.View, Filter: doc.Filter, Points: len(doc.Series),
	})

	return jsonResult(doc)
}

func (s *Server) handleHover(
	_ context.Context, _ *mcpsdk.CallToolRequest, input HoverInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	state, ds, err := s.resolve(input.View, input.Filter, input.Seed)
	if err != nil {
		return errorResult(err)
	}

	tip, err := dashboard.Hover(ds, state, s.layout, chart.Pointer{
		OffsetX:       input.X,
		ElementWidth:  input.ElementWidth,
		ClientX:       input.ClientX,
		ClientY:       input.ClientY,
		ViewportWidth: input.ViewportWidth,
	})
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(tip)
}

// resolve parses the view and filter and generates the dataset for seed.
func (s *Server) resolve(viewName, filterName string, seed *uint64) (dashboard.State, *storypoints.Dataset, error) {
	view, err := storypoints.ParseView(viewName)
	if err != nil {
		return dashboard.State{}, nil, err
	}

	filter, err := timefilter.Parse(filterName)
	if err != nil {
		return dashboard.State{}, nil, err
	}

	opts := s.opts
	if seed != nil {
		opts.Seed = *seed
	}

	ds, err := s.dataset(opts)
	if err != nil {
		return dashboard.State{}, nil, err
	}

	return dashboard.State{Tab: view, Filter: filter}, ds, nil
}

// dataset returns the memoized dataset of the seed in opts.
func (s *Server) dataset(opts storypoints.Options) (*storypoints.Dataset, error) {
	return s.datasets.GetOrLoad(opts.Seed, func() (*storypoints.Dataset, error) {
		return storypoints.NewDataset(opts)
	})
}

func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
