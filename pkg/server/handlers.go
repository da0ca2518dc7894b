package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/storypulse/pkg/export"
	"github.com/Sumatoshi-tech/storypulse/pkg/observability"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
	"github.com/Sumatoshi-tech/storypulse/pkg/timefilter"
)

// ParamSeed overrides the generator seed of a single request.
const ParamSeed = "seed"

const (
	contentTypeHTML   = "text/html; charset=utf-8"
	contentTypeSVG    = "image/svg+xml"
	contentTypePNG    = "image/png"
	contentTypeJSON   = "application/json"
	contentTypeSchema = "application/schema+json"
)

// ErrInvalidSeed is returned when the seed parameter is not an unsigned integer.
var ErrInvalidSeed = errors.New("invalid seed")

// request is the parsed query of a dashboard request.
type request struct {
	state dashboard.State
	ds    *storypoints.Dataset
	// extra carries the parameters links must keep, such as the seed.
	extra url.Values
}

func (s *Server) parseRequest(hr *http.Request) (request, error) {
	q := hr.URL.Query()

	state, stateErr := dashboard.ParseQuery(q)
	if stateErr != nil {
		return request{}, stateErr
	}

	opts := s.opts
	extra := url.Values{}

	if raw := strings.TrimSpace(q.Get(ParamSeed)); raw != "" {
		seed, parseErr := strconv.ParseUint(raw, 10, 64)
		if parseErr != nil {
			return request{}, fmt.Errorf("%w: %q", ErrInvalidSeed, raw)
		}

		opts.Seed = seed
		extra.Set(ParamSeed, raw)
	}

	ds, dsErr := s.datasets.GetOrLoad(opts.Seed, func() (*storypoints.Dataset, error) {
		return storypoints.NewDataset(opts)
	})
	if dsErr != nil {
		return request{}, dsErr
	}

	return request{state: state, ds: ds, extra: extra}, nil
}

// hoverEndpoint is the tooltip API of the page, carrying its state.
func (r request) hoverEndpoint() string {
	q := r.state.Query()

	for k, vs := range r.extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}

	return "/api/hover?" + q.Encode()
}

func (s *Server) handleDashboard(rw http.ResponseWriter, hr *http.Request) {
	req, err := s.parseRequest(hr)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	vm, err := dashboard.Build(req.ds, req.state, s.layout, dashboard.QueryLinker("/", req.extra))
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	var buf bytes.Buffer

	err = dashboard.RenderPage(&buf, vm, s.layout.Theme, dashboard.PageOptions{HoverEndpoint: req.hoverEndpoint()})
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	s.record(hr, "html", req.state, vm.Points)
	s.write(rw, hr, contentTypeHTML, buf.Bytes())
}

func (s *Server) handleSVG(rw http.ResponseWriter, hr *http.Request) {
	req, err := s.parseRequest(hr)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	series, err := dashboard.VisibleSeries(req.ds, req.state)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	opts := chart.Options{Canvas: s.layout.Canvas}
	if !req.state.Filter.Active() {
		week := chart.CurrentWeek(req.ds.Reference)
		opts.Week = &week
	}

	var buf bytes.Buffer

	err = chart.Render(&buf, series, opts)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	s.record(hr, "svg", req.state, len(series))
	s.write(rw, hr, contentTypeSVG, buf.Bytes())
}

func (s *Server) handlePNG(rw http.ResponseWriter, hr *http.Request) {
	req, err := s.parseRequest(hr)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	series, err := dashboard.VisibleSeries(req.ds, req.state)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	opts := export.PNGOptions{Canvas: s.layout.Canvas}
	if !req.state.Filter.Active() {
		week := chart.CurrentWeek(req.ds.Reference)
		opts.Week = &week
	}

	var buf bytes.Buffer

	err = export.RenderPNG(&buf, series, opts)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	s.record(hr, "png", req.state, len(series))
	s.write(rw, hr, contentTypePNG, buf.Bytes())
}

func (s *Server) handleECharts(rw http.ResponseWriter, hr *http.Request) {
	req, err := s.parseRequest(hr)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	series, err := dashboard.VisibleSeries(req.ds, req.state)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	page, err := dashboard.NewEChartsPage(req.ds, req.state, s.layout.Theme)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	var buf bytes.Buffer

	err = page.Render(&buf)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	s.record(hr, "echarts", req.state, len(series))
	s.write(rw, hr, contentTypeHTML, buf.Bytes())
}

// ProfileResponse is the body of /api/profile.
type ProfileResponse struct {
	View    string         `json:"view"`
	Profile export.Profile `json:"profile"`
}

func (s *Server) handleProfile(rw http.ResponseWriter, hr *http.Request) {
	req, err := s.parseRequest(hr)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	view := req.state.View()

	profile, err := req.ds.Profile(view)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	s.writeJSON(rw, hr, ProfileResponse{
		View:    view.String(),
		Profile: export.Profile{ProfileData: profile, CompletionRate: profile.CompletionRate()},
	})
}

func (s *Server) handleSeries(rw http.ResponseWriter, hr *http.Request) {
	req, err := s.parseRequest(hr)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	doc, err := export.NewDocument(req.ds, req.state)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	var buf bytes.Buffer

	err = export.Encode(&buf, doc, export.FormatJSON)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	s.record(hr, string(export.FormatJSON), req.state, len(doc.Series))
	s.write(rw, hr, contentTypeJSON, buf.Bytes())
}

func (s *Server) handleHover(rw http.ResponseWriter, hr *http.Request) {
	req, err := s.parseRequest(hr)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	pointer, err := dashboard.ParsePointer(hr.URL.Query())
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	tip, err := dashboard.Hover(req.ds, req.state, s.layout, pointer)
	if err != nil {
		s.fail(rw, hr, err)

		return
	}

	s.writeJSON(rw, hr, tip)
}

func (s *Server) handleSchema(rw http.ResponseWriter, hr *http.Request) {
	s.write(rw, hr, contentTypeSchema, export.Schema())
}

func (s *Server) record(hr *http.Request, format string, state dashboard.State, points int) {
	s.renders.Record(hr.Context(), observability.RenderStats{
		Format: format,
		View:   state.View().String(),
		Filter: state.Filter.String(),
		Points: points,
	})
}

func (s *Server) writeJSON(rw http.ResponseWriter, hr *http.Request, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.fail(rw, hr, fmt.Errorf("encode response: %w", err))

		return
	}

	s.write(rw, hr, contentTypeJSON, append(data, '\n'))
}

func (s *Server) write(rw http.ResponseWriter, hr *http.Request, contentType string, body []byte) {
	rw.Header().Set("Content-Type", contentType)

	_, err := rw.Write(body)
	if err != nil {
		s.logger.WarnContext(hr.Context(), "write response failed", "path", hr.URL.Path, "error", err)
	}
}

// fail answers client errors with 400 and everything else with 500.
func (s *Server) fail(rw http.ResponseWriter, hr *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(hr.Context(), "request failed", "path", hr.URL.Path, "error", err)
	}

	http.Error(rw, err.Error(), code)
}

var badRequestErrors = []error{
	storypoints.ErrUnknownView,
	timefilter.ErrUnknownFilter,
	dashboard.ErrInvalidPointer,
	ErrInvalidSeed,
}

func statusFor(err error) int {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}

	if errors.Is(err, chart.ErrEmptySeries) {
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}
