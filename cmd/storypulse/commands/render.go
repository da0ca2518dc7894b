package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/config"
	"github.com/Sumatoshi-tech/storypulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/storypulse/pkg/export"
	"github.com/Sumatoshi-tech/storypulse/pkg/observability"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

// Render formats.
const (
	RenderHTML    = "html"
	RenderSite    = "site"
	RenderSVG     = "svg"
	RenderPNG     = "png"
	RenderJSON    = "json"
	RenderYAML    = "yaml"
	RenderECharts = "echarts"
)

const (
	renderDirPerm  = 0o750
	renderFilePerm = 0o644
	stdoutTarget   = "-"
)

var renderFormats = []string{RenderHTML, RenderSite, RenderSVG, RenderPNG, RenderJSON, RenderYAML, RenderECharts}

var (
	// ErrNoOutput is returned when the --output flag is not set.
	ErrNoOutput = errors.New("output is required (use --output)")
	// ErrUnknownRenderFormat is returned for formats outside renderFormats.
	ErrUnknownRenderFormat = errors.New("unknown render format")
	// ErrSiteCompression is returned when --lz4 is combined with the site format.
	ErrSiteCompression = errors.New("--lz4 cannot be used with the site format")
)

type renderOptions struct {
	datasetFlags

	output string
	format string
	lz4    bool
}

// NewRenderCommand creates the render command.
func NewRenderCommand(globals *GlobalOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the dashboard to a file or directory",
		Long: `Render the dashboard for one view and time range.

Formats:
  html     single dashboard page
  site     one page per view and time range plus index.html (output is a directory)
  svg      the area chart
  png      the area chart as an image
  json     export document
  yaml     export document
  echarts  interactive echarts page

Use --output - to write to stdout. --lz4 wraps the output in an LZ4 frame.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := globals.loadConfig()
			if err != nil {
				return err
			}

			return runRender(cmd, globals, cfg, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, directory for site, or - for stdout")
	cmd.Flags().StringVarP(&opts.format, "format", "f", RenderHTML, "format: "+strings.Join(renderFormats, ", "))
	cmd.Flags().BoolVar(&opts.lz4, "lz4", false, "compress the output as an LZ4 frame")

	return cmd
}

func runRender(cmd *cobra.Command, globals *GlobalOptions, cfg *config.Config, opts *renderOptions) error {
	format := strings.ToLower(strings.TrimSpace(opts.format))

	switch {
	case opts.output == "":
		return ErrNoOutput
	case !lo.Contains(renderFormats, format):
		return fmt.Errorf("%w: %q", ErrUnknownRenderFormat, opts.format)
	case format == RenderSite && opts.lz4:
		return ErrSiteCompression
	}

	state, ds, err := opts.resolve(cmd, cfg)
	if err != nil {
		return err
	}

	layout, err := cfg.Layout()
	if err != nil {
		return err
	}

	tel, err := initTelemetry(globals.observabilityConfig(cfg, observability.ModeCLI, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	defer tel.shutdown()

	logger := tel.providers.Logger

	if format == RenderSite {
		err = dashboard.RenderSite(opts.output, ds, layout)
		if err != nil {
			return err
		}

		logger.Info("rendered site", "dir", opts.output, "pages", len(dashboard.SiteStates())+1)

		return nil
	}

	var buf bytes.Buffer

	points, err := renderTo(&buf, format, ds, state, layout)
	if err != nil {
		return err
	}

	tel.renders.Record(cmd.Context(), observability.RenderStats{
		Format: format,
		View:   state.View().String(),
		Filter: state.Filter.String(),
		Points: points,
	})

	target, err := writeRendered(cmd.OutOrStdout(), opts.output, buf.Bytes(), opts.lz4)
	if err != nil {
		return err
	}

	logger.Info("rendered dashboard", "format", format, "output", target, "points", points)

	return nil
}

// renderTo writes a single-document format and returns the number of plotted days.
func renderTo(w io.Writer, format string, ds *storypoints.Dataset, state dashboard.State, layout dashboard.Layout) (int, error) {
	series, err := dashboard.VisibleSeries(ds, state)
	if err != nil {
		return 0, err
	}

	var week *chart.Range

	if !state.Filter.Active() {
		current := chart.CurrentWeek(ds.Reference)
		week = &current
	}

	switch format {
	case RenderHTML:
		vm, buildErr := dashboard.Build(ds, state, layout, dashboard.SiteLinker)
		if buildErr != nil {
			return 0, buildErr
		}

		err = dashboard.RenderPage(w, vm, layout.Theme, dashboard.PageOptions{})
	case RenderSVG:
		err = chart.Render(w, series, chart.Options{Canvas: layout.Canvas, Week: week})
	case RenderPNG:
		err = export.RenderPNG(w, series, export.PNGOptions{Canvas: layout.Canvas, Week: week})
	case RenderJSON, RenderYAML:
		doc, docErr := export.NewDocument(ds, state)
		if docErr != nil {
			return 0, docErr
		}

		err = export.Encode(w, doc, export.Format(format))
	case RenderECharts:
		page, pageErr := dashboard.NewEChartsPage(ds, state, layout.Theme)
		if pageErr != nil {
			return 0, pageErr
		}

		err = page.Render(w)
	}

	if err != nil {
		return 0, err
	}

	return len(series), nil
}

// writeRendered writes data to output, or to stdout for "-", and returns
// where it went. Compressed files get the .lz4 suffix.
func writeRendered(stdout io.Writer, output string, data []byte, compress bool) (string, error) {
	if compress {
		framed, err := export.Compress(data)
		if err != nil {
			return "", err
		}

		data = framed

		if output != stdoutTarget && !strings.HasSuffix(output, export.Extension) {
			output += export.Extension
		}
	}

	if output == stdoutTarget {
		_, err := stdout.Write(data)
		if err != nil {
			return "", fmt.Errorf("write stdout: %w", err)
		}

		return "stdout", nil
	}

	dir := filepath.Dir(output)

	err := os.MkdirAll(dir, renderDirPerm)
	if err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	err = os.WriteFile(output, data, renderFilePerm)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", output, err)
	}

	return output, nil
}
