package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/Sumatoshi-tech/storypulse/pkg/plotpage"
)

// CurrentWeekBadge labels the chart while the current week is highlighted.
const CurrentWeekBadge = "CURRENT WEEK"

const profileCardClasses = "flex items-center gap-6"

// PageOptions controls the delivery of a rendered page.
type PageOptions struct {
	// HoverEndpoint is the tooltip API the page script queries, including the
	// state query. Empty disables the script, e.g. for static exports.
	HoverEndpoint string
}

// NewPage lays the view model out as a plotpage page.
func NewPage(vm *ViewModel, theme plotpage.Theme, opts PageOptions) (*plotpage.Page, error) {
	profile, profileErr := renderTemplate("profile.html", vm)
	if profileErr != nil {
		return nil, fmt.Errorf("render profile: %w", profileErr)
	}

	chip, chipErr := renderComponent(rangeBadge(vm))
	if chipErr != nil {
		return nil, fmt.Errorf("render range badge: %w", chipErr)
	}

	banner, bannerErr := renderComponent(plotpage.NewAlert("", vm.WeekBanner, plotpage.BadgeWarning))
	if bannerErr != nil {
		return nil, fmt.Errorf("render week banner: %w", bannerErr)
	}

	panel, panelErr := renderTemplate("chart_panel.html", chartPanelData{
		VM:            vm,
		Banner:        banner,
		Chip:          chip,
		HoverEndpoint: opts.HoverEndpoint,
	})
	if panelErr != nil {
		return nil, fmt.Errorf("render chart panel: %w", panelErr)
	}

	tabs := make([]plotpage.NavTab, len(vm.Tabs))
	for i, t := range vm.Tabs {
		tabs[i] = plotpage.NavTab{Label: t.Label, Href: t.Href, Active: t.Active}
	}

	cards := make([]plotpage.Renderable, len(vm.Cards))
	for i, c := range vm.Cards {
		stat := plotpage.NewStat(c.Label, c.Value).WithTrend(c.Trend, c.Color).WithBadge(c.Badge)
		if c.Progress != nil {
			stat.WithProgress(*c.Progress)
		}

		cards[i] = stat
	}

	page := plotpage.NewPage(vm.Title, vm.Description).WithTheme(theme)
	page.Add(
		plotpage.Section{Chart: plotpage.NewNavTabs(tabs...)},
		plotpage.Section{Chart: plotpage.NewCard("", "").
			WithClasses(profileCardClasses).
			WithContent(plotpage.HTML(profile))},
		plotpage.Section{Chart: plotpage.NewGrid(len(cards), cards...)},
		plotpage.Section{Chart: plotpage.HTML(panel)},
	)

	return page, nil
}

// rangeBadge marks the current week while no filter is active and names the
// active range otherwise.
func rangeBadge(vm *ViewModel) *plotpage.Badge {
	if vm.WeekBanner != "" {
		return plotpage.NewBadge(CurrentWeekBadge).WithColor(plotpage.BadgeWarning).WithVariant(plotpage.BadgeSolid)
	}

	return plotpage.NewBadge(vm.State.Filter.Description()).WithColor(plotpage.BadgeAccent)
}

// RenderPage writes the dashboard page for vm.
func RenderPage(w io.Writer, vm *ViewModel, theme plotpage.Theme, opts PageOptions) error {
	page, err := NewPage(vm, theme, opts)
	if err != nil {
		return err
	}

	renderer := plotpage.HTMLRenderer{}
	if opts.HoverEndpoint != "" {
		renderer.Script = hoverScript
	}

	return renderer.Render(w, page)
}

func renderComponent(r plotpage.Renderable) (template.HTML, error) {
	var buf bytes.Buffer

	err := r.Render(&buf)
	if err != nil {
		return "", err
	}

	return template.HTML(buf.String()), nil //nolint:gosec // plotpage components escape their content.
}
