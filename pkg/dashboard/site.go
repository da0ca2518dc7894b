package dashboard

import (
	"fmt"

	"github.com/Sumatoshi-tech/storypulse/pkg/plotpage"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
	"github.com/Sumatoshi-tech/storypulse/pkg/timefilter"
)

// SiteStates lists every tab and filter combination of the static export.
func SiteStates() []State {
	filters := append([]timefilter.Filter{timefilter.None}, timefilter.Presets...)
	states := make([]State, 0, len(storypoints.Views)*len(filters))

	for _, view := range storypoints.Views {
		for _, f := range filters {
			states = append(states, State{Tab: view, Filter: f})
		}
	}

	return states
}

// RenderSite writes one page per state of SiteStates into dir, linked to each
// other by file name, plus an index.html.
func RenderSite(dir string, ds *storypoints.Dataset, layout Layout) error {
	site := &plotpage.SiteRenderer{OutputDir: dir, Title: "storypulse", Theme: layout.Theme}
	states := SiteStates()
	metas := make([]plotpage.PageMeta, 0, len(states))

	for _, state := range states {
		vm, buildErr := Build(ds, state, layout, SiteLinker)
		if buildErr != nil {
			return fmt.Errorf("build %s: %w", state.PageID(), buildErr)
		}

		page, pageErr := NewPage(vm, layout.Theme, PageOptions{})
		if pageErr != nil {
			return fmt.Errorf("layout %s: %w", state.PageID(), pageErr)
		}

		renderErr := site.RenderPage(state.PageID(), page)
		if renderErr != nil {
			return renderErr
		}

		metas = append(metas, plotpage.PageMeta{
			ID:          state.PageID(),
			Title:       CopyFor(state.View()).TabLabel,
			Description: state.Filter.Description(),
		})
	}

	return site.RenderIndex(metas)
}
