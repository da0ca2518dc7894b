package plotpage

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// IndexFileName is the landing page of a rendered site.
	IndexFileName = "index.html"

	indexTitle       = "Dashboard Index"
	indexDescription = "Every view and time range of the dashboard."
	siteDirPerm      = 0o755
)

// PageMeta describes a rendered page on the index.
type PageMeta struct {
	ID          string // Filename stem, e.g. "assigned-1w".
	Title       string // Display title.
	Description string // Short description for the index card.
}

// SiteRenderer writes standalone HTML pages plus an index page into a directory.
type SiteRenderer struct {
	OutputDir string
	Title     string
	Theme     Theme
	// Renderer renders every page. The zero value adds no extra CSS or script.
	Renderer HTMLRenderer
}

// RenderPage writes page to <OutputDir>/<id>.html with a link back to the index.
func (r *SiteRenderer) RenderPage(id string, page *Page) error {
	navHTML, err := renderTemplate("nav.html", nil)
	if err != nil {
		return fmt.Errorf("render nav: %w", err)
	}

	page.Theme = r.Theme
	page.ProjectName = r.Title
	page.Sections = append([]Section{{Chart: HTML(navHTML)}}, page.Sections...)

	return r.write(id+".html", page)
}

// RenderIndex writes <OutputDir>/index.html with one card per page.
func (r *SiteRenderer) RenderIndex(pages []PageMeta) error {
	content, err := renderTemplate("index.html", indexData{Pages: pages})
	if err != nil {
		return fmt.Errorf("render index content: %w", err)
	}

	page := NewPage(indexTitle, indexDescription)
	page.Theme = r.Theme
	page.ProjectName = r.Title
	page.Sections = []Section{{Chart: HTML(content)}}

	return r.write(IndexFileName, page)
}

func (r *SiteRenderer) write(name string, page *Page) (retErr error) {
	mkdirErr := os.MkdirAll(r.OutputDir, siteDirPerm)
	if mkdirErr != nil {
		return fmt.Errorf("create %s: %w", r.OutputDir, mkdirErr)
	}

	outPath := filepath.Join(r.OutputDir, name)

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}

	defer func() {
		closeErr := f.Close()
		if closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("close %s: %w", outPath, closeErr)
		}
	}()

	renderErr := r.Renderer.Render(f, page)
	if renderErr != nil {
		return fmt.Errorf("render %s: %w", name, renderErr)
	}

	return nil
}
