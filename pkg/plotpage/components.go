package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

const (
	maxGridColumns = 4
	maxPercent     = 100
)

// BadgeVariant defines badge styling variants.
type BadgeVariant string

// Badge variant constants.
const (
	BadgeSolid   BadgeVariant = "solid"
	BadgeSoft    BadgeVariant = "soft"
	BadgeOutline BadgeVariant = "outline"
)

// BadgeColor defines component colors.
type BadgeColor string

// Color constants.
const (
	BadgeDefault BadgeColor = "default"
	BadgeAccent  BadgeColor = "accent"
	BadgeSuccess BadgeColor = "success"
	BadgeWarning BadgeColor = "warning"
	BadgeError   BadgeColor = "error"
	BadgeInfo    BadgeColor = "info"
)

// HTML is a Renderable holding pre-rendered markup.
type HTML template.HTML

// Render writes the markup.
func (h HTML) Render(w io.Writer) error {
	_, err := io.WriteString(w, string(h))
	if err != nil {
		return fmt.Errorf("write raw html: %w", err)
	}

	return nil
}

// renderInner renders a nested component into template.HTML.
func renderInner(r Renderable) (template.HTML, error) {
	if r == nil {
		return "", nil
	}

	var buf bytes.Buffer

	err := r.Render(&buf)
	if err != nil {
		return "", err
	}

	return template.HTML(buf.String()), nil //nolint:gosec // components escape their own content.
}

// writeTemplate renders a component template and writes it to w.
func writeTemplate(w io.Writer, name string, data any) error {
	html, err := renderTemplate(name, data)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}

// NavTab is one link of a tab bar.
type NavTab struct {
	Label  string
	Href   string
	Active bool
}

// NavTabs renders a tab bar whose tabs are plain links, so every tab is a
// separate page or query.
type NavTabs struct {
	Items []NavTab
}

// NewNavTabs creates a tab bar.
func NewNavTabs(items ...NavTab) *NavTabs {
	return &NavTabs{Items: items}
}

// Render writes the tab bar HTML.
func (t *NavTabs) Render(w io.Writer) error {
	if len(t.Items) == 0 {
		return nil
	}

	return writeTemplate(w, "navtabs.html", navTabsData{Items: t.Items})
}

// Card renders a card container.
type Card struct {
	Title    string
	Subtitle string
	Classes  string
	Content  Renderable
}

// NewCard creates a new card.
func NewCard(title, subtitle string) *Card {
	return &Card{Title: title, Subtitle: subtitle}
}

// WithContent sets the card content.
func (c *Card) WithContent(content Renderable) *Card {
	c.Content = content

	return c
}

// WithClasses adds CSS classes to the card container.
func (c *Card) WithClasses(classes string) *Card {
	c.Classes = classes

	return c
}

// Render writes the card HTML.
func (c *Card) Render(w io.Writer) error {
	content, err := renderInner(c.Content)
	if err != nil {
		return fmt.Errorf("rendering card content: %w", err)
	}

	return writeTemplate(w, "card.html", cardData{
		Title:    c.Title,
		Subtitle: c.Subtitle,
		Classes:  c.Classes,
		Content:  content,
	})
}

// Badge renders an inline badge.
type Badge struct {
	Text    string
	Variant BadgeVariant
	Color   BadgeColor
}

// NewBadge creates a soft badge.
func NewBadge(text string) *Badge {
	return &Badge{Text: text, Variant: BadgeSoft, Color: BadgeDefault}
}

// WithColor sets the badge color.
func (b *Badge) WithColor(c BadgeColor) *Badge {
	b.Color = c

	return b
}

// WithVariant sets the badge variant.
func (b *Badge) WithVariant(v BadgeVariant) *Badge {
	b.Variant = v

	return b
}

// Render writes the badge HTML.
func (b *Badge) Render(w io.Writer) error {
	return writeTemplate(w, "badge.html", badgeData{Text: b.Text, Classes: b.Classes()})
}

// Classes returns the CSS classes of the badge.
func (b *Badge) Classes() string {
	switch b.Variant {
	case BadgeSolid:
		return solidClasses[b.color()]
	case BadgeOutline:
		return outlineClasses[b.color()]
	case BadgeSoft:
		return softClasses[b.color()]
	default:
		return softClasses[b.color()]
	}
}

func (b *Badge) color() BadgeColor {
	if _, ok := softClasses[b.Color]; ok {
		return b.Color
	}

	return BadgeDefault
}

var solidClasses = map[BadgeColor]string{
	BadgeDefault: "bg-slate-600 text-white",
	BadgeAccent:  "bg-indigo-600 text-white",
	BadgeSuccess: "bg-green-600 text-white",
	BadgeWarning: "bg-amber-500 text-white",
	BadgeError:   "bg-red-600 text-white",
	BadgeInfo:    "bg-blue-600 text-white",
}

var outlineClasses = map[BadgeColor]string{
	BadgeDefault: "border border-slate-400 text-slate-600",
	BadgeAccent:  "border border-indigo-500 text-indigo-700",
	BadgeSuccess: "border border-green-600 text-green-700",
	BadgeWarning: "border border-amber-500 text-amber-700",
	BadgeError:   "border border-red-600 text-red-700",
	BadgeInfo:    "border border-blue-600 text-blue-700",
}

var softClasses = map[BadgeColor]string{
	BadgeDefault: "bg-slate-100 text-slate-800",
	BadgeAccent:  "bg-indigo-100 text-indigo-800",
	BadgeSuccess: "bg-green-100 text-green-800",
	BadgeWarning: "bg-amber-100 text-amber-800",
	BadgeError:   "bg-red-100 text-red-800",
	BadgeInfo:    "bg-blue-100 text-blue-800",
}

var textClasses = map[BadgeColor]string{
	BadgeDefault: "text-slate-500",
	BadgeAccent:  "text-indigo-600",
	BadgeSuccess: "text-green-600",
	BadgeWarning: "text-amber-600",
	BadgeError:   "text-red-600",
	BadgeInfo:    "text-blue-600",
}

var barClasses = map[BadgeColor]string{
	BadgeDefault: "bg-slate-500",
	BadgeAccent:  "bg-gradient-to-r from-indigo-500 to-purple-600",
	BadgeSuccess: "bg-gradient-to-r from-green-500 to-emerald-600",
	BadgeWarning: "bg-gradient-to-r from-amber-400 to-orange-500",
	BadgeError:   "bg-red-500",
	BadgeInfo:    "bg-gradient-to-r from-blue-500 to-indigo-600",
}

// Grid renders a responsive grid layout.
type Grid struct {
	Columns int
	Gap     string
	Items   []Renderable
}

// NewGrid creates a grid with between one and four columns.
func NewGrid(columns int, items ...Renderable) *Grid {
	return &Grid{Columns: min(max(columns, 1), maxGridColumns), Gap: "gap-6", Items: items}
}

// Render writes the grid HTML.
func (g *Grid) Render(w io.Writer) error {
	colClass := map[int]string{
		1: "grid-cols-1",
		2: "grid-cols-1 md:grid-cols-2",
		3: "grid-cols-1 md:grid-cols-3",
		4: "grid-cols-1 md:grid-cols-2 lg:grid-cols-4",
	}[g.Columns]

	items := make([]template.HTML, len(g.Items))

	for i, item := range g.Items {
		html, err := renderInner(item)
		if err != nil {
			return fmt.Errorf("rendering grid item %d: %w", i, err)
		}

		items[i] = html
	}

	return writeTemplate(w, "grid.html", gridData{ColClass: colClass, Gap: g.Gap, Items: items})
}

// Stat renders a metric tile: label, large value, a trend line and
// optionally a badge and a progress bar.
type Stat struct {
	Label    string
	Value    string
	Trend    string
	Color    BadgeColor
	Badge    string
	Progress *int
}

// NewStat creates a new stat display.
func NewStat(label, value string) *Stat {
	return &Stat{Label: label, Value: value, Color: BadgeDefault}
}

// WithTrend sets the trend line under the value.
func (s *Stat) WithTrend(trend string, color BadgeColor) *Stat {
	s.Trend = trend
	s.Color = color

	return s
}

// WithBadge sets a small badge next to the trend.
func (s *Stat) WithBadge(text string) *Stat {
	s.Badge = text

	return s
}

// WithProgress adds a progress bar filled to percent, clamped to [0, 100].
func (s *Stat) WithProgress(percent int) *Stat {
	p := min(max(percent, 0), maxPercent)
	s.Progress = &p

	return s
}

// Render writes the stat HTML.
func (s *Stat) Render(w io.Writer) error {
	color := (&Badge{Color: s.Color}).color()

	data := statData{
		Label:      s.Label,
		Value:      s.Value,
		Trend:      s.Trend,
		TrendClass: textClasses[color],
		Badge:      s.Badge,
		BadgeClass: softClasses[color],
		BarClass:   barClasses[color],
	}

	if s.Progress != nil {
		data.HasBar = true
		data.Progress = *s.Progress
	}

	return writeTemplate(w, "stat.html", data)
}

// Alert renders a notification box.
type Alert struct {
	Title   string
	Message string
	Color   BadgeColor
}

// NewAlert creates a new alert.
func NewAlert(title, message string, color BadgeColor) *Alert {
	return &Alert{Title: title, Message: message, Color: color}
}

// Render writes the alert HTML.
func (a *Alert) Render(w io.Writer) error {
	var data alertData

	switch a.Color {
	case BadgeSuccess:
		data = alertData{BgClass: "bg-green-50", BorderClass: "border-green-500",
			TextClass: "text-green-700", TitleClass: "text-green-800"}
	case BadgeWarning:
		data = alertData{BgClass: "bg-gradient-to-r from-yellow-50 to-amber-50", BorderClass: "border-amber-400",
			TextClass: "text-amber-700", TitleClass: "text-amber-800"}
	case BadgeError:
		data = alertData{BgClass: "bg-red-50", BorderClass: "border-red-500",
			TextClass: "text-red-700", TitleClass: "text-red-800"}
	case BadgeInfo:
		data = alertData{BgClass: "bg-blue-50", BorderClass: "border-blue-500",
			TextClass: "text-blue-700", TitleClass: "text-blue-800"}
	case BadgeDefault, BadgeAccent:
		data = alertData{BgClass: "bg-slate-50", BorderClass: "border-slate-400",
			TextClass: "text-slate-700", TitleClass: "text-slate-800"}
	default:
		data = alertData{BgClass: "bg-slate-50", BorderClass: "border-slate-400",
			TextClass: "text-slate-700", TitleClass: "text-slate-800"}
	}

	data.Title = a.Title
	data.Message = a.Message

	return writeTemplate(w, "alert.html", data)
}

// Table renders an HTML table of escaped cells.
type Table struct {
	Headers []string
	Rows    [][]string
	Striped bool
}

// NewTable creates a striped table.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers, Striped: true}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)

	return t
}

// Render writes the table HTML.
func (t *Table) Render(w io.Writer) error {
	return writeTemplate(w, "table.html", tableData{Headers: t.Headers, Rows: t.Rows, Striped: t.Striped})
}
