// Package terminal draws a layout as a box grid for the terminal. Merged
// cells become one box; nested tables are drawn after the grid that owns
// them.
package terminal

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-formlayout/pkg/model"
	"github.com/goliatone/go-formlayout/pkg/render"
	"github.com/goliatone/go-formlayout/pkg/widgets"
)

// Defaults for the box size of a single cell.
const (
	DefaultColumnWidth = 22
	DefaultRowHeight   = 3
	minColumnWidth     = 6
)

type Option func(*Renderer)

// WithColumnWidth sets the inner width of a 1×1 cell.
func WithColumnWidth(width int) Option {
	return func(r *Renderer) {
		r.colWidth = max(width, minColumnWidth)
	}
}

// WithRowHeight sets the number of content lines of a 1×1 cell.
func WithRowHeight(height int) Option {
	return func(r *Renderer) {
		r.rowHeight = max(height, 1)
	}
}

// WithPlain disables colours and text attributes.
func WithPlain() Option {
	return func(r *Renderer) {
		r.styles = plainStyles()
	}
}

// WithWidgets supplies the registry that provides widget icons.
func WithWidgets(registry *widgets.Registry) Option {
	return func(r *Renderer) {
		if registry != nil {
			r.widgets = registry
		}
	}
}

// Renderer implements render.Renderer for terminals.
type Renderer struct {
	colWidth  int
	rowHeight int
	styles    styles
	widgets   *widgets.Registry
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a terminal renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{
		colWidth:  DefaultColumnWidth,
		rowHeight: DefaultRowHeight,
		styles:    defaultStyles(),
		widgets:   widgets.NewRegistry(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string { return "terminal" }

func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render draws the main grid followed by every nested table in document
// order.
func (r *Renderer) Render(ctx context.Context, table model.Table, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if options.Mode == "" {
		options.Mode = render.ModeBuilder
	}

	var b strings.Builder
	rows, cols := table.Dimensions()
	b.WriteString(r.styles.title.Render(fmt.Sprintf("canvas %d×%d", rows, cols)))
	b.WriteByte('\n')
	b.WriteString(r.drawGrid(table, options))
	r.drawNested(&b, table, options)
	return []byte(b.String()), nil
}

func (r *Renderer) drawNested(b *strings.Builder, t model.Table, options render.RenderOptions) {
	t.Walk(func(row, col int, cell model.Cell) {
		w := cell.Widget
		if w == nil || !w.IsTable() || w.NestedTable == nil || t.ShouldSkipRendering(row, col) {
			return
		}
		rows, cols := w.NestedTable.Dimensions()
		b.WriteByte('\n')
		b.WriteString(r.styles.title.Render(fmt.Sprintf("table %s in %s %d×%d", w.ID, cell.ID, rows, cols)))
		b.WriteByte('\n')
		b.WriteString(r.drawGrid(*w.NestedTable, options))
		r.drawNested(b, *w.NestedTable, options)
	})
}

type styleKind uint8

const (
	styleNone styleKind = iota
	styleBorder
	styleSelected
	styleLabel
	styleValue
	styleMuted
)

type glyph struct {
	r     rune
	style styleKind
}

// drawGrid lays out t on a character canvas. Each origin cell owns the box
// covering its span; shared edges are drawn by both neighbours.
func (r *Renderer) drawGrid(t model.Table, options render.RenderOptions) string {
	rows, cols := t.Dimensions()
	if rows == 0 || cols == 0 {
		return ""
	}
	width := cols*(r.colWidth+1) + 1
	height := rows*(r.rowHeight+1) + 1
	canvas := make([][]glyph, height)
	for y := range canvas {
		canvas[y] = make([]glyph, width)
		for x := range canvas[y] {
			canvas[y][x] = glyph{r: ' '}
		}
	}

	t.Walk(func(row, col int, cell model.Cell) {
		if t.ShouldSkipRendering(row, col) {
			return
		}
		span := cell.Span()
		x0 := col * (r.colWidth + 1)
		x1 := min(col+span.ColSpan, cols) * (r.colWidth + 1)
		y0 := row * (r.rowHeight + 1)
		y1 := min(row+span.RowSpan, rows) * (r.rowHeight + 1)

		border := styleBorder
		if options.Mode == render.ModeBuilder && (options.Selected[cell.ID] || options.FocusCellID == cell.ID) {
			border = styleSelected
		}
		drawBox(canvas, x0, y0, x1, y1, border)

		lines := r.cellLines(cell, options)
		inner := x1 - x0 - 1
		for i, line := range lines {
			y := y0 + 1 + i
			if y >= y1 {
				break
			}
			writeText(canvas, x0+1, y, inner, line.text, line.style)
		}
	})

	var b strings.Builder
	for _, line := range canvas {
		b.WriteString(r.renderLine(line))
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Renderer) renderLine(line []glyph) string {
	var (
		b       strings.Builder
		segment []rune
		current styleKind
	)
	flush := func() {
		if len(segment) == 0 {
			return
		}
		b.WriteString(r.styles.of(current).Render(string(segment)))
		segment = segment[:0]
	}
	for _, g := range line {
		if g.style != current {
			flush()
			current = g.style
		}
		segment = append(segment, g.r)
	}
	flush()
	return strings.TrimRight(b.String(), " ")
}

func drawBox(canvas [][]glyph, x0, y0, x1, y1 int, style styleKind) {
	for x := x0; x <= x1; x++ {
		setGlyph(canvas, x, y0, '-', style)
		setGlyph(canvas, x, y1, '-', style)
	}
	for y := y0; y <= y1; y++ {
		setGlyph(canvas, x0, y, '|', style)
		setGlyph(canvas, x1, y, '|', style)
	}
	for _, corner := range [][2]int{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		setGlyph(canvas, corner[0], corner[1], '+', style)
	}
}

func setGlyph(canvas [][]glyph, x, y int, ch rune, style styleKind) {
	if y < 0 || y >= len(canvas) || x < 0 || x >= len(canvas[y]) {
		return
	}
	existing := canvas[y][x]
	// Selected outlines win over plain borders drawn by a neighbour.
	if existing.style == styleSelected && style == styleBorder {
		return
	}
	canvas[y][x] = glyph{r: ch, style: style}
}

func writeText(canvas [][]glyph, x, y, width int, text string, style styleKind) {
	runes := []rune(text)
	if len(runes) > width {
		if width > 1 {
			runes = append(runes[:width-1], '…')
		} else {
			runes = runes[:width]
		}
	}
	for i, ch := range runes {
		setGlyph(canvas, x+i, y, ch, style)
	}
}

type textLine struct {
	text  string
	style styleKind
}

func (r *Renderer) cellLines(cell model.Cell, options render.RenderOptions) []textLine {
	w := cell.Widget
	if w == nil {
		return []textLine{{text: "·", style: styleMuted}}
	}
	icon := ""
	if entry, ok := r.widgets.Lookup(w.Type); ok {
		icon = entry.Icon + " "
	}

	switch w.Type {
	case model.WidgetTable:
		summary := "table"
		if w.NestedTable != nil {
			rows, cols := w.NestedTable.Dimensions()
			summary = fmt.Sprintf("table %d×%d", rows, cols)
		}
		return []textLine{{text: icon + summary, style: styleLabel}}
	case model.WidgetRadio:
		lines := []textLine{{text: icon + w.Label, style: styleLabel}}
		selected, ok := options.SelectedOption(*w)
		for i, option := range w.Options {
			mark := "( )"
			if ok && i == selected {
				mark = "(•)"
			}
			text := mark + " " + option
			if options.Mode == render.ModeExport && i < len(w.OptionBindings) && w.OptionBindings[i] != "" {
				text += " " + w.OptionBindings[i]
			}
			lines = append(lines, textLine{text: text, style: styleValue})
		}
		return lines
	case model.WidgetCheckbox:
		mark := "[ ]"
		if value := r.value(*w, options); value != "" && value != "false" {
			mark = "[x]"
		}
		lines := []textLine{{text: mark + " " + w.Label, style: styleLabel}}
		if options.Mode == render.ModeExport && w.ValueBinding != "" {
			lines = append(lines, textLine{text: w.ValueBinding, style: styleValue})
		}
		return lines
	case model.WidgetLabel:
		text := w.Label
		if value := r.value(*w, options); value != "" {
			text = value
		}
		return []textLine{{text: icon + text, style: styleLabel}}
	default:
		lines := []textLine{{text: icon + w.Label, style: styleLabel}}
		value := r.value(*w, options)
		switch {
		case value != "":
			lines = append(lines, textLine{text: "[" + value + "]", style: styleValue})
		case w.Placeholder != "":
			lines = append(lines, textLine{text: "[" + w.Placeholder + "]", style: styleMuted})
		}
		return lines
	}
}

// value is the binding expression in export mode and the resolved value
// otherwise.
func (r *Renderer) value(w model.Widget, options render.RenderOptions) string {
	if options.Mode == render.ModeExport {
		return w.ValueBinding
	}
	return options.Value(w.ValueBinding, w.ID)
}

type styles struct {
	title    lipgloss.Style
	border   lipgloss.Style
	selected lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	muted    lipgloss.Style
	none     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		border:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		label:    lipgloss.NewStyle().Bold(true),
		value:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		none:     lipgloss.NewStyle(),
	}
}

func plainStyles() styles {
	plain := lipgloss.NewStyle()
	return styles{title: plain, border: plain, selected: plain, label: plain, value: plain, muted: plain, none: plain}
}

func (s styles) of(kind styleKind) lipgloss.Style {
	switch kind {
	case styleBorder:
		return s.border
	case styleSelected:
		return s.selected
	case styleLabel:
		return s.label
	case styleValue:
		return s.value
	case styleMuted:
		return s.muted
	default:
		return s.none
	}
}
