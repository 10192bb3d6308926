// Package xlsx writes a layout as a spreadsheet workbook. The main grid goes
// to the first sheet, each nested table to a sheet of its own, and merged
// cells become merged ranges.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-formlayout/pkg/model"
	"github.com/goliatone/go-formlayout/pkg/render"
)

// Sheet names used by the workbook.
const (
	MainSheet         = "Layout"
	NestedSheetPrefix = "Table "
)

const defaultColumnWidth = 28

type Option func(*Renderer)

// WithColumnWidth sets the width applied to every grid column.
func WithColumnWidth(width float64) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.columnWidth = width
		}
	}
}

// WithLogger sets the logger used for workbook diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer implements render.Renderer producing .xlsx bytes.
type Renderer struct {
	columnWidth float64
	logger      *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) *Renderer {
	r := &Renderer{columnWidth: defaultColumnWidth}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

func (r *Renderer) Name() string { return "xlsx" }

func (r *Renderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render builds the workbook. Export mode writes binding expressions,
// preview resolved values, and builder mode the static labels.
func (r *Renderer) Render(ctx context.Context, table model.Table, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if options.Mode == "" {
		options.Mode = render.ModeExport
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.Warn("xlsx: close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), MainSheet); err != nil {
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "999999", Style: 1},
			{Type: "top", Color: "999999", Style: 1},
			{Type: "right", Color: "999999", Style: 1},
			{Type: "bottom", Color: "999999", Style: 1},
		},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: create style: %w", err)
	}

	w := &workbook{file: f, style: style, width: r.columnWidth, options: options, logger: r.logger}
	if err := w.writeSheet(MainSheet, table); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type workbook struct {
	file    *excelize.File
	style   int
	width   float64
	options render.RenderOptions
	logger  *slog.Logger
	nested  int
}

// writeSheet fills sheet with t. Nested tables are numbered in document
// order and written after the sheet that references them.
func (w *workbook) writeSheet(sheet string, t model.Table) error {
	rows, cols := t.Dimensions()
	if rows == 0 || cols == 0 {
		return nil
	}
	last, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return fmt.Errorf("xlsx: column name: %w", err)
	}
	if err := w.file.SetColWidth(sheet, "A", last, w.width); err != nil {
		return fmt.Errorf("xlsx: column width: %w", err)
	}
	bottomRight, _ := excelize.CoordinatesToCellName(cols, rows)
	if err := w.file.SetCellStyle(sheet, "A1", bottomRight, w.style); err != nil {
		return fmt.Errorf("xlsx: cell style: %w", err)
	}

	type pending struct {
		sheet string
		table model.Table
	}
	var children []pending

	for ri, row := range t.Rows {
		for ci, cell := range row.Cells {
			if t.ShouldSkipRendering(ri, ci) {
				continue
			}
			axis, _ := excelize.CoordinatesToCellName(ci+1, ri+1)
			span := cell.Span()
			if !span.IsUnit() {
				end, _ := excelize.CoordinatesToCellName(min(ci+span.ColSpan, cols), min(ri+span.RowSpan, rows))
				if err := w.file.MergeCell(sheet, axis, end); err != nil {
					return fmt.Errorf("xlsx: merge %s:%s: %w", axis, end, err)
				}
			}
			if cell.Widget == nil {
				continue
			}

			widget := *cell.Widget
			if widget.IsTable() && widget.NestedTable != nil {
				w.nested++
				child := fmt.Sprintf("%s%d", NestedSheetPrefix, w.nested)
				if err := w.file.SetCellValue(sheet, axis, "→ "+child); err != nil {
					return fmt.Errorf("xlsx: set %s: %w", axis, err)
				}
				link := fmt.Sprintf("'%s'!A1", child)
				if err := w.file.SetCellHyperLink(sheet, axis, link, "Location"); err != nil {
					return fmt.Errorf("xlsx: link %s: %w", axis, err)
				}
				children = append(children, pending{sheet: child, table: *widget.NestedTable})
				continue
			}
			if err := w.file.SetCellValue(sheet, axis, w.text(widget)); err != nil {
				return fmt.Errorf("xlsx: set %s: %w", axis, err)
			}
		}
	}

	for _, child := range children {
		if _, err := w.file.NewSheet(child.sheet); err != nil {
			return fmt.Errorf("xlsx: add sheet %s: %w", child.sheet, err)
		}
		w.logger.Debug("xlsx nested sheet", "sheet", child.sheet)
		if err := w.writeSheet(child.sheet, child.table); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbook) text(widget model.Widget) string {
	mode := w.options.Mode
	value := ""
	switch mode {
	case render.ModeExport:
		value = widget.ValueBinding
	case render.ModePreview:
		value = w.options.Value(widget.ValueBinding, widget.ID)
	}

	switch widget.Type {
	case model.WidgetLabel:
		if value != "" {
			return value
		}
		return widget.Label
	case model.WidgetCheckbox:
		mark := "☐"
		if mode == render.ModePreview && truthy(value) {
			mark = "☑"
		}
		text := mark + " " + widget.Label
		if mode == render.ModeExport && value != "" {
			text += "\n" + value
		}
		return text
	case model.WidgetRadio:
		lines := []string{widget.Label}
		selected, ok := w.options.SelectedOption(widget)
		for i, option := range widget.Options {
			mark := "○"
			if mode == render.ModePreview && ok && i == selected {
				mark = "●"
			}
			line := mark + " " + option
			if mode == render.ModeExport && i < len(widget.OptionBindings) && widget.OptionBindings[i] != "" {
				line += " " + widget.OptionBindings[i]
			}
			lines = append(lines, line)
		}
		return strings.Join(lines, "\n")
	default:
		if value == "" {
			return widget.Label
		}
		return widget.Label + "\n" + value
	}
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false", "0", "off", "no":
		return false
	}
	return true
}
