package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/vvka-141/kagglefetch/internal/table"
)

// DefaultMaxCellWidth truncates long cell values in previews.
const DefaultMaxCellWidth = 32

// PreviewOptions controls RenderPreview.
type PreviewOptions struct {
	// MaxCellWidth truncates cells to this many runes; 0 uses DefaultMaxCellWidth.
	MaxCellWidth int
	// TotalRows is the row count of the table the preview was cut from;
	// 0 means the preview is the whole table.
	TotalRows int
}

// RenderPreview renders tbl as a bordered table followed by a size footer.
func RenderPreview(tbl *table.Table, opts PreviewOptions) string {
	if opts.MaxCellWidth <= 0 {
		opts.MaxCellWidth = DefaultMaxCellWidth
	}
	total := opts.TotalRows
	if total < tbl.Len() {
		total = tbl.Len()
	}

	columns := tbl.Columns()
	footer := FooterStyle.Render(fmt.Sprintf("%d of %d rows, %d columns", tbl.Len(), total, len(columns)))
	if len(columns) == 0 {
		return footer + "\n"
	}

	nulls := make([][]bool, tbl.Len())
	rows := make([][]string, tbl.Len())
	for i := range rows {
		rows[i] = make([]string, len(columns))
		nulls[i] = make([]bool, len(columns))
		for j, c := range columns {
			v, ok := tbl.Value(i, c)
			if !ok || v == nil {
				nulls[i][j] = true
				continue
			}
			rows[i][j] = truncate(table.FormatValue(v), opts.MaxCellWidth)
		}
	}

	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(BorderStyle).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == lgtable.HeaderRow:
				return HeaderStyle
			case row >= 0 && row < len(nulls) && col < len(nulls[row]) && nulls[row][col]:
				return NullCellStyle
			default:
				return CellStyle
			}
		})

	return t.Render() + "\n" + footer + "\n"
}

// truncate shortens s to max runes, flattening newlines.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return SymbolEllipsis
	}
	return string(r[:max-1]) + SymbolEllipsis
}
