package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vvka-141/kagglefetch/internal/table"
)

func TestRenderPreview(t *testing.T) {
	tbl := table.New()
	tbl.Append(table.Row{"business_id": "b1", "stars": 4.5}, "business_id", "stars")
	tbl.Append(table.Row{"business_id": "b2", "city": "Reno"}, "business_id", "city")

	out := RenderPreview(tbl, PreviewOptions{TotalRows: 10})

	for _, want := range []string{"business_id", "stars", "city", "b1", "4.5", "Reno"} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasSuffix(out, "2 of 10 rows, 3 columns\n"), out)
}

func TestRenderPreview_Empty(t *testing.T) {
	assert.Equal(t, "0 of 0 rows, 0 columns\n", RenderPreview(table.New(), PreviewOptions{}))
}

func TestRenderPreview_TruncatesCells(t *testing.T) {
	tbl := table.New()
	tbl.Append(table.Row{"text": strings.Repeat("x", 100)}, "text")

	out := RenderPreview(tbl, PreviewOptions{MaxCellWidth: 10})
	assert.Contains(t, out, strings.Repeat("x", 9)+SymbolEllipsis)
	assert.NotContains(t, out, strings.Repeat("x", 10))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "a b", truncate("a\nb", 10))
	assert.Equal(t, SymbolEllipsis, truncate("abc", 1))
}
