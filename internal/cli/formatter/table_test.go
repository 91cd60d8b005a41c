package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"ID", "SEATS"}, [][]string{
		{"lc-am", StyleGreen.Render("6/6")},
		{"lc-2026-pm"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ID          SEATS", lines[0])
	assert.Equal(t, "──────────  ─────", lines[1])
	assert.Equal(t, "lc-am       6/6", lines[2])
	assert.Equal(t, "lc-2026-pm  ", lines[3])
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}
