package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/competitor-graph/internal/compile"
	"github.com/sells-group/competitor-graph/internal/model"
)

func testGraph(t *testing.T) *model.CompiledGraph {
	t.Helper()
	g, err := compile.Compile([]model.SurveyRecord{
		{
			Company: "Acme Inc", Ticker: "ACME", Year: 2023,
			Context: "cloud hosting provider",
			Competitors: []model.CompetitorMention{
				{Name: "Beta Corp", Notes: "rival"},
			},
		},
	}, nil, nil)
	require.NoError(t, err)
	return g
}

func TestWriteXLSX_SheetLayout(t *testing.T) {
	g := testGraph(t)
	path := filepath.Join(t.TempDir(), "graph.xlsx")
	require.NoError(t, WriteXLSX(g, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 3)
	assert.Equal(t, "Entities", f.Sheets[0].Name)
	assert.Equal(t, "Relationships", f.Sheets[1].Name)
	assert.Equal(t, "Industries", f.Sheets[2].Name)
}

func TestWriteXLSX_RowCountsMatchGraph(t *testing.T) {
	g := testGraph(t)
	path := filepath.Join(t.TempDir(), "graph.xlsx")
	require.NoError(t, WriteXLSX(g, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	// Header row plus one row per entity / relationship.
	assert.Len(t, f.Sheets[0].Rows, g.Meta.TotalEntities+1)
	assert.Len(t, f.Sheets[1].Rows, g.Meta.TotalRelationships+1)
	assert.Len(t, f.Sheets[2].Rows, len(g.Industries)+1)
}

func TestWriteXLSX_EntityCells(t *testing.T) {
	g := testGraph(t)
	path := filepath.Join(t.TempDir(), "graph.xlsx")
	require.NoError(t, WriteXLSX(g, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	first := f.Sheets[0].Rows[1]
	assert.Equal(t, "acme", first.Cells[0].Value)
	assert.Equal(t, "Acme Inc", first.Cells[1].Value)
	assert.Equal(t, "ACME", first.Cells[2].Value)
}
