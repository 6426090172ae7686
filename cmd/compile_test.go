package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/competitor-graph/internal/compile"
)

func writeSurveyDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	surveys := map[string]string{
		"acme_2023.json": `{"company":"Acme Inc","ticker":"ACME","year":2023,"context":"cloud hosting","competitors":[{"name":"Beta Corp","notes":"rival"}]}`,
		"beta_2023.json": `{"company":"Beta Corp","ticker":"BETA","year":2023,"competitors":[{"name":"Acme Inc","notes":"rival"}]}`,
	}
	for name, body := range surveys {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestRunCompile_JSArtifact(t *testing.T) {
	out := filepath.Join(t.TempDir(), "data.js")
	err := runCompile(context.Background(), compileOptions{
		inputDir:   writeSurveyDir(t),
		outputPath: out,
		format:     "js",
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "// Auto-generated competitor data"))
	assert.Contains(t, string(raw), "COMPETITOR_DATA")
}

func TestRunCompile_JSONArtifactAndSnapshot(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "graph.json")
	db := filepath.Join(dir, "graph.sqlite")

	err := runCompile(context.Background(), compileOptions{
		inputDir:   writeSurveyDir(t),
		outputPath: out,
		format:     "json",
		sqlitePath: db,
	})
	require.NoError(t, err)

	graph, err := compile.ReadJSON(out)
	require.NoError(t, err)
	assert.Equal(t, 2, graph.Meta.TotalEntities)
	assert.Equal(t, 2, graph.Meta.TotalRelationships)

	_, err = os.Stat(db)
	assert.NoError(t, err)
}

func TestRunCompile_UnknownFormat(t *testing.T) {
	err := runCompile(context.Background(), compileOptions{
		inputDir:   writeSurveyDir(t),
		outputPath: filepath.Join(t.TempDir(), "out"),
		format:     "xml",
	})
	assert.Error(t, err)
}

func TestRunCompile_MissingInputDir(t *testing.T) {
	err := runCompile(context.Background(), compileOptions{
		inputDir:   filepath.Join(t.TempDir(), "nope"),
		outputPath: filepath.Join(t.TempDir(), "out.js"),
		format:     "js",
	})
	assert.Error(t, err)
}
