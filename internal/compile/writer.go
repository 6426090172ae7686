package compile

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/competitor-graph/internal/model"
)

// MarshalJS renders the graph as a browser-loadable JS module. The wrapper
// shape is a compatibility contract with the viewer, which reads the
// COMPETITOR_DATA constant directly from a script tag.
func MarshalJS(g *model.CompiledGraph) ([]byte, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "compile: marshal graph")
	}

	var buf bytes.Buffer
	buf.WriteString("// Auto-generated competitor data\n")
	buf.WriteString("// Generated: " + g.Meta.Generated + "\n")
	buf.WriteString("const COMPETITOR_DATA = ")
	buf.Write(data)
	buf.WriteString(";\n\nif (typeof module !== 'undefined') module.exports = COMPETITOR_DATA;\n")
	return buf.Bytes(), nil
}

// WriteJS writes the JS-module artifact to path.
func WriteJS(g *model.CompiledGraph, path string) error {
	data, err := MarshalJS(g)
	if err != nil {
		return err
	}
	return eris.Wrapf(os.WriteFile(path, data, 0o644), "compile: write %s", path)
}

// WriteJSON writes the graph as plain indented JSON to path.
func WriteJSON(g *model.CompiledGraph, path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return eris.Wrap(err, "compile: marshal graph")
	}
	return eris.Wrapf(os.WriteFile(path, append(data, '\n'), 0o644), "compile: write %s", path)
}

// ReadJSON loads a previously written JSON artifact, for consumers like
// the XLSX exporter that post-process a compiled graph.
func ReadJSON(path string) (*model.CompiledGraph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "compile: read %s", path)
	}
	var g model.CompiledGraph
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, eris.Wrapf(err, "compile: parse %s", path)
	}
	return &g, nil
}
