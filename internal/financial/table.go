// Package financial loads the optional per-entity financial metadata file
// and answers slug-keyed lookups during resolution. Absence of data is
// never an error; enrichment degrades to nil.
package financial

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/competitor-graph/internal/model"
	"github.com/sells-group/competitor-graph/internal/slug"
)

// Metadata is one entity's record in the financial metadata file.
type Metadata struct {
	Type             string                             `json:"type"`
	Ownership        string                             `json:"ownership"`
	Ticker           string                             `json:"ticker"`
	ParentCompany    string                             `json:"parent_company"`
	ParentSlug       string                             `json:"parent_slug"`
	FinancialsByYear map[string]model.FinancialSnapshot `json:"financials_by_year"`
}

// Table is the slug-keyed financial metadata set.
type Table struct {
	entities map[string]*Metadata
}

type tableFile struct {
	Entities map[string]*Metadata `json:"entities"`
}

// Empty returns a table with no entries; every lookup misses.
func Empty() *Table {
	return &Table{entities: map[string]*Metadata{}}
}

// Load reads a financial metadata file. An empty path yields an empty
// table, since the file is optional input.
func Load(path string) (*Table, error) {
	if path == "" {
		return Empty(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "financial: read metadata file")
	}

	var f tableFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, eris.Wrap(err, "financial: parse metadata file")
	}
	if f.Entities == nil {
		f.Entities = map[string]*Metadata{}
	}

	zap.L().Debug("financial metadata loaded",
		zap.String("path", path),
		zap.Int("entities", len(f.Entities)),
	)
	return &Table{entities: f.Entities}, nil
}

// slugSuffixes are probe variants stripped from the tail of a slug when an
// exact key misses.
var slugSuffixes = []string{"-inc", "-corp", "-llc"}

// Lookup probes the table by exact slug, then by the slug derived from the
// normalized name, then by suffix-stripped variants of each. First hit
// wins; a miss returns nil.
func (t *Table) Lookup(name, entitySlug string) *Metadata {
	probes := []string{entitySlug, slug.Make(name)}
	for _, base := range probes {
		if base == "" {
			continue
		}
		if m, ok := t.entities[base]; ok {
			return m
		}
		for _, suffix := range slugSuffixes {
			if trimmed := strings.TrimSuffix(base, suffix); trimmed != base {
				if m, ok := t.entities[trimmed]; ok {
					return m
				}
			}
		}
	}
	return nil
}

// Years returns the per-year snapshots with year keys parsed as integers.
// Keys that do not parse are skipped.
func (m *Metadata) Years() map[int]model.FinancialSnapshot {
	if len(m.FinancialsByYear) == 0 {
		return nil
	}
	out := make(map[int]model.FinancialSnapshot, len(m.FinancialsByYear))
	for k, snap := range m.FinancialsByYear {
		year, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			zap.L().Warn("financial: skipping unparsable year key", zap.String("year", k))
			continue
		}
		out[year] = snap
	}
	return out
}

// LatestSnapshot returns the snapshot for the numerically largest year
// present, or nil if the metadata has no per-year data. Years are compared
// as integers, never lexically.
func (m *Metadata) LatestSnapshot() *model.FinancialSnapshot {
	years := m.Years()
	best := 0
	found := false
	for year := range years {
		if !found || year > best {
			best = year
			found = true
		}
	}
	if !found {
		return nil
	}
	snap := years[best]
	return &snap
}

// SnapshotForYear returns the snapshot for the exact year if present,
// otherwise falls back to the latest available year, otherwise nil.
func (m *Metadata) SnapshotForYear(year int) *model.FinancialSnapshot {
	years := m.Years()
	if snap, ok := years[year]; ok {
		return &snap
	}
	return m.LatestSnapshot()
}
