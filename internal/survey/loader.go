// Package survey reads the input directory of per-company, per-year
// competitor survey files. Any structurally malformed record aborts the
// whole load: a silently incomplete graph would corrupt downstream
// citation counts, so there is no partial-success mode.
package survey

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/competitor-graph/internal/model"
)

// LoadDir reads every *.json file in dir into survey records, in filename
// order so compilation is deterministic regardless of filesystem quirks.
func LoadDir(dir string) ([]model.SurveyRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrap(err, "survey: read input dir")
	}

	var records []model.SurveyRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "survey: read %s", entry.Name())
		}

		var rec model.SurveyRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, eris.Wrapf(err, "survey: parse %s", entry.Name())
		}
		if err := validate(rec); err != nil {
			return nil, eris.Wrapf(err, "survey: invalid record in %s", entry.Name())
		}

		records = append(records, rec)
	}

	zap.L().Info("survey records loaded",
		zap.String("dir", dir),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// validate checks the load-bearing fields. Optional fields (sources,
// competitors, context) may be absent; only identity fields are fatal.
func validate(rec model.SurveyRecord) error {
	if rec.Company == "" {
		return eris.New("missing company")
	}
	if rec.Ticker == "" {
		return eris.New("missing ticker")
	}
	if rec.Year <= 0 {
		return eris.New("missing or invalid year")
	}
	return nil
}
