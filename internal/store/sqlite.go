// Package store exports a compiled graph into a SQLite snapshot so the
// artifact can be inspected with ad-hoc SQL. It is an alternative rendering
// of the same single-run snapshot, not an update-in-place database: saving
// always inserts a fresh snapshot row and its full entity and edge sets.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/competitor-graph/internal/model"
)

// SnapshotStore writes compiled graphs to a SQLite database.
type SnapshotStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SnapshotStore{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id                  TEXT PRIMARY KEY,
	generated           TEXT NOT NULL,
	total_entities      INTEGER NOT NULL,
	public_companies    INTEGER NOT NULL,
	private_entities    INTEGER NOT NULL,
	total_relationships INTEGER NOT NULL,
	created_at          DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS entities (
	snapshot_id   TEXT NOT NULL REFERENCES snapshots(id),
	slug          TEXT NOT NULL,
	name          TEXT NOT NULL,
	ticker        TEXT,
	is_public     INTEGER NOT NULL,
	entity_type   TEXT,
	ownership     TEXT,
	parent_slug   TEXT,
	mention_count INTEGER NOT NULL,
	payload       TEXT NOT NULL,
	PRIMARY KEY (snapshot_id, slug)
);

CREATE TABLE IF NOT EXISTS relationships (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id),
	position    INTEGER NOT NULL,
	source      TEXT NOT NULL,
	target      TEXT NOT NULL,
	year        INTEGER NOT NULL,
	notes       TEXT,
	PRIMARY KEY (snapshot_id, position)
);

CREATE TABLE IF NOT EXISTS industries (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id),
	slug        TEXT NOT NULL,
	position    INTEGER NOT NULL,
	tag         TEXT NOT NULL,
	PRIMARY KEY (snapshot_id, slug, position)
);

CREATE INDEX IF NOT EXISTS idx_entities_slug ON entities(slug);
CREATE INDEX IF NOT EXISTS idx_relationships_source ON relationships(source);
CREATE INDEX IF NOT EXISTS idx_relationships_target ON relationships(target);
`

// Migrate creates the snapshot schema.
func (s *SnapshotStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// SaveGraph inserts the graph as a new snapshot and returns its id. The
// whole snapshot goes in one transaction so a partial write never becomes
// visible.
func (s *SnapshotStore) SaveGraph(ctx context.Context, g *model.CompiledGraph) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, generated, total_entities, public_companies, private_entities, total_relationships, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, g.Meta.Generated, g.Meta.TotalEntities, g.Meta.PublicCompanies, g.Meta.PrivateEntities, g.Meta.TotalRelationships, now,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert snapshot")
	}

	for _, e := range g.Entities {
		payload, err := json.Marshal(e)
		if err != nil {
			return "", eris.Wrapf(err, "sqlite: marshal entity %s", e.Slug)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO entities (snapshot_id, slug, name, ticker, is_public, entity_type, ownership, parent_slug, mention_count, payload)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, e.Slug, e.Name, e.Ticker, e.IsPublic, string(e.EntityType), string(e.Ownership), e.ParentSlug, len(e.MentionedBy), string(payload),
		)
		if err != nil {
			return "", eris.Wrapf(err, "sqlite: insert entity %s", e.Slug)
		}
	}

	for i, rel := range g.Relationships {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO relationships (snapshot_id, position, source, target, year, notes) VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, rel.Source, rel.Target, rel.Year, rel.Notes,
		)
		if err != nil {
			return "", eris.Wrapf(err, "sqlite: insert relationship %s->%s", rel.Source, rel.Target)
		}
	}

	for slug, tags := range g.Industries {
		for i, tag := range tags {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO industries (snapshot_id, slug, position, tag) VALUES (?, ?, ?, ?)`,
				id, slug, i, tag,
			)
			if err != nil {
				return "", eris.Wrapf(err, "sqlite: insert industry tag for %s", slug)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "sqlite: commit snapshot")
	}
	return id, nil
}

// CountRows returns the row count of a snapshot table for one snapshot id.
func (s *SnapshotStore) CountRows(ctx context.Context, table, snapshotID string) (int, error) {
	var query string
	switch table {
	case "entities":
		query = `SELECT COUNT(*) FROM entities WHERE snapshot_id = ?`
	case "relationships":
		query = `SELECT COUNT(*) FROM relationships WHERE snapshot_id = ?`
	case "industries":
		query = `SELECT COUNT(*) FROM industries WHERE snapshot_id = ?`
	default:
		return 0, eris.Errorf("sqlite: unknown table %q", table)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, snapshotID).Scan(&n); err != nil {
		return 0, eris.Wrapf(err, "sqlite: count %s", table)
	}
	return n, nil
}
