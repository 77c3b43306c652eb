package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/scriptloop/internal/script"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS script_versions (
	script_id   TEXT NOT NULL,
	version     TEXT NOT NULL,
	doc         TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	PRIMARY KEY (script_id, version)
);

CREATE TABLE IF NOT EXISTS active_script (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	script_id   TEXT NOT NULL,
	version     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS improvement_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	entry_id      TEXT NOT NULL,
	script_id     TEXT NOT NULL,
	version       TEXT NOT NULL,
	strategy      TEXT NOT NULL,
	reason        TEXT,
	metrics_json  TEXT,
	created_at    TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store persists immutable script snapshots keyed by (script_id, version),
// the active-version pointer, and the improvement provenance log.
type Store struct {
	db  *sql.DB
	log *logrus.Logger
}

// #endregion store-struct

// #region constructor
// Open opens a SQLite database and runs migrations.
func Open(path string, log *logrus.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region save-version
// SaveVersion persists a script snapshot and marks it active. Writes are
// idempotent overwrite-by-key; re-saving the same version replaces the row.
func (s *Store) SaveVersion(sc *script.Script) error {
	doc, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshal script: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = tx.Exec(
		`INSERT OR REPLACE INTO script_versions (script_id, version, doc, created_at)
		 VALUES (?, ?, ?, ?)`,
		sc.ID, sc.Version, string(doc), now,
	)
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_script (id, script_id, version) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET script_id = excluded.script_id, version = excluded.version`,
		sc.ID, sc.Version,
	)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	return tx.Commit()
}

// #endregion save-version

// #region get-version
// GetVersion retrieves a specific snapshot.
func (s *Store) GetVersion(scriptID, version string) (*script.Script, error) {
	var doc string
	err := s.db.QueryRow(
		`SELECT doc FROM script_versions WHERE script_id = ? AND version = ?`,
		scriptID, version,
	).Scan(&doc)
	if err != nil {
		return nil, fmt.Errorf("get version %s/%s: %w", scriptID, version, err)
	}
	return script.Parse([]byte(doc))
}

// GetActive retrieves the snapshot the active pointer names.
func (s *Store) GetActive() (*script.Script, error) {
	var scriptID, version string
	err := s.db.QueryRow(`SELECT script_id, version FROM active_script WHERE id = 1`).
		Scan(&scriptID, &version)
	if err != nil {
		return nil, fmt.Errorf("get active: %w", err)
	}
	return s.GetVersion(scriptID, version)
}

// #endregion get-version

// #region list-versions
// VersionInfo is one row of the version lineage.
type VersionInfo struct {
	ScriptID  string
	Version   string
	CreatedAt time.Time
}

// ListVersions returns the most recent snapshots for a script.
func (s *Store) ListVersions(scriptID string, limit int) ([]VersionInfo, error) {
	rows, err := s.db.Query(
		`SELECT script_id, version, created_at FROM script_versions
		 WHERE script_id = ? ORDER BY created_at DESC LIMIT ?`,
		scriptID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var out []VersionInfo
	for rows.Next() {
		var v VersionInfo
		var created string
		if err := rows.Scan(&v.ScriptID, &v.Version, &created); err != nil {
			return nil, err
		}
		v.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, v)
	}
	return out, rows.Err()
}

// #endregion list-versions

// #region load-base
// LoadBase reads a base script document from disk. On any failure (missing
// file, malformed document) it logs the cause and returns the default
// script. Callers always get a usable script.
func (s *Store) LoadBase(path string) *script.Script {
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.WithError(err).WithField("path", path).Info("base script not readable, using default")
		return script.Default()
	}
	sc, err := script.Parse(data)
	if err != nil {
		s.log.WithError(err).WithField("path", path).Warn("base script malformed, using default")
		return script.Default()
	}
	return sc
}

// #endregion load-base
