package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/scriptloop/internal/metrics"
)

// #region improvement-entry
// ImprovementEntry is a single row in the improvement_log table. It records
// which strategy produced a version and the report that triggered it, so a
// version lineage can be audited after the fact.
type ImprovementEntry struct {
	EntryID     string
	ScriptID    string
	Version     string
	Strategy    string // "model_rewrite" | "rule_edit" | "no_op"
	Reason      string
	MetricsJSON string
	CreatedAt   time.Time
}

// NewImprovementEntry builds an entry for a freshly produced version.
func NewImprovementEntry(scriptID, version, strategy, reason string, report metrics.Report) ImprovementEntry {
	mj, _ := json.Marshal(report)
	return ImprovementEntry{
		EntryID:     uuid.NewString(),
		ScriptID:    scriptID,
		Version:     version,
		Strategy:    strategy,
		Reason:      reason,
		MetricsJSON: string(mj),
	}
}

// #endregion improvement-entry

// #region log-improvement
// LogImprovement writes a provenance entry to the improvement_log table.
func (s *Store) LogImprovement(entry ImprovementEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO improvement_log (entry_id, script_id, version, strategy, reason, metrics_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.EntryID,
		entry.ScriptID,
		entry.Version,
		entry.Strategy,
		nullIfEmpty(entry.Reason),
		nullIfEmpty(entry.MetricsJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log improvement: %w", err)
	}
	return nil
}

// #endregion log-improvement

// #region list-improvements
// ListImprovements returns the most recent provenance entries.
func (s *Store) ListImprovements(limit int) ([]ImprovementEntry, error) {
	rows, err := s.db.Query(
		`SELECT entry_id, script_id, version, strategy, reason, metrics_json, created_at
		 FROM improvement_log ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list improvements: %w", err)
	}
	defer rows.Close()

	var out []ImprovementEntry
	for rows.Next() {
		var e ImprovementEntry
		var reason, metricsJSON *string
		var created string
		if err := rows.Scan(&e.EntryID, &e.ScriptID, &e.Version, &e.Strategy, &reason, &metricsJSON, &created); err != nil {
			return nil, err
		}
		if reason != nil {
			e.Reason = *reason
		}
		if metricsJSON != nil {
			e.MetricsJSON = *metricsJSON
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion list-improvements

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
