package database

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"mapforge/internal/mapgen"
	"mapforge/pkg/maps"
)

// Diagnostic is the saved state of a run aborted while placing players.
type Diagnostic struct {
	ID        string
	Seed      uint64
	Cause     string
	Params    mapgen.Params
	Map       *maps.Map
	CreatedAt time.Time
}

// SaveDiagnostic stores the map as it was when generation gave up. It
// satisfies mapgen.DiagnosticSaver.
func (db *DB) SaveDiagnostic(m *maps.Map, p mapgen.Params, cause error) error {
	mapJSON, err := m.ToJSON()
	if err != nil {
		return err
	}
	paramsJSON, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(`
		INSERT INTO diagnostics (id, seed, cause, params_json, map_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), int64(m.Seed), cause.Error(), string(paramsJSON), string(mapJSON), time.Now())
	return err
}

// ListDiagnostics returns every saved diagnostic, oldest first.
func (db *DB) ListDiagnostics() ([]*Diagnostic, error) {
	rows, err := db.conn.Query(`
		SELECT id, seed, cause, params_json, map_json, created_at
		FROM diagnostics ORDER BY created_at ASC, rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Diagnostic
	for rows.Next() {
		d := &Diagnostic{}
		var seed int64
		var paramsJSON, mapJSON string
		if err := rows.Scan(&d.ID, &seed, &d.Cause, &paramsJSON, &mapJSON, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Seed = uint64(seed)
		if err := json.Unmarshal([]byte(paramsJSON), &d.Params); err != nil {
			return nil, err
		}
		if d.Map, err = maps.LoadFromJSON([]byte(mapJSON)); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

var _ mapgen.DiagnosticSaver = (*DB)(nil)
