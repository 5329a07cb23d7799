package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mapforge/internal/mapgen"
	"mapforge/pkg/maps"
)

// MapInfo is a stored map in listings.
type MapInfo struct {
	maps.MapInfo
	RequestedGenerator int       `json:"requested_generator"`
	CreatedAt          time.Time `json:"created_at"`
}

// StoredMap is a map loaded back together with the settings that made it.
type StoredMap struct {
	Map       *maps.Map
	Params    mapgen.Params
	Requested int
	CreatedAt time.Time
}

// ErrMapNotFound is returned when a map is not found.
var ErrMapNotFound = errors.New("map not found")

// SaveMap stores a generation result and returns its new id, which is
// also written to res.Map.ID.
func (db *DB) SaveMap(res *mapgen.Result, p mapgen.Params, name string) (string, error) {
	m := res.Map
	m.ID = uuid.New().String()
	if name != "" {
		m.Name = name
	}
	if m.Name == "" {
		m.Name = fmt.Sprintf("Map %d", m.Seed)
	}

	mapJSON, err := m.ToJSON()
	if err != nil {
		return "", err
	}
	// the stored seed is the one the run actually used
	p.Seed = res.Seed
	paramsJSON, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO maps (id, name, width, height, seed, generator, requested_generator,
		                  num_continents, params_json, map_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Name, m.Width, m.Height, int64(m.Seed), m.Generator, res.Requested,
		m.NumContinents, string(paramsJSON), string(mapJSON), time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to insert map: %w", err)
	}

	for slot, pos := range m.StartPositions {
		_, err := tx.Exec(`
			INSERT INTO map_starts (map_id, slot, x, y, continent) VALUES (?, ?, ?, ?, ?)
		`, m.ID, slot, pos.X, pos.Y, m.At(pos).Continent)
		if err != nil {
			return "", fmt.Errorf("failed to insert start %d: %w", slot, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return m.ID, nil
}

// GetMap retrieves a map by ID.
func (db *DB) GetMap(id string) (*StoredMap, error) {
	var mapJSON, paramsJSON string
	sm := &StoredMap{}
	err := db.conn.QueryRow(`
		SELECT map_json, params_json, requested_generator, created_at FROM maps WHERE id = ?
	`, id).Scan(&mapJSON, &paramsJSON, &sm.Requested, &sm.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMapNotFound
	}
	if err != nil {
		return nil, err
	}

	if sm.Map, err = maps.LoadFromJSON([]byte(mapJSON)); err != nil {
		return nil, fmt.Errorf("stored map %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(paramsJSON), &sm.Params); err != nil {
		return nil, fmt.Errorf("stored params of %s: %w", id, err)
	}
	return sm, nil
}

// GetStarts returns the start positions of a map in slot order.
func (db *DB) GetStarts(id string) ([]maps.Pos, error) {
	rows, err := db.conn.Query(`
		SELECT x, y FROM map_starts WHERE map_id = ? ORDER BY slot ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var starts []maps.Pos
	for rows.Next() {
		var p maps.Pos
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return nil, err
		}
		starts = append(starts, p)
	}
	return starts, rows.Err()
}

// ListMaps returns all stored maps, newest first.
func (db *DB) ListMaps() ([]*MapInfo, error) {
	rows, err := db.conn.Query(`
		SELECT m.id, m.name, m.width, m.height, m.seed, m.generator, m.requested_generator,
		       m.num_continents, m.created_at,
		       (SELECT COUNT(*) FROM map_starts WHERE map_id = m.id) as players
		FROM maps m
		ORDER BY m.created_at DESC, m.rowid DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*MapInfo
	for rows.Next() {
		var mi MapInfo
		var seed int64
		if err := rows.Scan(&mi.ID, &mi.Name, &mi.Width, &mi.Height, &seed, &mi.Generator,
			&mi.RequestedGenerator, &mi.NumContinents, &mi.CreatedAt, &mi.Players); err != nil {
			return nil, err
		}
		mi.Seed = uint64(seed)
		list = append(list, &mi)
	}
	return list, rows.Err()
}

// DeleteMap removes a map and its start positions.
func (db *DB) DeleteMap(id string) error {
	result, err := db.conn.Exec(`DELETE FROM maps WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMapNotFound
	}
	return nil
}
