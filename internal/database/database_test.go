package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/internal/mapgen"
	"mapforge/internal/rng"
	"mapforge/internal/startpos"
)

func TestSaveAndGetMap(t *testing.T) {
	db := openTestDB(t)
	p := mapgen.DefaultParams()
	p.Seed = 42
	res, err := mapgen.Generate(p, rng.New(1))
	require.NoError(t, err)

	id, err := db.SaveMap(res, p, "Archipelago")
	require.NoError(t, err)
	assert.Equal(t, id, res.Map.ID)

	got, err := db.GetMap(id)
	require.NoError(t, err)
	assert.Equal(t, "Archipelago", got.Map.Name)
	assert.Equal(t, res.Map.Tiles, got.Map.Tiles)
	assert.Equal(t, res.Map.StartPositions, got.Map.StartPositions)
	assert.Equal(t, uint64(42), got.Params.Seed)
	assert.Equal(t, 1, got.Requested)

	starts, err := db.GetStarts(id)
	require.NoError(t, err)
	assert.Equal(t, res.Map.StartPositions, starts)
}

func TestListAndDeleteMaps(t *testing.T) {
	db := openTestDB(t)
	var ids []string
	for _, gen := range []int{1, 4} {
		p := mapgen.DefaultParams()
		p.Generator = gen
		p.Seed = 7
		res, err := mapgen.Generate(p, rng.New(1))
		require.NoError(t, err)
		id, err := db.SaveMap(res, p, "")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	list, err := db.ListMaps()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[1], list[0].ID)
	assert.Equal(t, 4, list[0].RequestedGenerator)
	assert.Equal(t, 2, list[0].Players)
	assert.Equal(t, "Map 7", list[1].Name)

	require.NoError(t, db.DeleteMap(ids[0]))
	_, err = db.GetMap(ids[0])
	assert.True(t, errors.Is(err, ErrMapNotFound))
	assert.ErrorIs(t, db.DeleteMap(ids[0]), ErrMapNotFound)

	starts, err := db.GetStarts(ids[0])
	require.NoError(t, err)
	assert.Empty(t, starts)
}

func TestDiagnosticsOnFatalRun(t *testing.T) {
	db := openTestDB(t)
	p := mapgen.DefaultParams()
	p.Land = 0
	p.Seed = 3

	ctx := mapgen.NewContext(p)
	ctx.Diagnostics = db
	_, err := ctx.Generate(rng.New(1))
	require.ErrorIs(t, err, startpos.ErrNoFairShare)

	diags, err := db.ListDiagnostics()
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Cause, "cannot allocate starting positions")
	assert.Equal(t, uint64(3), diags[0].Seed)
	assert.Equal(t, 0, diags[0].Params.Land)
	assert.Equal(t, p.Width, diags[0].Map.Width)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maps.db")
	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.conn.QueryRow(`SELECT COUNT(*) FROM migrations`).Scan(&count))
	assert.Equal(t, len(migrations), count)
	assert.Equal(t, migrations[len(migrations)-1].id, db.Version())
}

func TestMigrateFromOlderSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maps.db")
	db, err := New(path)
	require.NoError(t, err)
	_, err = db.conn.Exec(`DROP TABLE diagnostics`)
	require.NoError(t, err)
	_, err = db.conn.Exec(`DELETE FROM migrations WHERE id = 2`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, 2, db.Version())
	_, err = db.conn.Exec(`SELECT COUNT(*) FROM diagnostics`)
	assert.NoError(t, err)
}

func TestMemoryStore(t *testing.T) {
	for _, path := range []string{"", Memory} {
		t.Run(path, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)

			a, err := New(path)
			require.NoError(t, err)
			defer a.Close()
			b, err := New(path)
			require.NoError(t, err)
			defer b.Close()
			assert.Equal(t, migrations[len(migrations)-1].id, a.Version())

			p := mapgen.DefaultParams()
			p.Seed = 5
			res, err := mapgen.Generate(p, rng.New(1))
			require.NoError(t, err)
			id, err := a.SaveMap(res, p, "")
			require.NoError(t, err)

			_, err = a.GetMap(id)
			require.NoError(t, err)
			// each in-memory store is private
			list, err := b.ListMaps()
			require.NoError(t, err)
			assert.Empty(t, list)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

// --- helpers ---

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "sub", "maps.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
