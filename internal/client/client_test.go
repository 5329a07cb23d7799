package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/internal/mapgen"
	"mapforge/internal/protocol"
	"mapforge/pkg/maps"
)

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"localhost:30000", "ws://localhost:30000/ws"},
		{"ws://maps.example.com", "ws://maps.example.com/ws"},
		{"wss://maps.example.com/", "wss://maps.example.com/ws"},
		{"https://maps.example.com", "wss://maps.example.com/ws"},
		{"http://127.0.0.1:8080/", "ws://127.0.0.1:8080/ws"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, websocketURL(tt.addr))
		})
	}
}

func TestRenderPixels(t *testing.T) {
	m := maps.New(3, 2, false)
	m.Tiles[0].Terrain = maps.TerrainOcean
	m.Tiles[1].Terrain = maps.TerrainGrassland
	m.Tiles[1].Continent = 1
	m.Tiles[2].Terrain = maps.TerrainGrassland
	m.Tiles[2].Specials = maps.SpecialRiver
	m.Tiles[3].Terrain = maps.TerrainMountains

	buf := renderPixels(m, Overlay{}, nil)
	require.Len(t, buf, 6*4)

	ocean := TerrainColors[maps.TerrainOcean]
	assert.Equal(t, []byte{ocean.R, ocean.G, ocean.B, 255}, buf[0:4])
	// without the river overlay the grassland colour shows through
	assert.Equal(t, buf[4:8], buf[8:12])
	// tiles left unassigned stand out
	assert.Equal(t, []byte{colorUnassigned.R, colorUnassigned.G, colorUnassigned.B, 255}, buf[20:24])

	withRivers := renderPixels(m, Overlay{Rivers: true}, buf)
	assert.NotEqual(t, withRivers[4:8], withRivers[8:12])

	plain := tileColor(&m.Tiles[1], Overlay{})
	tinted := tileColor(&m.Tiles[1], Overlay{Continents: true})
	assert.NotEqual(t, plain, tinted)
	// ocean is never tinted
	assert.Equal(t, ocean, tileColor(&m.Tiles[0], Overlay{Continents: true}))
}

func TestEveryTerrainHasAColour(t *testing.T) {
	for tr := maps.Terrain(0); tr < maps.TerrainLast; tr++ {
		assert.NotZero(t, TerrainColors[tr].A, "terrain %s", tr)
	}
}

func TestFitScale(t *testing.T) {
	m := maps.New(80, 50, true)
	assert.Equal(t, 12, fitScale(m, 980, 780))
	assert.Equal(t, 1, fitScale(m, 40, 40))

	big := maps.New(200, 100, true)
	assert.Equal(t, 4, fitScale(big, 980, 780))
}

func TestTileAt(t *testing.T) {
	m := maps.New(10, 5, false)
	x, y, ok := tileAt(m, 4, margin, margin)
	require.True(t, ok)
	assert.Equal(t, [2]int{0, 0}, [2]int{x, y})

	x, y, ok = tileAt(m, 4, margin+4*9+3, margin+4*4+3)
	require.True(t, ok)
	assert.Equal(t, [2]int{9, 4}, [2]int{x, y})

	_, _, ok = tileAt(m, 4, margin+4*10, margin)
	assert.False(t, ok)
	_, _, ok = tileAt(m, 4, margin-1, margin)
	assert.False(t, ok)
}

func TestTileInfo(t *testing.T) {
	m := maps.New(3, 1, false)
	rules := maps.DefaultRuleset()

	m.Tiles[0].Terrain = maps.TerrainOcean
	assert.Equal(t, "(0,0) ocean", tileInfo(m, rules, 0, 0))

	m.Tiles[1].Terrain = maps.TerrainHills
	m.Tiles[1].Continent = 2
	m.Tiles[1].Specials = maps.SpecialResource1 | maps.SpecialHut
	assert.Equal(t, "(1,0) hills, continent 2, Coal, hut", tileInfo(m, rules, 1, 0))

	m.Tiles[2].Terrain = maps.TerrainPlains
	m.Tiles[2].Continent = 2
	m.Tiles[2].Specials = maps.SpecialResource2 | maps.SpecialRiver
	assert.Equal(t, "(2,0) plains, continent 2, Wheat, river", tileInfo(m, rules, 2, 0))
}

func TestNetworkClientStartsDisconnected(t *testing.T) {
	c := NewNetworkClient()
	assert.False(t, c.IsConnected())
	assert.ErrorIs(t, c.RequestList(), ErrNotConnected)
}

func TestListSelection(t *testing.T) {
	l := NewList(0, 100, 200, 100)
	var picked string
	l.OnSelect = func(id string) { picked = id }
	l.SetItems([]ListItem{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}})

	assert.Empty(t, l.GetSelectedID())

	l.clickAt(100 + 45)
	assert.Equal(t, "b", picked)
	assert.Equal(t, "b", l.GetSelectedID())

	l.scroll(1000)
	assert.Equal(t, 60, l.scrollOffset)
	l.clickAt(100 + 90)
	assert.Equal(t, "d", picked)

	l.scroll(-1000)
	assert.Zero(t, l.scrollOffset)

	// below the last item
	l.SetItems([]ListItem{{ID: "a"}})
	picked = ""
	l.clickAt(100 + 90)
	assert.Empty(t, picked)
}

func TestStoredItems(t *testing.T) {
	items := storedItems([]protocol.MapListItem{{
		MapInfo: maps.MapInfo{ID: "x1", Name: "Archipelago", Width: 80, Height: 50, Generator: 3, Players: 4},
	}})
	require.Len(t, items, 1)
	assert.Equal(t, "x1", items[0].ID)
	assert.Equal(t, "Archipelago", items[0].Text)
	assert.Equal(t, "80x50 gen 3, 4 players", items[0].Subtext)
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapforge", "config.json")

	cfg, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg.LastServer = "localhost:30000"
	cfg.LastParams.Generator = 3
	cfg.LastParams.Seed = 77
	cfg.ShowContinents = true
	require.NoError(t, cfg.saveFile(path))

	loaded, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfigRejectsBadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"last_server":"x","last_params":{"width":5}}`), 0644))

	cfg, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.LastServer)
	assert.Equal(t, mapgen.DefaultParams(), cfg.LastParams)

	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))
	cfg, err = loadConfigFile(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
