package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/internal/mapgen"
	"mapforge/internal/protocol"
)

func TestGenerateStoreAndFetch(t *testing.T) {
	ts, _ := startServer(t, true)
	conn := dial(t, ts)

	p := smallParams()
	resp := roundTrip(t, conn, protocol.TypeGenerateMap, protocol.GenerateMapPayload{Params: p, Name: "Test", Save: true})
	require.Equal(t, protocol.TypeMapGenerated, resp.Type)
	var gen protocol.MapGeneratedPayload
	require.NoError(t, resp.ParsePayload(&gen))
	assert.True(t, gen.Saved)
	assert.Equal(t, uint64(21), gen.Seed)
	assert.Equal(t, 1, gen.Generator)
	assert.Equal(t, p.Width, gen.Map.Width)
	assert.Len(t, gen.Map.StartPositions, p.Players)
	id := gen.Map.ID
	require.NotEmpty(t, id)

	resp = roundTrip(t, conn, protocol.TypeListMaps, struct{}{})
	require.Equal(t, protocol.TypeMapList, resp.Type)
	var list protocol.MapListPayload
	require.NoError(t, resp.ParsePayload(&list))
	require.Len(t, list.Maps, 1)
	assert.Equal(t, "Test", list.Maps[0].Name)

	resp = roundTrip(t, conn, protocol.TypeGetMap, protocol.GetMapPayload{ID: id})
	require.Equal(t, protocol.TypeMapData, resp.Type)
	var data protocol.MapDataPayload
	require.NoError(t, resp.ParsePayload(&data))
	assert.Equal(t, gen.Map.Terrain, data.Map.Terrain)
	assert.Equal(t, uint64(21), data.Params.Seed)

	httpResp, err := http.Get(ts.URL + "/api/maps/" + id)
	require.NoError(t, err)
	defer httpResp.Body.Close()
	assert.Equal(t, http.StatusOK, httpResp.StatusCode)

	resp = roundTrip(t, conn, protocol.TypeDeleteMap, protocol.DeleteMapPayload{ID: id})
	require.Equal(t, protocol.TypeMapDeleted, resp.Type)

	resp = roundTrip(t, conn, protocol.TypeGetMap, protocol.GetMapPayload{ID: id})
	assertError(t, resp, protocol.ErrCodeMapNotFound)
}

func TestErrorsWithoutStorage(t *testing.T) {
	ts, _ := startServer(t, false)
	conn := dial(t, ts)

	resp := roundTrip(t, conn, protocol.TypeListMaps, struct{}{})
	assertError(t, resp, protocol.ErrCodeNoStorage)

	bad := smallParams()
	bad.Width = 10
	resp = roundTrip(t, conn, protocol.TypeGenerateMap, protocol.GenerateMapPayload{Params: bad})
	assertError(t, resp, protocol.ErrCodeInvalidParams)

	noLand := smallParams()
	noLand.Land = 0
	resp = roundTrip(t, conn, protocol.TypeGenerateMap, protocol.GenerateMapPayload{Params: noLand})
	assertError(t, resp, protocol.ErrCodeGeneration)

	resp = roundTrip(t, conn, "bogus", struct{}{})
	assertError(t, resp, protocol.ErrCodeInvalidMessage)

	resp = roundTrip(t, conn, protocol.TypeGenerateMap, protocol.GenerateMapPayload{Params: smallParams()})
	require.Equal(t, protocol.TypeMapGenerated, resp.Type)
}

func TestHTTPEndpoints(t *testing.T) {
	ts, _ := startServer(t, true)

	assert.Equal(t, Health{Status: "ok", Storage: true}, getHealth(t, ts))
	dial(t, ts)
	assert.Equal(t, 1, getHealth(t, ts).Clients)

	resp, err := http.Get(ts.URL + "/api/maps")
	require.NoError(t, err)
	var list []json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Empty(t, list)

	resp, err = http.Get(ts.URL + "/api/maps/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// --- helpers ---

func getHealth(t *testing.T, ts *httptest.Server) Health {
	t.Helper()
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var h Health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	return h
}

func smallParams() mapgen.Params {
	p := mapgen.DefaultParams()
	p.Width, p.Height = mapgen.MinWidth, mapgen.MinHeight
	p.Seed = 21
	return p
}

func startServer(t *testing.T, storage bool) (*httptest.Server, *Server) {
	t.Helper()
	cfg := Config{Seed: 1}
	if storage {
		cfg.DBPath = filepath.Join(t.TempDir(), "maps.db")
	}
	s, err := New(cfg)
	require.NoError(t, err)
	go s.hub.Run()

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.hub.Stop()
		if s.db != nil {
			s.db.Close()
		}
	})
	return ts, s
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	conn.SetReadLimit(1 << 22)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })

	welcome := read(t, conn)
	require.Equal(t, protocol.TypeWelcome, welcome.Type)
	return conn
}

// roundTrip sends a request and waits for the message answering it.
func roundTrip(t *testing.T, conn *websocket.Conn, msgType protocol.MessageType, payload interface{}) *protocol.Message {
	t.Helper()
	msg, err := protocol.NewMessage(msgType, payload)
	require.NoError(t, err)
	data, err := json.Marshal(msg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, data))

	for {
		resp := read(t, conn)
		if resp.ID == msg.ID {
			return resp
		}
	}
}

func read(t *testing.T, conn *websocket.Conn) *protocol.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg protocol.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return &msg
}

func assertError(t *testing.T, msg *protocol.Message, code protocol.ErrorCode) {
	t.Helper()
	require.Equal(t, protocol.TypeError, msg.Type)
	var payload protocol.ErrorPayload
	require.NoError(t, msg.ParsePayload(&payload))
	assert.Equal(t, code, payload.Code, payload.Message)
}
