package net

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exotic24-7/zephyrax.io/internal/net/proto"
	"github.com/exotic24-7/zephyrax.io/internal/sim"
)

type harness struct {
	engine *sim.Engine
	loop   *sim.Loop
	hub    *Hub
	server *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	engine, err := sim.NewEngine(sim.DefaultConfig())
	require.NoError(t, err)
	h := &harness{engine: engine}
	h.loop = sim.NewLoop(engine, sim.LoopConfig{}, sim.LoopHooks{
		AfterStep: func(result sim.LoopStepResult) { h.hub.AfterStep(result) },
	})
	h.hub = NewHub(HubConfig{Loop: h.loop})
	h.server = httptest.NewServer(NewHTTPHandler(h.hub, HTTPHandlerConfig{
		Diagnostics: func() any { return map[string]int{"ticks": 1} },
	}))
	t.Cleanup(func() {
		h.hub.Close()
		h.server.Close()
	})
	return h
}

func (h *harness) step(tick uint64) {
	h.loop.Advance(sim.LoopTickContext{Tick: tick, Now: time.Now(), Delta: sim.FrameDuration})
}

func (h *harness) dial(t *testing.T, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.server.URL, "http") + "/ws?id=" + id
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) proto.ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, err := proto.DecodeServerMessage(data)
	require.NoError(t, err)
	return msg
}

func send(t *testing.T, conn *websocket.Conn, payload string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)

	resp, err := http.Get(h.server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestStateServesLatestSnapshot(t *testing.T) {
	h := newHarness(t)
	h.step(1)

	resp, err := http.Get(h.server.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snap sim.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, uint64(1), snap.Tick)
	assert.Equal(t, 1, snap.Wave)
	assert.Len(t, snap.Mobs, len(h.engine.Mobs()))

	post, err := http.Post(h.server.URL+"/state", "application/json", nil)
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}

func TestDiagnostics(t *testing.T) {
	h := newHarness(t)

	resp, err := http.Get(h.server.URL + "/diagnostics")
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, map[string]any{"ticks": float64(1)}, payload["telemetry"])
}

func TestWebsocketSessionQueuesInputAndRepliesToChat(t *testing.T) {
	h := newHarness(t)
	h.step(1)
	conn := h.dial(t, "obs")

	initial := readMessage(t, conn)
	require.Equal(t, proto.TypeState, initial.Type)
	require.NotNil(t, initial.State)
	assert.Equal(t, uint64(1), initial.State.Tick)
	assert.Eventually(t, func() bool { return h.hub.Observers() == 1 }, time.Second, 5*time.Millisecond)

	send(t, conn, `{"type":"chat","text":"$setwave 4","seq":1}`)
	ack := readMessage(t, conn)
	assert.Equal(t, proto.TypeCommandAck, ack.Type)
	assert.Equal(t, uint64(1), ack.Seq)

	h.step(2)
	reply := readMessage(t, conn)
	assert.Equal(t, proto.TypeChat, reply.Type)
	assert.True(t, reply.System)
	assert.Equal(t, "Wave set to 4", reply.Text)
	assert.Equal(t, 4, h.engine.Wave())

	send(t, conn, `{"type":"chat","text":"$setwave"}`)
	usage := readMessage(t, conn)
	assert.Equal(t, "Usage: $setwave <number>", usage.Text)

	send(t, conn, `{"type":"chat","text":"good luck"}`)
	echo := readMessage(t, conn)
	assert.Equal(t, "obs", echo.From)
	assert.Equal(t, "good luck", echo.Text)
	assert.False(t, echo.System)

	send(t, conn, `{"type":"equip","slot":0,"item":"Rose","seq":2}`)
	ack = readMessage(t, conn)
	require.Equal(t, uint64(2), ack.Seq)
	h.step(3)
	rejected := readMessage(t, conn)
	assert.Equal(t, proto.TypeChat, rejected.Type)
	assert.Contains(t, rejected.Text, "Equip rejected")

	send(t, conn, `{"type":"teleport","seq":3}`)
	reject := readMessage(t, conn)
	assert.Equal(t, proto.TypeCommandReject, reject.Type)
	assert.Equal(t, uint64(3), reject.Seq)
	assert.False(t, reject.Retry)
}

func TestBroadcastReachesEveryObserver(t *testing.T) {
	h := newHarness(t)
	a := h.dial(t, "a")
	b := h.dial(t, "b")
	readMessage(t, a)
	readMessage(t, b)
	require.Eventually(t, func() bool { return h.hub.Observers() == 2 }, time.Second, 5*time.Millisecond)

	h.step(7)
	h.hub.Broadcast()

	for _, conn := range []*websocket.Conn{a, b} {
		msg := readMessage(t, conn)
		require.Equal(t, proto.TypeState, msg.Type)
		assert.Equal(t, h.hub.Latest().Tick, msg.State.Tick)
	}

	a.Close()
	assert.Eventually(t, func() bool { return h.hub.Observers() == 1 }, time.Second, 5*time.Millisecond)
}

func TestReconnectWithSameIDKeepsNewObserver(t *testing.T) {
	h := newHarness(t)
	first := h.dial(t, "viewer")
	readMessage(t, first)
	require.Eventually(t, func() bool { return h.hub.Observers() == 1 }, time.Second, 5*time.Millisecond)

	second := h.dial(t, "viewer")
	readMessage(t, second)

	// The replaced connection is closed by the server.
	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := first.ReadMessage()
	require.Error(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, h.hub.Observers())

	h.hub.Broadcast()
	msg := readMessage(t, second)
	assert.Equal(t, proto.TypeState, msg.Type)

	h.hub.Disconnect("viewer", "kicked")
	assert.Zero(t, h.hub.Observers())
}

func TestHubStartsFromEngineSnapshot(t *testing.T) {
	h := newHarness(t)

	latest := h.hub.Latest()
	assert.Equal(t, 1, latest.Wave)
	assert.Equal(t, 800.0, latest.Width)
	assert.Len(t, latest.Mobs, len(h.engine.Mobs()))

	conn := h.dial(t, "early")
	initial := readMessage(t, conn)
	require.NotNil(t, initial.State)
	assert.Equal(t, 1, initial.State.Wave)
	assert.Equal(t, 600.0, initial.State.Height)
}
