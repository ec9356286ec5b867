package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exotic24-7/zephyrax.io/internal/config"
	"github.com/exotic24-7/zephyrax.io/internal/net/proto"
	"github.com/exotic24-7/zephyrax.io/internal/rarity"
	"github.com/exotic24-7/zephyrax.io/internal/state"
	"github.com/exotic24-7/zephyrax.io/internal/store"
	"github.com/exotic24-7/zephyrax.io/logging"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zephyrax.json"), []byte(body), 0o644))
	t.Cleanup(viper.Reset)
	return dir
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.TraceLevel, ParseLevel("trace"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestNewLoggerWritesJSONWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, zerolog.InfoLevel)
	log.Debug().Msg("hidden")
	log.Info().Str("k", "v").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"k":"v"`)
	assert.Contains(t, out, `"time":`)
}

func TestBuildSinks(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = []string{logging.SinkConsole, logging.SinkMemory, logging.SinkJSON, logging.SinkGELF, logging.SinkInflux}

	named, err := BuildSinks(cfg, io.Discard, zerolog.Nop())
	require.NoError(t, err)
	var names []string
	for _, n := range named {
		names = append(names, n.Name)
	}
	// gelf and influx have no address configured and are skipped.
	assert.Equal(t, []string{logging.SinkConsole, logging.SinkMemory, logging.SinkJSON}, names)
	closeAll(named)

	cfg.EnabledSinks = []string{logging.SinkMemory, "carrier-pigeon"}
	_, err = BuildSinks(cfg, io.Discard, zerolog.Nop())
	assert.ErrorContains(t, err, "carrier-pigeon")
}

func TestBuildSinksJSONFile(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = []string{logging.SinkJSON}
	cfg.JSON.FilePath = filepath.Join(t.TempDir(), "events.jsonl")
	cfg.JSON.FlushInterval = 0

	named, err := BuildSinks(cfg, io.Discard, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, named, 1)
	require.NoError(t, named[0].Sink.Write(logging.Event{Type: "waves.started", Tick: 3}))
	require.NoError(t, named[0].Sink.Close(context.Background()))

	data, err := os.ReadFile(cfg.JSON.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "waves.started")
}

func TestLoggingConfigFromSettings(t *testing.T) {
	dir := writeConfig(t, `{
		"logging": {"sinks": ["memory", "gelf"], "bufferSize": 64, "minimumSeverity": "warn"},
		"graylog": {"addr": "127.0.0.1:12201"},
		"influx": {"url": "http://influx:8086", "bucket": "arena"}
	}`)
	require.NoError(t, config.Load(dir))

	cfg := LoggingConfig()
	assert.Equal(t, []string{"memory", "gelf"}, cfg.EnabledSinks)
	assert.Equal(t, 64, cfg.BufferSize)
	assert.Equal(t, logging.SeverityWarn, cfg.MinimumSeverity)
	assert.Equal(t, "127.0.0.1:12201", cfg.GELF.Addr)
	assert.Equal(t, "zephyrax", cfg.GELF.Facility)
	assert.Equal(t, "http://influx:8086", cfg.Influx.URL)
	assert.Equal(t, "arena", cfg.Influx.Bucket)
}

func TestBuildRestoresSavedLoadout(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "arena.db")
	st, err := store.Open(store.DriverSQLite, dsn, zerolog.Nop())
	require.NoError(t, err)
	var loadout state.Loadout
	loadout.Main[0] = &state.Slot{Type: "Stinger", Rarity: rarity.Epic, Stack: 1}
	require.NoError(t, st.Save(context.Background(), "tester", loadout, 3))
	require.NoError(t, st.Close())

	dir := writeConfig(t, `{
		"logLevel": "error",
		"store": {"driver": "sqlite", "dsn": "`+filepath.ToSlash(dsn)+`", "playerID": "tester"},
		"logging": {"sinks": ["memory"]}
	}`)

	s, err := Build(context.Background(), Config{ConfigDir: dir, Out: io.Discard})
	require.NoError(t, err)
	defer s.Close(context.Background())

	assert.Equal(t, 3, s.Engine.Wave())
	row := s.Engine.Loadout().Main
	require.NotNil(t, row[0])
	assert.Equal(t, "Stinger", row[0].Type)
	assert.Equal(t, rarity.Epic, row[0].Rarity)
	assert.NotNil(t, s.Saver)
	assert.NotNil(t, s.Router.Sink("store"))
}

func TestBuildWithoutStore(t *testing.T) {
	dir := writeConfig(t, `{"store": {"driver": "none"}, "logging": {"sinks": ["memory"]}}`)

	s, err := Build(context.Background(), Config{ConfigDir: dir, Out: io.Discard})
	require.NoError(t, err)
	defer s.Close(context.Background())

	assert.Nil(t, s.Store)
	assert.Nil(t, s.Saver)
	assert.Equal(t, 1, s.Engine.Wave())
}

func TestBuildRejectsUnknownSink(t *testing.T) {
	dir := writeConfig(t, `{"store": {"driver": "none"}, "logging": {"sinks": ["smoke-signal"]}}`)

	_, err := Build(context.Background(), Config{ConfigDir: dir, Out: io.Discard})
	assert.ErrorContains(t, err, "smoke-signal")
}

func TestServeStreamsStateAndShutsDown(t *testing.T) {
	dir := writeConfig(t, `{
		"logLevel": "error",
		"net": {"addr": "127.0.0.1:0", "broadcastInterval": "10ms"},
		"store": {"driver": "none"},
		"logging": {"sinks": ["memory"]}
	}`)

	s, err := Build(context.Background(), Config{ConfigDir: dir, Out: io.Discard})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan string, 1)
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, func(addr string) { addrCh <- addr }) }()

	var addr string
	select {
	case addr = <-addrCh:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get("http://" + addr + "/diagnostics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "pendingCommands")
	assert.Contains(t, string(body), `"sinkDropped":{"memory":0}`)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws?id=it", nil)
	require.NoError(t, err)
	defer conn.Close()

	// The loop is running, so state frames keep arriving with advancing ticks.
	var first, later uint64
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		require.NoError(t, conn.SetReadDeadline(deadline))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		msg, err := proto.DecodeServerMessage(payload)
		require.NoError(t, err)
		if msg.Type != proto.TypeState || msg.State == nil {
			continue
		}
		if first == 0 {
			first = msg.State.Tick + 1
			continue
		}
		later = msg.State.Tick + 1
		if later > first {
			break
		}
	}
	assert.Greater(t, later, first)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.True(t, strings.HasPrefix(addr, "127.0.0.1:"))
}
