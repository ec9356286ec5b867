package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"sim": { "tickRate": 30, "seed": "arena" },
		"store": { "driver": "postgres" },
		"logging": { "sinks": ["console", "gelf"] }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(cfg), 0644))

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", GetString("logLevel"))
	assert.Equal(t, 30, GetInt("sim.tickRate"))
	assert.Equal(t, "arena", GetString("sim.seed"))
	assert.Equal(t, "postgres", GetString("store.driver"))
	assert.Equal(t, []string{"console", "gelf"}, GetStringSlice("logging.sinks"))
	assert.Equal(t, 800, GetInt("sim.width"))
	assert.Equal(t, filepath.Join(dir, FileName), ConfigFile())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))

	assert.Equal(t, "info", GetString("logLevel"))
	assert.Equal(t, 60, GetInt("sim.tickRate"))
	assert.Equal(t, 800, GetInt("sim.width"))
	assert.Equal(t, 600, GetInt("sim.height"))
	assert.Equal(t, 1, GetInt("sim.startWave"))
	assert.Equal(t, "sqlite", GetString("store.driver"))
	assert.Equal(t, ":8080", GetString("net.addr"))
	assert.Equal(t, 50*time.Millisecond, GetDuration("net.broadcastInterval"))
	assert.Equal(t, 2*time.Second, GetDuration("store.debounce"))
	assert.Equal(t, []string{"zerolog"}, GetStringSlice("logging.sinks"))
	assert.False(t, GetBool("otel.enabled"))
	assert.Equal(t, "ws://localhost:8080/ws", GetString("viewer.server"))
	assert.Empty(t, ConfigFile())
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"sim": `), 0644))

	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("ZEPHYRAX_SIM_STARTWAVE", "4")
	t.Setenv("ZEPHYRAX_LOGGING_SINKS", "console,json")
	t.Setenv("ZEPHYRAX_OTEL_ENABLED", "true")

	require.NoError(t, Load(t.TempDir()))

	assert.Equal(t, 4, GetInt("sim.startWave"))
	assert.Equal(t, []string{"console", "json"}, GetStringSlice("logging.sinks"))
	assert.True(t, GetBool("otel.enabled"))
}

func TestGetters(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("f", 1.5)
	viper.Set("d", "3s")

	assert.Equal(t, 1.5, GetFloat64("f"))
	assert.Equal(t, 3*time.Second, GetDuration("d"))
}
