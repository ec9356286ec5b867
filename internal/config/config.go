// Package config loads process configuration through viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "zephyrax.json"

// EnvPrefix prefixes environment overrides, e.g. ZEPHYRAX_SIM_TICKRATE.
const EnvPrefix = "ZEPHYRAX"

// Load registers defaults, reads FileName from configDir when present and
// enables environment overrides. A missing file is not an error.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("sim.tickRate", 60)
	viper.SetDefault("sim.width", 800)
	viper.SetDefault("sim.height", 600)
	viper.SetDefault("sim.seed", "zephyrax")
	viper.SetDefault("sim.startWave", 1)
	viper.SetDefault("sim.commandCapacity", 256)
	viper.SetDefault("sim.perActorLimit", 32)
	viper.SetDefault("sim.catchupMaxTicks", 3)

	viper.SetDefault("catalog.path", "")

	viper.SetDefault("store.driver", "sqlite")
	viper.SetDefault("store.dsn", "zephyrax.db")
	viper.SetDefault("store.playerID", "local")
	viper.SetDefault("store.debounce", "2s")

	viper.SetDefault("net.addr", ":8080")
	viper.SetDefault("net.broadcastInterval", "50ms")

	viper.SetDefault("logging.sinks", []string{"zerolog"})
	viper.SetDefault("logging.bufferSize", 1024)
	viper.SetDefault("logging.minimumSeverity", "info")
	viper.SetDefault("logging.json.path", "")

	viper.SetDefault("graylog.addr", "")
	viper.SetDefault("graylog.facility", "zephyrax")

	viper.SetDefault("influx.url", "")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "zephyrax")
	viper.SetDefault("influx.bucket", "zephyrax")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("observability.pprof", false)

	viper.SetDefault("viewer.server", "ws://localhost:8080/ws")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetStringSlice returns a list config value. A comma separated string, as
// set through the environment, is split.
func GetStringSlice(key string) []string {
	values := viper.GetStringSlice(key)
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ConfigFile reports the file that was read, or "" when defaults are in use.
func ConfigFile() string {
	return viper.ConfigFileUsed()
}
