package logging

import "time"

// Sink names accepted in Config.EnabledSinks.
const (
	SinkConsole = "console"
	SinkJSON    = "json"
	SinkMemory  = "memory"
	SinkZerolog = "zerolog"
	SinkGELF    = "gelf"
	SinkInflux  = "influx"
)

type Config struct {
	EnabledSinks     []string
	BufferSize       int
	MinimumSeverity  Severity
	Fields           map[string]any
	JSON             JSONConfig
	Console          ConsoleConfig
	GELF             GELFConfig
	Influx           InfluxConfig
	DropWarnInterval time.Duration
}

type JSONConfig struct {
	FilePath      string
	MaxBatch      int
	FlushInterval time.Duration
}

type ConsoleConfig struct {
	UseColor bool
}

// GELFConfig addresses a Graylog UDP input.
type GELFConfig struct {
	Addr     string
	Facility string
}

// InfluxConfig selects the bucket that receives event points.
type InfluxConfig struct {
	URL         string
	Token       string
	Org         string
	Bucket      string
	Measurement string
	BatchSize   uint
}

func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{SinkConsole},
		BufferSize:       512,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
		JSON: JSONConfig{
			MaxBatch:      32,
			FlushInterval: 2 * time.Second,
		},
		GELF: GELFConfig{
			Facility: "zephyrax",
		},
		Influx: InfluxConfig{
			Bucket:      "zephyrax",
			Measurement: "sim_events",
			BatchSize:   500,
		},
	}
}

func (c Config) HasSink(name string) bool {
	for _, s := range c.EnabledSinks {
		if s == name {
			return true
		}
	}
	return false
}

func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		cloned[k] = v
	}
	return cloned
}
