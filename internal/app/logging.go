package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/exotic24-7/zephyrax.io/internal/config"
	"github.com/exotic24-7/zephyrax.io/logging"
	"github.com/exotic24-7/zephyrax.io/logging/sinks"
)

// ParseLevel maps the logLevel setting onto a zerolog level.
func ParseLevel(value string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger builds the process logger. Terminals get the console writer,
// anything else gets JSON lines.
func NewLogger(out io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	w := out
	if isTerminal(out) {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Sampled limits high-frequency debug lines to a burst of 5 per 10 seconds
// followed by 1 in 100.
func Sampled(logger zerolog.Logger) zerolog.Logger {
	return logger.With().Bool("sampled", true).Logger().Sample(&zerolog.BurstSampler{
		Burst:       5,
		Period:      10 * time.Second,
		NextSampler: &zerolog.BasicSampler{N: 100},
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// LoggingConfig reads the event router settings.
func LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	if names := config.GetStringSlice("logging.sinks"); len(names) > 0 {
		cfg.EnabledSinks = names
	}
	if size := config.GetInt("logging.bufferSize"); size > 0 {
		cfg.BufferSize = size
	}
	cfg.MinimumSeverity = logging.ParseSeverity(config.GetString("logging.minimumSeverity"))
	cfg.JSON.FilePath = config.GetString("logging.json.path")
	cfg.GELF.Addr = config.GetString("graylog.addr")
	if facility := config.GetString("graylog.facility"); facility != "" {
		cfg.GELF.Facility = facility
	}
	cfg.Influx.URL = config.GetString("influx.url")
	cfg.Influx.Token = config.GetString("influx.token")
	cfg.Influx.Org = config.GetString("influx.org")
	if bucket := config.GetString("influx.bucket"); bucket != "" {
		cfg.Influx.Bucket = bucket
	}
	return cfg
}

// BuildSinks constructs every sink enabled in cfg. Sinks that fail to start
// are skipped with a warning; unknown names are an error. A JSON sink owns
// the file it opens and closes it with the router.
func BuildSinks(cfg logging.Config, out io.Writer, log zerolog.Logger) ([]logging.NamedSink, error) {
	var named []logging.NamedSink
	for _, name := range cfg.EnabledSinks {
		var sink logging.Sink
		switch name {
		case logging.SinkConsole:
			sink = sinks.NewConsoleSink(out, cfg.Console)
		case logging.SinkZerolog:
			sink = sinks.NewZerolog(log.With().Str("component", "events").Logger())
		case logging.SinkMemory:
			sink = sinks.NewMemorySink()
		case logging.SinkJSON:
			// out is shared with the process logger and must stay open.
			var w io.Writer = struct{ io.Writer }{out}
			if cfg.JSON.FilePath != "" {
				f, err := os.OpenFile(cfg.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					log.Warn().Err(err).Str("path", cfg.JSON.FilePath).Msg("json sink disabled")
					continue
				}
				w = f
			}
			sink = sinks.NewJSON(w, cfg.JSON.FlushInterval)
		case logging.SinkGELF:
			gelfSink, err := sinks.NewGELF(cfg.GELF)
			if err != nil {
				log.Warn().Err(err).Msg("gelf sink disabled")
				continue
			}
			sink = gelfSink
		case logging.SinkInflux:
			influxSink, err := sinks.NewInflux(cfg.Influx, log)
			if err != nil {
				log.Warn().Err(err).Msg("influx sink disabled")
				continue
			}
			sink = influxSink
		default:
			closeAll(named)
			return nil, fmt.Errorf("unknown logging sink %q", name)
		}
		named = append(named, logging.NamedSink{Name: name, Sink: sink})
	}
	return named, nil
}

func closeAll(named []logging.NamedSink) {
	for _, n := range named {
		n.Sink.Close(context.Background())
	}
}
