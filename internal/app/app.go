// Package app wires configuration, logging, persistence, the simulation loop
// and the HTTP surface into the server process.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/exotic24-7/zephyrax.io/internal/catalog"
	"github.com/exotic24-7/zephyrax.io/internal/config"
	servernet "github.com/exotic24-7/zephyrax.io/internal/net"
	"github.com/exotic24-7/zephyrax.io/internal/observability"
	"github.com/exotic24-7/zephyrax.io/internal/sim"
	"github.com/exotic24-7/zephyrax.io/internal/state"
	"github.com/exotic24-7/zephyrax.io/internal/store"
	"github.com/exotic24-7/zephyrax.io/internal/telemetry"
	"github.com/exotic24-7/zephyrax.io/logging"
)

const shutdownTimeout = 5 * time.Second

// Config carries process-level inputs that do not come from the config
// file.
type Config struct {
	// ConfigDir is searched for zephyrax.json.
	ConfigDir string
	// Out receives process logs and console sink output. Defaults to stdout.
	Out io.Writer
	// Ready, when set, receives the listener address once serving starts.
	Ready func(addr string)
}

// Server is a fully wired simulation server.
type Server struct {
	Logger  zerolog.Logger
	Engine  *sim.Engine
	Loop    *sim.Loop
	Hub     *servernet.Hub
	Router  *logging.Router
	Store   *store.Store
	Saver   *store.Saver
	Handler http.Handler
	Addr    string

	metrics   *logging.Metrics
	telemetry telemetry.Metrics
	sampled   zerolog.Logger
}

// Build loads configuration and constructs every component without starting
// any goroutine except the logging router workers.
func Build(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if err := config.Load(cfg.ConfigDir); err != nil {
		return nil, err
	}

	log := NewLogger(cfg.Out, ParseLevel(config.GetString("logLevel")))
	if file := config.ConfigFile(); file != "" {
		log.Info().Str("file", file).Msg("config loaded")
	}

	s := &Server{
		Logger:  log,
		Addr:    config.GetString("net.addr"),
		metrics: &logging.Metrics{},
		sampled: Sampled(log),
	}
	s.telemetry = telemetry.WrapMetrics(s.metrics)
	if config.GetBool("otel.enabled") {
		s.telemetry = telemetry.Tee(s.telemetry, telemetry.NewOTelMetrics(nil))
	}

	cat, err := catalog.LoadOrDefault(config.GetString("catalog.path"))
	if err != nil {
		log.Warn().Err(err).Msg("catalog invalid, using built-in definitions")
	}
	log.Info().Str("source", cat.Source()).Int("mobs", cat.MobCount()).Msg("catalog ready")

	simCfg := sim.Config{
		Width:     config.GetFloat64("sim.width"),
		Height:    config.GetFloat64("sim.height"),
		Seed:      config.GetString("sim.seed"),
		StartWave: config.GetInt("sim.startWave"),
	}

	playerID := config.GetString("store.playerID")
	var loadout *state.Loadout
	st, err := store.Open(config.GetString("store.driver"), config.GetString("store.dsn"), log.With().Str("component", "store").Logger())
	switch {
	case errors.Is(err, store.ErrDisabled):
		log.Info().Msg("persistence disabled")
	case err != nil:
		return nil, fmt.Errorf("open store: %w", err)
	default:
		s.Store = st
		saved, wave, ok, err := st.Load(ctx, playerID)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("load loadout: %w", err)
		}
		if ok {
			loadout = &saved
			if wave > 0 {
				simCfg.StartWave = wave
			}
			log.Info().Str("player", playerID).Int("wave", wave).Msg("loadout restored")
		}
		s.Saver = store.NewSaver(st, playerID, config.GetDuration("store.debounce"), log.With().Str("component", "saver").Logger())
	}

	logCfg := LoggingConfig()
	logCfg.Fields = map[string]any{"player": playerID}
	named, err := BuildSinks(logCfg, cfg.Out, log)
	if err != nil {
		s.closeStore()
		return nil, err
	}
	if s.Saver != nil {
		named = append(named, logging.NamedSink{Name: "store", Sink: s.Saver})
	}
	s.Router, err = logging.NewRouter(logging.SystemClock{}, logCfg, log, named)
	if err != nil {
		s.closeStore()
		return nil, fmt.Errorf("failed to construct logging router: %w", err)
	}

	opts := []sim.Option{
		sim.WithDeps(sim.Deps{
			Logger:    telemetry.WrapLogger(log.With().Str("component", "sim").Logger(), zerolog.WarnLevel),
			Metrics:   s.telemetry,
			Publisher: s.Router,
		}),
		sim.WithCatalog(cat),
	}
	if loadout != nil {
		opts = append(opts, sim.WithLoadout(*loadout))
	}
	s.Engine, err = sim.NewEngine(simCfg, opts...)
	if err != nil {
		s.Router.Close(ctx)
		s.closeStore()
		return nil, fmt.Errorf("create engine: %w", err)
	}

	s.Loop = sim.NewLoop(s.Engine, sim.LoopConfig{
		TickRate:        config.GetInt("sim.tickRate"),
		CatchupMaxTicks: config.GetInt("sim.catchupMaxTicks"),
		CommandCapacity: config.GetInt("sim.commandCapacity"),
		PerActorLimit:   config.GetInt("sim.perActorLimit"),
	}, sim.LoopHooks{AfterStep: s.afterStep})

	s.Hub = servernet.NewHub(servernet.HubConfig{
		Loop:              s.Loop,
		Logger:            telemetry.WrapLogger(log.With().Str("component", "net").Logger(), zerolog.InfoLevel),
		Metrics:           s.telemetry,
		Publisher:         s.Router,
		BroadcastInterval: config.GetDuration("net.broadcastInterval"),
	})
	s.Handler = servernet.NewHTTPHandler(s.Hub, servernet.HTTPHandlerConfig{
		Diagnostics:   s.Diagnostics,
		Observability: observability.Config{EnablePprof: config.GetBool("observability.pprof")},
	})
	return s, nil
}

func (s *Server) afterStep(result sim.LoopStepResult) {
	s.Hub.AfterStep(result)
	if s.Saver != nil {
		snap := result.Snapshot
		s.Saver.Observe(state.Loadout{
			Main:      snap.Player.Main,
			Swap:      snap.Player.Swap,
			Inventory: state.Inventory{Entries: snap.Player.Inventory},
		}, snap.Wave)
	}
	s.telemetry.Store(telemetry.MetricLoggingDropped, s.Router.Stats().DroppedTotal)
	if result.Budget > 0 && result.Duration > result.Budget {
		s.sampled.Debug().
			Uint64("tick", result.Tick).
			Dur("duration", result.Duration).
			Dur("budget", result.Budget).
			Msg("tick over budget")
	}
}

// Diagnostics reports counters for the /diagnostics endpoint.
func (s *Server) Diagnostics() any {
	stats := s.Router.Stats()
	return map[string]any{
		"metrics":         s.metrics.Snapshot(),
		"eventsTotal":     stats.EventsTotal,
		"eventsDropped":   stats.DroppedTotal,
		"eventsFiltered":  stats.Filtered,
		"sinkDropped":     stats.SinkDropped,
		"pendingCommands": s.Loop.Pending(),
	}
}

// Serve runs the loop, the broadcaster and the HTTP server until ctx is
// cancelled, then shuts everything down and flushes pending saves.
func (s *Server) Serve(ctx context.Context, ready func(addr string)) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		s.Close(context.Background())
		return fmt.Errorf("listen %s: %w", s.Addr, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan struct{})
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		s.Loop.Run(stop)
	}()
	go s.Hub.Run(ctx)

	srv := &http.Server{Addr: s.Addr, Handler: s.Handler}
	listenErr := make(chan error, 1)
	go func() {
		addr := ln.Addr().String()
		s.Logger.Info().Str("addr", addr).Msg("server listening")
		if ready != nil {
			ready(addr)
		}
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case err := <-listenErr:
		if err != nil {
			serveErr = fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.Logger.Warn().Err(err).Msg("http shutdown")
	}
	close(stop)
	<-loopDone
	cancel()
	s.Hub.Close()
	s.Close(shutdownCtx)
	return serveErr
}

// Close drains the logging router, which flushes the saver, and closes the
// store.
func (s *Server) Close(ctx context.Context) {
	if err := s.Router.Close(ctx); err != nil {
		s.Logger.Warn().Err(err).Msg("failed to close logging router")
	}
	s.closeStore()
}

func (s *Server) closeStore() {
	if s.Store == nil {
		return
	}
	if err := s.Store.Close(); err != nil {
		s.Logger.Warn().Err(err).Msg("failed to close store")
	}
	s.Store = nil
}

// Run builds the server from configuration and serves until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	s, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	return s.Serve(ctx, cfg.Ready)
}
