package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/exotic24-7/zephyrax.io/internal/state"
	"github.com/exotic24-7/zephyrax.io/logging"
	loggingeconomy "github.com/exotic24-7/zephyrax.io/logging/economy"
)

// DefaultDebounce is used when NewSaver receives a non-positive interval.
const DefaultDebounce = 2 * time.Second

// Saver writes the latest observed loadout some time after an
// inventory_changed event. It is a logging sink so the router delivers the
// change notifications off the simulation goroutine.
type Saver struct {
	store    *Store
	playerID string
	debounce time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	latest  state.Loadout
	wave    int
	have    bool
	dirty   bool
	pending *time.Timer
	closed  bool
	saves   int
}

// NewSaver returns a saver for playerID.
func NewSaver(store *Store, playerID string, debounce time.Duration, log zerolog.Logger) *Saver {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Saver{
		store:    store,
		playerID: playerID,
		debounce: debounce,
		log:      log.With().Str("component", "store").Str("player", playerID).Logger(),
	}
}

// Observe records the loadout to persist on the next save. It is called from
// the loop after every tick with a detached copy.
func (s *Saver) Observe(loadout state.Loadout, wave int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = loadout
	s.wave = wave
	s.have = true
}

// Write implements logging.Sink. Inventory changes schedule a save.
func (s *Saver) Write(event logging.Event) error {
	if event.Type != loggingeconomy.EventInventoryChanged {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.dirty = true
	if s.pending == nil {
		s.pending = time.AfterFunc(s.debounce, s.fire)
	}
	return nil
}

func (s *Saver) fire() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
	if err := s.Flush(context.Background()); err != nil {
		s.log.Error().Err(err).Msg("failed to save loadout")
	}
}

// Flush saves immediately when a change is outstanding.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if !s.dirty || !s.have {
		s.mu.Unlock()
		return nil
	}
	loadout := s.latest
	wave := s.wave
	s.dirty = false
	s.mu.Unlock()

	if err := s.store.Save(ctx, s.playerID, loadout, wave); err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	s.log.Debug().Int("wave", wave).Msg("loadout saved")
	return nil
}

// Saves reports how many writes succeeded.
func (s *Saver) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Close implements logging.Sink. Outstanding changes are written.
func (s *Saver) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.mu.Unlock()
	return s.Flush(ctx)
}
