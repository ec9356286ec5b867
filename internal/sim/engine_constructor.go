package sim

import (
	"errors"
	"fmt"

	"github.com/exotic24-7/zephyrax.io/internal/ai"
	"github.com/exotic24-7/zephyrax.io/internal/catalog"
	"github.com/exotic24-7/zephyrax.io/internal/combat"
	"github.com/exotic24-7/zephyrax.io/internal/state"
	"github.com/exotic24-7/zephyrax.io/internal/waves"
)

var (
	// ErrInvalidArena indicates a non-positive arena size.
	ErrInvalidArena = errors.New("sim: arena dimensions must be positive")
)

// Config sizes the arena and seeds the run.
type Config struct {
	Width     float64
	Height    float64
	Seed      string
	StartWave int
}

// DefaultConfig returns an 800x600 arena starting at wave 1.
func DefaultConfig() Config {
	return Config{Width: 800, Height: 600, Seed: DefaultSeed, StartWave: 1}
}

// Option configures NewEngine behaviour. Options are applied in order; later
// options override earlier ones.
type Option interface {
	apply(*engineConfig)
}

type optionFunc func(*engineConfig)

func (f optionFunc) apply(cfg *engineConfig) {
	if f != nil {
		f(cfg)
	}
}

type engineConfig struct {
	deps     Deps
	catalog  *catalog.Catalog
	policies ai.Table
	loadout  *state.Loadout
	hooks    []namedHook
}

// WithDeps injects shared infrastructure dependencies.
func WithDeps(deps Deps) Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.deps = deps
	})
}

// WithCatalog replaces the built-in item and mob definitions.
func WithCatalog(c *catalog.Catalog) Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.catalog = c
	})
}

// WithPolicies overrides the AI strategy table.
func WithPolicies(table ai.Table) Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.policies = table
	})
}

// WithLoadout restores persisted equip rows and inventory before the first
// wave spawns.
func WithLoadout(l state.Loadout) Option {
	return optionFunc(func(cfg *engineConfig) {
		copied := l
		cfg.loadout = &copied
	})
}

// WithEquipHook registers an additional equip hook.
func WithEquipHook(name string, hook EquipHook) Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.hooks = append(cfg.hooks, namedHook{name: name, hook: hook})
	})
}

// NewEngine builds the world, wires combat and wave outcomes into the event
// publisher and spawns the starting wave.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidArena, cfg.Width, cfg.Height)
	}
	if cfg.StartWave == 0 {
		cfg.StartWave = 1
	}

	ec := engineConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&ec)
		}
	}
	if ec.catalog == nil {
		ec.catalog = catalog.Default()
	}
	if ec.policies == nil {
		ec.policies = ai.DefaultTable()
	}

	e := &Engine{
		cfg:      cfg,
		deps:     ec.deps.withDefaults(),
		world:    state.NewWorld(cfg.Width, cfg.Height),
		catalog:  ec.catalog,
		policies: ec.policies,
	}
	e.resolver = combat.NewResolver(e.catalog, e.combatHooks())
	e.director = waves.NewDirector(e.catalog, NewDeterministicRNG(cfg.Seed, "waves"), FrameDuration, e.waveHooks())

	e.hooks = append(e.hooks, namedHook{name: "maxHealthBonus", hook: MaxHealthHook(e.catalog)})
	e.hooks = append(e.hooks, ec.hooks...)

	if ec.loadout != nil {
		e.world.Player.ApplyLoadout(*ec.loadout)
	}
	e.runEquipHooks("restore")

	if err := e.director.Start(e.world, cfg.StartWave); err != nil {
		return nil, fmt.Errorf("start wave: %w", err)
	}
	return e, nil
}
