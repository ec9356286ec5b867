package sim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exotic24-7/zephyrax.io/internal/catalog"
	"github.com/exotic24-7/zephyrax.io/internal/rarity"
	"github.com/exotic24-7/zephyrax.io/internal/state"
	"github.com/exotic24-7/zephyrax.io/internal/waves"
	"github.com/exotic24-7/zephyrax.io/logging"
	loggingeconomy "github.com/exotic24-7/zephyrax.io/logging/economy"
	"github.com/exotic24-7/zephyrax.io/logging/lifecycle"
	"github.com/exotic24-7/zephyrax.io/logging/simulation"
	loggingwaves "github.com/exotic24-7/zephyrax.io/logging/waves"
)

type recorder struct {
	mu     sync.Mutex
	events []logging.Event
}

func (r *recorder) Publish(_ context.Context, event logging.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) ofType(eventType logging.EventType) []logging.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []logging.Event
	for _, event := range r.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]Option{WithDeps(Deps{Publisher: rec})}, opts...)
	engine, err := NewEngine(DefaultConfig(), opts...)
	require.NoError(t, err)
	return engine, rec
}

// isolate removes the generated wave and leaves one far-away stationary mob so
// the wave does not advance.
func isolate(t *testing.T, e *Engine) *state.Mob {
	t.Helper()
	e.World().Mobs = nil
	m, err := e.SpawnDebugMob("Dandelion", 0)
	require.NoError(t, err)
	m.X, m.Y = 20, 20
	return m
}

func TestNewEngineSpawnsStartWave(t *testing.T) {
	engine, rec := newTestEngine(t)

	assert.Equal(t, 1, engine.Wave())
	assert.Len(t, engine.Mobs(), waves.Count(1))
	assert.False(t, engine.IsDead())
	assert.Len(t, rec.ofType(loggingwaves.EventStarted), 1)
	assert.Len(t, rec.ofType(lifecycle.EventMobSpawned), waves.Count(1))
}

func TestNewEngineValidatesConfig(t *testing.T) {
	_, err := NewEngine(Config{Width: 0, Height: 600})
	assert.ErrorIs(t, err, ErrInvalidArena)

	cfg := DefaultConfig()
	cfg.StartWave = -2
	_, err = NewEngine(cfg)
	assert.ErrorIs(t, err, waves.ErrInvalidWave)
}

func TestSetWaveRepopulatesImmediately(t *testing.T) {
	engine, _ := newTestEngine(t)

	require.NoError(t, engine.SetWave(5))
	assert.Equal(t, 5, engine.Wave())
	assert.Len(t, engine.Mobs(), 12)

	err := engine.SetWave(0)
	assert.ErrorIs(t, err, waves.ErrInvalidWave)
	assert.Equal(t, 5, engine.Wave())
	assert.Len(t, engine.Mobs(), 12)
}

func TestWaveClearStartsNextWaveOnNextTick(t *testing.T) {
	engine, rec := newTestEngine(t)
	engine.World().Mobs = nil

	engine.Tick()

	assert.Equal(t, 2, engine.Wave())
	assert.Len(t, engine.Mobs(), waves.Count(2))
	cleared := rec.ofType(loggingwaves.EventCleared)
	require.Len(t, cleared, 1)
	assert.Equal(t, loggingwaves.ClearedPayload{Wave: 1}, cleared[0].Payload)
}

func TestRoseManualUseHeals(t *testing.T) {
	engine, _ := newTestEngine(t)
	isolate(t, engine)
	require.NoError(t, engine.AddToInventory("Rose", rarity.Common, 1))
	require.NoError(t, engine.Equip(0, state.RowMain, "Rose", rarity.Common))

	p := engine.Player()
	p.Main[0].Stack = 3
	p.Health = 50

	result, ok := engine.TriggerItemUse()
	require.True(t, ok)
	assert.Equal(t, 15.0, result.Healed)
	assert.False(t, result.Fired)
	assert.Equal(t, 65.0, p.Health)
	assert.Equal(t, 2, p.Main[0].Stack)
}

func TestDeathTransitionFiresOnce(t *testing.T) {
	engine, rec := newTestEngine(t)
	engine.Player().Health = 0

	assert.True(t, engine.handleDeath())
	assert.False(t, engine.handleDeath())
	engine.Tick()
	engine.Tick()

	assert.True(t, engine.IsDead())
	assert.Len(t, rec.ofType(lifecycle.EventPlayerDied), 1)
}

func TestLethalContactIsNotHealedByPassive(t *testing.T) {
	engine, rec := newTestEngine(t)
	isolate(t, engine)
	require.NoError(t, engine.AddToInventory("Rose", rarity.Common, 1))
	require.NoError(t, engine.Equip(0, state.RowMain, "Rose", rarity.Common))

	p := engine.Player()
	m, err := engine.SpawnDebugMob("Ladybug", 0)
	require.NoError(t, err)
	m.X, m.Y = p.X+5, p.Y
	p.Health = catalog.DefaultContactDamage

	engine.Tick()

	assert.True(t, engine.IsDead())
	assert.Equal(t, 0.0, p.Health)
	require.Len(t, rec.ofType(lifecycle.EventPlayerDied), 1)

	engine.Tick()
	assert.Equal(t, 0.0, p.Health)
	assert.Len(t, rec.ofType(lifecycle.EventPlayerDied), 1)
}

func TestFailedWaveStartIsReported(t *testing.T) {
	engine, rec := newTestEngine(t)
	engine.World().Mobs = nil
	engine.director.Catalog = &catalog.Catalog{}

	engine.Tick()

	assert.Equal(t, 1, engine.Wave())
	failed := rec.ofType(loggingwaves.EventStartFailed)
	require.Len(t, failed, 1)
	payload, ok := failed[0].Payload.(loggingwaves.StartFailedPayload)
	require.True(t, ok)
	assert.Equal(t, 2, payload.Wave)
	assert.Contains(t, payload.Error, "no mob templates")
}

func TestAttackSpendsEquippedStack(t *testing.T) {
	engine, rec := newTestEngine(t)
	isolate(t, engine)
	require.NoError(t, engine.AddToInventory("Light", rarity.Common, 1))
	require.NoError(t, engine.Equip(0, state.RowMain, "Light", rarity.Common))

	assert.Equal(t, 1, engine.TriggerAttack(700, 300))
	slot := engine.Player().Main[0]
	assert.True(t, slot.Empty)
	assert.Equal(t, "Light", slot.Type)
	assert.Len(t, engine.Projectiles(), 1)

	changes := rec.ofType(loggingeconomy.EventInventoryChanged)
	require.NotEmpty(t, changes)
	last, ok := changes[len(changes)-1].Payload.(loggingeconomy.InventoryChangedPayload)
	require.True(t, ok)
	assert.Equal(t, "attack", last.Reason)

	engine.World().Now += time.Minute
	assert.Zero(t, engine.TriggerAttack(700, 300))
}

func TestTickWhileDeadOnlyAdvancesClock(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.Player().Health = 0
	engine.Tick()
	require.True(t, engine.IsDead())

	engine.World().Mobs = nil
	before := engine.Now()
	engine.Tick()

	assert.Equal(t, before+FrameDuration, engine.Now())
	assert.Equal(t, 1, engine.Wave())
	assert.Empty(t, engine.Mobs())
}

func TestRespawnResetsRun(t *testing.T) {
	engine, rec := newTestEngine(t)
	require.NoError(t, engine.SetWave(3))
	w := engine.World()
	w.Drops = append(w.Drops, &state.Drop{ID: 99, X: 700, Y: 500, Radius: 8, Type: "Rose", Stack: 1})
	p := engine.Player()
	p.X, p.Y = 10, 10
	p.Health = 0
	engine.Tick()
	require.True(t, engine.IsDead())

	engine.Respawn()

	assert.False(t, engine.IsDead())
	assert.Equal(t, p.MaxHealth, p.Health)
	assert.Equal(t, 400.0, p.X)
	assert.Equal(t, 300.0, p.Y)
	assert.Empty(t, engine.Drops())
	assert.Equal(t, 3, engine.Wave())
	assert.Len(t, engine.Mobs(), waves.Count(3))
	assert.Len(t, rec.ofType(lifecycle.EventPlayerRespawned), 1)
}

func TestEquipAndUnequipMoveItems(t *testing.T) {
	engine, rec := newTestEngine(t)
	p := engine.Player()
	require.NoError(t, engine.AddToInventory("Light", rarity.Rare, 2))

	require.NoError(t, engine.Equip(4, state.RowMain, "Light", rarity.Rare))
	assert.Equal(t, 1, p.Inventory.Count("Light", rarity.Rare))
	assert.Equal(t, &state.Slot{Type: "Light", Rarity: rarity.Rare, Stack: 1}, p.Main[4])

	assert.ErrorIs(t, engine.Equip(4, state.RowMain, "Light", rarity.Rare), state.ErrSlotOccupied)
	assert.ErrorIs(t, engine.Equip(5, state.RowMain, "Light", rarity.Epic), state.ErrInsufficientInventory)
	assert.ErrorIs(t, engine.Equip(10, state.RowMain, "Light", rarity.Rare), state.ErrSlotOutOfRange)
	assert.ErrorIs(t, engine.Equip(1, state.RowKind(7), "Light", rarity.Rare), state.ErrUnknownRow)

	require.NoError(t, engine.Unequip(4, state.RowMain))
	assert.Nil(t, p.Main[4])
	assert.Equal(t, 2, p.Inventory.Count("Light", rarity.Rare))
	assert.ErrorIs(t, engine.Unequip(4, state.RowMain), state.ErrSlotEmpty)

	assert.NotEmpty(t, rec.ofType(loggingeconomy.EventInventoryChanged))
}

func TestSwapSlotExchangesRows(t *testing.T) {
	engine, _ := newTestEngine(t)
	p := engine.Player()
	require.NoError(t, engine.AddToInventory("Stinger", rarity.Epic, 1))
	require.NoError(t, engine.Equip(2, state.RowSwap, "Stinger", rarity.Epic))

	require.NoError(t, engine.SwapSlot(2))
	assert.Equal(t, "Stinger", p.Main[2].Type)
	assert.Nil(t, p.Swap[2])

	assert.ErrorIs(t, engine.SwapSlot(3), state.ErrSlotEmpty)
	assert.ErrorIs(t, engine.SwapSlot(-1), state.ErrSlotOutOfRange)
}

func TestEquipHookFailureIsLoggedNotFatal(t *testing.T) {
	engine, rec := newTestEngine(t)
	calls := 0
	engine.RegisterEquipHook("boom", func(*state.World) error {
		calls++
		return errors.New("kaput")
	})
	require.NoError(t, engine.AddToInventory("Rose", rarity.Common, 1))

	require.NoError(t, engine.Equip(0, state.RowMain, "Rose", rarity.Common))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "Rose", engine.Player().Main[0].Type)
	failed := rec.ofType(simulation.EventEquipHookFailed)
	require.Len(t, failed, 1)
	payload := failed[0].Payload.(simulation.EquipHookFailedPayload)
	assert.Equal(t, "boom", payload.Hook)
	assert.Equal(t, "equip", payload.Reason)
}

func TestMaxHealthHookTracksEquippedBonus(t *testing.T) {
	items := append(catalog.DefaultItems(), catalog.ItemDef{Name: "Shell", MaxHealthBonus: 50})
	c, err := catalog.New(items, catalog.DefaultMobs())
	require.NoError(t, err)
	engine, _ := newTestEngine(t, WithCatalog(c))
	p := engine.Player()
	require.NoError(t, engine.AddToInventory("Shell", rarity.Common, 1))

	require.NoError(t, engine.Equip(0, state.RowMain, "Shell", rarity.Common))
	assert.Equal(t, 150.0, p.MaxHealth)
	p.Health = 140

	require.NoError(t, engine.Unequip(0, state.RowMain))
	assert.Equal(t, 100.0, p.MaxHealth)
	assert.Equal(t, 100.0, p.Health)
}

func TestMaxHealthHookRejectsNonPositiveMaximum(t *testing.T) {
	items := append(catalog.DefaultItems(), catalog.ItemDef{Name: "Curse", MaxHealthBonus: -200})
	c, err := catalog.New(items, catalog.DefaultMobs())
	require.NoError(t, err)
	w := state.NewWorld(800, 600)
	w.Player.Main[0] = &state.Slot{Type: "Curse", Stack: 1}

	assert.Error(t, MaxHealthHook(c)(w))
	assert.Equal(t, 100.0, w.Player.MaxHealth)
}

func TestDropPickupAddsToInventory(t *testing.T) {
	engine, rec := newTestEngine(t)
	isolate(t, engine)
	p := engine.Player()
	w := engine.World()
	w.Drops = append(w.Drops, &state.Drop{ID: 500, X: p.X, Y: p.Y, Radius: state.DropRadius, Type: "Pollen", Stack: 1})

	engine.Tick()

	assert.Empty(t, engine.Drops())
	assert.Equal(t, 1, p.Inventory.Count("Pollen", rarity.Common))
	assert.Len(t, rec.ofType(loggingeconomy.EventPickup), 1)
	changed := rec.ofType(loggingeconomy.EventInventoryChanged)
	require.NotEmpty(t, changed)
	assert.Equal(t, "pickup", changed[len(changed)-1].Payload.(loggingeconomy.InventoryChangedPayload).Reason)
}

func TestHornetFiresAfterShootCooldown(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.World().Mobs = nil
	hornet, err := engine.SpawnDebugMob("Hornet", 0)
	require.NoError(t, err)
	hornet.X, hornet.Y = 580, 300

	for i := 0; i < 119; i++ {
		engine.Tick()
	}
	assert.Empty(t, hornet.Projectiles)
	engine.Tick()
	require.Len(t, hornet.Projectiles, 1)
	shot := hornet.Projectiles[0]
	assert.Equal(t, state.OwnerMob, shot.Owner)
	assert.Equal(t, hornet.ID, shot.OwnerID)
	assert.Equal(t, hornet.Damage, shot.Damage)
}

func TestMobProjectilesOutliveTheirOwner(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.World().Mobs = nil
	hornet, err := engine.SpawnDebugMob("Hornet", 0)
	require.NoError(t, err)
	hornet.Projectiles = append(hornet.Projectiles, &state.Projectile{ID: 900, X: 100, Y: 100, Radius: 5, Owner: state.OwnerMob, OwnerID: hornet.ID})
	hornet.Health = 0
	hornet.Dead = true

	engine.Tick()

	require.Len(t, engine.World().Strays, 1)
	assert.Equal(t, uint64(900), engine.World().Strays[0].ID)
	assert.Contains(t, engine.Projectiles(), engine.World().Strays[0])
}

func TestPlayerMovementIsNormalisedAndClamped(t *testing.T) {
	engine, _ := newTestEngine(t)
	isolate(t, engine)
	p := engine.Player()

	engine.SetMoveIntent(3, 4)
	assert.InDelta(t, 0.6, p.MoveX, 1e-9)
	assert.InDelta(t, 0.8, p.MoveY, 1e-9)
	engine.Tick()
	assert.InDelta(t, 400+0.6*state.PlayerSpeed, p.X, 1e-9)
	assert.InDelta(t, 300+0.8*state.PlayerSpeed, p.Y, 1e-9)

	engine.SetMoveIntent(1, 0)
	for i := 0; i < 200; i++ {
		engine.Tick()
	}
	assert.Equal(t, 800-p.Radius, p.X)

	engine.SetMoveIntent(0, 0)
	assert.Zero(t, p.MoveX)
	assert.Zero(t, p.MoveY)
}

func TestExpandedOrbitLerps(t *testing.T) {
	engine, _ := newTestEngine(t)
	isolate(t, engine)
	p := engine.Player()

	engine.SetExpanded(true)
	engine.Tick()
	assert.InDelta(t, 30+50*state.OrbitLerp, p.OrbitDistance, 1e-9)
	for i := 0; i < 60; i++ {
		engine.Tick()
	}
	assert.InDelta(t, state.OrbitExpanded, p.OrbitDistance, 1e-6)
	assert.InDelta(t, 61*state.PetalAngularSpeed, p.PetalAngle, 1e-9)
}

func TestSameSeedIsDeterministic(t *testing.T) {
	a, _ := newTestEngine(t)
	b, _ := newTestEngine(t)
	for i := 0; i < 90; i++ {
		a.Tick()
		b.Tick()
	}
	assert.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestSnapshotSharesNoMemory(t *testing.T) {
	engine, _ := newTestEngine(t)
	require.NoError(t, engine.AddToInventory("Rose", rarity.Common, 1))
	require.NoError(t, engine.Equip(0, state.RowMain, "Rose", rarity.Common))

	snap := engine.Snapshot()
	snap.Player.Main[0].Type = "Mutated"
	snap.Mobs[0].Health = -1

	assert.Equal(t, "Rose", engine.Player().Main[0].Type)
	assert.Positive(t, engine.Mobs()[0].Health)
	assert.Len(t, snap.Petals, 1)
	assert.Equal(t, int64(0), snap.TimeMillis)
}

func TestWithLoadoutRestoresRows(t *testing.T) {
	loadout := state.Loadout{}
	loadout.Main[1] = &state.Slot{Type: "Missile", Rarity: rarity.Legendary, Stack: 2}
	loadout.Swap[3] = &state.Slot{Type: "", Stack: 1}
	loadout.Inventory.Add("Rose", rarity.Rare, 4)

	engine, _ := newTestEngine(t, WithLoadout(loadout))
	p := engine.Player()

	assert.Equal(t, "Missile", p.Main[1].Type)
	assert.Nil(t, p.Swap[3])
	assert.Equal(t, 4, p.Inventory.Count("Rose", rarity.Rare))
	assert.Equal(t, engine.Loadout().Main[1], p.Main[1])
}

func TestClockAdvance(t *testing.T) {
	var clock Clock
	assert.Equal(t, FrameDuration, clock.Advance(0))
	assert.Equal(t, FrameDuration+10*time.Millisecond, clock.Advance(10*time.Millisecond))
	assert.Equal(t, uint64(2), clock.Ticks())
}
