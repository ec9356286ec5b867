package sim

import (
	"context"

	"github.com/exotic24-7/zephyrax.io/internal/combat"
	"github.com/exotic24-7/zephyrax.io/internal/state"
	"github.com/exotic24-7/zephyrax.io/internal/telemetry"
	"github.com/exotic24-7/zephyrax.io/internal/waves"
	"github.com/exotic24-7/zephyrax.io/logging"
	loggingcombat "github.com/exotic24-7/zephyrax.io/logging/combat"
	loggingeconomy "github.com/exotic24-7/zephyrax.io/logging/economy"
	logginglifecycle "github.com/exotic24-7/zephyrax.io/logging/lifecycle"
	loggingwaves "github.com/exotic24-7/zephyrax.io/logging/waves"
)

func causeActor(cause combat.Cause) logging.EntityRef {
	switch cause.Kind {
	case combat.CauseContact, combat.CauseMobProjectile:
		return logging.MobRef(cause.MobID)
	default:
		return logging.PlayerRef()
	}
}

func (e *Engine) combatHooks() combat.Hooks {
	ctx := context.Background()
	return combat.Hooks{
		MobDamaged: func(m *state.Mob, amount float64, cause combat.Cause) {
			e.deps.Metrics.Add(telemetry.MetricDamageEvents, 1)
			loggingcombat.Damage(ctx, e.deps.Publisher, e.world.Tick, causeActor(cause), logging.MobRef(m.ID),
				loggingcombat.DamagePayload{
					Cause:        cause.Kind.String(),
					Source:       cause.Source,
					Slot:         cause.Slot,
					Amount:       amount,
					TargetHealth: m.Health,
				}, nil)
		},
		MobDefeated: func(m *state.Mob, cause combat.Cause) {
			e.deps.Metrics.Add(telemetry.MetricMobsDefeated, 1)
			loggingcombat.Defeat(ctx, e.deps.Publisher, e.world.Tick, causeActor(cause), logging.MobRef(m.ID),
				loggingcombat.DefeatPayload{
					MobType: m.Type,
					Rarity:  m.Rarity.String(),
					Cause:   cause.Kind.String(),
					Source:  cause.Source,
				}, nil)
		},
		PlayerDamaged: func(amount float64, cause combat.Cause) {
			e.deps.Metrics.Add(telemetry.MetricDamageEvents, 1)
			loggingcombat.Damage(ctx, e.deps.Publisher, e.world.Tick, causeActor(cause), logging.PlayerRef(),
				loggingcombat.DamagePayload{
					Cause:        cause.Kind.String(),
					Source:       cause.Source,
					Slot:         cause.Slot,
					Amount:       amount,
					TargetHealth: e.world.Player.Health,
				}, nil)
		},
		ProjectileHit: func(p *state.Projectile, m *state.Mob, landed bool) {
			target := logging.PlayerRef()
			if m != nil {
				target = logging.MobRef(m.ID)
			}
			loggingcombat.ProjectileHit(ctx, e.deps.Publisher, e.world.Tick, projectileOwner(p), target,
				loggingcombat.ProjectileHitPayload{Source: p.Source, Damage: p.Damage, Landed: landed}, nil)
		},
		DropSpawned: func(d *state.Drop) {
			loggingeconomy.DropSpawned(ctx, e.deps.Publisher, e.world.Tick, logging.WorldRef(), dropPayload(d), nil)
		},
		DropCollected: func(d *state.Drop) {
			loggingeconomy.Pickup(ctx, e.deps.Publisher, e.world.Tick, logging.PlayerRef(), dropPayload(d), nil)
		},
	}
}

func projectileOwner(p *state.Projectile) logging.EntityRef {
	if p.Owner == state.OwnerMob {
		return logging.MobRef(p.OwnerID)
	}
	return logging.PlayerRef()
}

func dropPayload(d *state.Drop) loggingeconomy.DropPayload {
	return loggingeconomy.DropPayload{
		ItemType: d.Type,
		Rarity:   d.Rarity.String(),
		Quantity: d.Stack,
		X:        d.X,
		Y:        d.Y,
	}
}

func (e *Engine) waveHooks() waves.Hooks {
	ctx := context.Background()
	return waves.Hooks{
		WaveStarted: func(wave, count int) {
			loggingwaves.Started(ctx, e.deps.Publisher, e.world.Tick, loggingwaves.StartedPayload{Wave: wave, Count: count}, nil)
		},
		WaveCleared: func(wave int) {
			e.deps.Metrics.Add(telemetry.MetricWavesCleared, 1)
			loggingwaves.Cleared(ctx, e.deps.Publisher, e.world.Tick, loggingwaves.ClearedPayload{Wave: wave}, nil)
		},
		MobSpawned: func(m *state.Mob) {
			logginglifecycle.MobSpawned(ctx, e.deps.Publisher, e.world.Tick, logging.MobRef(m.ID),
				logginglifecycle.MobSpawnedPayload{
					MobType: m.Type,
					Rarity:  m.Rarity.String(),
					Health:  m.Health,
					Radius:  m.Radius,
					X:       m.X,
					Y:       m.Y,
				}, nil)
		},
	}
}

func (e *Engine) waveFailed(wave int, err error) {
	loggingwaves.StartFailed(context.Background(), e.deps.Publisher, e.world.Tick,
		loggingwaves.StartFailedPayload{Wave: wave, Error: err.Error()}, nil)
	e.deps.Logger.Printf("wave %d failed to start: %v", wave, err)
}

func (e *Engine) inventoryChanged(reason, itemType string, slot int) {
	loggingeconomy.InventoryChanged(context.Background(), e.deps.Publisher, e.world.Tick, logging.PlayerRef(),
		loggingeconomy.InventoryChangedPayload{Reason: reason, ItemType: itemType, Slot: slot}, nil)
}
