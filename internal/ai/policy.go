// Package ai maps each mob behavior onto a movement policy.
package ai

import (
	"time"

	"github.com/exotic24-7/zephyrax.io/internal/catalog"
	"github.com/exotic24-7/zephyrax.io/internal/physics"
	"github.com/exotic24-7/zephyrax.io/internal/state"
)

const (
	// DesiredDistance is the range ranged mobs try to hold from the player.
	DesiredDistance = 200
	// RetreatMargin is how far inside DesiredDistance a ranged mob tolerates
	// before backing away.
	RetreatMargin = 50
)

// Target is the point a policy steers relative to.
type Target struct {
	X float64
	Y float64
}

// Intent is a policy's output for one tick: a displacement and an optional
// shot velocity.
type Intent struct {
	DX     float64
	DY     float64
	Shoot  bool
	ShotVX float64
	ShotVY float64
}

// Policy decides a mob's intent for one tick. Implementations may advance
// per-mob timers.
type Policy interface {
	Decide(m *state.Mob, target Target, dt time.Duration) Intent
}

// PolicyFunc adapts a function into a Policy.
type PolicyFunc func(m *state.Mob, target Target, dt time.Duration) Intent

// Decide implements Policy.
func (f PolicyFunc) Decide(m *state.Mob, target Target, dt time.Duration) Intent {
	if f == nil {
		return Intent{}
	}
	return f(m, target, dt)
}

// Chase moves straight at the target.
type Chase struct{}

// Decide implements Policy.
func (Chase) Decide(m *state.Mob, target Target, _ time.Duration) Intent {
	nx, ny, dist := physics.Direction(m.X, m.Y, target.X, target.Y)
	if dist == 0 {
		return Intent{}
	}
	return Intent{DX: nx * m.Speed, DY: ny * m.Speed}
}

// KeepDistance closes in beyond Desired, backs off inside Desired-Margin and
// fires a projectile at the target whenever its shoot timer expires.
type KeepDistance struct {
	Desired float64
	Margin  float64
}

// Decide implements Policy.
func (k KeepDistance) Decide(m *state.Mob, target Target, dt time.Duration) Intent {
	var intent Intent
	nx, ny, dist := physics.Direction(m.X, m.Y, target.X, target.Y)
	switch {
	case dist > k.Desired:
		intent.DX = nx * m.Speed
		intent.DY = ny * m.Speed
	case dist < k.Desired-k.Margin:
		intent.DX = -nx * m.Speed
		intent.DY = -ny * m.Speed
	}

	if m.ShootCooldown <= 0 {
		return intent
	}
	m.ShootTimer -= dt
	if m.ShootTimer <= 0 {
		if dist == 0 {
			nx = 1
		}
		intent.Shoot = true
		intent.ShotVX = nx * m.ProjectileSpeed
		intent.ShotVY = ny * m.ProjectileSpeed
		m.ShootTimer = m.ShootCooldown
	}
	return intent
}

// Stationary never moves.
type Stationary struct{}

// Decide implements Policy.
func (Stationary) Decide(*state.Mob, Target, time.Duration) Intent {
	return Intent{}
}

// Table resolves behaviors to policies.
type Table map[catalog.Behavior]Policy

// DefaultTable returns the built-in policies.
func DefaultTable() Table {
	return Table{
		catalog.BehaviorChase:        Chase{},
		catalog.BehaviorKeepDistance: KeepDistance{Desired: DesiredDistance, Margin: RetreatMargin},
		catalog.BehaviorStationary:   Stationary{},
	}
}

// For returns the policy for behavior, or Chase when none is registered.
func (t Table) For(behavior catalog.Behavior) Policy {
	if policy, ok := t[behavior]; ok && policy != nil {
		return policy
	}
	return Chase{}
}

// Decide runs the mob's policy.
func (t Table) Decide(m *state.Mob, target Target, dt time.Duration) Intent {
	if m == nil {
		return Intent{}
	}
	return t.For(m.Behavior).Decide(m, target, dt)
}
