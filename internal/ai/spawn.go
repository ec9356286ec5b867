package ai

import (
	"time"

	"github.com/exotic24-7/zephyrax.io/internal/catalog"
	"github.com/exotic24-7/zephyrax.io/internal/state"
)

// Bootstrap primes a freshly spawned mob's AI timers. frame is the nominal
// tick duration used to convert frame-count cooldowns.
func Bootstrap(m *state.Mob, tpl catalog.MobTemplate, frame time.Duration) {
	if m == nil {
		return
	}
	m.Behavior = tpl.Behavior
	m.ProjectileSpeed = tpl.ProjectileSpeed
	m.ProjectileRadius = tpl.ProjectileRadius
	m.ShootCooldown = 0
	m.ShootTimer = 0
	if tpl.ShootCooldown > 0 {
		m.ShootCooldown = time.Duration(tpl.ShootCooldown) * frame
		m.ShootTimer = m.ShootCooldown
	}
	if m.Behavior == catalog.BehaviorStationary {
		m.Speed = 0
	}
}
