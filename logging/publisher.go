// Package logging routes structured simulation events to pluggable sinks.
package logging

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// EventType names a simulation event, namespaced by category
// ("combat.damage", "waves.started").
type EventType string

// Severity orders events for filtering.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity maps a level name onto a Severity. Unknown names map to info.
func ParseSeverity(value string) Severity {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug", "trace":
		return SeverityDebug
	case "warn", "warning":
		return SeverityWarn
	case "error", "fatal":
		return SeverityError
	default:
		return SeverityInfo
	}
}

type EntityKind string

const (
	EntityKindUnknown    EntityKind = "unknown"
	EntityKindPlayer     EntityKind = "player"
	EntityKindMob        EntityKind = "mob"
	EntityKindProjectile EntityKind = "projectile"
	EntityKindDrop       EntityKind = "drop"
	EntityKindWorld      EntityKind = "world"
)

// Event is a single structured simulation event.
type Event struct {
	Type      EventType      `json:"type"`
	Tick      uint64         `json:"tick"`
	Time      time.Time      `json:"time"`
	Actor     EntityRef      `json:"actor"`
	Targets   []EntityRef    `json:"targets,omitempty"`
	Severity  Severity       `json:"severity"`
	Category  string         `json:"category,omitempty"`
	Payload   any            `json:"payload,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
	TraceID   string         `json:"traceId,omitempty"`
	CommandID string         `json:"commandId,omitempty"`
}

type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

// PlayerRef is the reference used for the single player actor.
func PlayerRef() EntityRef {
	return EntityRef{ID: "player", Kind: EntityKindPlayer}
}

// WorldRef is the actor for events without a concrete entity.
func WorldRef() EntityRef {
	return EntityRef{Kind: EntityKindWorld}
}

// MobRef references a mob by its numeric id.
func MobRef(id uint64) EntityRef {
	return EntityRef{ID: strconv.FormatUint(id, 10), Kind: EntityKindMob}
}

const (
	CategoryCombat    = "combat"
	CategoryLifecycle = "lifecycle"
	CategoryWaves     = "waves"
	CategoryEconomy   = "economy"
	CategoryNetwork   = "network"
	CategorySystem    = "system"
)

// Publisher accepts events. Implementations must not block the caller.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

func NopPublisher() Publisher {
	return nopPublisher{}
}

type fieldPublisher struct {
	next   Publisher
	fields map[string]any
}

func (p *fieldPublisher) Publish(ctx context.Context, event Event) {
	if p.next == nil {
		return
	}
	if len(p.fields) > 0 {
		event = cloneForFields(event)
		if event.Extra == nil {
			event.Extra = make(map[string]any, len(p.fields))
		}
		for k, v := range p.fields {
			if _, exists := event.Extra[k]; !exists {
				event.Extra[k] = v
			}
		}
	}
	p.next.Publish(ctx, event)
}

func cloneForFields(event Event) Event {
	cloned := event
	if len(event.Targets) > 0 {
		cloned.Targets = append([]EntityRef(nil), event.Targets...)
	}
	if event.Extra != nil {
		copied := make(map[string]any, len(event.Extra))
		for k, v := range event.Extra {
			copied[k] = v
		}
		cloned.Extra = copied
	}
	return cloned
}

func WithFields(p Publisher, fields map[string]any) Publisher {
	if p == nil {
		return NopPublisher()
	}
	if len(fields) == 0 {
		return p
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &fieldPublisher{next: p, fields: copied}
}

func (e Event) WithExtra(key string, value any) Event {
	if e.Extra == nil {
		e.Extra = make(map[string]any, 1)
	}
	e.Extra[key] = value
	return e
}
