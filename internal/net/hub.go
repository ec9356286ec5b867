// Package net serves observers over HTTP and websockets: state broadcast,
// input intake and chat command replies.
package net

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/exotic24-7/zephyrax.io/internal/command"
	"github.com/exotic24-7/zephyrax.io/internal/net/proto"
	"github.com/exotic24-7/zephyrax.io/internal/sim"
	"github.com/exotic24-7/zephyrax.io/internal/telemetry"
	"github.com/exotic24-7/zephyrax.io/logging"
	"github.com/exotic24-7/zephyrax.io/logging/network"
)

const writeWait = 2 * time.Second

// DefaultBroadcastInterval paces snapshot broadcasts when HubConfig leaves
// it unset.
const DefaultBroadcastInterval = 50 * time.Millisecond

const metricBroadcastBytes = "net_broadcast_bytes_total"

// HubConfig wires the hub to the loop and the ambient services.
type HubConfig struct {
	Loop              *sim.Loop
	Logger            telemetry.Logger
	Metrics           telemetry.Metrics
	Publisher         logging.Publisher
	BroadcastInterval time.Duration
}

type subscriber struct {
	id     string
	remote string
	conn   *websocket.Conn
	mu     sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks observers and fans snapshots out to them.
type Hub struct {
	loop      *sim.Loop
	logger    telemetry.Logger
	metrics   telemetry.Metrics
	publisher logging.Publisher
	interval  time.Duration

	mu          sync.RWMutex
	subscribers map[string]*subscriber
	latest      sim.Snapshot
	version     uint64
	sent        uint64

	nextID atomic.Uint64
}

// NewHub constructs a hub seeded with the loop's current snapshot. Nil
// services fall back to no-ops.
func NewHub(cfg HubConfig) *Hub {
	if cfg.Logger == nil {
		cfg.Logger = telemetry.LoggerFunc(nil)
	}
	if cfg.Publisher == nil {
		cfg.Publisher = logging.NopPublisher()
	}
	if cfg.BroadcastInterval <= 0 {
		cfg.BroadcastInterval = DefaultBroadcastInterval
	}
	h := &Hub{
		loop:        cfg.Loop,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		publisher:   cfg.Publisher,
		interval:    cfg.BroadcastInterval,
		subscribers: make(map[string]*subscriber),
	}
	if cfg.Loop != nil {
		h.latest = cfg.Loop.Snapshot()
	}
	return h
}

// NextObserverID allocates an id for a client that did not supply one.
func (h *Hub) NextObserverID() string {
	return fmt.Sprintf("observer-%d", h.nextID.Add(1))
}

// Observers reports the number of connected clients.
func (h *Hub) Observers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Latest returns the most recent snapshot seen by the hub.
func (h *Hub) Latest() sim.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Tick returns the tick of the latest snapshot.
func (h *Hub) Tick() uint64 {
	return h.Latest().Tick
}

// Subscribe registers conn under id, replacing an older connection with the
// same id, and sends it the latest snapshot.
func (h *Hub) Subscribe(id, remote string, conn *websocket.Conn) (*subscriber, error) {
	sub := &subscriber{id: id, remote: remote, conn: conn}
	h.mu.Lock()
	if existing, ok := h.subscribers[id]; ok {
		existing.conn.Close()
	}
	h.subscribers[id] = sub
	count := len(h.subscribers)
	snapshot := h.latest
	h.mu.Unlock()

	network.ObserverJoined(context.Background(), h.publisher, snapshot.Tick, id,
		network.ObserverPayload{Remote: remote, Observers: count})

	data, err := proto.EncodeState(snapshot)
	if err != nil {
		return sub, err
	}
	return sub, sub.write(data)
}

// Disconnect forgets the observer currently registered under id and closes
// its connection.
func (h *Hub) Disconnect(id, reason string) {
	h.mu.RLock()
	sub, ok := h.subscribers[id]
	h.mu.RUnlock()
	if ok {
		h.drop(sub, reason)
	}
}

// drop removes sub if it is still the registered connection for its id. A
// connection that was replaced by a reconnect is only closed.
func (h *Hub) drop(sub *subscriber, reason string) {
	h.mu.Lock()
	current := h.subscribers[sub.id] == sub
	if current {
		delete(h.subscribers, sub.id)
	}
	count := len(h.subscribers)
	tick := h.latest.Tick
	h.mu.Unlock()
	sub.conn.Close()
	if !current {
		return
	}
	network.ObserverLeft(context.Background(), h.publisher, tick, sub.id,
		network.ObserverPayload{Remote: sub.remote, Observers: count, Reason: reason})
}

// AfterStep is installed as the loop's AfterStep hook. It records the
// snapshot and answers chat commands once the tick has applied them.
func (h *Hub) AfterStep(result sim.LoopStepResult) {
	h.mu.Lock()
	h.latest = result.Snapshot
	h.version++
	h.mu.Unlock()

	rejected := result.Rejected
	for _, cmd := range result.Commands {
		if len(rejected) > 0 && rejected[0].Command == cmd {
			failure := rejected[0]
			rejected = rejected[1:]
			h.reply(cmd.ActorID, failureText(failure))
			continue
		}
		if isChatCommand(cmd) {
			h.reply(cmd.ActorID, command.Describe(cmd))
		}
	}
}

func isChatCommand(cmd sim.Command) bool {
	return cmd.Type == sim.CommandSetWave || cmd.Type == sim.CommandSpawnMob
}

func failureText(failure sim.CommandError) string {
	if isChatCommand(failure.Command) {
		return failure.Err.Error()
	}
	return fmt.Sprintf("%s rejected: %v", failure.Command.Type, failure.Err)
}

func (h *Hub) reply(id, text string) {
	if id == "" {
		return
	}
	data, err := proto.EncodeChat("", text, true)
	if err != nil {
		return
	}
	h.sendTo(id, data)
}

// Chat relays a plain chat line to every observer.
func (h *Hub) Chat(from, text string) {
	data, err := proto.EncodeChat(from, text, false)
	if err != nil {
		h.logger.Printf("failed to encode chat from %s: %v", from, err)
		return
	}
	h.broadcastRaw(data)
}

// Broadcast sends the latest snapshot to every observer.
func (h *Hub) Broadcast() {
	data, err := proto.EncodeState(h.Latest())
	if err != nil {
		h.logger.Printf("failed to encode snapshot: %v", err)
		return
	}
	h.broadcastRaw(data)
}

func (h *Hub) broadcastRaw(data []byte) {
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.write(data); err != nil {
			h.logger.Printf("failed to send update to %s: %v", sub.id, err)
			h.drop(sub, "write_failed")
			continue
		}
		if h.metrics != nil {
			h.metrics.Add(metricBroadcastBytes, uint64(len(data)))
		}
	}
}

func (h *Hub) sendTo(id string, data []byte) {
	h.mu.RLock()
	sub, ok := h.subscribers[id]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := sub.write(data); err != nil {
		h.logger.Printf("failed to send message to %s: %v", id, err)
		h.drop(sub, "write_failed")
	}
}

// Run broadcasts at the configured interval until ctx ends. Unchanged
// snapshots are not resent.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.mu.Lock()
			changed := h.version != h.sent
			h.sent = h.version
			h.mu.Unlock()
			if changed {
				h.Broadcast()
			}
		}
	}
}

// Close disconnects every observer.
func (h *Hub) Close() {
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()
	for _, sub := range subs {
		h.drop(sub, "shutdown")
	}
}
