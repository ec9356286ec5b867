package sim

import (
	"sync"

	"github.com/exotic24-7/zephyrax.io/internal/telemetry"
)

const (
	metricCommandsQueued   = "sim_command_buffer_occupancy"
	metricCommandsPeak     = "sim_command_buffer_peak"
	metricCommandsOverflow = "sim_command_buffer_overflow_total"
)

// DefaultCommandCapacity bounds how many observer commands may wait for the
// next tick when LoopConfig leaves it unset.
const DefaultCommandCapacity = 256

// CommandBuffer collects observer commands between ticks. Session
// goroutines push concurrently; the loop takes the whole batch once per tick
// so every command staged before a tick is applied in arrival order.
type CommandBuffer struct {
	mu       sync.Mutex
	staged   []Command
	capacity int
	peak     int
	metrics  telemetry.Metrics
}

// NewCommandBuffer returns an empty buffer holding at most capacity
// commands. Non-positive capacities use DefaultCommandCapacity.
func NewCommandBuffer(capacity int, metrics telemetry.Metrics) *CommandBuffer {
	if capacity < 1 {
		capacity = DefaultCommandCapacity
	}
	return &CommandBuffer{capacity: capacity, metrics: metrics}
}

func (b *CommandBuffer) Capacity() int {
	if b == nil {
		return 0
	}
	return b.capacity
}

// Push stages cmd for the next tick. It reports false when the batch is
// already full.
func (b *CommandBuffer) Push(cmd Command) bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.staged) >= b.capacity {
		b.add(metricCommandsOverflow, 1)
		return false
	}
	if b.staged == nil {
		b.staged = make([]Command, 0, min(b.capacity, 16))
	}
	b.staged = append(b.staged, cmd)
	if len(b.staged) > b.peak {
		b.peak = len(b.staged)
		b.store(metricCommandsPeak, b.peak)
	}
	b.store(metricCommandsQueued, len(b.staged))
	return true
}

// Drain hands the staged batch to the caller, oldest first, and starts a new
// one. The returned slice is never reused by the buffer.
func (b *CommandBuffer) Drain() []Command {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.staged) == 0 {
		return nil
	}
	batch := b.staged
	b.staged = nil
	b.store(metricCommandsQueued, 0)
	return batch
}

// Len reports how many commands wait for the next tick.
func (b *CommandBuffer) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.staged)
}

func (b *CommandBuffer) add(key string, delta uint64) {
	if b.metrics != nil {
		b.metrics.Add(key, delta)
	}
}

func (b *CommandBuffer) store(key string, value int) {
	if b.metrics != nil {
		b.metrics.Store(key, uint64(value))
	}
}
