package sim

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/exotic24-7/zephyrax.io/internal/telemetry"
	"github.com/exotic24-7/zephyrax.io/logging"
	"github.com/exotic24-7/zephyrax.io/logging/simulation"
)

const (
	// CommandRejectQueueLimit indicates a command was dropped due to per-actor
	// queue throttling.
	CommandRejectQueueLimit = "queue_limit"
	// CommandRejectQueueFull indicates the global command buffer is saturated.
	CommandRejectQueueFull = "queue_full"
)

// LoopConfig tunes the command buffer and tick loop orchestration.
type LoopConfig struct {
	TickRate        int
	CatchupMaxTicks int
	CommandCapacity int
	PerActorLimit   int
	WarningStep     int
}

// LoopTickContext describes the tick about to run.
type LoopTickContext struct {
	Tick  uint64
	Now   time.Time
	Delta time.Duration
}

// LoopStepResult summarises one executed tick.
type LoopStepResult struct {
	Tick         uint64
	Now          time.Time
	Delta        time.Duration
	Snapshot     Snapshot
	Commands     []Command
	Rejected     []CommandError
	Duration     time.Duration
	Budget       time.Duration
	ClampedDelta bool
	MaxDelta     time.Duration
}

// LoopHooks are optional callbacks around each tick.
type LoopHooks struct {
	Prepare        func(LoopTickContext)
	AfterStep      func(LoopStepResult)
	OnQueueWarning func(length int)
	OnCommandDrop  func(reason string, cmd Command)
}

// Loop coordinates command ingestion and the fixed-timestep simulation runner.
type Loop struct {
	core      EngineCore
	buffer    *CommandBuffer
	hooks     LoopHooks
	config    LoopConfig
	logger    telemetry.Logger
	metrics   telemetry.Metrics
	publisher logging.Publisher
	clock     logging.Clock

	queueMu       sync.Mutex
	perActorCount map[string]int
	dropCounts    map[string]uint64

	tick          uint64
	overrunStreak uint64
}

// NewLoop wraps the provided engine core with a ring-buffer queue and loop.
func NewLoop(core EngineCore, cfg LoopConfig, hooks LoopHooks) *Loop {
	if core == nil {
		return nil
	}
	deps := core.Deps().withDefaults()
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	return &Loop{
		core:          core,
		buffer:        NewCommandBuffer(cfg.CommandCapacity, deps.Metrics),
		hooks:         hooks,
		config:        cfg,
		logger:        deps.Logger,
		metrics:       deps.Metrics,
		publisher:     deps.Publisher,
		clock:         deps.Clock,
		perActorCount: make(map[string]int),
		dropCounts:    make(map[string]uint64),
	}
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}
	return l.buffer.Len()
}

// Enqueue stages a command, enforcing per-actor throttling and capacity limits.
func (l *Loop) Enqueue(cmd Command) (bool, string) {
	if l == nil {
		return false, CommandRejectQueueFull
	}
	reason := ""
	var dropCount uint64
	l.queueMu.Lock()
	if l.config.PerActorLimit > 0 && cmd.ActorID != "" {
		count := l.perActorCount[cmd.ActorID]
		if count >= l.config.PerActorLimit {
			reason = CommandRejectQueueLimit
			dropCount = l.incrementDropLocked(cmd.ActorID)
		} else {
			l.perActorCount[cmd.ActorID] = count + 1
		}
	}
	if reason == "" {
		if !l.buffer.Push(cmd) {
			reason = CommandRejectQueueFull
			dropCount = l.incrementDropLocked(cmd.ActorID)
		} else if l.config.WarningStep > 0 {
			length := l.buffer.Len()
			if length >= l.config.WarningStep && length%l.config.WarningStep == 0 {
				l.queueMu.Unlock()
				l.warnQueue(length)
				return true, ""
			}
		}
	}
	l.queueMu.Unlock()
	if reason != "" {
		l.reportDrop(reason, cmd, dropCount)
		return false, reason
	}
	return true, ""
}

// Snapshot returns the engine's current state. It must not be called while
// Run is driving the engine.
func (l *Loop) Snapshot() Snapshot {
	if l == nil {
		return Snapshot{}
	}
	return l.core.Snapshot()
}

// Advance executes a single simulation step using the staged commands and
// reports it to the AfterStep hook.
func (l *Loop) Advance(ctx LoopTickContext) LoopStepResult {
	if l == nil {
		return LoopStepResult{}
	}
	result := l.step(ctx)
	l.afterStep(result)
	return result
}

func (l *Loop) step(ctx LoopTickContext) LoopStepResult {
	commands := l.drainCommands()
	if l.hooks.Prepare != nil {
		l.hooks.Prepare(ctx)
	}
	result := LoopStepResult{
		Tick:     ctx.Tick,
		Now:      ctx.Now,
		Delta:    ctx.Delta,
		Commands: commands,
	}
	if err := l.core.Apply(commands); err != nil {
		var applyErr *ApplyError
		if errors.As(err, &applyErr) {
			result.Rejected = applyErr.Failures
		}
	}
	l.core.Step(ctx.Delta)
	result.Snapshot = l.core.Snapshot()
	return result
}

func (l *Loop) afterStep(result LoopStepResult) {
	if l.hooks.AfterStep != nil {
		l.hooks.AfterStep(result)
	}
}

// Run drives the fixed-timestep loop until the stop channel closes.
func (l *Loop) Run(stop <-chan struct{}) {
	if l == nil {
		return
	}
	tickRate := l.config.TickRate
	budget := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(budget)
	defer ticker.Stop()

	maxDelta := budget
	if l.config.CatchupMaxTicks > 1 {
		maxDelta = budget * time.Duration(l.config.CatchupMaxTicks)
	}
	last := l.clock.Now()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := l.clock.Now()
			dt := now.Sub(last)
			clamped := false
			if dt <= 0 {
				dt = budget
			} else if dt > maxDelta {
				dt = maxDelta
				clamped = true
			}
			last = now
			l.tick++

			start := l.clock.Now()
			result := l.step(LoopTickContext{Tick: l.tick, Now: now, Delta: dt})
			result.Duration = l.clock.Now().Sub(start)
			result.Budget = budget
			result.ClampedDelta = clamped
			result.MaxDelta = maxDelta
			l.trackBudget(result)
			l.afterStep(result)
		}
	}
}

func (l *Loop) trackBudget(result LoopStepResult) {
	if result.Budget <= 0 || result.Duration <= result.Budget {
		l.overrunStreak = 0
		return
	}
	l.overrunStreak++
	l.metrics.Add(telemetry.MetricTickOverruns, 1)
	simulation.TickBudgetOverrun(context.Background(), l.publisher, result.Snapshot.Tick, simulation.TickBudgetOverrunPayload{
		DurationMillis: result.Duration.Milliseconds(),
		BudgetMillis:   result.Budget.Milliseconds(),
		Ratio:          float64(result.Duration) / float64(result.Budget),
		Streak:         l.overrunStreak,
	}, nil)
}

func (l *Loop) drainCommands() []Command {
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	commands := l.buffer.Drain()
	if len(l.perActorCount) > 0 {
		l.perActorCount = make(map[string]int)
	}
	return commands
}

func (l *Loop) incrementDropLocked(actorID string) uint64 {
	if actorID == "" {
		return 0
	}
	count := l.dropCounts[actorID] + 1
	l.dropCounts[actorID] = count
	return count
}

func (l *Loop) warnQueue(length int) {
	if l.hooks.OnQueueWarning != nil {
		l.hooks.OnQueueWarning(length)
	}
}

func (l *Loop) reportDrop(reason string, cmd Command, count uint64) {
	l.metrics.Add(telemetry.MetricCommandsDropped, 1)
	if l.hooks.OnCommandDrop != nil {
		l.hooks.OnCommandDrop(reason, cmd)
	}
	if count > 0 && count&(count-1) == 0 {
		l.logger.Printf(
			"[backpressure] dropping command actor=%s type=%s reason=%s count=%d limit=%d",
			cmd.ActorID,
			cmd.Type,
			reason,
			count,
			l.config.PerActorLimit,
		)
	}
}
