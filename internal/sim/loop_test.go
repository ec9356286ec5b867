package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exotic24-7/zephyrax.io/internal/state"
	"github.com/exotic24-7/zephyrax.io/logging/simulation"
)

func TestLoopEnqueueThrottlesPerActor(t *testing.T) {
	engine, _ := newTestEngine(t)
	var drops []string
	loop := NewLoop(engine, LoopConfig{CommandCapacity: 8, PerActorLimit: 2}, LoopHooks{
		OnCommandDrop: func(reason string, _ Command) { drops = append(drops, reason) },
	})
	require.NotNil(t, loop)

	cmd := Command{ActorID: "observer", Type: CommandUse}
	ok, _ := loop.Enqueue(cmd)
	assert.True(t, ok)
	ok, _ = loop.Enqueue(cmd)
	assert.True(t, ok)
	ok, reason := loop.Enqueue(cmd)
	assert.False(t, ok)
	assert.Equal(t, CommandRejectQueueLimit, reason)
	assert.Equal(t, []string{CommandRejectQueueLimit}, drops)
	assert.Equal(t, 2, loop.Pending())

	loop.Advance(LoopTickContext{Tick: 1, Delta: FrameDuration})
	assert.Zero(t, loop.Pending())
	ok, _ = loop.Enqueue(cmd)
	assert.True(t, ok, "per-actor budget resets after a tick")
}

func TestLoopEnqueueRejectsWhenFull(t *testing.T) {
	engine, _ := newTestEngine(t)
	loop := NewLoop(engine, LoopConfig{CommandCapacity: 1}, LoopHooks{})

	ok, _ := loop.Enqueue(Command{Type: CommandUse})
	require.True(t, ok)
	ok, reason := loop.Enqueue(Command{Type: CommandUse})
	assert.False(t, ok)
	assert.Equal(t, CommandRejectQueueFull, reason)
}

func TestLoopAdvanceAppliesCommandsAndReportsRejections(t *testing.T) {
	engine, rec := newTestEngine(t)
	isolate(t, engine)
	loop := NewLoop(engine, LoopConfig{}, LoopHooks{})

	loop.Enqueue(Command{ActorID: "a", Type: CommandExpand, Expand: &ExpandCommand{Expanded: true}})
	loop.Enqueue(Command{ActorID: "a", Type: CommandSetWave, Wave: &WaveCommand{Wave: 0}})
	loop.Enqueue(Command{ActorID: "a", Type: CommandMove})
	loop.Enqueue(Command{ActorID: "a", Type: "Dance"})

	result := loop.Advance(LoopTickContext{Tick: 1, Now: time.Unix(0, 0), Delta: FrameDuration})

	assert.True(t, engine.Player().Expanded)
	assert.Len(t, result.Commands, 4)
	require.Len(t, result.Rejected, 3)
	assert.ErrorIs(t, result.Rejected[1], ErrMissingPayload)
	assert.ErrorIs(t, result.Rejected[2], ErrUnknownCommand)
	assert.Equal(t, uint64(1), result.Snapshot.Tick)
	assert.Len(t, rec.ofType(simulation.EventCommandRejected), 3)
}

func TestApplyRunsEveryCommand(t *testing.T) {
	engine, _ := newTestEngine(t)
	require.NoError(t, engine.AddToInventory("Light", 0, 1))

	err := engine.Apply([]Command{
		{Type: CommandEquip, Slot: &SlotCommand{Slot: 0, Row: state.RowMain, ItemType: "Light"}},
		{Type: CommandEquip, Slot: &SlotCommand{Slot: 0, Row: state.RowMain, ItemType: "Light"}},
		{Type: CommandMove, Move: &MoveCommand{DX: 0, DY: -2}},
	})

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	require.Len(t, applyErr.Failures, 1)
	assert.ErrorIs(t, applyErr.Failures[0], state.ErrSlotOccupied)
	assert.Equal(t, "Light", engine.Player().Main[0].Type)
	assert.Equal(t, -1.0, engine.Player().MoveY)
}

func TestLoopAdvanceReportsToAfterStep(t *testing.T) {
	engine, _ := newTestEngine(t)
	var results []LoopStepResult
	loop := NewLoop(engine, LoopConfig{}, LoopHooks{
		AfterStep: func(result LoopStepResult) { results = append(results, result) },
	})

	assert.Equal(t, uint64(0), loop.Snapshot().Tick)
	assert.Equal(t, 1, loop.Snapshot().Wave)

	loop.Enqueue(Command{ActorID: "a", Type: CommandSetWave, Wave: &WaveCommand{Wave: 3}})
	loop.Advance(LoopTickContext{Tick: 1, Delta: FrameDuration})
	loop.Advance(LoopTickContext{Tick: 2, Delta: FrameDuration})

	require.Len(t, results, 2)
	require.Len(t, results[0].Commands, 1)
	assert.Equal(t, CommandSetWave, results[0].Commands[0].Type)
	assert.Equal(t, 3, results[0].Snapshot.Wave)
	assert.Equal(t, uint64(2), results[1].Snapshot.Tick)
	assert.Empty(t, results[1].Commands)
}
