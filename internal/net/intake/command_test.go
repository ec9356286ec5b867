package intake

import (
	"errors"
	"testing"
	"time"

	"github.com/exotic24-7/zephyrax.io/internal/net/proto"
	"github.com/exotic24-7/zephyrax.io/internal/sim"
)

type fakeLoop struct {
	enqueueOK     bool
	enqueueReason string
	commands      []sim.Command
}

func (f *fakeLoop) Enqueue(cmd sim.Command) (bool, string) {
	f.commands = append(f.commands, cmd)
	if f.enqueueOK {
		return true, ""
	}
	if f.enqueueReason == "" {
		f.enqueueReason = sim.CommandRejectQueueLimit
	}
	return false, f.enqueueReason
}

func TestStageClientCommandAcceptsMove(t *testing.T) {
	loop := &fakeLoop{enqueueOK: true}
	issuedAt := time.Unix(100, 0)
	ctx := CommandContext{
		Loop: loop,
		Tick: func() uint64 { return 42 },
		Now:  func() time.Time { return issuedAt },
	}

	cmd, err := StageClientCommand(ctx, "observer-1", proto.ClientMessage{Type: proto.TypeMove, DX: 1})
	if err != nil {
		t.Fatalf("expected command to be accepted, got %v", err)
	}
	if cmd.ActorID != "observer-1" {
		t.Fatalf("expected ActorID to be set, got %q", cmd.ActorID)
	}
	if cmd.OriginTick != 42 {
		t.Fatalf("expected OriginTick to be 42, got %d", cmd.OriginTick)
	}
	if !cmd.IssuedAt.Equal(issuedAt) {
		t.Fatalf("expected IssuedAt %v, got %v", issuedAt, cmd.IssuedAt)
	}
	if len(loop.commands) != 1 {
		t.Fatalf("expected loop to record command, got %d", len(loop.commands))
	}
}

func TestStageClientCommandRejectsInvalidMessage(t *testing.T) {
	loop := &fakeLoop{enqueueOK: true}
	ctx := CommandContext{Loop: loop}

	_, err := StageClientCommand(ctx, "observer-1", proto.ClientMessage{Type: "teleport"})
	var rejection *Rejection
	if !errors.As(err, &rejection) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if rejection.Reason != CommandRejectInvalid || rejection.Retry() {
		t.Fatalf("unexpected rejection: %+v", rejection)
	}
	if !errors.Is(err, proto.ErrUnknownType) {
		t.Fatalf("expected unknown type cause, got %v", err)
	}
	if len(loop.commands) != 0 {
		t.Fatalf("expected nothing queued, got %d", len(loop.commands))
	}
}

func TestStageClientCommandSeparatesChatText(t *testing.T) {
	_, err := StageClientCommand(CommandContext{Loop: &fakeLoop{enqueueOK: true}}, "observer-1",
		proto.ClientMessage{Type: proto.TypeChat, Text: "hello"})
	if !errors.Is(err, proto.ErrChatText) {
		t.Fatalf("expected chat text, got %v", err)
	}
}

func TestStageClientCommandPropagatesLoopReason(t *testing.T) {
	loop := &fakeLoop{enqueueOK: false, enqueueReason: sim.CommandRejectQueueLimit}

	_, err := StageClientCommand(CommandContext{Loop: loop}, "observer-1", proto.ClientMessage{Type: proto.TypeUse})
	var rejection *Rejection
	if !errors.As(err, &rejection) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if rejection.Reason != sim.CommandRejectQueueLimit || !rejection.Retry() {
		t.Fatalf("unexpected rejection: %+v", rejection)
	}
}

func TestStageClientCommandHandlesNilLoop(t *testing.T) {
	_, err := StageClientCommand(CommandContext{}, "observer-1", proto.ClientMessage{Type: proto.TypeUse})
	var rejection *Rejection
	if !errors.As(err, &rejection) || rejection.Reason != sim.CommandRejectQueueFull {
		t.Fatalf("expected queue_full rejection, got %v", err)
	}
}
