// Package intake validates observer messages and stages them on the loop's
// command queue.
package intake

import (
	"fmt"
	"time"

	"github.com/exotic24-7/zephyrax.io/internal/net/proto"
	"github.com/exotic24-7/zephyrax.io/internal/sim"
)

// CommandRejectInvalid marks a message that does not map onto a command.
const CommandRejectInvalid = "invalid_command"

// Enqueuer is the part of sim.Loop the intake needs.
type Enqueuer interface {
	Enqueue(sim.Command) (bool, string)
}

// CommandContext supplies the queue and origin metadata.
type CommandContext struct {
	Loop Enqueuer
	Tick func() uint64
	Now  func() time.Time
}

// Rejection explains why a message was not queued.
type Rejection struct {
	Reason string
	Err    error
}

func (r *Rejection) Error() string {
	if r.Err == nil {
		return r.Reason
	}
	return fmt.Sprintf("%s: %v", r.Reason, r.Err)
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

// Retry reports whether resending later may succeed.
func (r *Rejection) Retry() bool {
	return r.Reason == sim.CommandRejectQueueLimit || r.Reason == sim.CommandRejectQueueFull
}

// StageClientCommand converts msg into a command owned by actorID and queues
// it for the next tick. A non-nil error is always a *Rejection.
func StageClientCommand(ctx CommandContext, actorID string, msg proto.ClientMessage) (sim.Command, error) {
	command, err := proto.ClientCommand(msg)
	if err != nil {
		return sim.Command{}, &Rejection{Reason: CommandRejectInvalid, Err: err}
	}

	command.ActorID = actorID
	if ctx.Tick != nil {
		command.OriginTick = ctx.Tick()
	}
	if ctx.Now != nil {
		command.IssuedAt = ctx.Now()
	} else {
		command.IssuedAt = time.Now()
	}

	if ctx.Loop == nil {
		return sim.Command{}, &Rejection{Reason: sim.CommandRejectQueueFull}
	}
	if ok, reason := ctx.Loop.Enqueue(command); !ok {
		return sim.Command{}, &Rejection{Reason: reason}
	}
	return command, nil
}
