package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/exotic24-7/zephyrax.io/internal/rarity"
	"github.com/exotic24-7/zephyrax.io/internal/state"
	"github.com/exotic24-7/zephyrax.io/logging"
	"github.com/exotic24-7/zephyrax.io/logging/simulation"
)

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	CommandMove     CommandType = "Move"
	CommandAim      CommandType = "Aim"
	CommandAttack   CommandType = "Attack"
	CommandUse      CommandType = "Use"
	CommandEquip    CommandType = "Equip"
	CommandUnequip  CommandType = "Unequip"
	CommandSwap     CommandType = "Swap"
	CommandExpand   CommandType = "Expand"
	CommandRespawn  CommandType = "Respawn"
	CommandSetWave  CommandType = "SetWave"
	CommandSpawnMob CommandType = "SpawnMob"
)

// ErrUnknownCommand indicates a command type the engine does not handle.
var ErrUnknownCommand = errors.New("sim: unknown command")

// ErrMissingPayload indicates a command without the payload its type needs.
var ErrMissingPayload = errors.New("sim: command payload missing")

// MoveCommand carries the desired movement direction.
type MoveCommand struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// PointCommand carries an arena position for aiming and attacks.
type PointCommand struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SlotCommand addresses an equip slot. ItemType and Rarity are only read by
// equip.
type SlotCommand struct {
	Slot     int           `json:"slot"`
	Row      state.RowKind `json:"row"`
	ItemType string        `json:"itemType,omitempty"`
	Rarity   rarity.Tier   `json:"rarity"`
}

// ExpandCommand toggles the expanded orbit.
type ExpandCommand struct {
	Expanded bool `json:"expanded"`
}

// WaveCommand jumps to a wave.
type WaveCommand struct {
	Wave int `json:"wave"`
}

// SpawnCommand spawns a debug mob.
type SpawnCommand struct {
	Name   string `json:"name"`
	Rarity int    `json:"rarity"`
}

// Command represents an intent captured for processing on the next tick.
type Command struct {
	OriginTick uint64         `json:"originTick"`
	ActorID    string         `json:"actorId"`
	Type       CommandType    `json:"type"`
	IssuedAt   time.Time      `json:"issuedAt"`
	Move       *MoveCommand   `json:"move,omitempty"`
	Point      *PointCommand  `json:"point,omitempty"`
	Slot       *SlotCommand   `json:"slot,omitempty"`
	Expand     *ExpandCommand `json:"expand,omitempty"`
	Wave       *WaveCommand   `json:"wave,omitempty"`
	Spawn      *SpawnCommand  `json:"spawn,omitempty"`
}

// CommandError pairs a rejected command with the reason.
type CommandError struct {
	Command Command
	Err     error
}

func (e CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command.Type, e.Err)
}

func (e CommandError) Unwrap() error {
	return e.Err
}

// ApplyError lists every command rejected by one Apply call.
type ApplyError struct {
	Failures []CommandError
}

func (e *ApplyError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return "rejected commands: " + strings.Join(parts, "; ")
}

// Apply executes commands in order. Rejections do not stop later commands;
// they are published and returned together as an *ApplyError.
func (e *Engine) Apply(cmds []Command) error {
	var failures []CommandError
	for _, cmd := range cmds {
		if err := e.ApplyCommand(cmd); err != nil {
			failures = append(failures, CommandError{Command: cmd, Err: err})
			actor := logging.EntityRef{ID: cmd.ActorID, Kind: logging.EntityKindUnknown}
			simulation.CommandRejected(context.Background(), e.deps.Publisher, e.world.Tick, actor,
				simulation.CommandRejectedPayload{Command: string(cmd.Type), Reason: err.Error()}, nil)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &ApplyError{Failures: failures}
}

// ApplyCommand executes a single command immediately.
func (e *Engine) ApplyCommand(cmd Command) error {
	switch cmd.Type {
	case CommandMove:
		if cmd.Move == nil {
			return ErrMissingPayload
		}
		e.SetMoveIntent(cmd.Move.DX, cmd.Move.DY)
	case CommandAim:
		if cmd.Point == nil {
			return ErrMissingPayload
		}
		e.SetAim(cmd.Point.X, cmd.Point.Y)
	case CommandAttack:
		if cmd.Point == nil {
			return ErrMissingPayload
		}
		e.SetAim(cmd.Point.X, cmd.Point.Y)
		e.TriggerAttack(cmd.Point.X, cmd.Point.Y)
	case CommandUse:
		e.TriggerItemUse()
	case CommandEquip:
		if cmd.Slot == nil {
			return ErrMissingPayload
		}
		return e.Equip(cmd.Slot.Slot, cmd.Slot.Row, cmd.Slot.ItemType, cmd.Slot.Rarity)
	case CommandUnequip:
		if cmd.Slot == nil {
			return ErrMissingPayload
		}
		return e.Unequip(cmd.Slot.Slot, cmd.Slot.Row)
	case CommandSwap:
		if cmd.Slot == nil {
			return ErrMissingPayload
		}
		return e.SwapSlot(cmd.Slot.Slot)
	case CommandExpand:
		if cmd.Expand == nil {
			return ErrMissingPayload
		}
		e.SetExpanded(cmd.Expand.Expanded)
	case CommandRespawn:
		e.Respawn()
	case CommandSetWave:
		if cmd.Wave == nil {
			return ErrMissingPayload
		}
		return e.SetWave(cmd.Wave.Wave)
	case CommandSpawnMob:
		if cmd.Spawn == nil {
			return ErrMissingPayload
		}
		_, err := e.SpawnDebugMob(cmd.Spawn.Name, cmd.Spawn.Rarity)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	return nil
}
