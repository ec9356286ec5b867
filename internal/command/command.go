// Package command parses the `$`-prefixed chat commands into simulation
// commands and renders the replies shown to the issuing observer.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/exotic24-7/zephyrax.io/internal/rarity"
	"github.com/exotic24-7/zephyrax.io/internal/sim"
)

// Prefix marks a chat line as a command.
const Prefix = "$"

const (
	nameSetWave  = "$setwave"
	nameSpawnMob = "$spawnmob"
)

var (
	// ErrNotCommand reports a plain chat line.
	ErrNotCommand = errors.New("command: not a command")
	// ErrUnknown reports a `$` line naming no known command.
	ErrUnknown = errors.New("command: unknown command")
	// ErrUsage reports missing or malformed arguments.
	ErrUsage = errors.New("command: usage")
)

// Parse converts a chat line into a simulation command. Lines without the
// prefix return ErrNotCommand.
func Parse(line string) (sim.Command, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, Prefix) {
		return sim.Command{}, ErrNotCommand
	}
	parts := strings.Fields(trimmed)
	name := strings.ToLower(parts[0])
	switch name {
	case nameSetWave:
		if len(parts) < 2 {
			return sim.Command{}, fmt.Errorf("%w: $setwave <number>", ErrUsage)
		}
		wave, err := strconv.Atoi(parts[1])
		if err != nil || wave < 1 {
			return sim.Command{}, fmt.Errorf("%w: invalid wave number %q", ErrUsage, parts[1])
		}
		return sim.Command{Type: sim.CommandSetWave, Wave: &sim.WaveCommand{Wave: wave}}, nil
	case nameSpawnMob:
		if len(parts) < 2 {
			return sim.Command{}, fmt.Errorf("%w: $spawnmob <name> [rarity]", ErrUsage)
		}
		tier := rarity.Common
		if len(parts) > 2 {
			if parsed, ok := rarity.Parse(parts[2]); ok {
				tier = parsed
			}
		}
		return sim.Command{
			Type:  sim.CommandSpawnMob,
			Spawn: &sim.SpawnCommand{Name: parts[1], Rarity: tier.Index()},
		}, nil
	default:
		return sim.Command{}, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
}

// Describe renders the reply for a command that was applied.
func Describe(cmd sim.Command) string {
	switch {
	case cmd.Type == sim.CommandSetWave && cmd.Wave != nil:
		return fmt.Sprintf("Wave set to %d", cmd.Wave.Wave)
	case cmd.Type == sim.CommandSpawnMob && cmd.Spawn != nil:
		return fmt.Sprintf("Spawned %s (%s) near player", cmd.Spawn.Name, rarity.Clamp(cmd.Spawn.Rarity))
	default:
		return string(cmd.Type)
	}
}

// Reply renders the message shown for a failed line.
func Reply(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUsage):
		return "Usage: " + strings.TrimPrefix(err.Error(), ErrUsage.Error()+": ")
	case errors.Is(err, ErrUnknown):
		return "Unknown command: " + strings.TrimPrefix(err.Error(), ErrUnknown.Error()+": ")
	default:
		return err.Error()
	}
}

// Execute parses line and applies it to engine immediately. It must run on
// the goroutine that owns the engine.
func Execute(engine *sim.Engine, line string) (string, error) {
	cmd, err := Parse(line)
	if err != nil {
		return Reply(err), err
	}
	if err := engine.ApplyCommand(cmd); err != nil {
		return err.Error(), err
	}
	return Describe(cmd), nil
}
