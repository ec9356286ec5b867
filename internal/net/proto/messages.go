// Package proto defines the websocket wire format between the server and
// observers.
package proto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/exotic24-7/zephyrax.io/internal/command"
	"github.com/exotic24-7/zephyrax.io/internal/rarity"
	"github.com/exotic24-7/zephyrax.io/internal/sim"
	"github.com/exotic24-7/zephyrax.io/internal/state"
)

const (
	// Version tracks the wire-protocol revision expected by clients.
	Version = 1

	typeCommandAck    = "commandAck"
	typeCommandReject = "commandReject"
	typeState         = "state"
	typeChat          = "chat"
)

// Client message type identifiers.
const (
	TypeMove    = "move"
	TypeAim     = "aim"
	TypeAttack  = "attack"
	TypeUse     = "use"
	TypeEquip   = "equip"
	TypeUnequip = "unequip"
	TypeSwap    = "swap"
	TypeExpand  = "expand"
	TypeRespawn = "respawn"
	TypeChat    = typeChat
)

// Exported aliases for outbound message type identifiers.
const (
	TypeState         = typeState
	TypeCommandAck    = typeCommandAck
	TypeCommandReject = typeCommandReject
)

var (
	// ErrUnsupportedVersion reports a client speaking another protocol
	// revision.
	ErrUnsupportedVersion = errors.New("proto: unsupported client protocol version")
	// ErrUnknownType reports a message type with no command mapping.
	ErrUnknownType = errors.New("proto: unknown message type")
	// ErrChatText reports a chat line that is plain text, not a command.
	ErrChatText = errors.New("proto: chat text")
)

// ClientMessage captures an inbound websocket message from an observer.
type ClientMessage struct {
	Ver      int     `json:"ver,omitempty"`
	Type     string  `json:"type"`
	DX       float64 `json:"dx,omitempty"`
	DY       float64 `json:"dy,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Slot     int     `json:"slot,omitempty"`
	Row      string  `json:"row,omitempty"`
	Item     string  `json:"item,omitempty"`
	Rarity   string  `json:"rarity,omitempty"`
	Expanded bool    `json:"expanded,omitempty"`
	Text     string  `json:"text,omitempty"`
	Seq      *uint64 `json:"seq,omitempty"`
}

// DecodeClientMessage converts raw websocket payloads into a structured message.
func DecodeClientMessage(payload []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg, err
	}
	if msg.Ver == 0 {
		msg.Ver = Version
	}
	if msg.Ver != Version {
		return msg, fmt.Errorf("%w: %d", ErrUnsupportedVersion, msg.Ver)
	}
	return msg, nil
}

// ClientCommand maps a websocket message onto a simulation command. Origin
// metadata is populated by the intake when the command is queued. Chat lines
// that are not commands return ErrChatText.
func ClientCommand(msg ClientMessage) (sim.Command, error) {
	switch msg.Type {
	case TypeMove:
		return sim.Command{Type: sim.CommandMove, Move: &sim.MoveCommand{DX: msg.DX, DY: msg.DY}}, nil
	case TypeAim:
		return sim.Command{Type: sim.CommandAim, Point: &sim.PointCommand{X: msg.X, Y: msg.Y}}, nil
	case TypeAttack:
		return sim.Command{Type: sim.CommandAttack, Point: &sim.PointCommand{X: msg.X, Y: msg.Y}}, nil
	case TypeUse:
		return sim.Command{Type: sim.CommandUse}, nil
	case TypeEquip, TypeUnequip, TypeSwap:
		row, err := state.ParseRow(msg.Row)
		if err != nil {
			return sim.Command{}, err
		}
		slot := &sim.SlotCommand{Slot: msg.Slot, Row: row}
		cmdType := sim.CommandSwap
		switch msg.Type {
		case TypeEquip:
			cmdType = sim.CommandEquip
			slot.ItemType = strings.TrimSpace(msg.Item)
			if tier, ok := rarity.Parse(msg.Rarity); ok {
				slot.Rarity = tier
			}
		case TypeUnequip:
			cmdType = sim.CommandUnequip
		}
		return sim.Command{Type: cmdType, Slot: slot}, nil
	case TypeExpand:
		return sim.Command{Type: sim.CommandExpand, Expand: &sim.ExpandCommand{Expanded: msg.Expanded}}, nil
	case TypeRespawn:
		return sim.Command{Type: sim.CommandRespawn}, nil
	case TypeChat:
		cmd, err := command.Parse(msg.Text)
		if errors.Is(err, command.ErrNotCommand) {
			return sim.Command{}, ErrChatText
		}
		return cmd, err
	default:
		return sim.Command{}, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
}

// StateMessage carries a full snapshot.
type StateMessage struct {
	Ver   int          `json:"ver"`
	Type  string       `json:"type"`
	State sim.Snapshot `json:"state"`
}

// EncodeState renders a state snapshot payload.
func EncodeState(snapshot sim.Snapshot) ([]byte, error) {
	return json.Marshal(StateMessage{Ver: Version, Type: typeState, State: snapshot})
}

// CommandAck acknowledges a queued command.
type CommandAck struct {
	Seq  uint64
	Tick uint64
}

// EncodeCommandAck renders a command acknowledgement response.
func EncodeCommandAck(msg CommandAck) ([]byte, error) {
	return json.Marshal(struct {
		Ver  int    `json:"ver"`
		Type string `json:"type"`
		Seq  uint64 `json:"seq"`
		Tick uint64 `json:"tick,omitempty"`
	}{Version, typeCommandAck, msg.Seq, msg.Tick})
}

// CommandReject reports a command that could not be queued or applied.
type CommandReject struct {
	Seq    uint64
	Reason string
	Retry  bool
	Tick   uint64
}

// EncodeCommandReject renders a command rejection response.
func EncodeCommandReject(msg CommandReject) ([]byte, error) {
	return json.Marshal(struct {
		Ver    int    `json:"ver"`
		Type   string `json:"type"`
		Seq    uint64 `json:"seq,omitempty"`
		Reason string `json:"reason"`
		Retry  bool   `json:"retry,omitempty"`
		Tick   uint64 `json:"tick,omitempty"`
	}{Version, typeCommandReject, msg.Seq, msg.Reason, msg.Retry, msg.Tick})
}

// ChatMessage is a line in the chat log. System lines are replies generated
// by the server.
type ChatMessage struct {
	Ver    int    `json:"ver"`
	Type   string `json:"type"`
	From   string `json:"from,omitempty"`
	Text   string `json:"text"`
	System bool   `json:"system,omitempty"`
}

// EncodeChat renders a chat line.
func EncodeChat(from, text string, system bool) ([]byte, error) {
	return json.Marshal(ChatMessage{Ver: Version, Type: typeChat, From: from, Text: text, System: system})
}

// ServerMessage is the union of outbound messages, used by clients to
// dispatch on Type.
type ServerMessage struct {
	Ver    int           `json:"ver"`
	Type   string        `json:"type"`
	State  *sim.Snapshot `json:"state,omitempty"`
	Seq    uint64        `json:"seq,omitempty"`
	Tick   uint64        `json:"tick,omitempty"`
	Reason string        `json:"reason,omitempty"`
	Retry  bool          `json:"retry,omitempty"`
	From   string        `json:"from,omitempty"`
	Text   string        `json:"text,omitempty"`
	System bool          `json:"system,omitempty"`
}

// DecodeServerMessage parses an outbound message on the client side.
func DecodeServerMessage(payload []byte) (ServerMessage, error) {
	var msg ServerMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg, err
	}
	return msg, nil
}
