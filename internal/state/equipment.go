package state

import (
	"errors"
	"fmt"

	"github.com/exotic24-7/zephyrax.io/internal/rarity"
)

// RowSize is the number of slots in each equip row.
const RowSize = 10

var (
	ErrSlotOutOfRange        = errors.New("state: slot index out of range")
	ErrSlotOccupied          = errors.New("state: slot occupied")
	ErrSlotEmpty             = errors.New("state: slot empty")
	ErrInsufficientInventory = errors.New("state: insufficient inventory")
	ErrUnknownRow            = errors.New("state: unknown row")
)

// RowKind selects the main or swap equip row.
type RowKind int

const (
	RowMain RowKind = iota
	RowSwap
)

func (r RowKind) String() string {
	switch r {
	case RowMain:
		return "main"
	case RowSwap:
		return "swap"
	default:
		return fmt.Sprintf("RowKind(%d)", int(r))
	}
}

// ParseRow resolves a row name.
func ParseRow(value string) (RowKind, error) {
	switch value {
	case "", "main":
		return RowMain, nil
	case "swap":
		return RowSwap, nil
	default:
		return RowMain, fmt.Errorf("%w: %q", ErrUnknownRow, value)
	}
}

// Slot is the content of an equip slot. A consumed slot keeps its position
// with Empty set and Type cleared.
type Slot struct {
	Type   string      `json:"type,omitempty"`
	Rarity rarity.Tier `json:"rarity"`
	Stack  int         `json:"stack"`
	Empty  bool        `json:"empty,omitempty"`
}

// Active reports whether the slot holds a usable item.
func (s *Slot) Active() bool {
	return s != nil && !s.Empty && s.Type != ""
}

// Consume decrements the stack by one. At zero the slot becomes empty and
// its type is cleared. It reports whether the slot emptied.
func (s *Slot) Consume() bool {
	if s == nil {
		return false
	}
	s.Stack--
	if s.Stack <= 0 {
		s.Stack = 0
		s.Empty = true
		s.Type = ""
		return true
	}
	return false
}

// Spend decrements the stack by one. At zero the slot becomes empty but
// keeps its type. It reports whether the slot emptied.
func (s *Slot) Spend() bool {
	if s == nil || s.Empty {
		return false
	}
	s.Stack--
	if s.Stack <= 0 {
		s.Stack = 0
		s.Empty = true
		return true
	}
	return false
}

// Clone returns a copy of the slot, or nil.
func (s *Slot) Clone() *Slot {
	if s == nil {
		return nil
	}
	copied := *s
	return &copied
}

// Row is a fixed array of nullable slots.
type Row [RowSize]*Slot

// Clone deep-copies the row.
func (r Row) Clone() Row {
	var out Row
	for i, slot := range r {
		out[i] = slot.Clone()
	}
	return out
}

// ValidSlot reports whether index addresses a row position.
func ValidSlot(index int) bool {
	return index >= 0 && index < RowSize
}
