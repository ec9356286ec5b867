package viewer

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/exotic24-7/zephyrax.io/internal/net/proto"
	"github.com/exotic24-7/zephyrax.io/internal/state"
)

// Input tracks local control state and turns terminal events into client
// messages. Terminals report key presses only, so a direction key latches
// movement on its axis until the opposite key or the stop key.
type Input struct {
	dx, dy   float64
	expanded bool
	typing   bool
	prompt   []rune
	quit     bool
	buttons  tcell.ButtonMask
}

// Typing reports whether the chat prompt is open.
func (in *Input) Typing() bool { return in.typing }

// Prompt returns the text typed so far.
func (in *Input) Prompt() string { return string(in.prompt) }

// Quit reports whether the user asked to leave.
func (in *Input) Quit() bool { return in.quit }

// Handle maps one event to zero or more outbound messages. layout converts
// mouse positions into arena coordinates.
func (in *Input) Handle(ev tcell.Event, layout Layout) []proto.ClientMessage {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if in.typing {
			return in.handlePrompt(ev)
		}
		return in.handleKey(ev)
	case *tcell.EventMouse:
		return in.handleMouse(ev, layout)
	}
	return nil
}

func (in *Input) handleKey(ev *tcell.EventKey) []proto.ClientMessage {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		in.quit = true
		return nil
	case tcell.KeyUp:
		return in.move(in.dx, -1)
	case tcell.KeyDown:
		return in.move(in.dx, 1)
	case tcell.KeyLeft:
		return in.move(-1, in.dy)
	case tcell.KeyRight:
		return in.move(1, in.dy)
	case tcell.KeyEnter:
		in.typing = true
		in.prompt = in.prompt[:0]
		return nil
	case tcell.KeyRune:
	default:
		return nil
	}

	r := ev.Rune()
	switch r {
	case 'q':
		in.quit = true
		return nil
	case 'w':
		return in.move(in.dx, -1)
	case 's':
		return in.move(in.dx, 1)
	case 'a':
		return in.move(-1, in.dy)
	case 'd':
		return in.move(1, in.dy)
	case 'x', ' ':
		return in.move(0, 0)
	case 'e':
		in.expanded = !in.expanded
		return []proto.ClientMessage{{Type: proto.TypeExpand, Expanded: in.expanded}}
	case 'u':
		return []proto.ClientMessage{{Type: proto.TypeUse}}
	case 'r':
		return []proto.ClientMessage{{Type: proto.TypeRespawn}}
	case '/':
		in.typing = true
		in.prompt = in.prompt[:0]
		return nil
	case '$':
		in.typing = true
		in.prompt = append(in.prompt[:0], r)
		return nil
	}
	if r >= '0' && r <= '9' {
		return []proto.ClientMessage{{Type: proto.TypeSwap, Slot: digitSlot(r), Row: state.RowMain.String()}}
	}
	return nil
}

// digitSlot maps keys 1..9,0 onto slots 0..9.
func digitSlot(r rune) int {
	if r == '0' {
		return state.RowSize - 1
	}
	return int(r - '1')
}

func (in *Input) move(dx, dy float64) []proto.ClientMessage {
	in.dx, in.dy = dx, dy
	return []proto.ClientMessage{{Type: proto.TypeMove, DX: dx, DY: dy}}
}

func (in *Input) handlePrompt(ev *tcell.EventKey) []proto.ClientMessage {
	switch ev.Key() {
	case tcell.KeyEscape:
		in.typing = false
		in.prompt = in.prompt[:0]
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(in.prompt); n > 0 {
			in.prompt = in.prompt[:n-1]
		}
	case tcell.KeyEnter:
		text := strings.TrimSpace(string(in.prompt))
		in.typing = false
		in.prompt = in.prompt[:0]
		if text == "" {
			return nil
		}
		return []proto.ClientMessage{{Type: proto.TypeChat, Text: text}}
	case tcell.KeyRune:
		in.prompt = append(in.prompt, ev.Rune())
	}
	return nil
}

// handleMouse aims on motion and attacks on a fresh left click.
func (in *Input) handleMouse(ev *tcell.EventMouse, layout Layout) []proto.ClientMessage {
	col, row := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && in.buttons&tcell.Button1 == 0
	in.buttons = buttons
	x, y, ok := layout.Point(col, row)
	if !ok {
		return nil
	}
	if pressed {
		return []proto.ClientMessage{{Type: proto.TypeAttack, X: x, Y: y}}
	}
	return []proto.ClientMessage{{Type: proto.TypeAim, X: x, Y: y}}
}
