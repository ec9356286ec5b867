package viewer

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/exotic24-7/zephyrax.io/internal/rarity"
	"github.com/exotic24-7/zephyrax.io/internal/sim"
	"github.com/exotic24-7/zephyrax.io/internal/state"
)

// Rows reserved below the arena for the status line, chat log and prompt.
const (
	hudRows  = 1
	chatRows = 3
	footer   = hudRows + chatRows + 1
)

const (
	glyphPlayer     = '@'
	glyphPetal      = '*'
	glyphDrop       = '+'
	glyphProjectile = '.'
	glyphStray      = 'o'
	glyphBorder     = '#'
)

var (
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleDead    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleBorder  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleChat    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleSystem  = tcell.StyleDefault.Foreground(tcell.ColorLightGreen)
	stylePrompt  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleShot    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleHostile = tcell.StyleDefault.Foreground(tcell.ColorOrangeRed)
)

var rainbow = []tcell.Color{
	tcell.ColorRed,
	tcell.ColorOrange,
	tcell.ColorYellow,
	tcell.ColorGreen,
	tcell.ColorBlue,
	tcell.ColorPurple,
}

// Layout maps arena coordinates onto the terminal grid. The arena occupies
// every row above the footer inside a one-cell border.
type Layout struct {
	Cols, Rows    int
	Width, Height float64
}

// NewLayout builds a layout for a screen of cols x rows showing an arena of
// width x height.
func NewLayout(cols, rows int, width, height float64) Layout {
	return Layout{Cols: cols, Rows: rows, Width: width, Height: height}
}

func (l Layout) innerCols() int { return max(l.Cols-2, 1) }
func (l Layout) innerRows() int { return max(l.Rows-footer-2, 1) }

// Cell returns the screen cell for an arena point.
func (l Layout) Cell(x, y float64) (int, int) {
	cx, cy := 1, 1
	if l.Width > 0 {
		cx += clampInt(int(x/l.Width*float64(l.innerCols())), 0, l.innerCols()-1)
	}
	if l.Height > 0 {
		cy += clampInt(int(y/l.Height*float64(l.innerRows())), 0, l.innerRows()-1)
	}
	return cx, cy
}

// Point returns the arena point at the centre of a screen cell. ok is false
// for cells outside the arena.
func (l Layout) Point(col, row int) (x, y float64, ok bool) {
	if col < 1 || row < 1 || col > l.innerCols() || row > l.innerRows() {
		return 0, 0, false
	}
	x = (float64(col-1) + 0.5) / float64(l.innerCols()) * l.Width
	y = (float64(row-1) + 0.5) / float64(l.innerRows()) * l.Height
	return x, y, true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ChatLine is one entry of the chat log.
type ChatLine struct {
	From   string
	Text   string
	System bool
}

// Frame is everything drawn in one pass.
type Frame struct {
	Snapshot  sim.Snapshot
	Connected bool
	Chat      []ChatLine
	Prompt    string
	Typing    bool
}

// Draw renders a frame onto screen. It does not call Show.
func Draw(screen tcell.Screen, frame Frame) {
	screen.Clear()
	cols, rows := screen.Size()
	snap := frame.Snapshot
	layout := NewLayout(cols, rows, snap.Width, snap.Height)

	drawBorder(screen, layout)

	for _, d := range snap.Drops {
		x, y := layout.Cell(d.X, d.Y)
		screen.SetContent(x, y, glyphDrop, nil, tierStyle(d.Rarity, snap.Tick))
	}
	for _, m := range snap.Mobs {
		x, y := layout.Cell(m.X, m.Y)
		screen.SetContent(x, y, mobGlyph(m), nil, mobStyle(m, snap.Tick))
	}
	for _, p := range snap.Projectiles {
		x, y := layout.Cell(p.X, p.Y)
		if p.Owner == state.OwnerPlayer {
			screen.SetContent(x, y, glyphProjectile, nil, styleShot)
			continue
		}
		screen.SetContent(x, y, glyphStray, nil, styleHostile)
	}
	if !snap.Dead {
		for _, p := range snap.Petals {
			x, y := layout.Cell(p.X, p.Y)
			screen.SetContent(x, y, glyphPetal, nil, tierStyle(p.Rarity, snap.Tick))
		}
	}
	px, py := layout.Cell(snap.Player.X, snap.Player.Y)
	if snap.Dead {
		screen.SetContent(px, py, 'X', nil, styleDead)
	} else {
		screen.SetContent(px, py, glyphPlayer, nil, stylePlayer)
	}

	top := rows - footer
	drawText(screen, 0, top, cols, StatusLine(frame), styleHUD)
	chat := frame.Chat
	if len(chat) > chatRows {
		chat = chat[len(chat)-chatRows:]
	}
	for i, line := range chat {
		style := styleChat
		text := line.Text
		if line.System {
			style = styleSystem
		} else if line.From != "" {
			text = line.From + ": " + text
		}
		drawText(screen, 0, top+hudRows+i, cols, text, style)
	}
	if frame.Typing {
		drawText(screen, 0, rows-1, cols, "> "+frame.Prompt, stylePrompt)
		screen.ShowCursor(min(2+len(frame.Prompt), cols-1), rows-1)
	} else {
		screen.HideCursor()
	}
}

// StatusLine summarises wave, health and equipment.
func StatusLine(frame Frame) string {
	snap := frame.Snapshot
	var b strings.Builder
	if !frame.Connected {
		b.WriteString("[offline] ")
	}
	fmt.Fprintf(&b, "Wave %d  HP %.0f/%.0f  Mobs %d", snap.Wave, snap.Player.Health, snap.Player.MaxHealth, len(snap.Mobs))
	if snap.Player.Expanded {
		b.WriteString("  [expanded]")
	}
	if snap.Dead {
		b.WriteString("  DEAD (r to respawn)")
	}
	b.WriteString("  |")
	for i, slot := range snap.Player.Main {
		b.WriteByte(' ')
		if !slot.Active() {
			fmt.Fprintf(&b, "%d:-", (i+1)%state.RowSize)
			continue
		}
		fmt.Fprintf(&b, "%d:%s", (i+1)%state.RowSize, slot.Type)
	}
	return b.String()
}

func drawBorder(screen tcell.Screen, l Layout) {
	right := l.innerCols() + 1
	bottom := l.innerRows() + 1
	for x := 0; x <= right; x++ {
		screen.SetContent(x, 0, glyphBorder, nil, styleBorder)
		screen.SetContent(x, bottom, glyphBorder, nil, styleBorder)
	}
	for y := 0; y <= bottom; y++ {
		screen.SetContent(0, y, glyphBorder, nil, styleBorder)
		screen.SetContent(right, y, glyphBorder, nil, styleBorder)
	}
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= width {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func mobGlyph(m sim.MobView) rune {
	for _, r := range m.Type {
		return r
	}
	return 'M'
}

func mobStyle(m sim.MobView, tick uint64) tcell.Style {
	if tier, ok := rarity.Parse(m.Rarity); ok {
		return tierStyle(tier, tick)
	}
	return styleHostile
}

func tierStyle(tier rarity.Tier, tick uint64) tcell.Style {
	if tier.Rainbow() {
		return tcell.StyleDefault.Foreground(rainbow[(tick/8)%uint64(len(rainbow))]).Bold(true)
	}
	color := tier.Color()
	if color == "" {
		return styleHUD
	}
	return tcell.StyleDefault.Foreground(tcell.GetColor(color))
}
