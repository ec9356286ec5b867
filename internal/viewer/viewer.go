// Package viewer is a terminal client that renders the arena streamed by the
// server and forwards keyboard and mouse input.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/exotic24-7/zephyrax.io/internal/net/proto"
	"github.com/exotic24-7/zephyrax.io/internal/sim"
)

const (
	// DefaultServer is the websocket endpoint dialled when none is configured.
	DefaultServer = "ws://localhost:8080/ws"
	// DefaultFrameInterval paces redraws.
	DefaultFrameInterval = 33 * time.Millisecond

	chatHistory  = 50
	writeTimeout = 5 * time.Second
)

// Config controls a viewer session.
type Config struct {
	Server        string
	Logger        zerolog.Logger
	FrameInterval time.Duration
	// Screen overrides the terminal screen, mainly for tests.
	Screen tcell.Screen
	// Dialer overrides the websocket dialer.
	Dialer *websocket.Dialer
}

// Viewer owns the terminal screen and the server connection.
type Viewer struct {
	cfg    Config
	screen tcell.Screen
	input  Input

	writeMu sync.Mutex
	conn    *websocket.Conn
	seq     uint64

	mu        sync.Mutex
	snapshot  sim.Snapshot
	chat      []ChatLine
	connected bool
}

// New prepares a viewer. The screen is created lazily by Run unless one is
// supplied in cfg.
func New(cfg Config) *Viewer {
	if cfg.Server == "" {
		cfg.Server = DefaultServer
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	return &Viewer{cfg: cfg, screen: cfg.Screen}
}

// Run dials the server, takes over the terminal and blocks until the user
// quits, the server closes the connection or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	conn, _, err := v.cfg.Dialer.DialContext(ctx, v.cfg.Server, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", v.cfg.Server, err)
	}
	v.writeMu.Lock()
	v.conn = conn
	v.writeMu.Unlock()
	defer conn.Close()
	v.setConnected(true)

	if v.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("create screen: %w", err)
		}
		v.screen = screen
	}
	if err := v.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer v.screen.Fini()
	v.screen.EnableMouse(tcell.MouseMotionEvents)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	readErr := make(chan error, 1)
	go func() {
		readErr <- v.readLoop()
		cancel()
	}()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(v.cfg.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			select {
			case err := <-readErr:
				if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					return err
				}
			default:
			}
			return nil
		case ev := <-events:
			if _, ok := ev.(*tcell.EventResize); ok {
				v.screen.Sync()
				continue
			}
			layout := v.layout()
			v.mu.Lock()
			msgs := v.input.Handle(ev, layout)
			quit := v.input.Quit()
			v.mu.Unlock()
			for _, msg := range msgs {
				if err := v.Send(msg); err != nil {
					v.cfg.Logger.Warn().Err(err).Str("type", msg.Type).Msg("send failed")
				}
			}
			if quit {
				_ = v.writeControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
				return nil
			}
		case <-ticker.C:
			v.draw()
		}
	}
}

// Send writes one client message, stamping version and sequence number.
func (v *Viewer) Send(msg proto.ClientMessage) error {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	if v.conn == nil {
		return errors.New("viewer: not connected")
	}
	v.seq++
	seq := v.seq
	msg.Ver = proto.Version
	msg.Seq = &seq
	if err := v.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return v.conn.WriteJSON(msg)
}

func (v *Viewer) writeControl(messageType int, data []byte) error {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	return v.conn.WriteControl(messageType, data, time.Now().Add(writeTimeout))
}

func (v *Viewer) readLoop() error {
	defer v.setConnected(false)
	for {
		_, payload, err := v.conn.ReadMessage()
		if err != nil {
			return err
		}
		msg, err := proto.DecodeServerMessage(payload)
		if err != nil {
			v.cfg.Logger.Debug().Err(err).Msg("dropping malformed server message")
			continue
		}
		v.Apply(msg)
	}
}

// Apply folds a server message into the local view.
func (v *Viewer) Apply(msg proto.ServerMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch msg.Type {
	case proto.TypeState:
		if msg.State != nil {
			v.snapshot = *msg.State
		}
	case proto.TypeChat:
		v.appendChat(ChatLine{From: msg.From, Text: msg.Text, System: msg.System})
	case proto.TypeCommandReject:
		v.appendChat(ChatLine{Text: "rejected: " + msg.Reason, System: true})
	}
}

func (v *Viewer) appendChat(line ChatLine) {
	v.chat = append(v.chat, line)
	if len(v.chat) > chatHistory {
		v.chat = append(v.chat[:0], v.chat[len(v.chat)-chatHistory:]...)
	}
}

func (v *Viewer) setConnected(connected bool) {
	v.mu.Lock()
	v.connected = connected
	v.mu.Unlock()
}

// Frame returns the current drawable state.
func (v *Viewer) Frame() Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Frame{
		Snapshot:  v.snapshot,
		Connected: v.connected,
		Chat:      append([]ChatLine(nil), v.chat...),
		Prompt:    v.input.Prompt(),
		Typing:    v.input.Typing(),
	}
}

func (v *Viewer) layout() Layout {
	cols, rows := v.screen.Size()
	v.mu.Lock()
	defer v.mu.Unlock()
	return NewLayout(cols, rows, v.snapshot.Width, v.snapshot.Height)
}

func (v *Viewer) draw() {
	Draw(v.screen, v.Frame())
	v.screen.Show()
}
