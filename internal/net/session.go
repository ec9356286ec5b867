package net

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"github.com/exotic24-7/zephyrax.io/internal/command"
	"github.com/exotic24-7/zephyrax.io/internal/net/intake"
	"github.com/exotic24-7/zephyrax.io/internal/net/proto"
	"github.com/exotic24-7/zephyrax.io/logging/network"
)

// serve runs the read loop of one observer connection until it closes.
func (h *Hub) serve(id, remote string, conn *websocket.Conn) {
	sub, err := h.Subscribe(id, remote, conn)
	if err != nil {
		h.logger.Printf("failed to send initial state to %s: %v", id, err)
		h.drop(sub, "initial_state")
		return
	}

	ctx := intake.CommandContext{Tick: h.Tick, Now: time.Now}
	if h.loop != nil {
		ctx.Loop = h.loop
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.drop(sub, "read_closed")
			return
		}

		msg, err := proto.DecodeClientMessage(payload)
		if err != nil {
			h.logger.Printf("discarding malformed message from %s: %v", id, err)
			network.InputRejected(context.Background(), h.publisher, h.Tick(), id,
				network.InputRejectedPayload{Reason: err.Error()})
			continue
		}

		seq := uint64(0)
		if msg.Seq != nil {
			seq = *msg.Seq
		}

		cmd, err := intake.StageClientCommand(ctx, id, msg)
		if errors.Is(err, proto.ErrChatText) {
			h.Chat(id, msg.Text)
			continue
		}
		if err != nil {
			var rejection *intake.Rejection
			if !errors.As(err, &rejection) {
				rejection = &intake.Rejection{Reason: intake.CommandRejectInvalid, Err: err}
			}
			network.InputRejected(context.Background(), h.publisher, h.Tick(), id,
				network.InputRejectedPayload{MessageType: msg.Type, Reason: rejection.Error()})
			if msg.Type == proto.TypeChat {
				if !h.writeChatReply(sub, command.Reply(rejection.Err)) {
					return
				}
				continue
			}
			if seq == 0 {
				continue
			}
			data, encErr := proto.EncodeCommandReject(proto.CommandReject{
				Seq:    seq,
				Reason: rejection.Reason,
				Retry:  rejection.Retry(),
			})
			if encErr == nil && sub.write(data) != nil {
				h.drop(sub, "write_failed")
				return
			}
			continue
		}

		if seq == 0 {
			continue
		}
		data, err := proto.EncodeCommandAck(proto.CommandAck{Seq: seq, Tick: cmd.OriginTick})
		if err != nil {
			continue
		}
		if err := sub.write(data); err != nil {
			h.drop(sub, "write_failed")
			return
		}
	}
}

func (h *Hub) writeChatReply(sub *subscriber, text string) bool {
	data, err := proto.EncodeChat("", text, true)
	if err != nil {
		return true
	}
	if err := sub.write(data); err != nil {
		h.drop(sub, "write_failed")
		return false
	}
	return true
}
