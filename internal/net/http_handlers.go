package net

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/exotic24-7/zephyrax.io/internal/observability"
	"github.com/exotic24-7/zephyrax.io/internal/telemetry"
)

// HTTPHandlerConfig configures the HTTP surface.
type HTTPHandlerConfig struct {
	Logger telemetry.Logger
	// Diagnostics, when set, is served as JSON under /diagnostics.
	Diagnostics   func() any
	Observability observability.Config
}

// NewHTTPHandler exposes /healthz, /state, /diagnostics and the /ws
// websocket endpoint.
func NewHTTPHandler(hub *Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = hub.logger
	}

	mux := nethttp.NewServeMux()
	cfg.Observability.Register(mux)

	mux.HandleFunc("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/state", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, hub.Latest())
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		payload := struct {
			Status     string `json:"status"`
			ServerTime int64  `json:"serverTime"`
			Observers  int    `json:"observers"`
			Tick       uint64 `json:"tick"`
			Telemetry  any    `json:"telemetry,omitempty"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Observers:  hub.Observers(),
			Tick:       hub.Tick(),
		}
		if cfg.Diagnostics != nil {
			payload.Telemetry = cfg.Diagnostics()
		}
		writeJSON(w, payload)
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	mux.HandleFunc("/ws", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			id = hub.NextObserverID()
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Printf("upgrade failed for %s: %v", id, err)
			return
		}
		hub.serve(id, r.RemoteAddr, conn)
	})

	return mux
}

func writeJSON(w nethttp.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}
