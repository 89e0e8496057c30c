package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"quiz-client/internal/app"
	"quiz-client/internal/domain"
	"quiz-client/internal/view"
)

// MountRegistry tracks live websocket mounts.
type MountRegistry interface {
	Register(ctx context.Context, id string) error
	Unregister(ctx context.Context, id string) error
	Active(ctx context.Context) (int, error)
}

// WSHandler hosts one quiz shell per websocket connection and streams its
// screens to the client.
type WSHandler struct {
	deps      app.Deps
	registry  MountRegistry
	heartbeat time.Duration
	log       zerolog.Logger
	upgrader  websocket.Upgrader
}

// NewWSHandler builds the handler. heartbeat re-registers live mounts so
// expiring registries keep them; zero disables it.
func NewWSHandler(deps app.Deps, registry MountRegistry, heartbeat time.Duration, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		deps:      deps,
		registry:  registry,
		heartbeat: heartbeat,
		log:       log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Option *int `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type sharePayload struct {
	Text string `json:"text"`
}

// ServeWS upgrades the request and runs a quiz for the lifetime of the socket.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	mountID := uuid.NewString()
	log := h.log.With().Str("mount_id", mountID).Logger()

	if err := h.registry.Register(r.Context(), mountID); err != nil {
		log.Error().Err(err).Msg("register mount")
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "service unavailable"}})
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.registry.Unregister(ctx, mountID); err != nil {
			log.Warn().Err(err).Msg("unregister mount")
		}
	}()
	log.Info().Msg("mount opened")

	deps := h.deps
	deps.Log = log
	shell := app.NewShell(r.Context(), deps)
	updates, cancel := shell.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Msg("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)

		var tick <-chan time.Time
		if h.heartbeat > 0 {
			ticker := time.NewTicker(h.heartbeat)
			defer ticker.Stop()
			tick = ticker.C
		}

		var shownMount, shownVersion int
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				if snap.Mount < shownMount || (snap.Mount == shownMount && snap.Version <= shownVersion) {
					continue
				}
				shownMount, shownVersion = snap.Mount, snap.Version
				select {
				case send <- outboundMessage[any]{Type: "screen", Payload: view.Build(snap)}:
				case <-closeSignals:
					return
				}
			case <-tick:
				if err := h.registry.Register(r.Context(), mountID); err != nil {
					log.Warn().Err(err).Msg("refresh mount")
				}
			case <-closeSignals:
				return
			}
		}
	}()

	shell.Mount()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		msg, err := h.handle(shell, inbound)
		if err != nil {
			log.Debug().Err(err).Str("type", inbound.Type).Msg("event rejected")
			msg = &outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		}
		if msg != nil {
			send <- *msg
		}
	}

	close(closeSignals)
	shell.Close()
	<-updatesDone
	close(send)
	<-writerDone
	log.Info().Int("mounts", shell.Mounts()).Msg("mount closed")
}

// handle applies one client event. Screen changes reach the client through
// the shell subscription; only direct replies are returned.
func (h *WSHandler) handle(shell *app.Shell, in inboundMessage) (*outboundMessage[any], error) {
	c := shell.Current()
	if c == nil {
		return nil, domain.ErrUnmounted
	}
	screen := view.Build(c.Snapshot())

	switch in.Type {
	case "select":
		var payload selectPayload
		if err := json.Unmarshal(in.Payload, &payload); err != nil || payload.Option == nil {
			return nil, errors.New("invalid select payload")
		}
		return nil, c.Select(*payload.Option)
	case "submit":
		return nil, c.Submit()
	case "continue":
		return nil, c.Continue()
	case "restart":
		switch screen.Kind {
		case view.KindError, view.KindEmpty, view.KindResults:
			shell.Restart()
			return nil, nil
		}
		return nil, domain.ErrInvalidTransition
	case "share":
		if screen.Results == nil {
			return nil, errors.New("no results to share")
		}
		return &outboundMessage[any]{Type: "share", Payload: sharePayload{Text: screen.Results.ShareText}}, nil
	default:
		return nil, errors.New("unsupported message type")
	}
}
