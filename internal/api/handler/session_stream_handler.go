package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/spabook/portal/internal/core/domain"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
	streamBuffer     = 16
)

// SessionWatcher delivers every change of a session id.
type SessionWatcher interface {
	Watch(sessionID string, fn func(domain.SessionChange)) func()
}

// streamMessage is one frame of the session stream.
type streamMessage struct {
	Kind    domain.ChangeKind      `json:"kind,omitempty"`
	Session domain.SessionSnapshot `json:"session"`
	At      time.Time              `json:"at"`
}

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins.
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// SessionStreamHandler pushes session changes to the browser so every open
// tab re-renders when the user logs in or out elsewhere.
type SessionStreamHandler struct {
	watcher  SessionWatcher
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewSessionStreamHandler(watcher SessionWatcher, allowedOrigins []string, log zerolog.Logger) *SessionStreamHandler {
	return &SessionStreamHandler{
		watcher:  watcher,
		upgrader: buildUpgrader(allowedOrigins),
		log:      log.With().Str("component", "session_stream").Logger(),
	}
}

// Stream upgrades to a WebSocket. The first frame is the current snapshot;
// each later frame is one committed session change.
//
// @Summary      Session change stream (WebSocket)
// @Tags         session
// @Success      101
// @Router       /v1/session/stream [get]
func (h *SessionStreamHandler) Stream(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}
	defer conn.Close()

	log := h.log.With().Str("session_id", store.ID()).Logger()
	log.Debug().Msg("stream opened")

	changes := make(chan domain.SessionChange, streamBuffer)
	unwatch := h.watcher.Watch(store.ID(), func(change domain.SessionChange) {
		select {
		case changes <- change:
		default:
			log.Warn().Str("kind", string(change.Kind)).Msg("stream subscriber too slow, change dropped")
		}
	})
	defer unwatch()

	closed := make(chan struct{})
	go h.readPump(conn, closed, log)

	if err := h.write(conn, streamMessage{Session: store.Snapshot(), At: time.Now().UTC()}); err != nil {
		return nil
	}

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			log.Debug().Msg("stream closed")
			return nil
		case <-c.Request().Context().Done():
			return nil
		case change := <-changes:
			msg := streamMessage{Kind: change.Kind, Session: change.Snapshot, At: change.At}
			if err := h.write(conn, msg); err != nil {
				log.Debug().Err(err).Msg("stream write failed")
				return nil
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

func (h *SessionStreamHandler) write(conn *websocket.Conn, msg streamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(msg)
}

// readPump discards client frames and signals when the connection ends.
func (h *SessionStreamHandler) readPump(conn *websocket.Conn, closed chan<- struct{}, log zerolog.Logger) {
	defer close(closed)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("unexpected close")
			}
			return
		}
	}
}
