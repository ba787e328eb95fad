package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/gravity-tap/internal/game"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// stream upgrades to a websocket and pushes the session's state after every
// change. Each client reads from its own last-value-wins subscription, so a
// slow client skips states rather than building a backlog. Client messages
// are ignored.
func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(r)
	if !ok {
		http.Error(w, "no such session", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	client := uuid.NewString()
	logger := s.logger.With("client", client, "session", string(sess.ID()))
	logger.Debug("spectator connected")
	defer logger.Debug("spectator disconnected")

	states, cancel := sess.Subscribe()
	defer cancel()

	// Reader: handles control frames and notices when the client leaves.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case st, ok := <-states:
			if !ok {
				// Session ended: send the final state and close.
				s.writeState(conn, newStateMessage(sess, sess.Snapshot()))
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
					time.Now().Add(writeWait))
				return
			}
			snap := sess.Snapshot()
			msg := newStateMessage(sess, game.Snapshot{State: st, NextSpawnAt: snap.NextSpawnAt})
			if !s.writeState(conn, msg) {
				return
			}

		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}

		case <-gone:
			return

		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) writeState(conn *websocket.Conn, msg stateMessage) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Debug("websocket write failed", "err", err)
		return false
	}
	return true
}
