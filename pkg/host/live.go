package host

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/flowtower/pkg/observability"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 64 << 10
)

// handleLive upgrades to a websocket, sends the current transform and scene,
// then relays gestures in and notifications out until either side closes.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.session(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("live upgrade failed", "instance", id, "err", err)
		return
	}

	c := newClient()
	sess.mu.Lock()
	sess.attach(c)
	t := sess.inst.Transform()
	s.reply(c, OutMessage{Type: MsgTransform, Transform: &t})
	s.reply(c, OutMessage{Type: MsgScene, SVG: string(sess.surface.Bytes())})
	sess.mu.Unlock()

	ctx := r.Context()
	observability.Host().OnLiveConnect(ctx, id)
	s.logger.Debug("live client connected", "instance", id)

	go s.writeLoop(conn, c)
	readErr := s.readLoop(conn, sess, c)

	sess.detach(c)
	observability.Host().OnLiveDisconnect(ctx, id, readErr)
	s.logger.Debug("live client disconnected", "instance", id, "err", readErr)
}

// readLoop decodes gestures until the connection fails. A normal close
// returns nil.
func (s *Server) readLoop(conn *websocket.Conn, sess *session, c *client) error {
	conn.SetReadLimit(maxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			select {
			case <-c.done:
				return nil
			default:
			}
			return err
		}

		var msg InMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.reply(c, OutMessage{Type: MsgError, Error: "malformed message: " + err.Error()})
			continue
		}
		if _, err := sess.dispatch(msg); err != nil {
			s.reply(c, OutMessage{Type: MsgError, Error: err.Error()})
		}
	}
}

// writeLoop drains c.send and keeps the connection alive with pings. It
// closes the connection when c is closed or a write fails.
func (s *Server) writeLoop(conn *websocket.Conn, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (s *Server) reply(c *client, msg OutMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
