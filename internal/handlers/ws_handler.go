package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/41vi4p/MediStock/internal/service"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// WSHandler streams live family snapshots over a websocket
type WSHandler struct {
	watcher  *service.FamilyWatcher
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(watcher *service.FamilyWatcher) *WSHandler {
	return &WSHandler{
		watcher: watcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// StreamFamily handles GET /api/family/stream. The client receives the
// current family snapshot immediately, then a fresh snapshot after every
// mutation. A null message means the caller lost access; the connection
// closes after it.
func (h *WSHandler) StreamFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	sub, err := h.watcher.Watch(user.ID)
	if err != nil {
		respondWithError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.watcher.Unsubscribe(sub)
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	go h.readPump(conn, sub)
	h.writePump(conn, sub)
}

// readPump discards client messages and watches for the connection closing
func (h *WSHandler) readPump(conn *websocket.Conn, sub *service.FamilySubscription) {
	defer h.watcher.Unsubscribe(sub)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *WSHandler) writePump(conn *websocket.Conn, sub *service.FamilySubscription) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		h.watcher.Unsubscribe(sub)
		conn.Close()
	}()

	for {
		select {
		case family, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if family == nil {
				// Access revoked; tell the client, then let the closed
				// channel end the loop
				if err := conn.WriteJSON(nil); err != nil {
					return
				}
				continue
			}
			view := newFamilyView(family)
			if err := conn.WriteJSON(view); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
