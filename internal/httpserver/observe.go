package httpserver

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"medistore/internal/changes"
	"medistore/internal/domain"
)

const (
	wsWriteWait    = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// newUpgrader accepts same-origin clients and the configured CORS origins.
func newUpgrader(origins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(origins, "*") {
				return true
			}
			return slices.Contains(origins, origin) || origin == "http://"+r.Host || origin == "https://"+r.Host
		},
	}
}

// observe streams change events as JSON text frames. Non-admins only see rows
// they own; admins may narrow with ?userId=.
func (h *handlers) observe(c *gin.Context) {
	sess := sessionFrom(c)
	f := changes.Filter{Collection: c.Query("collection"), Event: c.Query("event")}
	if sess.Role == domain.RoleAdmin {
		f.UserID = c.Query("userId")
	} else {
		f.UserID = sess.UserID
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("observe: upgrade", zap.String("user_id", sess.UserID), zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	events := h.deps.Changes.Observe(ctx, f)

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("observe: write", zap.String("user_id", sess.UserID), zap.Error(err))
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
