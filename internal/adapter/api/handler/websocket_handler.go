package handler

import (
	"context"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "skillswap/internal/infrastructure/websocket"
	"skillswap/internal/usecase"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
	"skillswap/pkg/response"
)

type WebSocketHandler struct {
	wsManager     *ws.Manager
	notifications *usecase.NotificationUseCase
	ctx           context.Context
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewWebSocketHandler builds the push endpoint. ctx bounds every session's read loop.
func NewWebSocketHandler(ctx context.Context, wsManager *ws.Manager, notifications *usecase.NotificationUseCase) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:     wsManager,
		notifications: notifications,
		ctx:           ctx,
	}
}

// HandleWebSocket upgrades the request and keeps the user's synchronizer running while the session lives.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	unread, err := h.notifications.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to upgrade connection", err))
	}

	client := ws.NewClient(userID, conn)
	if frame, err := ws.Frame(ws.MessageTypeUnreadCount, map[string]int{"unreadCount": unread}); err == nil {
		client.Send <- frame
	}

	if !h.wsManager.Add(client) {
		conn.Close()
		return nil
	}
	h.notifications.Attach(userID)
	logger.Debug("websocket session opened for user %s", userID)

	go client.WritePump()
	go func() {
		defer h.notifications.Detach(userID)
		client.ReadPump(h.ctx, h.wsManager, h.notifications)
	}()

	return nil
}
