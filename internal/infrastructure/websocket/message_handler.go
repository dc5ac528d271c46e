package websocket

import (
	"context"
	"encoding/json"
	"time"

	"skillswap/pkg/logger"
)

// WebSocket Message Types
const (
	MessageTypePing                = "ping"
	MessageTypePong                = "pong"
	MessageTypeNotification        = "notification"
	MessageTypeSwapAcceptedLanding = "swap_accepted_landing"
	MessageTypeMarkRead            = "mark_read"
	MessageTypeMarkAllRead         = "mark_all_read"
	MessageTypeRemove              = "remove_notification"
	MessageTypeUnreadCount         = "unread_count"
	MessageTypeError               = "error"
)

// WSMessage is the envelope for every frame in either direction.
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type notificationRefData struct {
	NotificationID string `json:"notificationId"`
}

// ClientActions are the notification mutations a session may request.
type ClientActions interface {
	MarkRead(ctx context.Context, userID, notificationID string) (int, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Remove(ctx context.Context, userID, notificationID string) (int, error)
}

// Frame wraps data in an envelope ready to send.
func Frame(messageType string, data interface{}) ([]byte, error) {
	return json.Marshal(WSMessage{
		Type:      messageType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleClientMessage processes one incoming frame.
func (m *Manager) HandleClientMessage(ctx context.Context, client *Client, messageBytes []byte, actions ClientActions) {
	var incoming struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(messageBytes, &incoming); err != nil {
		logger.Debug("websocket: bad frame from user %s: %v", client.UserID, err)
		m.sendErrorToClient(client, "Invalid message format")
		return
	}

	switch incoming.Type {
	case MessageTypePing:
		m.sendToClient(client, MessageTypePong, map[string]string{"status": "alive"})

	case MessageTypeMarkAllRead:
		unread, err := actions.MarkAllRead(ctx, client.UserID)
		m.replyUnread(client, unread, err)

	case MessageTypeMarkRead, MessageTypeRemove:
		var ref notificationRefData
		if err := json.Unmarshal(incoming.Data, &ref); err != nil || ref.NotificationID == "" {
			m.sendErrorToClient(client, "notificationId is required")
			return
		}

		var unread int
		var err error
		if incoming.Type == MessageTypeMarkRead {
			unread, err = actions.MarkRead(ctx, client.UserID, ref.NotificationID)
		} else {
			unread, err = actions.Remove(ctx, client.UserID, ref.NotificationID)
		}
		m.replyUnread(client, unread, err)

	default:
		m.sendErrorToClient(client, "Unknown message type")
	}
}

func (m *Manager) replyUnread(client *Client, unread int, err error) {
	if err != nil {
		logger.Error("websocket: notification update failed for user %s: %v", client.UserID, err)
		m.sendErrorToClient(client, "Failed to update notifications")
		return
	}
	m.sendToClient(client, MessageTypeUnreadCount, map[string]int{"unreadCount": unread})
}

func (m *Manager) sendToClient(client *Client, messageType string, data interface{}) {
	frame, err := Frame(messageType, data)
	if err != nil {
		logger.Error("websocket: failed to encode %s frame: %v", messageType, err)
		return
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	// closed sessions have already had Send closed
	if _, ok := m.clients[client.UserID][client]; !ok {
		return
	}
	select {
	case client.Send <- frame:
	default:
		logger.Warn("websocket send buffer full for user %s, dropping %s", client.UserID, messageType)
	}
}

func (m *Manager) sendErrorToClient(client *Client, errorMsg string) {
	m.sendToClient(client, MessageTypeError, map[string]string{"error": errorMsg})
}
