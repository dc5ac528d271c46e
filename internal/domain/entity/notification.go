package entity

import (
	"time"
	"unicode/utf8"
)

type NotificationType string

const (
	NotificationSwapAccepted    NotificationType = "swap_accepted"
	NotificationSwapRequest     NotificationType = "swap_request"
	NotificationSwapCompleted   NotificationType = "swap_completed"
	NotificationMessage         NotificationType = "message"
	NotificationPlatformMessage NotificationType = "platform_message"

	previewLimit = 50
)

// Notification is synthesized from store state, never authored. ID is derived from the source
// event, so observing the same event twice yields the same ID.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
	Data      interface{}      `json:"data,omitempty"`
}

// MessageNotificationData is the payload of a message notification.
type MessageNotificationData struct {
	Swap    SwapRequest `json:"swap"`
	Message ChatMessage `json:"message"`
}

func SwapAcceptedKey(swapID string) string {
	return "swap_accepted_" + swapID
}

func SwapRequestKey(swapID string) string {
	return "swap_request_" + swapID
}

func SwapCompletedKey(swapID string) string {
	return "swap_completed_" + swapID
}

func MessageKey(swapID, messageID string) string {
	return "message_" + swapID + "_" + messageID
}

func PlatformKey(messageID string) string {
	return "platform_" + messageID
}

// Preview cuts content to 50 characters plus an ellipsis.
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLimit {
		return content
	}
	return string([]rune(content)[:previewLimit]) + "..."
}

func ContainsNotification(list []Notification, id string) bool {
	for _, n := range list {
		if n.ID == id {
			return true
		}
	}
	return false
}

func UnreadCount(list []Notification) int {
	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}
	return count
}
