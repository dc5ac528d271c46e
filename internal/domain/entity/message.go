package entity

import "time"

const (
	MessageTypeUser = "user"
	MessageTypeBot  = "bot"

	BotSenderID = "bot"
)

// ChatMessage is one entry of a swap's append-only transcript.
type ChatMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Type       string    `json:"type"`
}

// PlatformMessage is an admin broadcast. A nil TargetUsers reaches everyone.
type PlatformMessage struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	TargetUsers []string  `json:"targetUsers"`
	Type        string    `json:"type"`
}

func (m *PlatformMessage) IsFor(userID string) bool {
	if m.TargetUsers == nil {
		return true
	}
	for _, id := range m.TargetUsers {
		if id == userID {
			return true
		}
	}
	return false
}
