package websocket

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"skillswap/internal/infrastructure/events"
	"skillswap/pkg/logger"
)

type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}

// Bridge forwards bus events on the given topics to the sessions of the addressed user.
func (m *Manager) Bridge(ctx context.Context, bus Subscriber, topics ...string) error {
	for _, topic := range topics {
		messages, err := bus.Subscribe(ctx, topic)
		if err != nil {
			return err
		}
		go m.forward(topic, messages)
	}
	return nil
}

func (m *Manager) forward(topic string, messages <-chan *message.Message) {
	for msg := range messages {
		msg.Ack()

		event, err := events.Decode(msg)
		if err != nil {
			logger.Warn("websocket bridge: dropping undecodable %s event: %v", topic, err)
			continue
		}

		frame, err := Frame(event.Type, event.Data)
		if err != nil {
			logger.Error("websocket bridge: failed to encode %s frame: %v", topic, err)
			continue
		}
		m.SendToUser(event.UserID, frame)
	}
}
