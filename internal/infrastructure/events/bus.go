package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"skillswap/internal/domain/entity"
)

const (
	// TopicNotification carries every newly synthesized notification.
	TopicNotification = "notification"
	// TopicSwapAcceptedLanding fires once, after the acceptance delay, for each newly observed accepted swap.
	TopicSwapAcceptedLanding = "swap_accepted_landing"
)

// Event is the payload of every message on the bus.
type Event struct {
	UserID string          `json:"userId"`
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
}

// Bus is an in-process event bus. Messages published while nobody is subscribed are dropped.
type Bus struct {
	pubsub *gochannel.GoChannel
}

func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 256},
			watermill.NewStdLogger(false, false),
		),
	}
}

func (b *Bus) Publish(topic, userID string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", topic, err)
	}

	payload, err := json.Marshal(Event{UserID: userID, Type: topic, Data: raw})
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", topic, err)
	}

	return b.pubsub.Publish(topic, message.NewMessage(watermill.NewUUID(), payload))
}

func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

func (b *Bus) PublishNotification(userID string, notification entity.Notification) error {
	return b.Publish(TopicNotification, userID, notification)
}

func (b *Bus) PublishSwapAccepted(userID string, swap entity.SwapRequest) error {
	return b.Publish(TopicSwapAcceptedLanding, userID, swap)
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// Decode unpacks a bus message into an Event.
func Decode(msg *message.Message) (Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}
