package service

import (
	"context"
	"encoding/json"

	"notesync/internal/note/model"
	"notesync/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const EventsTopic = "notes.events"

// EventBus carries NoteEvents from the service to in-process consumers
// such as the websocket hub.
type EventBus struct {
	pubSub *gochannel.GoChannel
	topic  string
}

func NewEventBus() *EventBus {
	// Waiting for the ack keeps events from one publisher in order.
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            64,
		BlockPublishUntilSubscriberAck: true,
	}, watermill.NopLogger{})
	return &EventBus{pubSub: pubSub, topic: EventsTopic}
}

func (b *EventBus) Publish(_ context.Context, ev model.NoteEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.pubSub.Publish(b.topic, message.NewMessage(watermill.NewUUID(), payload))
}

// Consume subscribes handle to the bus. Messages are delivered on a single
// goroutine in publish order until ctx is cancelled or the bus is closed.
func (b *EventBus) Consume(ctx context.Context, handle func(model.NoteEvent)) error {
	messages, err := b.pubSub.Subscribe(ctx, b.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var ev model.NoteEvent
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				logger.Sugar.Errorf("Dropping malformed note event %s: %v", msg.UUID, err)
				msg.Ack()
				continue
			}
			handle(ev)
			msg.Ack()
		}
	}()
	return nil
}

func (b *EventBus) Close() error {
	return b.pubSub.Close()
}
