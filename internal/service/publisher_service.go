// FILE: internal/service/publisher_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kelly-ai-client/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IEventPublisher is satisfied by the in-process bus and by the NATS publisher.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IEventPublisher {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (ps *publisherService) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(events.Envelope{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := ps.pubSub.Publish(ps.topicName, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.EventType(), err)
	}
	return nil
}

type nopPublisher struct{}

// NewNopPublisher drops every event.
func NewNopPublisher() IEventPublisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, events.Event) error {
	return nil
}
