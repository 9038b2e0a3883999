// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"

	"kelly-ai-client/internal/pkg/logger"
	"kelly-ai-client/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Broadcaster receives every event frame read off the bus.
type Broadcaster interface {
	Broadcast(frame []byte)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	sink      Broadcaster
	logger    logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, sink Broadcaster, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		sink:      sink,
		logger:    log,
	}
}

// Consume subscribes to the conversation topic and forwards frames until ctx
// is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	// Malformed frames are acked so they are not redelivered.
	defer msg.Ack()

	var envelope events.Envelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil || envelope.Type == "" {
		cs.logger.Warn("EventConsumer", "Skipping malformed event", map[string]interface{}{
			"message_id": msg.UUID,
		})
		return
	}
	cs.sink.Broadcast(msg.Payload)
}
