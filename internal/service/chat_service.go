// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"kelly-ai-client/internal/constant"
	"kelly-ai-client/internal/dto"
	"kelly-ai-client/internal/entity"
	"kelly-ai-client/internal/mapper"
	"kelly-ai-client/internal/pkg/logger"
	"kelly-ai-client/internal/pkg/metrics"
	"kelly-ai-client/pkg/events"
	"kelly-ai-client/pkg/kelly"
	"kelly-ai-client/pkg/message"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrSendInFlight = errors.New("a reply is still pending for this conversation")
)

// IChatService runs the send pipeline: user message, AI call, AI reply.
type IChatService interface {
	SendMessage(ctx context.Context, text string) (*dto.SendMessageResponse, error)
	IsTyping() bool
	IsTypingIn(conversationId string) bool
	Suggestions() []string
}

type chatService struct {
	conversations IConversationService
	asker         kelly.Asker
	factory       *message.Factory
	publisher     IEventPublisher
	logger        logger.ILogger
	metrics       *metrics.Collector
	mapper        *mapper.ConversationMapper

	// sendMu serializes admission only; replies are awaited outside it.
	sendMu   sync.Mutex
	mu       sync.Mutex
	inFlight map[string]struct{}
	typing   map[string]struct{}
}

func NewChatService(
	conversations IConversationService,
	asker kelly.Asker,
	factory *message.Factory,
	publisher IEventPublisher,
	log logger.ILogger,
	collector *metrics.Collector,
) IChatService {
	return &chatService{
		conversations: conversations,
		asker:         asker,
		factory:       factory,
		publisher:     publisher,
		logger:        log,
		metrics:       collector,
		mapper:        mapper.NewConversationMapper(),
		inFlight:      make(map[string]struct{}),
		typing:        make(map[string]struct{}),
	}
}

// SendMessage appends the user's text to the current conversation (creating
// one when nothing is selected), asks the AI service and appends its answer.
// AI failures become the fallback reply; they are never returned.
//
// Only one send per conversation may await a reply. A second one gets
// ErrSendInFlight and changes nothing.
func (s *chatService) SendMessage(ctx context.Context, text string) (*dto.SendMessageResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	// Once the user message is in, the exchange runs to completion.
	ctx = context.WithoutCancel(ctx)

	capturedId, convId, err := s.admit(ctx)
	if err != nil {
		return nil, err
	}
	defer s.release(convId)

	userMsg := s.factory.CreateUserMessage(text)
	conv, err := s.conversations.AppendMessage(ctx, convId, userMsg)
	if err != nil {
		return nil, err
	}
	s.metrics.MessagesSent.Inc()

	s.setTyping(ctx, conv.Id, true)
	defer s.setTyping(ctx, conv.Id, false)

	// The id sent is the selection at the moment the send started.
	askId := capturedId
	if askId == "" {
		askId = constant.GuestConversationId
	}

	start := time.Now()
	result := s.asker.Ask(ctx, text, askId)
	s.metrics.AILatency.Observe(time.Since(start).Seconds())

	reply, title := s.appendReply(ctx, conv, result)

	return &dto.SendMessageResponse{
		ConversationId:    conv.Id,
		ConversationTitle: title,
		Sent:              s.mapper.MessageToResponse(userMsg),
		Reply:             s.mapper.MessageToResponse(reply),
	}, nil
}

// appendReply turns the AI result into the reply message and stores it in the
// conversation the user message went to.
func (s *chatService) appendReply(ctx context.Context, conv *entity.Conversation, result kelly.Result) (*entity.Message, string) {
	text := constant.AIFallbackReply
	outcome := metrics.OutcomeFallback
	switch {
	case !result.Ok():
		s.logger.Warn("ChatService", "AI Error", map[string]interface{}{
			"conversation_id": conv.Id,
			"error":           result.Err.Error(),
		})
	case result.Answer == "":
		text = constant.AIEmptyAnswerReply
		outcome = metrics.OutcomeEmpty
	default:
		text = result.Answer
		outcome = metrics.OutcomeAnswer
	}
	s.metrics.AIReplies.WithLabelValues(outcome).Inc()

	reply := s.factory.CreateAIMessage(text)
	updated, err := s.conversations.AppendMessage(ctx, conv.Id, reply)
	if err != nil {
		// Deleted while the reply was pending.
		s.logger.Warn("ChatService", "Dropping AI reply", map[string]interface{}{
			"conversation_id": conv.Id,
			"error":           err.Error(),
		})
		return reply, conv.Title
	}
	return reply, updated.Title
}

func (s *chatService) IsTyping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.typing) > 0
}

func (s *chatService) IsTypingIn(conversationId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.typing[conversationId]
	return ok
}

func (s *chatService) Suggestions() []string {
	out := make([]string, len(constant.QuerySuggestions))
	copy(out, constant.QuerySuggestions)
	return out
}

// admit picks the conversation a send goes to and claims its slot. With
// nothing selected the conversation is created here, before sendMu is
// released, so no other send can reach it first.
func (s *chatService) admit(ctx context.Context) (capturedId, convId string, err error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	capturedId = s.conversations.CurrentId()
	convId = capturedId
	if convId == "" {
		conv, err := s.conversations.Create(ctx)
		if err != nil {
			return "", "", err
		}
		convId = conv.Id
	}
	if !s.acquire(convId) {
		return "", "", ErrSendInFlight
	}
	return capturedId, convId, nil
}

func (s *chatService) acquire(conversationId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[conversationId]; busy {
		return false
	}
	s.inFlight[conversationId] = struct{}{}
	return true
}

func (s *chatService) release(conversationId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, conversationId)
}

func (s *chatService) setTyping(ctx context.Context, conversationId string, on bool) {
	s.mu.Lock()
	eventType := events.TypingStopped
	if on {
		s.typing[conversationId] = struct{}{}
		eventType = events.TypingStarted
	} else {
		delete(s.typing, conversationId)
	}
	s.mu.Unlock()

	err := s.publisher.Publish(ctx, events.New(eventType, map[string]interface{}{
		"conversation_id": conversationId,
	}))
	if err != nil {
		s.logger.Warn("ChatService", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
