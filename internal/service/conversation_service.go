// FILE: internal/service/conversation_service.go
package service

import (
	"context"
	"errors"
	"sync"

	"kelly-ai-client/internal/constant"
	"kelly-ai-client/internal/entity"
	"kelly-ai-client/internal/pkg/logger"
	"kelly-ai-client/internal/pkg/metrics"
	"kelly-ai-client/internal/repository/contract"
	"kelly-ai-client/pkg/events"
	"kelly-ai-client/pkg/message"
)

var ErrStoreClosed = errors.New("conversation store is closed")

// IConversationService owns the conversation list and the current selection.
// It is the only path that mutates conversations; readers get copies.
type IConversationService interface {
	Load(ctx context.Context)
	Create(ctx context.Context) (*entity.Conversation, error)
	Delete(ctx context.Context, id string) error
	Select(ctx context.Context, id string) error
	// AppendMessage appends to the conversation with the given id, or to the
	// current one when id is empty, creating it first if nothing is selected.
	AppendMessage(ctx context.Context, conversationId string, msg *entity.Message) (*entity.Conversation, error)
	Current() *entity.Conversation
	CurrentId() string
	Get(id string) (*entity.Conversation, bool)
	List() []*entity.Conversation
	Close()
}

type conversationService struct {
	repo      contract.ConversationRepository
	factory   *message.Factory
	publisher IEventPublisher
	logger    logger.ILogger
	metrics   *metrics.Collector

	mu            sync.Mutex
	conversations []*entity.Conversation
	currentId     string
	closed        bool
}

func NewConversationService(
	repo contract.ConversationRepository,
	factory *message.Factory,
	publisher IEventPublisher,
	log logger.ILogger,
	collector *metrics.Collector,
) IConversationService {
	return &conversationService{
		repo:      repo,
		factory:   factory,
		publisher: publisher,
		logger:    log,
		metrics:   collector,
	}
}

// Load replaces the in-memory list with the persisted one and selects its
// head. Read or decode failures are logged and leave the list empty.
func (s *conversationService) Load(ctx context.Context) {
	list, err := s.repo.LoadAll(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.conversations = nil
	s.currentId = ""
	if err != nil {
		s.logger.Error("ConversationStore", "Error loading conversations", map[string]interface{}{
			"error": err.Error(),
		})
		s.metrics.PersistenceFailures.WithLabelValues("load").Inc()
	} else if len(list) > 0 {
		s.conversations = list
		s.currentId = list[0].Id
	}
	count, currentId := len(s.conversations), s.currentId
	s.metrics.ConversationsTotal.Set(float64(count))
	s.mu.Unlock()

	s.publish(ctx, events.ConversationsLoaded, map[string]interface{}{
		"count":           count,
		"conversation_id": currentId,
	})
}

func (s *conversationService) Create(ctx context.Context) (*entity.Conversation, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrStoreClosed
	}
	conv := s.factory.CreateConversation(constant.DefaultConversationTitle)
	s.insertHead(conv)
	s.currentId = conv.Id
	s.persist(ctx)
	out := conv.Clone()
	s.mu.Unlock()

	s.publish(ctx, events.ConversationCreated, map[string]interface{}{
		"conversation_id": out.Id,
		"title":           out.Title,
	})
	return out, nil
}

func (s *conversationService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return entity.ErrConversationNotFound
	}

	s.conversations = append(s.conversations[:idx:idx], s.conversations[idx+1:]...)
	if s.currentId == id {
		s.currentId = ""
		if len(s.conversations) > 0 {
			s.currentId = s.conversations[0].Id
		}
	}
	s.persist(ctx)
	currentId := s.currentId
	s.mu.Unlock()

	s.publish(ctx, events.ConversationDeleted, map[string]interface{}{
		"conversation_id": id,
		"current_id":      currentId,
	})
	return nil
}

// Select changes the current conversation. The selection itself is not
// persisted; Load always selects the head.
func (s *conversationService) Select(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return entity.ErrConversationNotFound
	}
	s.currentId = id
	s.mu.Unlock()

	s.publish(ctx, events.ConversationSelected, map[string]interface{}{
		"conversation_id": id,
	})
	return nil
}

func (s *conversationService) AppendMessage(ctx context.Context, conversationId string, msg *entity.Message) (*entity.Conversation, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrStoreClosed
	}

	var (
		target  *entity.Conversation
		created bool
	)
	if conversationId == "" {
		target = s.find(s.currentId)
		if target == nil {
			target = s.factory.CreateConversation(message.Title(msg.Text))
			s.insertHead(target)
			s.currentId = target.Id
			created = true
		}
	} else {
		target = s.find(conversationId)
		if target == nil {
			s.mu.Unlock()
			return nil, entity.ErrConversationNotFound
		}
	}

	if len(target.Messages) == 0 {
		target.Title = message.Title(msg.Text)
	}
	appended := *msg
	target.Messages = append(target.Messages, &appended)
	// Position in the list is left alone; only creation puts a conversation at the head.
	target.UpdatedAt = s.factory.Now()
	s.persist(ctx)
	out := target.Clone()
	s.mu.Unlock()

	if created {
		s.publish(ctx, events.ConversationCreated, map[string]interface{}{
			"conversation_id": out.Id,
			"title":           out.Title,
		})
	}
	s.publish(ctx, events.MessageAppended, map[string]interface{}{
		"conversation_id": out.Id,
		"title":           out.Title,
		"message_id":      appended.Id,
		"sender":          string(appended.Sender),
		"text":            appended.Text,
	})
	return out, nil
}

func (s *conversationService) Current() *entity.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(s.currentId).Clone()
}

func (s *conversationService) CurrentId() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentId
}

func (s *conversationService) Get(id string) (*entity.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := s.find(id)
	if conv == nil {
		return nil, false
	}
	return conv.Clone(), true
}

func (s *conversationService) List() []*entity.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		out = append(out, c.Clone())
	}
	return out
}

// Close tears the store down. Later mutations return ErrStoreClosed.
func (s *conversationService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.conversations = nil
	s.currentId = ""
}

// insertHead must be called with mu held.
func (s *conversationService) insertHead(conv *entity.Conversation) {
	s.conversations = append([]*entity.Conversation{conv}, s.conversations...)
}

func (s *conversationService) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range s.conversations {
		if c.Id == id {
			return i
		}
	}
	return -1
}

func (s *conversationService) find(id string) *entity.Conversation {
	if idx := s.indexOf(id); idx >= 0 {
		return s.conversations[idx]
	}
	return nil
}

// persist writes the full list. It runs with mu held so writes land in
// mutation order. A failed write keeps the in-memory state.
func (s *conversationService) persist(ctx context.Context) {
	s.metrics.ConversationsTotal.Set(float64(len(s.conversations)))
	if err := s.repo.SaveAll(ctx, s.conversations); err != nil {
		s.logger.Error("ConversationStore", "Error saving conversations", map[string]interface{}{
			"error": err.Error(),
			"count": len(s.conversations),
		})
		s.metrics.PersistenceFailures.WithLabelValues("save").Inc()
	}
}

func (s *conversationService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if err := s.publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn("ConversationStore", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
