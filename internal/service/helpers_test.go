package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"kelly-ai-client/internal/entity"
	"kelly-ai-client/internal/pkg/logger"
	"kelly-ai-client/internal/pkg/metrics"
	"kelly-ai-client/internal/repository/contract"
	"kelly-ai-client/internal/repository/implementation"
	"kelly-ai-client/internal/repository/memory"
	"kelly-ai-client/pkg/events"
	"kelly-ai-client/pkg/kelly"
	"kelly-ai-client/pkg/message"
)

var errStoreDown = errors.New("store down")

// recordingPublisher keeps every event type in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

// failingStore refuses writes once failWrites is set.
type failingStore struct {
	contract.SecureStore
	mu         sync.Mutex
	failWrites bool
	failReads  bool
	writes     int
}

func newFailingStore() *failingStore {
	return &failingStore{SecureStore: memory.NewSecureStore()}
}

func (s *failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	fail := s.failReads
	s.mu.Unlock()
	if fail {
		return "", false, errStoreDown
	}
	return s.SecureStore.Get(ctx, key)
}

func (s *failingStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.writes++
	fail := s.failWrites
	s.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return s.SecureStore.Set(ctx, key, value)
}

func (s *failingStore) setFailWrites(v bool) {
	s.mu.Lock()
	s.failWrites = v
	s.mu.Unlock()
}

// askCall is one question the fake AI received.
type askCall struct {
	Query          string
	ConversationId string
}

// fakeAsker answers with a fixed result. When gate is set every Ask waits
// for it after announcing itself on started.
type fakeAsker struct {
	mu      sync.Mutex
	calls   []askCall
	result  kelly.Result
	started chan struct{}
	gate    chan struct{}
}

func (a *fakeAsker) Ask(_ context.Context, query, conversationId string) kelly.Result {
	a.mu.Lock()
	a.calls = append(a.calls, askCall{Query: query, ConversationId: conversationId})
	a.mu.Unlock()
	if a.started != nil {
		a.started <- struct{}{}
	}
	if a.gate != nil {
		<-a.gate
	}
	return a.result
}

func (a *fakeAsker) lastCall() askCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[len(a.calls)-1]
}

func testClock() func() time.Time {
	var (
		mu sync.Mutex
		t  = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type fixture struct {
	store         *failingStore
	repo          contract.ConversationRepository
	factory       *message.Factory
	publisher     *recordingPublisher
	metrics       *metrics.Collector
	logger        logger.ILogger
	conversations IConversationService
}

func newFixture() *fixture {
	f := &fixture{
		store:     newFailingStore(),
		factory:   message.NewFactoryWithClock(testClock()),
		publisher: &recordingPublisher{},
		metrics:   metrics.NewCollector("test"),
		logger:    logger.NewNopLogger(),
	}
	f.repo = implementation.NewConversationRepository(f.store)
	f.conversations = NewConversationService(f.repo, f.factory, f.publisher, f.logger, f.metrics)
	return f
}

func (f *fixture) chat(asker kelly.Asker) IChatService {
	return NewChatService(f.conversations, asker, f.factory, f.publisher, f.logger, f.metrics)
}

func (f *fixture) persisted() []*entity.Conversation {
	list, err := f.repo.LoadAll(context.Background())
	if err != nil {
		panic(err)
	}
	return list
}
