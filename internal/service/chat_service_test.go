package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-copilot-be/internal/constant"
	"study-copilot-be/internal/dto"
	"study-copilot-be/internal/entity"
	"study-copilot-be/internal/repository/memory"
	"study-copilot-be/pkg/llm"
	"study-copilot-be/pkg/speech"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []string
}

func (b *fakeBroadcaster) Broadcast(messageType string, payload interface{}) {
	b.mu.Lock()
	b.messages = append(b.messages, messageType)
	b.mu.Unlock()
}

// fakeProvider streams scripted chunks, optionally failing midway. It
// records the history of the last call.
type fakeProvider struct {
	mu      sync.Mutex
	chunks  []string
	failAt  int // fail before delivering chunk at this index, -1 disables
	block   chan struct{}
	history []llm.Message
}

func newFakeProvider(chunks ...string) *fakeProvider {
	return &fakeProvider{chunks: chunks, failAt: -1}
}

func (p *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return strings.Join(p.chunks, ""), nil
}

func (p *fakeProvider) ChatStream(ctx context.Context, history []llm.Message, onChunk llm.ChunkHandler, options ...llm.Option) error {
	p.mu.Lock()
	p.history = history
	p.mu.Unlock()

	if p.block != nil {
		<-p.block
	}
	for i, chunk := range p.chunks {
		if p.failAt == i {
			return errors.New("connection reset")
		}
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (p *fakeProvider) lastHistory() []llm.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history
}

func newTestChatService(provider llm.Provider, subjects *memory.SubjectRepository) (IChatService, *memory.ConversationRepository) {
	conversations := memory.NewConversationRepository()
	contextProvider := func(subjectId string) *entity.Subject {
		return subjects.Active(subjectId)
	}
	svc := NewChatService(
		provider,
		conversations,
		contextProvider,
		&fakeBroadcaster{},
		speech.NewBridge(nil),
		nil,
		nopLogger{},
		5*time.Second,
	)
	return svc, conversations
}

func seedSubjects() *memory.SubjectRepository {
	seed := make([]*entity.Subject, 0, len(constant.SeedSubjects))
	for _, s := range constant.SeedSubjects {
		seed = append(seed, &entity.Subject{Id: s.Id, Name: s.Name})
	}
	return memory.NewSubjectRepository(seed)
}

func TestSendStreamsAndStoresReply(t *testing.T) {
	provider := newFakeProvider(`{"answer":"Newton's second law",`, `"citation":"notes.txt"}`)
	svc, conversations := newTestChatService(provider, seedSubjects())

	var deltas []string
	var done dto.StreamChunk
	err := svc.Send(context.Background(), "physics", "what is F=ma?", func(chunk dto.StreamChunk) error {
		if chunk.Done {
			done = chunk
			return nil
		}
		deltas = append(deltas, chunk.Delta)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{`{"answer":"Newton's second law",`, `"citation":"notes.txt"}`}, deltas)
	assert.Equal(t, "Newton's second law", done.Answer)
	assert.Equal(t, "notes.txt", done.Citation)
	assert.Equal(t, constant.ChatStatusIdle, svc.Status())

	all := conversations.All()
	require.Len(t, all, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, all[0].Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, all[1].Role)
	assert.Equal(t, `{"answer":"Newton's second law","citation":"notes.txt"}`, all[1].Text())
}

func TestSendRejectsEmptyInput(t *testing.T) {
	svc, conversations := newTestChatService(newFakeProvider("x"), seedSubjects())

	err := svc.Send(context.Background(), "physics", "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, conversations.All())
	assert.Equal(t, constant.ChatStatusIdle, svc.Status())
}

func TestSendRejectsConcurrentTurn(t *testing.T) {
	provider := newFakeProvider(`{"answer":"hi"}`)
	provider.block = make(chan struct{})
	svc, _ := newTestChatService(provider, seedSubjects())

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- svc.Send(context.Background(), "physics", "first", nil)
	}()

	// Wait until the first turn holds the session.
	require.Eventually(t, func() bool {
		return svc.Status() == constant.ChatStatusSubmitted
	}, time.Second, 5*time.Millisecond)

	err := svc.Send(context.Background(), "physics", "second", nil)
	assert.ErrorIs(t, err, ErrChatBusy)

	close(provider.block)
	require.NoError(t, <-firstDone)
	assert.Equal(t, constant.ChatStatusIdle, svc.Status())
}

func TestSendDiscardsPartialReplyOnTransportFailure(t *testing.T) {
	provider := newFakeProvider(`{"answer":"par`, `tial"}`)
	provider.failAt = 1
	svc, conversations := newTestChatService(provider, seedSubjects())

	err := svc.Send(context.Background(), "physics", "question", nil)
	require.ErrorIs(t, err, ErrStreamTransport)
	assert.Equal(t, constant.ChatStatusError, svc.Status())

	// The user turn stays, the partial assistant turn does not.
	all := conversations.All()
	require.Len(t, all, 1)
	assert.Equal(t, constant.ChatMessageRoleUser, all[0].Role)

	// The session recovers on the next send.
	provider.failAt = -1
	require.NoError(t, svc.Send(context.Background(), "physics", "again", nil))
	assert.Equal(t, constant.ChatStatusIdle, svc.Status())
}

func TestSendRebuildsContextEveryTurn(t *testing.T) {
	subjects := seedSubjects()
	provider := newFakeProvider(`{"answer":"ok"}`)
	svc, _ := newTestChatService(provider, subjects)

	require.NoError(t, svc.Send(context.Background(), "physics", "first", nil))
	first := provider.lastHistory()
	require.NotEmpty(t, first)
	assert.Equal(t, llm.RoleSystem, first[0].Role)
	assert.Contains(t, first[0].Content, constant.NoContextSentinel)

	subjects.AddFile("physics", entity.FileRecord{Id: "f1", Name: "notes.txt", Content: "F=ma"})

	require.NoError(t, svc.Send(context.Background(), "physics", "second", nil))
	second := provider.lastHistory()
	assert.Contains(t, second[0].Content, "Source File: notes.txt")
	assert.Contains(t, second[0].Content, "F=ma")
	assert.NotContains(t, second[0].Content, constant.NoContextSentinel)
}

func TestSendFallsBackToFirstSubjectForUnknownId(t *testing.T) {
	subjects := seedSubjects()
	subjects.AddFile("physics", entity.FileRecord{Id: "f1", Name: "notes.txt", Content: "F=ma"})
	provider := newFakeProvider(`{"answer":"ok"}`)
	svc, _ := newTestChatService(provider, subjects)

	require.NoError(t, svc.Send(context.Background(), "does-not-exist", "hello", nil))
	history := provider.lastHistory()
	assert.Contains(t, history[0].Content, "F=ma")
}
