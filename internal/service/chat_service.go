package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"study-copilot-be/internal/constant"
	"study-copilot-be/internal/dto"
	"study-copilot-be/internal/entity"
	"study-copilot-be/internal/mapper"
	"study-copilot-be/internal/pkg/logger"
	"study-copilot-be/internal/repository/memory"
	"study-copilot-be/pkg/envelope"
	"study-copilot-be/pkg/events"
	"study-copilot-be/pkg/grounding"
	"study-copilot-be/pkg/llm"
	pktNats "study-copilot-be/pkg/nats"
	"study-copilot-be/pkg/speech"
)

var (
	ErrChatBusy        = errors.New("a chat request is already in flight")
	ErrEmptyInput      = errors.New("chat input is empty")
	ErrStreamTransport = errors.New("model stream failed")
)

// ContextProvider resolves the subject whose files ground the next turn.
// It is consulted on every send so uploads made mid-conversation are
// visible immediately.
type ContextProvider func(subjectId string) *entity.Subject

// Broadcaster pushes server events to connected clients. The websocket
// hub implements it.
type Broadcaster interface {
	Broadcast(messageType string, payload interface{})
}

// StreamHandler receives per-request stream chunks, typically an SSE
// writer. May be nil when only hub delivery is wanted.
type StreamHandler func(chunk dto.StreamChunk) error

type IChatService interface {
	// Send runs one grounded chat turn, streaming the assistant reply.
	// Only one turn may be in flight at a time.
	Send(ctx context.Context, subjectId, chat string, onDelta StreamHandler) error
	History() []dto.ChatHistoryResponse
	Status() string
}

type chatService struct {
	provider        llm.Provider
	conversations   *memory.ConversationRepository
	contextProvider ContextProvider
	hub             Broadcaster
	voice           speech.Bridge
	eventPublisher  *pktNats.Publisher
	mapper          *mapper.ChatMapper
	logger          logger.ILogger
	timeout         time.Duration

	mu     sync.Mutex
	status string
}

func NewChatService(
	provider llm.Provider,
	conversations *memory.ConversationRepository,
	contextProvider ContextProvider,
	hub Broadcaster,
	voice speech.Bridge,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	timeout time.Duration,
) IChatService {
	return &chatService{
		provider:        provider,
		conversations:   conversations,
		contextProvider: contextProvider,
		hub:             hub,
		voice:           voice,
		eventPublisher:  eventPublisher,
		mapper:          mapper.NewChatMapper(),
		logger:          log,
		timeout:         timeout,
		status:          constant.ChatStatusIdle,
	}
}

func (s *chatService) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *chatService) setStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// acquire transitions idle or error to submitted, failing when a turn is
// already running.
func (s *chatService) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == constant.ChatStatusSubmitted || s.status == constant.ChatStatusStreaming {
		return ErrChatBusy
	}
	s.status = constant.ChatStatusSubmitted
	return nil
}

func (s *chatService) History() []dto.ChatHistoryResponse {
	return s.mapper.MessagesToHistory(s.conversations.All())
}

func (s *chatService) Send(ctx context.Context, subjectId, chat string, onDelta StreamHandler) error {
	chat = strings.TrimSpace(chat)
	if chat == "" {
		return ErrEmptyInput
	}

	if err := s.acquire(); err != nil {
		return err
	}

	// Context is rebuilt from the subject's current files on every turn.
	subject := s.contextProvider(subjectId)
	systemInstruction := grounding.BuildSystemInstruction(grounding.BuildContext(subject))

	userMsg := &entity.Message{
		Id:   uuid.NewString(),
		Role: constant.ChatMessageRoleUser,
		Parts: []entity.MessagePart{
			{Type: constant.MessagePartTypeText, Text: chat},
		},
		CreatedAt: time.Now(),
	}
	s.conversations.Append(userMsg)

	history := s.buildHistory(systemInstruction)

	assistantMsg := &entity.Message{
		Id:        uuid.NewString(),
		Role:      constant.ChatMessageRoleAssistant,
		CreatedAt: time.Now(),
	}
	s.conversations.Append(assistantMsg)

	streamCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := false
	err := s.provider.ChatStream(streamCtx, history, func(chunk string) error {
		if !started {
			started = true
			s.setStatus(constant.ChatStatusStreaming)
		}
		s.conversations.AppendText(assistantMsg.Id, chunk)

		delta := dto.StreamChunk{MessageId: assistantMsg.Id, Delta: chunk}
		s.hub.Broadcast("chat.delta", delta)
		if onDelta != nil {
			return onDelta(delta)
		}
		return nil
	})
	if err != nil {
		// Discard the partial turn entirely; history keeps only complete
		// assistant replies.
		s.conversations.Remove(assistantMsg.Id)
		s.setStatus(constant.ChatStatusError)
		s.logger.Error("ChatService", "Stream failed", map[string]interface{}{
			"subject_id": subjectId,
			"message_id": assistantMsg.Id,
			"error":      err.Error(),
		})
		return fmt.Errorf("%w: %s", ErrStreamTransport, err)
	}

	raw := s.rawText(assistantMsg.Id)
	result := envelope.Parse(raw)

	done := dto.StreamChunk{
		MessageId: assistantMsg.Id,
		Done:      true,
		Answer:    result.DisplayText(),
	}
	if citation, ok := result.Citation(); ok {
		done.Citation = citation
	}
	s.hub.Broadcast("chat.done", done)
	if onDelta != nil {
		if err := onDelta(done); err != nil {
			s.logger.Warn("ChatService", "Final chunk delivery failed", map[string]interface{}{"message_id": assistantMsg.Id, "error": err.Error()})
		}
	}

	s.voice.Speak(raw)

	if s.eventPublisher != nil {
		evt := events.ChatCompleted(assistantMsg.Id, result.Parsed)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("ChatService", "Failed to publish CHAT_COMPLETED event", map[string]interface{}{"error": err.Error()})
		}
	}

	s.setStatus(constant.ChatStatusIdle)
	return nil
}

// buildHistory maps the stored conversation to provider messages, the
// system instruction first. Assistant turns are sent back raw so the
// model sees its own envelope.
func (s *chatService) buildHistory(systemInstruction string) []llm.Message {
	msgs := s.conversations.All()
	history := make([]llm.Message, 0, len(msgs)+1)
	history = append(history, llm.Message{Role: llm.RoleSystem, Content: systemInstruction})
	for i := range msgs {
		role := llm.RoleUser
		if msgs[i].Role == constant.ChatMessageRoleAssistant {
			role = llm.RoleAssistant
		}
		history = append(history, llm.Message{Role: role, Content: msgs[i].Text()})
	}
	return history
}

func (s *chatService) rawText(messageId string) string {
	msg, found := s.conversations.Get(messageId)
	if !found {
		return ""
	}
	return msg.Text()
}
