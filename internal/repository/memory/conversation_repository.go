package memory

import (
	"sync"

	"study-copilot-be/internal/constant"
	"study-copilot-be/internal/entity"
)

// ConversationRepository holds the session-wide message history. One
// conversation per process: switching subjects changes future context but
// never resets prior turns. Ordered and append-only, so a plain guarded
// slice rather than a keyed cache.
type ConversationRepository struct {
	mu       sync.RWMutex
	messages []*entity.Message
}

func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{}
}

// Append adds a finished or pending message to the history.
func (r *ConversationRepository) Append(msg *entity.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// AppendText grows a pending assistant message by one streamed chunk.
// Parts only ever grow until the stream ends.
func (r *ConversationRepository) AppendText(messageId, chunk string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages {
		if m.Id != messageId {
			continue
		}
		n := len(m.Parts)
		if n > 0 && m.Parts[n-1].Type == constant.MessagePartTypeText {
			m.Parts[n-1].Text += chunk
		} else {
			m.Parts = append(m.Parts, entity.MessagePart{
				Type: constant.MessagePartTypeText,
				Text: chunk,
			})
		}
		return
	}
}

// Remove discards a message, used when a transport failure abandons a
// partial assistant turn.
func (r *ConversationRepository) Remove(messageId string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.messages {
		if m.Id == messageId {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return
		}
	}
}

// All returns a snapshot of the history in append order.
func (r *ConversationRepository) All() []entity.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Message, 0, len(r.messages))
	for _, m := range r.messages {
		cp := entity.Message{
			Id:        m.Id,
			Role:      m.Role,
			CreatedAt: m.CreatedAt,
			Parts:     make([]entity.MessagePart, len(m.Parts)),
		}
		copy(cp.Parts, m.Parts)
		out = append(out, cp)
	}
	return out
}

// Get returns a snapshot of one message.
func (r *ConversationRepository) Get(messageId string) (entity.Message, bool) {
	for _, m := range r.All() {
		if m.Id == messageId {
			return m, true
		}
	}
	return entity.Message{}, false
}
