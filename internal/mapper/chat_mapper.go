package mapper

import (
	"study-copilot-be/internal/constant"
	"study-copilot-be/internal/dto"
	"study-copilot-be/internal/entity"
	"study-copilot-be/pkg/envelope"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// MessageToHistory maps a stored message to its history representation.
// Assistant turns are parsed so clients receive the display text and
// citation rather than the raw model output.
func (m *ChatMapper) MessageToHistory(msg *entity.Message) dto.ChatHistoryResponse {
	resp := dto.ChatHistoryResponse{
		Id:        msg.Id,
		Role:      msg.Role,
		Chat:      msg.Text(),
		CreatedAt: msg.CreatedAt,
	}

	if msg.Role == constant.ChatMessageRoleAssistant {
		result := envelope.Parse(msg.Text())
		resp.Chat = result.DisplayText()
		if citation, ok := result.Citation(); ok {
			resp.Citation = citation
		}
	}

	return resp
}

func (m *ChatMapper) MessagesToHistory(msgs []entity.Message) []dto.ChatHistoryResponse {
	out := make([]dto.ChatHistoryResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, m.MessageToHistory(&msgs[i]))
	}
	return out
}
