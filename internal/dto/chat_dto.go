package dto

import "time"

type SendChatRequest struct {
	SubjectId string `json:"subject_id" validate:"required"`
	Chat      string `json:"chat" validate:"required"`
}

type QuizRequest struct {
	SubjectId string `json:"subject_id" validate:"required"`
}

type ChatHistoryResponse struct {
	Id        string    `json:"id"`
	Role      string    `json:"role"`
	Chat      string    `json:"chat"`
	Citation  string    `json:"citation,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatStatusResponse struct {
	Status string `json:"status"`
}

type StreamChunk struct {
	MessageId string `json:"message_id"`
	Delta     string `json:"delta,omitempty"`
	Done      bool   `json:"done,omitempty"`
	Citation  string `json:"citation,omitempty"`
	Answer    string `json:"answer,omitempty"`
}
