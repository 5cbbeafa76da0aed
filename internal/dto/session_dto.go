package dto

import "unit-chat-be/internal/entity"

type CreateSessionResponse struct {
	Id string `json:"id"`
}

type SessionSummaryResponse struct {
	Id        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"createdAt"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
	Image   string `json:"image,omitempty"` // data URI
}

// RegenerateRequest points at the message whose reply should be recomputed.
// Index is a pointer so position zero survives required-validation.
type RegenerateRequest struct {
	Index *int `json:"index" validate:"required"`
}

type SendChatResponse struct {
	Sent  *entity.Message `json:"sent,omitempty"`
	Reply *entity.Message `json:"reply"`
}

type RenameSessionRequest struct {
	Title string `json:"title" validate:"required"`
}

type DeleteSessionResponse struct {
	Active string `json:"active"`
}
