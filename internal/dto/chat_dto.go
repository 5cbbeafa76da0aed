package dto

import "unit-chat-be/internal/entity"

// TurnDTO is one wire-format history turn of the stateless chat endpoint.
type TurnDTO struct {
	Role string `json:"role"` // "user" | "model"
	Text string `json:"text"`
}

// ChatRequest is the body of POST /api/chat. History and settings come from
// the caller; the endpoint holds no session state of its own.
type ChatRequest struct {
	Content  string           `json:"content"`
	Image    string           `json:"image,omitempty"` // data URI
	Settings *entity.Settings `json:"settings,omitempty"`
	History  []TurnDTO        `json:"history,omitempty"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

// ChatErrorResponse is the 500 body shape of the boundary endpoints.
type ChatErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

type TranslateRequest struct {
	Text           string `json:"text" validate:"required"`
	TargetLanguage string `json:"targetLanguage" validate:"required"`
}

type TranslateResponse struct {
	Translation string `json:"translation"`
}

type TranscribeRequest struct {
	Audio    string `json:"audio" validate:"required"` // data URI
	MimeType string `json:"mimeType" validate:"required"`
}

type TranscribeResponse struct {
	Transcription string `json:"transcription"`
}

type VoiceDescriptor struct {
	VoiceId      string `json:"voice_id"`
	Name         string `json:"name"`
	LanguageCode string `json:"language_code"`
	SsmlGender   string `json:"ssml_gender"`
}

type VoicesResponse struct {
	Voices []VoiceDescriptor `json:"voices"`
}

type TextToSpeechRequest struct {
	Text string `json:"text" validate:"required"`
}

// TextToSpeechResponse echoes the text back; synthesis itself is a client-side
// collaborator.
type TextToSpeechResponse struct {
	Text string `json:"text"`
}
