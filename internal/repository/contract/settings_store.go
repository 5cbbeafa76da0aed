package contract

import (
	"context"

	"unit-chat-be/internal/entity"
)

// SettingsUpdate carries the fields of a partial settings update. Nil fields
// are left untouched by Update.
type SettingsUpdate struct {
	SystemInstruction         *string  `json:"systemInstruction"`
	Temperature               *float64 `json:"temperature"`
	TopP                      *float64 `json:"topP"`
	TopK                      *int     `json:"topK"`
	MaxOutputTokens           *int     `json:"maxOutputTokens"`
	CustomApiKey              *string  `json:"customApiKey"`
	VoiceId                   *string  `json:"voiceId"`
	VoiceSpeed                *float64 `json:"voiceSpeed"`
	VoicePitch                *float64 `json:"voicePitch"`
	TargetTranslationLanguage *string  `json:"targetTranslationLanguage"`
}

// SettingsStore holds the single live settings value applied to every outgoing
// request.
type SettingsStore interface {
	// Load returns the persisted settings, falling back to the defaults when
	// nothing is persisted or the stored value fails validation.
	Load(ctx context.Context) entity.Settings
	// Update merges the partial update over the current value and persists it.
	Update(ctx context.Context, partial SettingsUpdate) (entity.Settings, error)
}
