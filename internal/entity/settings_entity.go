package entity

import "unit-chat-be/internal/constant"

// Settings are the process-wide generation parameters. A single live value is
// held by the settings store and applied to every outgoing request; each session
// additionally keeps the snapshot that was active when it was last saved.
type Settings struct {
	SystemInstruction         string  `json:"systemInstruction"`
	Temperature               float64 `json:"temperature" validate:"gte=0,lte=1"`
	TopP                      float64 `json:"topP" validate:"gte=0,lte=1"`
	TopK                      int     `json:"topK" validate:"gte=0"`
	MaxOutputTokens           int     `json:"maxOutputTokens" validate:"gt=0"`
	CustomApiKey              string  `json:"customApiKey,omitempty"`
	VoiceId                   string  `json:"voiceId,omitempty"`
	VoiceSpeed                float64 `json:"voiceSpeed,omitempty"`
	VoicePitch                float64 `json:"voicePitch,omitempty"`
	TargetTranslationLanguage string  `json:"targetTranslationLanguage"`
}

// DefaultSettings returns the fixed defaults applied when nothing is persisted
// or the persisted value fails validation.
func DefaultSettings() Settings {
	return Settings{
		SystemInstruction:         constant.DefaultSystemInstructionV1,
		Temperature:               0.80,
		TopP:                      0.92,
		TopK:                      40,
		MaxOutputTokens:           20000,
		VoiceId:                   "es-ES",
		VoiceSpeed:                1.0,
		VoicePitch:                1.0,
		TargetTranslationLanguage: "en",
	}
}
