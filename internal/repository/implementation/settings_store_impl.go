package implementation

import (
	"context"
	"encoding/json"

	"unit-chat-be/internal/constant"
	"unit-chat-be/internal/entity"
	"unit-chat-be/internal/pkg/logger"
	"unit-chat-be/internal/repository/contract"
	"unit-chat-be/pkg/store"

	"github.com/go-playground/validator/v10"
)

type SettingsStoreImpl struct {
	store    store.BlobStore
	log      logger.ILogger
	validate *validator.Validate
}

func NewSettingsStore(blobStore store.BlobStore, log logger.ILogger) contract.SettingsStore {
	return &SettingsStoreImpl{
		store:    blobStore,
		log:      log,
		validate: validator.New(),
	}
}

func (s *SettingsStoreImpl) Load(ctx context.Context) entity.Settings {
	defaults := entity.DefaultSettings()

	blob, err := s.store.Get(ctx, constant.SettingsStorageKey)
	if err != nil {
		s.log.Warn("settings_store", "failed to read settings blob, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		return defaults
	}
	if blob == nil {
		return defaults
	}

	settings := defaults
	if err := json.Unmarshal(blob, &settings); err != nil {
		s.log.Warn("settings_store", "failed to parse settings blob, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		return defaults
	}

	// Persisted values are validated at the load boundary rather than trusted;
	// an out-of-range blob falls back to defaults wholesale.
	if err := s.validate.Struct(settings); err != nil {
		s.log.Warn("settings_store", "persisted settings failed validation, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		return defaults
	}
	return settings
}

func (s *SettingsStoreImpl) Update(ctx context.Context, partial contract.SettingsUpdate) (entity.Settings, error) {
	settings := s.Load(ctx)
	merge(&settings, partial)

	if err := s.validate.Struct(settings); err != nil {
		return entity.Settings{}, err
	}

	blob, err := json.Marshal(settings)
	if err != nil {
		return entity.Settings{}, err
	}
	if err := s.store.Set(ctx, constant.SettingsStorageKey, blob); err != nil {
		return entity.Settings{}, err
	}
	return settings, nil
}

func merge(settings *entity.Settings, partial contract.SettingsUpdate) {
	if partial.SystemInstruction != nil {
		settings.SystemInstruction = *partial.SystemInstruction
	}
	if partial.Temperature != nil {
		settings.Temperature = *partial.Temperature
	}
	if partial.TopP != nil {
		settings.TopP = *partial.TopP
	}
	if partial.TopK != nil {
		settings.TopK = *partial.TopK
	}
	if partial.MaxOutputTokens != nil {
		settings.MaxOutputTokens = *partial.MaxOutputTokens
	}
	if partial.CustomApiKey != nil {
		settings.CustomApiKey = *partial.CustomApiKey
	}
	if partial.VoiceId != nil {
		settings.VoiceId = *partial.VoiceId
	}
	if partial.VoiceSpeed != nil {
		settings.VoiceSpeed = *partial.VoiceSpeed
	}
	if partial.VoicePitch != nil {
		settings.VoicePitch = *partial.VoicePitch
	}
	if partial.TargetTranslationLanguage != nil {
		settings.TargetTranslationLanguage = *partial.TargetTranslationLanguage
	}
}
