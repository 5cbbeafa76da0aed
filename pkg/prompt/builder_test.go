package prompt

import (
	"testing"

	"unit-chat-be/internal/constant"
	"unit-chat-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsWithInstruction(instruction string) entity.Settings {
	s := entity.DefaultSettings()
	s.SystemInstruction = instruction
	return s
}

func TestBuildEmptyHistoryWithInstruction(t *testing.T) {
	turns := Build(nil, settingsWithInstruction("talk like a pirate"))

	require.Len(t, turns, 2)
	assert.Equal(t, Turn{Role: constant.TurnRoleUser, Text: "talk like a pirate"}, turns[0])
	assert.Equal(t, constant.TurnRoleModel, turns[1].Role)
	assert.Equal(t, constant.SystemInstructionAckV1, turns[1].Text)
}

func TestBuildEmptyHistoryWithoutInstruction(t *testing.T) {
	turns := Build(nil, settingsWithInstruction(""))
	assert.Empty(t, turns)
}

func TestBuildMapsRoles(t *testing.T) {
	messages := []entity.Message{
		{Role: constant.ChatMessageRoleUser, Content: "hola"},
		{Role: constant.ChatMessageRoleAssistant, Content: "buenas"},
		{Role: constant.ChatMessageRoleUser, Content: "como estas"},
	}

	turns := Build(messages, settingsWithInstruction(""))

	require.Len(t, turns, 3)
	assert.Equal(t, Turn{Role: constant.TurnRoleUser, Text: "hola"}, turns[0])
	assert.Equal(t, Turn{Role: constant.TurnRoleModel, Text: "buenas"}, turns[1])
	assert.Equal(t, Turn{Role: constant.TurnRoleUser, Text: "como estas"}, turns[2])
}

func TestBuildFiltersLeakedInstruction(t *testing.T) {
	instruction := "talk like a pirate"
	messages := []entity.Message{
		{Role: constant.ChatMessageRoleUser, Content: instruction},
		{Role: constant.ChatMessageRoleUser, Content: "hola"},
		{Role: constant.ChatMessageRoleAssistant, Content: instruction},
		{Role: constant.ChatMessageRoleAssistant, Content: "buenas"},
	}

	turns := Build(messages, settingsWithInstruction(instruction))

	// Synthetic pair first, then only the non-instruction history turns.
	require.Len(t, turns, 4)
	for _, turn := range turns[2:] {
		assert.NotEqual(t, instruction, turn.Text)
	}
}

func TestBuildIdempotentUnderRepeatedPersistence(t *testing.T) {
	instruction := "talk like a pirate"
	settings := settingsWithInstruction(instruction)

	messages := []entity.Message{
		{Role: constant.ChatMessageRoleUser, Content: "hola"},
	}
	first := Build(messages, settings)

	// Simulate history that stored an already-built sequence verbatim.
	stored := make([]entity.Message, 0, len(first))
	for _, turn := range first {
		role := constant.ChatMessageRoleAssistant
		if turn.Role == constant.TurnRoleUser {
			role = constant.ChatMessageRoleUser
		}
		stored = append(stored, entity.Message{Role: role, Content: turn.Text})
	}
	second := Build(stored, settings)

	for _, turn := range second[2:] {
		assert.NotEqual(t, instruction, turn.Text)
	}
}

func TestBuildDoesNotMirrorImages(t *testing.T) {
	messages := []entity.Message{
		{Role: constant.ChatMessageRoleUser, Content: "mira esto", Image: "data:image/jpeg;base64,AAAA"},
	}

	turns := Build(messages, settingsWithInstruction(""))

	require.Len(t, turns, 1)
	assert.Equal(t, "mira esto", turns[0].Text)
}

func TestBuildEmptyInstructionDoesNotFilterEmptyMessages(t *testing.T) {
	messages := []entity.Message{
		{Role: constant.ChatMessageRoleUser, Content: ""},
	}

	turns := Build(messages, settingsWithInstruction(""))
	require.Len(t, turns, 1)
}
