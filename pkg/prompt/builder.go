package prompt

import (
	"unit-chat-be/internal/constant"
	"unit-chat-be/internal/entity"
)

// Turn is one exchange unit on the wire towards the completion backend.
type Turn struct {
	Role string // constant.TurnRoleUser | constant.TurnRoleModel
	Text string
}

// Build maps a stored message sequence plus the live settings to the ordered
// turn history sent upstream.
//
// When a system instruction is set it is simulated as a leading user/model turn
// pair, because the backend only understands plain turn history. Stored turns
// whose text equals the instruction verbatim are dropped so an instruction that
// leaked into history is never duplicated. Image payloads are not mirrored into
// the text-only turns.
//
// The full history is included on every request; there is no token-budget
// capping. That is an accepted scalability limitation of this design.
//
// Build does not treat the trailing message specially: the caller decides
// whether the sequence it passes in already contains the line being sent.
func Build(prior []entity.Message, settings entity.Settings) []Turn {
	turns := make([]Turn, 0, len(prior)+2)

	if settings.SystemInstruction != "" {
		turns = append(turns,
			Turn{Role: constant.TurnRoleUser, Text: settings.SystemInstruction},
			Turn{Role: constant.TurnRoleModel, Text: constant.SystemInstructionAckV1},
		)
	}

	for _, msg := range prior {
		if msg.Content == settings.SystemInstruction && settings.SystemInstruction != "" {
			continue
		}
		role := constant.TurnRoleModel
		if msg.Role == constant.ChatMessageRoleUser {
			role = constant.TurnRoleUser
		}
		turns = append(turns, Turn{Role: role, Text: msg.Content})
	}

	return turns
}
