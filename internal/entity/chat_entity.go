package entity

import (
	"strings"

	"unit-chat-be/internal/constant"
)

// Message is one turn of a conversation. Once appended to a session it is never
// edited; regeneration may drop a suffix of the sequence and append fresh
// messages, which is the only sanctioned rewrite.
type Message struct {
	Id        string `json:"id"`
	Role      string `json:"role"` // constant.ChatMessageRoleUser | constant.ChatMessageRoleAssistant
	Content   string `json:"content"`
	Image     string `json:"image,omitempty"` // data URI, set on user messages only
	Timestamp int64  `json:"timestamp"`       // unix millis
}

// Session is a persisted, titled conversation. Field names and JSON tags follow
// the browser client's localStorage format, timestamps included.
type Session struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	Settings  *Settings `json:"settings,omitempty"` // snapshot at last save
	CreatedAt int64     `json:"createdAt"`          // unix millis
}

// GenerateTitle derives a session title from its first user message: the first
// four whitespace-delimited words followed by an ellipsis marker.
func GenerateTitle(firstMessage string) string {
	words := strings.Fields(firstMessage)
	if len(words) > constant.TitleWordCount {
		words = words[:constant.TitleWordCount]
	}
	return strings.Join(words, " ") + "..."
}
