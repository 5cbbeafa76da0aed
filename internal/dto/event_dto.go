package dto

// ChatCompletedMessage is the payload published after every successful
// send/regenerate; the transcript consumer appends it to the transcript log.
type ChatCompletedMessage struct {
	SessionId string `json:"session_id"`
	Action    string `json:"action"` // "send" | "regenerate"
	MessageId string `json:"message_id,omitempty"`
	Prompt    string `json:"prompt"`
	ReplyId   string `json:"reply_id"`
	Reply     string `json:"reply"`
}
