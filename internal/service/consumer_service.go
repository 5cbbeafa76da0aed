package service

import (
	"context"
	"encoding/json"

	"unit-chat-be/internal/dto"
	"unit-chat-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService appends completed exchanges to the transcript log. It runs
// off the request path; a failure here never fails a chat call.
type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	transcriptLog logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	transcriptLog logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		transcriptLog: transcriptLog,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.ChatCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.transcriptLog.Warn("transcript", "failed to unmarshal chat completed message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.transcriptLog.Info("transcript", "chat completed", map[string]interface{}{
		"session_id": payload.SessionId,
		"action":     payload.Action,
		"message_id": payload.MessageId,
		"prompt":     payload.Prompt,
		"reply_id":   payload.ReplyId,
		"reply":      payload.Reply,
	})
	msg.Ack()
}
