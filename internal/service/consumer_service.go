package service

import (
	"context"
	"encoding/json"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/pkg/mailer"
	"ai-interview-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

const consumerModule = "CONSUMER"

// EventRelay forwards events to the external bus.
type EventRelay interface {
	Publish(ctx context.Context, event events.Event) error
}

// LiveFeed pushes events to the clients watching a session.
type LiveFeed interface {
	SendToSession(sessionId string, payload []byte)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	relay        EventRelay
	feed         LiveFeed
	emailService mailer.IEmailService
	recipient    string
	logger       logger.ILogger
}

// NewConsumerService wires the bus consumer. relay, feed and emailService
// are optional; the report email also needs a recipient.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	relay EventRelay,
	feed LiveFeed,
	emailService mailer.IEmailService,
	recipient string,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		relay:        relay,
		feed:         feed,
		emailService: emailService,
		recipient:    recipient,
		logger:       log,
	}
}

// Consume subscribes and processes messages in the background until ctx ends.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: every sink is best effort and a redelivery
// would duplicate what already reached the live feed.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var evt dto.InterviewEventMessage
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		cs.logger.Error(consumerModule, "Failed to unmarshal interview event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	cs.toFeed(evt)
	cs.toRelay(ctx, evt)
	if evt.Type == events.InterviewCompleted {
		cs.sendReport(evt)
	}
}

func (cs *consumerService) toFeed(evt dto.InterviewEventMessage) {
	if cs.feed == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type":        evt.Type,
		"session_id":  evt.SessionId,
		"data":        evt.Data,
		"occurred_at": evt.OccurredAt,
	})
	if err != nil {
		cs.logger.Error(consumerModule, "Failed to encode live feed message", map[string]interface{}{"error": err.Error()})
		return
	}
	cs.feed.SendToSession(evt.SessionId, payload)
}

func (cs *consumerService) toRelay(ctx context.Context, evt dto.InterviewEventMessage) {
	if cs.relay == nil {
		return
	}

	err := cs.relay.Publish(ctx, events.NewSessionEvent(evt.Type, evt.SessionId, evt.Data, evt.OccurredAt))
	if err != nil {
		cs.logger.Warn(consumerModule, "Failed to relay event to NATS", map[string]interface{}{
			"session_id": evt.SessionId,
			"type":       evt.Type,
			"error":      err.Error(),
		})
	}
}

func (cs *consumerService) sendReport(evt dto.InterviewEventMessage) {
	if cs.emailService == nil || cs.recipient == "" {
		return
	}
	if evt.Report == nil {
		cs.logger.Warn(consumerModule, "Completion event without report", map[string]interface{}{"session_id": evt.SessionId})
		return
	}
	// Failures are logged by the mailer
	_ = cs.emailService.SendInterviewReport(cs.recipient, evt.Report)
}
