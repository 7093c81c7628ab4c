package events

import "time"

// Event is what travels on the external bus: a type code, a flat JSON
// payload and the time the transition happened.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string { return e.Type }
func (e BaseEvent) Payload() map[string]interface{} { return e.Data }
func (e BaseEvent) Timestamp() time.Time { return e.OccurredAt }

// NewSessionEvent copies data and stamps it with the session id, so
// subscribers can filter on one interview without knowing the event type.
func NewSessionEvent(eventType, sessionId string, data map[string]interface{}, at time.Time) BaseEvent {
	payload := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	payload[SessionIdKey] = sessionId

	return BaseEvent{Type: eventType, Data: payload, OccurredAt: at}
}

// SessionIdOf returns the session an event belongs to, or "".
func SessionIdOf(e Event) string {
	id, _ := e.Payload()[SessionIdKey].(string)
	return id
}
