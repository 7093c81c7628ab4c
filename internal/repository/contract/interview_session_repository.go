package contract

import (
	"context"

	"ai-interview-be/pkg/interview/engine"
)

// InterviewSessionRepository stores serialized sessions with a TTL. Ping lets
// the health endpoint report store reachability.
type InterviewSessionRepository interface {
	engine.SessionStore
	Ping(ctx context.Context) error
}
