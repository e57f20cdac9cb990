package queue

import "context"

// Job is a registered handler for one message type.
type Job interface {
	// Name identifies the job in logs.
	Name() string

	// Type is the message type this job consumes.
	Type() string

	// Handle processes one message payload.
	Handle(ctx context.Context, payload interface{}) error
}
