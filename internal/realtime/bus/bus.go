package bus

import (
	"context"

	"github.com/questcoder/questcoder-backend/internal/realtime"
)

// Bus carries SSE messages between instances so a user connected to one
// replica still sees events produced on another.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
