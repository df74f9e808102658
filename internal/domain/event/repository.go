package event

import (
	"context"
	"time"
)

// CompletionRecord is the archived outcome of a handled payment event.
type CompletionRecord struct {
	EventID    string
	EventType  string
	ObjectID   string
	Amount     int64
	Currency   string
	Payload    []byte
	ReceivedAt time.Time
}

type Archive interface {
	// RecordCompletion persists a handled event. Implementations must treat a
	// duplicate event id as a no-op success, as a second line of defense
	// behind the dedupe store.
	RecordCompletion(ctx context.Context, rec *CompletionRecord) error
	GetByEventID(ctx context.Context, eventID string) (*CompletionRecord, error)
	CountByEventID(ctx context.Context, eventID string) (int64, error)
}
