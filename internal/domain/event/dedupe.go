package event

import (
	"context"
	"time"
)

// DedupeStore absorbs provider redeliveries. Remember is an atomic
// insert-if-absent: exactly one of any set of concurrent calls for the same
// event id observes first == true. Entries expire after the retention window
// so the store stays bounded; redeliveries arriving later than retention run
// the handler again, which is acceptable because handlers are idempotent.
type DedupeStore interface {
	// Remember records that eventID has been seen. It returns true if this is
	// the first sighting within the retention window.
	Remember(ctx context.Context, eventID string, retention time.Duration) (first bool, err error)

	// Forget releases a previous Remember so a provider retry can run the
	// handler again after a handler failure.
	Forget(ctx context.Context, eventID string) error
}
