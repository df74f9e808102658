package webhook

import (
	"context"
	"fmt"
	"time"

	"payhook/internal/domain/event"
	"payhook/internal/shared/logger"
)

// Outcome is the terminal state of one dispatch attempt. Every outcome except
// OutcomeFailed acknowledges the delivery, which tells the provider not to
// retry it.
type Outcome string

const (
	// OutcomeHandled means the registered handler ran successfully.
	OutcomeHandled Outcome = "handled"
	// OutcomeIgnored means the event type is not allow-listed; no handler ran.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeDuplicate means the event id was already processed within the
	// retention window; no handler ran.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeUnhandled means the type is allow-listed but no handler is
	// registered for it. That is a wiring error, reported but acknowledged.
	OutcomeUnhandled Outcome = "unhandled"
	// OutcomeFailed means the handler returned an error; the caller should
	// answer 500 so the provider redelivers later.
	OutcomeFailed Outcome = "failed"
)

// Acknowledged reports whether the delivery should be answered with success.
func (o Outcome) Acknowledged() bool {
	return o != OutcomeFailed
}

// Handler processes one verified event. Handlers must be idempotent: the
// dedupe layer dampens redeliveries but does not guarantee exactly-once.
type Handler func(ctx context.Context, evt *event.Event) error

// Dispatcher routes verified events to registered handlers. The registry is a
// closed mapping built at wiring time; the allow-list gates which types are
// processed at all, and the dedupe store absorbs provider redeliveries.
type Dispatcher struct {
	registry  map[string]Handler
	allowed   map[string]struct{}
	store     event.DedupeStore
	retention time.Duration
	logger    logger.Interface
}

func NewDispatcher(
	allowedEvents []string,
	store event.DedupeStore,
	retention time.Duration,
	log logger.Interface,
) *Dispatcher {
	allowed := make(map[string]struct{}, len(allowedEvents))
	for _, t := range allowedEvents {
		allowed[t] = struct{}{}
	}

	return &Dispatcher{
		registry:  make(map[string]Handler),
		allowed:   allowed,
		store:     store,
		retention: retention,
		logger:    log,
	}
}

// Register wires a handler for an event type. Registration happens during
// startup wiring, before any dispatching; it is not safe to call concurrently
// with Dispatch.
func (d *Dispatcher) Register(eventType string, h Handler) {
	d.registry[eventType] = h
}

// Dispatch runs one verified event through the allow-list, dedupe, and handler
// gates: Received -> Allowed? -> Deduped? -> Handled -> Acknowledged. The
// allow-list and dedupe gates short-circuit to an acknowledged outcome so the
// provider does not retry deliveries we intentionally skip.
func (d *Dispatcher) Dispatch(ctx context.Context, evt *event.Event) (Outcome, error) {
	if _, ok := d.allowed[evt.Type()]; !ok {
		d.logger.Debugw("ignoring event type outside allow-list",
			"event_id", evt.ID(),
			"event_type", evt.Type(),
		)
		return OutcomeIgnored, nil
	}

	first, err := d.store.Remember(ctx, evt.ID(), d.retention)
	if err != nil {
		// Fail open: handlers are idempotent, so processing a possible
		// duplicate is safer than dropping a delivery when the store is down.
		d.logger.Errorw("dedupe store unavailable, processing without dedupe",
			"event_id", evt.ID(),
			"error", err,
		)
		first = true
	}
	if !first {
		d.logger.Infow("skipping redelivered event",
			"event_id", evt.ID(),
			"event_type", evt.Type(),
		)
		return OutcomeDuplicate, nil
	}

	handler, ok := d.registry[evt.Type()]
	if !ok {
		d.logger.Errorw("no handler registered for allow-listed event type",
			"event_id", evt.ID(),
			"event_type", evt.Type(),
		)
		return OutcomeUnhandled, nil
	}

	if err := handler(ctx, evt); err != nil {
		// Release the dedupe reservation so the provider's retry can run the
		// handler again.
		if forgetErr := d.store.Forget(ctx, evt.ID()); forgetErr != nil {
			d.logger.Errorw("failed to release dedupe entry after handler failure",
				"event_id", evt.ID(),
				"error", forgetErr,
			)
		}
		return OutcomeFailed, fmt.Errorf("handler for %s failed: %w", evt.Type(), err)
	}

	d.logger.Infow("event handled",
		"event_id", evt.ID(),
		"event_type", evt.Type(),
	)
	return OutcomeHandled, nil
}
