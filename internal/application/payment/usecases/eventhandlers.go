package usecases

import (
	"context"
	"fmt"

	"payhook/internal/application/webhook"
	"payhook/internal/domain/event"
	"payhook/internal/shared/biztime"
	"payhook/internal/shared/logger"
)

// NewCheckoutCompletedHandler archives a finished checkout session. The
// handler is idempotent: the archive treats a duplicate event id as a no-op.
func NewCheckoutCompletedHandler(archive event.Archive, log logger.Interface) webhook.Handler {
	return func(ctx context.Context, evt *event.Event) error {
		var object struct {
			ID            string `json:"id"`
			AmountTotal   int64  `json:"amount_total"`
			Currency      string `json:"currency"`
			PaymentStatus string `json:"payment_status"`
		}
		if err := evt.UnmarshalData(&object); err != nil {
			return fmt.Errorf("decode checkout session object: %w", err)
		}

		rec := &event.CompletionRecord{
			EventID:    evt.ID(),
			EventType:  evt.Type(),
			ObjectID:   object.ID,
			Amount:     object.AmountTotal,
			Currency:   object.Currency,
			Payload:    evt.Raw(),
			ReceivedAt: biztime.NowUTC(),
		}
		if err := archive.RecordCompletion(ctx, rec); err != nil {
			return fmt.Errorf("archive checkout completion: %w", err)
		}

		log.Infow("checkout session completed",
			"event_id", evt.ID(),
			"session_id", object.ID,
			"amount_total", object.AmountTotal,
			"currency", object.Currency,
			"payment_status", object.PaymentStatus)
		return nil
	}
}

// NewPaymentIntentSucceededHandler archives a succeeded payment intent.
func NewPaymentIntentSucceededHandler(archive event.Archive, log logger.Interface) webhook.Handler {
	return func(ctx context.Context, evt *event.Event) error {
		var object struct {
			ID       string `json:"id"`
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
		}
		if err := evt.UnmarshalData(&object); err != nil {
			return fmt.Errorf("decode payment intent object: %w", err)
		}

		rec := &event.CompletionRecord{
			EventID:    evt.ID(),
			EventType:  evt.Type(),
			ObjectID:   object.ID,
			Amount:     object.Amount,
			Currency:   object.Currency,
			Payload:    evt.Raw(),
			ReceivedAt: biztime.NowUTC(),
		}
		if err := archive.RecordCompletion(ctx, rec); err != nil {
			return fmt.Errorf("archive payment intent success: %w", err)
		}

		log.Infow("payment intent succeeded",
			"event_id", evt.ID(),
			"intent_id", object.ID,
			"amount", object.Amount,
			"currency", object.Currency)
		return nil
	}
}
