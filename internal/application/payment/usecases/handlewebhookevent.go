package usecases

import (
	"context"

	"payhook/internal/application/webhook"
	"payhook/internal/shared/biztime"
	"payhook/internal/shared/logger"
)

// HandleWebhookEventUseCase runs one raw delivery through the verification and
// dispatch pipeline. Verification happens on the exact captured bytes before
// any decoding; dispatch only ever sees events the verifier accepted.
type HandleWebhookEventUseCase struct {
	verifier   *webhook.Verifier
	dispatcher *webhook.Dispatcher
	logger     logger.Interface
}

func NewHandleWebhookEventUseCase(
	verifier *webhook.Verifier,
	dispatcher *webhook.Dispatcher,
	logger logger.Interface,
) *HandleWebhookEventUseCase {
	return &HandleWebhookEventUseCase{
		verifier:   verifier,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (uc *HandleWebhookEventUseCase) Execute(ctx context.Context, rawBody []byte, signatureHeader string) (webhook.Outcome, error) {
	evt, err := uc.verifier.Verify(rawBody, signatureHeader, biztime.NowUTC())
	if err != nil {
		uc.logger.Warnw("rejected webhook delivery", "error", err)
		return "", err
	}

	return uc.dispatcher.Dispatch(ctx, evt)
}
