package usecases

import (
	"context"

	"payhook/internal/application/payment/gateway"
	"payhook/internal/domain/session"
	vo "payhook/internal/domain/session/valueobjects"
	apperrors "payhook/internal/shared/errors"
	"payhook/internal/shared/logger"
)

type CreatePaymentIntentCommand struct {
	AmountInCents int64
	Currency      string
	CustomerEmail string
}

type CreatePaymentIntentResult struct {
	IntentID string
	Result   session.Result
	Raw      []byte
}

// CreatePaymentIntentUseCase builds a confirm-style session: the caller gets
// a client secret and finishes the payment in the browser.
type CreatePaymentIntentUseCase struct {
	gateway gateway.Gateway
	logger  logger.Interface
}

func NewCreatePaymentIntentUseCase(gw gateway.Gateway, logger logger.Interface) *CreatePaymentIntentUseCase {
	return &CreatePaymentIntentUseCase{
		gateway: gw,
		logger:  logger,
	}
}

func (uc *CreatePaymentIntentUseCase) Execute(ctx context.Context, cmd CreatePaymentIntentCommand) (*CreatePaymentIntentResult, error) {
	amount, err := vo.NewMoney(cmd.AmountInCents, cmd.Currency)
	if err != nil {
		uc.logger.Warnw("rejected payment intent command", "error", err, "amount", cmd.AmountInCents, "currency", cmd.Currency)
		return nil, apperrors.NewValidationError("invalid payment intent request", err.Error())
	}

	req := session.IntentRequest{
		Amount:        amount,
		CustomerEmail: cmd.CustomerEmail,
	}
	if err := req.Validate(); err != nil {
		uc.logger.Warnw("rejected payment intent command", "error", err)
		return nil, apperrors.NewValidationError("invalid payment intent request", err.Error())
	}

	created, err := uc.gateway.CreatePaymentIntent(ctx, req)
	if err != nil {
		return nil, classifyGatewayError(uc.logger, "payment intent", err)
	}

	uc.logger.Infow("payment intent created",
		"intent_id", created.ID,
		"amount", created.Amount,
		"currency", created.Currency)

	return &CreatePaymentIntentResult{
		IntentID: created.ID,
		Result:   session.NewConfirmResult(created.ClientSecret),
		Raw:      created.Raw,
	}, nil
}
