package usecases

import (
	"context"
	"errors"

	"payhook/internal/application/payment/gateway"
	"payhook/internal/domain/session"
	vo "payhook/internal/domain/session/valueobjects"
	apperrors "payhook/internal/shared/errors"
	"payhook/internal/shared/logger"
)

type CheckoutLineItem struct {
	Price    string
	Quantity int64
}

type CheckoutCustomField struct {
	Key      string
	Type     string
	Optional bool
}

type CreateCheckoutSessionCommand struct {
	Mode          string
	LineItems     []CheckoutLineItem
	CustomFields  []CheckoutCustomField
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

type CreateCheckoutSessionResult struct {
	SessionID string
	Result    session.Result
	Raw       []byte
}

// CreateCheckoutSessionUseCase builds a redirect-style session. Validation is
// fail-fast: every rule runs before the single remote call, so an invalid
// command never reaches the provider.
type CreateCheckoutSessionUseCase struct {
	gateway gateway.Gateway
	logger  logger.Interface
}

func NewCreateCheckoutSessionUseCase(gw gateway.Gateway, logger logger.Interface) *CreateCheckoutSessionUseCase {
	return &CreateCheckoutSessionUseCase{
		gateway: gw,
		logger:  logger,
	}
}

func (uc *CreateCheckoutSessionUseCase) Execute(ctx context.Context, cmd CreateCheckoutSessionCommand) (*CreateCheckoutSessionResult, error) {
	req, err := uc.buildRequest(cmd)
	if err != nil {
		uc.logger.Warnw("rejected checkout session command", "error", err)
		return nil, apperrors.NewValidationError("invalid checkout session request", err.Error())
	}

	created, err := uc.gateway.CreateCheckoutSession(ctx, *req)
	if err != nil {
		return nil, classifyGatewayError(uc.logger, "checkout session", err)
	}

	uc.logger.Infow("checkout session created",
		"session_id", created.ID,
		"mode", req.Mode.String(),
		"amount_total", created.AmountTotal,
		"currency", created.Currency)

	return &CreateCheckoutSessionResult{
		SessionID: created.ID,
		Result:    session.NewRedirectResult(created.URL),
		Raw:       created.Raw,
	}, nil
}

func (uc *CreateCheckoutSessionUseCase) buildRequest(cmd CreateCheckoutSessionCommand) (*session.CheckoutRequest, error) {
	mode, err := vo.NewCheckoutMode(cmd.Mode)
	if err != nil {
		return nil, err
	}

	items := make([]session.LineItem, 0, len(cmd.LineItems))
	for _, item := range cmd.LineItems {
		items = append(items, session.LineItem{
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	fields := make([]vo.CustomField, 0, len(cmd.CustomFields))
	for _, f := range cmd.CustomFields {
		fieldType, err := vo.NewFieldType(f.Type)
		if err != nil {
			return nil, err
		}
		field, err := vo.NewCustomField(f.Key, fieldType, f.Optional)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	req := &session.CheckoutRequest{
		Mode:          mode,
		LineItems:     items,
		CustomFields:  fields,
		CustomerEmail: cmd.CustomerEmail,
		SuccessURL:    cmd.SuccessURL,
		CancelURL:     cmd.CancelURL,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// classifyGatewayError maps provider failures onto the response taxonomy:
// the caller's fault answers 400, the provider's fault answers 502. The
// orchestrator never retries; a stale idempotency key would be worse than a
// surfaced error.
func classifyGatewayError(log logger.Interface, operation string, err error) error {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		if gwErr.ClientFault() {
			log.Warnw("provider rejected "+operation, "status", gwErr.StatusCode, "code", gwErr.Code, "error", gwErr.Message)
			return apperrors.NewBadRequestError(gwErr.Message)
		}
		log.Errorw("provider failed to create "+operation, "status", gwErr.StatusCode, "error", gwErr.Message)
		return apperrors.NewBadGatewayError("payment provider is unavailable")
	}

	log.Errorw("failed to reach provider for "+operation, "error", err)
	return apperrors.NewBadGatewayError("payment provider is unreachable")
}
