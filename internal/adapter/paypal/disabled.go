package paypal

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/usecase"
)

// Disabled is a PaymentGateway used when credentials are not configured.
// Every operation fails with ErrGatewayNotConfigured so top-up endpoints
// return a clear error instead of a connection failure.
type Disabled struct{}

func (Disabled) CreateOrder(ctx context.Context, amount decimal.Decimal, currency string) (string, error) {
	return "", domain.ErrGatewayNotConfigured
}

func (Disabled) CaptureOrder(ctx context.Context, orderID string) (*usecase.CaptureResult, error) {
	return nil, domain.ErrGatewayNotConfigured
}

func (Disabled) Verify(ctx context.Context) error {
	return domain.ErrGatewayNotConfigured
}
