package port

import (
	"context"

	"github.com/nikolayk812/cartprice/internal/domain"
)

// PaymentGateway charges a computed total. It never retries.
// Declined and unreachable outcomes are statuses, not errors;
// an error means the request itself was invalid.
type PaymentGateway interface {
	Charge(ctx context.Context, req domain.ChargeRequest) (domain.PaymentStatus, error)
}
