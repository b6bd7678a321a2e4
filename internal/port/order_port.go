package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/domain"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error)

	// CompleteOrder persists the order with its items and deletes the cart in one transaction.
	CompleteOrder(ctx context.Context, order domain.Order, cartID uuid.UUID) (uuid.UUID, error)

	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error

	SoftDeleteOrder(ctx context.Context, orderID uuid.UUID) error

	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}
