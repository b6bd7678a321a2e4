package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/domain"
)

type CartRepository interface {
	// EnsureCart returns the owner's cart, creating an empty one on first use.
	EnsureCart(ctx context.Context, owner domain.Owner) (domain.Cart, error)

	// GetCart returns domain.ErrNotFound when the owner has no cart yet.
	GetCart(ctx context.Context, owner domain.Owner) (domain.Cart, error)

	// GetLines reads the cart and joins every item with its offer in one snapshot.
	GetLines(ctx context.Context, owner domain.Owner) (domain.Cart, []domain.PricedLine, error)

	// AddItem increments the quantity when the offer is already in the cart.
	AddItem(ctx context.Context, cartID, offerID uuid.UUID, quantity int) (domain.CartItem, error)

	SetQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error

	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error)

	// MergeCarts moves items missing from the target and deletes the source cart.
	MergeCarts(ctx context.Context, from, to domain.Owner) (int64, error)

	DeleteCart(ctx context.Context, cartID uuid.UUID) error
}
