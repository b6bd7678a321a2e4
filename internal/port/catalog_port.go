package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/domain"
)

// CatalogRepository reads catalog entities with their active flag set.
// Time windows are left to the caller.
type CatalogRepository interface {
	GetOffer(ctx context.Context, offerID uuid.UUID) (domain.Offer, error)
	ListOffersByProduct(ctx context.Context, productID uuid.UUID) ([]domain.Offer, error)

	ListProductDiscounts(ctx context.Context, productIDs []uuid.UUID) ([]domain.ProductDiscount, error)
	ListSetDiscounts(ctx context.Context, setIDs []uuid.UUID) ([]domain.SetDiscount, error)
	ListCartDiscounts(ctx context.Context, cartID uuid.UUID) ([]domain.CartDiscount, error)
	ListSetsByProducts(ctx context.Context, productIDs []uuid.UUID) ([]domain.SetOfProducts, error)

	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)
	InsertOffer(ctx context.Context, offer domain.Offer) (uuid.UUID, error)
	InsertProductDiscount(ctx context.Context, discount domain.ProductDiscount) (uuid.UUID, error)
	InsertProductGroup(ctx context.Context, group domain.ProductGroup) (uuid.UUID, error)
	InsertSetOfProducts(ctx context.Context, set domain.SetOfProducts) (uuid.UUID, error)
	InsertSetDiscount(ctx context.Context, discount domain.SetDiscount) (uuid.UUID, error)
	InsertCartDiscount(ctx context.Context, discount domain.CartDiscount) (uuid.UUID, error)

	DeactivateExpiredDiscounts(ctx context.Context, now time.Time) (int64, error)
}
