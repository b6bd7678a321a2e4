package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/domain"
)

// Snapshot is everything one quote needs. The engine never mutates it
// and keeps nothing from it between calls.
type Snapshot struct {
	Now   time.Time
	Lines []domain.PricedLine

	// ProductDiscounts is keyed by product ID.
	ProductDiscounts map[uuid.UUID]*domain.ProductDiscount
	Sets             []SetCandidate
	CartDiscounts    []domain.CartDiscount
}

// SetCandidate pairs a set touched by the cart with its current discount, if any.
type SetCandidate struct {
	Set      domain.SetOfProducts
	Discount *domain.SetDiscount
}
