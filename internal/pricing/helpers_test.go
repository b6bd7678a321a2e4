package pricing_test

import (
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/nikolayk812/cartprice/internal/pricing"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func money(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), Currency: currency.EUR}
}

func dec(amount string) decimal.Decimal {
	return decimal.RequireFromString(amount)
}

func offer(productID uuid.UUID, price string) domain.Offer {
	return domain.Offer{
		ID:        uuid.New(),
		ProductID: productID,
		SellerID:  uuid.New(),
		Price:     money(price),
		Quantity:  100,
		IsActive:  true,
	}
}

func line(productID uuid.UUID, price string, qty int) domain.PricedLine {
	o := offer(productID, price)
	return domain.PricedLine{
		Item:  domain.CartItem{ID: uuid.New(), OfferID: o.ID, Quantity: qty},
		Offer: o,
	}
}

func productDiscount(productID uuid.UUID, value domain.DiscountValue) *domain.ProductDiscount {
	return &domain.ProductDiscount{
		ID:        uuid.New(),
		ProductID: lo.ToPtr(productID),
		Value:     value,
		IsActive:  true,
	}
}

func setOf(groups ...[]uuid.UUID) domain.SetOfProducts {
	s := domain.SetOfProducts{ID: uuid.New(), Name: "set"}
	for _, products := range groups {
		s.Groups = append(s.Groups, domain.ProductGroup{ID: uuid.New(), ProductIDs: products})
	}
	return s
}

func setCandidate(s domain.SetOfProducts, value domain.DiscountValue) pricing.SetCandidate {
	return pricing.SetCandidate{
		Set: s,
		Discount: &domain.SetDiscount{
			ID:       uuid.New(),
			SetID:    s.ID,
			Value:    value,
			IsActive: true,
			Window: domain.Window{
				Start: lo.ToPtr(now.Add(-time.Hour)),
				End:   lo.ToPtr(now.Add(time.Hour)),
			},
		},
	}
}

func cartDiscount(value domain.DiscountValue, minSum *decimal.Decimal, minQty *int) domain.CartDiscount {
	return domain.CartDiscount{
		ID:          uuid.New(),
		CartID:      uuid.New(),
		MinOrderSum: minSum,
		MinQuantity: minQty,
		Value:       value,
		IsActive:    true,
		Window: domain.Window{
			Start: lo.ToPtr(now.Add(-time.Hour)),
			End:   lo.ToPtr(now.Add(time.Hour)),
		},
		CreatedAt: now.Add(-2 * time.Hour),
	}
}

func quoteComparer() cmp.Options {
	return cmp.Options{
		cmp.Comparer(func(x, y decimal.Decimal) bool {
			return x.Equal(y)
		}),
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
	}
}
