package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/nikolayk812/cartprice/internal/pricing"
	"github.com/shopspring/decimal"
)

// PriceStats summarises the active offers of one product.
type PriceStats struct {
	ProductID           uuid.UUID
	OfferCount          int
	AveragePrice        domain.Money
	AverageWithDiscount domain.Money
	Difference          domain.Money
	Percentage          decimal.Decimal
	IsDiscounted        bool

	// Offers are ordered by effective price, cheapest first.
	Offers []pricing.PricedOffer
}

func (i *Index) ProductPriceStats(ctx context.Context, productID uuid.UUID, now time.Time) (PriceStats, error) {
	offers, err := i.repo.ListOffersByProduct(ctx, productID)
	if err != nil {
		return PriceStats{}, fmt.Errorf("repo.ListOffersByProduct: %w", err)
	}

	discount, err := i.ActiveDiscountFor(ctx, productID, now)
	if err != nil {
		return PriceStats{}, fmt.Errorf("ActiveDiscountFor: %w", err)
	}

	with, without, err := pricing.PartitionByDiscount(offers, map[uuid.UUID]*domain.ProductDiscount{productID: discount})
	if err != nil {
		return PriceStats{}, fmt.Errorf("pricing.PartitionByDiscount: %w", err)
	}

	for _, po := range with {
		if po.Clamped {
			i.log.Warn(ctx, "discounted price below zero, clamped", map[string]any{
				"offer_id":    po.Offer.ID.String(),
				"discount_id": po.Discount.ID.String(),
				"list_price":  po.Offer.Price.String(),
			})
		}
	}

	average, err := pricing.AveragePrice(offers)
	if err != nil {
		return PriceStats{}, fmt.Errorf("pricing.AveragePrice: %w", err)
	}

	averageWithDiscount, err := pricing.AverageWithDiscount(with, without)
	if err != nil {
		return PriceStats{}, fmt.Errorf("pricing.AverageWithDiscount: %w", err)
	}

	difference := pricing.PriceDifference(average, averageWithDiscount)

	return PriceStats{
		ProductID:           productID,
		OfferCount:          len(offers),
		AveragePrice:        average,
		AverageWithDiscount: averageWithDiscount,
		Difference:          difference,
		Percentage:          pricing.PercentageDifference(difference, average),
		IsDiscounted:        len(with) > 0,
		Offers:              pricing.SortByPrice(with, without),
	}, nil
}
