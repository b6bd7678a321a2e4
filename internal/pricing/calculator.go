package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PricedOffer is an offer with its effective unit price.
// Discount is nil when the product had no active discount.
type PricedOffer struct {
	Offer    domain.Offer
	Price    domain.Money
	Discount *domain.ProductDiscount
	Clamped  bool
}

// DiscountedPrice applies d to price. A nil discount leaves the price unchanged.
// The raw result is returned together with ErrNegativeDiscountedPrice when it drops below zero.
func DiscountedPrice(price domain.Money, d *domain.ProductDiscount) (domain.Money, error) {
	if d == nil {
		return price, nil
	}

	result := domain.Money{
		Amount:   price.Amount.Sub(d.Value.AmountOf(price.Amount)),
		Currency: price.Currency,
	}

	if result.Amount.IsNegative() {
		return result, fmt.Errorf("discount[%s] on price %s: %w", d.ID, price, domain.ErrNegativeDiscountedPrice)
	}

	return result, nil
}

// effectivePrice clamps a negative discounted price at zero.
func effectivePrice(price domain.Money, d *domain.ProductDiscount) (domain.Money, bool, error) {
	discounted, err := DiscountedPrice(price, d)
	if err != nil {
		if errors.Is(err, domain.ErrNegativeDiscountedPrice) {
			return domain.ZeroMoney(price.Currency), true, nil
		}
		return discounted, false, err
	}

	return discounted, false, nil
}

// PartitionByDiscount splits offers by whether their product has a discount in discounts.
// Discounts are keyed by product ID and expected to be active already.
func PartitionByDiscount(offers []domain.Offer, discounts map[uuid.UUID]*domain.ProductDiscount) (with, without []PricedOffer, err error) {
	for _, offer := range offers {
		d := discounts[offer.ProductID]
		if d == nil {
			without = append(without, PricedOffer{Offer: offer, Price: offer.Price})
			continue
		}

		price, clamped, err := effectivePrice(offer.Price, d)
		if err != nil {
			return nil, nil, fmt.Errorf("effectivePrice[%s]: %w", offer.ID, err)
		}

		with = append(with, PricedOffer{
			Offer:    offer,
			Price:    price,
			Discount: d,
			Clamped:  clamped,
		})
	}

	return with, without, nil
}

// AveragePrice is the mean list price. It is zero for no offers.
func AveragePrice(offers []domain.Offer) (domain.Money, error) {
	prices := make([]domain.Money, 0, len(offers))
	for _, offer := range offers {
		prices = append(prices, offer.Price)
	}

	total, err := sum(prices)
	if err != nil {
		return domain.Money{}, err
	}

	if len(prices) == 0 {
		return total, nil
	}

	return domain.Money{
		Amount:   total.Amount.Div(decimal.NewFromInt(int64(len(prices)))),
		Currency: total.Currency,
	}, nil
}

// AverageWithDiscount is the mean effective price over both partitions.
// With no offers at all it returns the (zero) total.
func AverageWithDiscount(with, without []PricedOffer) (domain.Money, error) {
	prices := make([]domain.Money, 0, len(with)+len(without))
	for _, po := range with {
		prices = append(prices, po.Price)
	}
	for _, po := range without {
		prices = append(prices, po.Price)
	}

	total, err := sum(prices)
	if err != nil {
		return domain.Money{}, err
	}

	count := len(prices)
	if count == 0 {
		return total, nil
	}

	return domain.Money{
		Amount:   total.Amount.Div(decimal.NewFromInt(int64(count))),
		Currency: total.Currency,
	}, nil
}

func PriceDifference(average, averageWithDiscount domain.Money) domain.Money {
	return domain.Money{
		Amount:   average.Amount.Sub(averageWithDiscount.Amount),
		Currency: average.Currency,
	}
}

// PercentageDifference is difference relative to average, in percent. Zero when average is zero.
func PercentageDifference(difference, average domain.Money) decimal.Decimal {
	if average.Amount.IsZero() {
		return decimal.Zero
	}

	return difference.Amount.Div(average.Amount).Mul(hundred)
}

// SortByPrice merges both partitions ordered by effective price, cheapest first.
func SortByPrice(with, without []PricedOffer) []PricedOffer {
	combined := make([]PricedOffer, 0, len(with)+len(without))
	combined = append(combined, with...)
	combined = append(combined, without...)

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Price.Amount.LessThan(combined[j].Price.Amount)
	})

	return combined
}

func sum(prices []domain.Money) (domain.Money, error) {
	var total domain.Money
	total.Amount = decimal.Zero

	for i, price := range prices {
		if i == 0 {
			total.Currency = price.Currency
		} else if price.Currency != total.Currency {
			return domain.Money{}, fmt.Errorf("%s vs %s: %w", total.Currency, price.Currency, domain.ErrCurrencyMismatch)
		}
		total.Amount = total.Amount.Add(price.Amount)
	}

	return total, nil
}
