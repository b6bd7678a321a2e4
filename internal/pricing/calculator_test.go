package pricing_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/nikolayk812/cartprice/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestDiscountedPrice(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name      string
		price     string
		discount  *domain.ProductDiscount
		want      string
		wantError error
	}{
		{
			name:  "no discount: list price",
			price: "100.00",
			want:  "100.00",
		},
		{
			name:     "percent discount: ok",
			price:    "100.00",
			discount: productDiscount(productID, domain.Percent(10)),
			want:     "90.00",
		},
		{
			name:     "percent discount, fractional result: exact",
			price:    "19.99",
			discount: productDiscount(productID, domain.Percent(15)),
			want:     "16.9915",
		},
		{
			name:     "absolute discount: ok",
			price:    "100.00",
			discount: productDiscount(productID, domain.Absolute(dec("25.50"))),
			want:     "74.50",
		},
		{
			name:     "absolute discount equal to price: zero",
			price:    "10.00",
			discount: productDiscount(productID, domain.Absolute(dec("10.00"))),
			want:     "0",
		},
		{
			name:      "absolute discount above price: negative error",
			price:     "10.00",
			discount:  productDiscount(productID, domain.Absolute(dec("12.00"))),
			want:      "-2",
			wantError: domain.ErrNegativeDiscountedPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pricing.DiscountedPrice(money(tt.price), tt.discount)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
			} else {
				require.NoError(t, err)
			}

			assert.True(t, dec(tt.want).Equal(got.Amount), "want %s, got %s", tt.want, got.Amount)
			assert.Equal(t, currency.EUR, got.Currency)
		})
	}
}

func TestPartitionByDiscount(t *testing.T) {
	discounted := uuid.New()
	plain := uuid.New()
	overpriced := uuid.New()

	offers := []domain.Offer{
		offer(discounted, "50.00"),
		offer(plain, "30.00"),
		offer(overpriced, "5.00"),
	}
	discounts := map[uuid.UUID]*domain.ProductDiscount{
		discounted: productDiscount(discounted, domain.Percent(20)),
		overpriced: productDiscount(overpriced, domain.Absolute(dec("8.00"))),
	}

	with, without, err := pricing.PartitionByDiscount(offers, discounts)
	require.NoError(t, err)

	require.Len(t, with, 2)
	require.Len(t, without, 1)

	assert.Equal(t, "40.00", with[0].Price.Amount.StringFixed(2))
	assert.False(t, with[0].Clamped)
	assert.Equal(t, "0.00", with[1].Price.Amount.StringFixed(2))
	assert.True(t, with[1].Clamped)

	assert.Equal(t, offers[1].ID, without[0].Offer.ID)
	assert.Equal(t, "30.00", without[0].Price.Amount.StringFixed(2))
	assert.Nil(t, without[0].Discount)
}

func TestAverages(t *testing.T) {
	productID := uuid.New()

	offers := []domain.Offer{
		offer(productID, "100.00"),
		offer(productID, "50.00"),
		offer(uuid.New(), "30.00"),
	}
	discounts := map[uuid.UUID]*domain.ProductDiscount{
		productID: productDiscount(productID, domain.Percent(10)),
	}

	avg, err := pricing.AveragePrice(offers)
	require.NoError(t, err)
	assert.Equal(t, "60.00", avg.Amount.StringFixed(2))

	with, without, err := pricing.PartitionByDiscount(offers, discounts)
	require.NoError(t, err)

	avgDiscounted, err := pricing.AverageWithDiscount(with, without)
	require.NoError(t, err)
	// (90 + 45 + 30) / 3
	assert.Equal(t, "55.00", avgDiscounted.Amount.StringFixed(2))

	diff := pricing.PriceDifference(avg, avgDiscounted)
	assert.Equal(t, "5.00", diff.Amount.StringFixed(2))

	pct := pricing.PercentageDifference(diff, avg)
	assert.Equal(t, "8.33", pct.StringFixed(2))
}

func TestAveragesEmpty(t *testing.T) {
	avg, err := pricing.AveragePrice(nil)
	require.NoError(t, err)
	assert.True(t, avg.Amount.IsZero())

	avgDiscounted, err := pricing.AverageWithDiscount(nil, nil)
	require.NoError(t, err)
	assert.True(t, avgDiscounted.Amount.IsZero())

	pct := pricing.PercentageDifference(money("5.00"), avg)
	assert.True(t, pct.IsZero())
}

func TestAveragePriceCurrencyMismatch(t *testing.T) {
	usd := offer(uuid.New(), "10.00")
	usd.Price.Currency = currency.USD

	_, err := pricing.AveragePrice([]domain.Offer{offer(uuid.New(), "10.00"), usd})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCurrencyMismatch))
}

func TestSortByPrice(t *testing.T) {
	with := []pricing.PricedOffer{
		{Price: money("40.00")},
		{Price: money("10.00")},
	}
	without := []pricing.PricedOffer{
		{Price: money("25.00")},
	}

	sorted := pricing.SortByPrice(with, without)

	var got []string
	for _, po := range sorted {
		got = append(got, po.Price.Amount.StringFixed(2))
	}
	assert.Equal(t, []string{"10.00", "25.00", "40.00"}, got)
}
