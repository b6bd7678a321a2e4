package repository_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/nikolayk812/cartprice/internal/port"
	"github.com/nikolayk812/cartprice/internal/repository"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"golang.org/x/text/currency"
)

type catalogRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	repo      port.CatalogRepository
	carts     port.CartRepository
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestCatalogRepositorySuite(t *testing.T) {
	suite.Run(t, new(catalogRepositorySuite))
}

// before all tests in the suite
func (suite *catalogRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo = repository.NewCatalog(suite.pool)
	suite.carts = repository.NewCart(suite.pool)
}

// after all tests in the suite
func (suite *catalogRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *catalogRepositorySuite) TearDownTest() {
	suite.NoError(truncateAll(suite.T().Context(), suite.pool))
}

func (suite *catalogRepositorySuite) TestInsertOffer() {
	productID, err := suite.repo.InsertProduct(suite.T().Context(), fakeProduct())
	suite.Require().NoError(err)

	tests := []struct {
		name      string
		offerFunc func() domain.Offer
		wantError string
	}{
		{
			name:      "valid offer: ok",
			offerFunc: func() domain.Offer { return fakeOffer(productID) },
		},
		{
			name: "inactive offer: ok",
			offerFunc: func() domain.Offer {
				o := fakeOffer(productID)
				o.IsActive = false
				return o
			},
		},
		{
			name: "negative stock: error",
			offerFunc: func() domain.Offer {
				o := fakeOffer(productID)
				o.Quantity = -1
				return o
			},
			wantError: "offer.Validate: quantity is negative",
		},
		{
			name: "missing currency: error",
			offerFunc: func() domain.Offer {
				o := fakeOffer(productID)
				o.Price.Currency = currency.Unit{}
				return o
			},
			wantError: "offer.Validate: price: currency is empty",
		},
		{
			name: "unknown product: not found",
			offerFunc: func() domain.Offer {
				return fakeOffer(uuid.MustParse(gofakeit.UUID()))
			},
			wantError: "q.InsertOffer: offers_product_id_fkey: not found",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			offer := tt.offerFunc()

			offerID, err := suite.repo.InsertOffer(ctx, offer)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			actual, err := suite.repo.GetOffer(ctx, offerID)
			require.NoError(t, err)

			offer.ID = offerID
			assertOffer(t, offer, actual)
		})
	}
}

func (suite *catalogRepositorySuite) TestGetOfferNotFound() {
	_, err := suite.repo.GetOffer(suite.T().Context(), uuid.MustParse(gofakeit.UUID()))
	suite.Require().ErrorIs(err, domain.ErrNotFound)
}

func (suite *catalogRepositorySuite) TestListOffersByProduct() {
	t := suite.T()
	ctx := t.Context()

	productID, err := suite.repo.InsertProduct(ctx, fakeProduct())
	require.NoError(t, err)

	active := fakeOffer(productID)
	active.ID, err = suite.repo.InsertOffer(ctx, active)
	require.NoError(t, err)

	inactive := fakeOffer(productID)
	inactive.IsActive = false
	_, err = suite.repo.InsertOffer(ctx, inactive)
	require.NoError(t, err)

	offers, err := suite.repo.ListOffersByProduct(ctx, productID)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assertOffer(t, active, offers[0])
}

func (suite *catalogRepositorySuite) TestProductDiscounts() {
	t := suite.T()
	ctx := t.Context()

	productID, err := suite.repo.InsertProduct(ctx, fakeProduct())
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	current := domain.ProductDiscount{
		ProductID:   lo.ToPtr(productID),
		Value:       domain.Percent(15),
		Window:      domain.Window{Start: lo.ToPtr(past)},
		IsActive:    true,
		Description: "spring sale",
	}
	current.ID, err = suite.repo.InsertProductDiscount(ctx, current)
	require.NoError(t, err)

	expiring := domain.ProductDiscount{
		ProductID: lo.ToPtr(productID),
		Value:     domain.Absolute(decimal.RequireFromString("2.50")),
		Window:    domain.Window{End: lo.ToPtr(future)},
		IsActive:  true,
	}
	expiring.ID, err = suite.repo.InsertProductDiscount(ctx, expiring)
	require.NoError(t, err)

	expired := domain.ProductDiscount{
		ProductID: lo.ToPtr(productID),
		Value:     domain.Percent(50),
		Window:    domain.Window{End: lo.ToPtr(past)},
		IsActive:  true,
	}
	_, err = suite.repo.InsertProductDiscount(ctx, expired)
	require.NoError(t, err)

	_, err = suite.repo.InsertProductDiscount(ctx, domain.ProductDiscount{
		ProductID: lo.ToPtr(productID),
		Value:     domain.Percent(101),
		IsActive:  true,
	})
	require.EqualError(t, err, "discount.Validate: value: percent size is greater than 100")

	discounts, err := suite.repo.ListProductDiscounts(ctx, []uuid.UUID{productID})
	require.NoError(t, err)

	// already expired discounts are stored inactive
	ids := lo.Map(discounts, func(d domain.ProductDiscount, _ int) uuid.UUID { return d.ID })
	assert.ElementsMatch(t, []uuid.UUID{current.ID, expiring.ID}, ids)

	deactivated, err := suite.repo.DeactivateExpiredDiscounts(ctx, future.Add(time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deactivated)

	discounts, err = suite.repo.ListProductDiscounts(ctx, []uuid.UUID{productID})
	require.NoError(t, err)
	require.Len(t, discounts, 1)
	assert.Equal(t, current.ID, discounts[0].ID)
	assert.True(t, discounts[0].Value.IsPercent)
	assert.True(t, discounts[0].Value.Size.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, "spring sale", discounts[0].Description)

	empty, err := suite.repo.ListProductDiscounts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func (suite *catalogRepositorySuite) TestSetsAndSetDiscounts() {
	t := suite.T()
	ctx := t.Context()

	phone := suite.insertProduct()
	otherPhone := suite.insertProduct()
	charger := suite.insertProduct()
	unrelated := suite.insertProduct()

	phones := domain.ProductGroup{Name: "phones", ProductIDs: []uuid.UUID{phone, otherPhone}}
	chargers := domain.ProductGroup{Name: "chargers", ProductIDs: []uuid.UUID{charger}}

	var err error

	phones.ID, err = suite.repo.InsertProductGroup(ctx, phones)
	require.NoError(t, err)

	chargers.ID, err = suite.repo.InsertProductGroup(ctx, chargers)
	require.NoError(t, err)

	_, err = suite.repo.InsertSetOfProducts(ctx, domain.SetOfProducts{Name: "lonely", Groups: []domain.ProductGroup{phones}})
	require.EqualError(t, err, "set.Validate: set needs at least two groups")

	set := domain.SetOfProducts{Name: "phone with charger", Groups: []domain.ProductGroup{phones, chargers}}
	set.ID, err = suite.repo.InsertSetOfProducts(ctx, set)
	require.NoError(t, err)

	sets, err := suite.repo.ListSetsByProducts(ctx, []uuid.UUID{charger})
	require.NoError(t, err)
	require.Len(t, sets, 1)

	diff := cmp.Diff(set, sets[0],
		cmpopts.SortSlices(func(x, y domain.ProductGroup) bool { return x.Name < y.Name }),
		cmpopts.SortSlices(func(x, y uuid.UUID) bool { return x.String() < y.String() }),
	)
	assert.Empty(t, diff)
	assert.True(t, sets[0].RepresentedBy([]uuid.UUID{otherPhone, charger}))

	sets, err = suite.repo.ListSetsByProducts(ctx, []uuid.UUID{unrelated})
	require.NoError(t, err)
	assert.Empty(t, sets)

	discount := domain.SetDiscount{
		SetID:    set.ID,
		Value:    domain.Absolute(decimal.RequireFromString("10")),
		IsActive: true,
	}
	discount.ID, err = suite.repo.InsertSetDiscount(ctx, discount)
	require.NoError(t, err)

	_, err = suite.repo.InsertSetDiscount(ctx, domain.SetDiscount{
		SetID: uuid.MustParse(gofakeit.UUID()),
		Value: domain.Percent(5),
	})
	require.EqualError(t, err, "q.InsertSetDiscount: set_discounts_set_id_fkey: not found")

	discounts, err := suite.repo.ListSetDiscounts(ctx, []uuid.UUID{set.ID})
	require.NoError(t, err)
	require.Len(t, discounts, 1)
	assert.Equal(t, discount.ID, discounts[0].ID)
	assert.True(t, discounts[0].Value.Size.Equal(decimal.NewFromInt(10)))
}

func (suite *catalogRepositorySuite) TestCartDiscounts() {
	t := suite.T()
	ctx := t.Context()

	cart, err := suite.carts.EnsureCart(ctx, randomBuyerOwner())
	require.NoError(t, err)

	withThresholds := domain.CartDiscount{
		CartID:      cart.ID,
		MinOrderSum: lo.ToPtr(decimal.RequireFromString("100")),
		MinQuantity: lo.ToPtr(3),
		Value:       domain.Percent(10),
		IsActive:    true,
	}
	withThresholds.ID, err = suite.repo.InsertCartDiscount(ctx, withThresholds)
	require.NoError(t, err)

	plain := domain.CartDiscount{
		CartID:   cart.ID,
		Value:    domain.Absolute(decimal.RequireFromString("5")),
		IsActive: true,
	}
	plain.ID, err = suite.repo.InsertCartDiscount(ctx, plain)
	require.NoError(t, err)

	_, err = suite.repo.InsertCartDiscount(ctx, domain.CartDiscount{
		CartID:      cart.ID,
		MinQuantity: lo.ToPtr(-1),
		Value:       domain.Percent(10),
	})
	require.EqualError(t, err, "discount.Validate: min quantity is negative")

	discounts, err := suite.repo.ListCartDiscounts(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, discounts, 2)

	// ordered by creation
	assert.Equal(t, withThresholds.ID, discounts[0].ID)
	require.NotNil(t, discounts[0].MinOrderSum)
	assert.True(t, discounts[0].MinOrderSum.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, lo.ToPtr(3), discounts[0].MinQuantity)

	assert.Equal(t, plain.ID, discounts[1].ID)
	assert.Nil(t, discounts[1].MinOrderSum)
	assert.Nil(t, discounts[1].MinQuantity)
}

func (suite *catalogRepositorySuite) insertProduct() uuid.UUID {
	id, err := suite.repo.InsertProduct(suite.T().Context(), fakeProduct())
	suite.Require().NoError(err)
	return id
}

func assertOffer(t *testing.T, expected, actual domain.Offer) {
	t.Helper()

	currencyComparer := cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})

	diff := cmp.Diff(expected, actual, currencyComparer)
	assert.Empty(t, diff)
}
