package repository_test

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/nikolayk812/cartprice/internal/port"
	"github.com/nikolayk812/cartprice/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

// startPostgres runs a disposable postgres with every migration applied.
func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("cartprice"),
		postgres.WithUsername("cartprice"),
		postgres.WithPassword("cartprice"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	if err := repository.MigrateUp(connStr); err != nil {
		return container, "", fmt.Errorf("repository.MigrateUp: %w", err)
	}

	return container, connStr, nil
}

func truncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `TRUNCATE TABLE order_items, orders, cart_discounts, cart_items, carts,
		set_discounts, product_set_groups, product_sets, product_group_products, product_groups,
		product_discounts, offers, products CASCADE`)
	return err
}

var eur = currency.EUR

func money(amount string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(amount), eur)
}

func fakeProduct() domain.Product {
	return domain.Product{
		Title:    gofakeit.ProductName(),
		IsActive: true,
	}
}

func fakeOffer(productID uuid.UUID) domain.Offer {
	return domain.Offer{
		ProductID: productID,
		SellerID:  uuid.MustParse(gofakeit.UUID()),
		Price:     domain.NewMoney(decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2), eur),
		Quantity:  gofakeit.Number(5, 50),
		IsActive:  true,
	}
}

// insertOffer stores a fresh product with one offer and returns the offer with its ID set.
func insertOffer(ctx context.Context, catalog port.CatalogRepository) (domain.Offer, error) {
	productID, err := catalog.InsertProduct(ctx, fakeProduct())
	if err != nil {
		return domain.Offer{}, fmt.Errorf("catalog.InsertProduct: %w", err)
	}

	offer := fakeOffer(productID)

	offer.ID, err = catalog.InsertOffer(ctx, offer)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("catalog.InsertOffer: %w", err)
	}

	return offer, nil
}

func randomSessionOwner() domain.Owner {
	return domain.SessionOwner(gofakeit.UUID())
}

func randomBuyerOwner() domain.Owner {
	return domain.BuyerOwner(gofakeit.Username() + "-" + gofakeit.DigitN(6))
}
