package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartprice/internal/db"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/nikolayk812/cartprice/internal/port"
)

type cartRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		dbtx: tx,
	}
}

func (r *cartRepository) EnsureCart(ctx context.Context, owner domain.Owner) (domain.Cart, error) {
	if err := owner.Validate(); err != nil {
		return domain.Cart{}, fmt.Errorf("owner.Validate: %w", err)
	}

	return withTx(ctx, r.dbtx, readWrite, func(q *db.Queries) (domain.Cart, error) {
		dbCart, err := q.UpsertCart(ctx, db.UpsertCartParams{
			OwnerKind: string(owner.Kind),
			OwnerID:   owner.ID,
		})
		if err != nil {
			return domain.Cart{}, fmt.Errorf("q.UpsertCart: %w", err)
		}

		return getCartItems(ctx, q, dbCart)
	})
}

func (r *cartRepository) GetCart(ctx context.Context, owner domain.Owner) (domain.Cart, error) {
	if err := owner.Validate(); err != nil {
		return domain.Cart{}, fmt.Errorf("owner.Validate: %w", err)
	}

	return withTx(ctx, r.dbtx, readSnapshot, func(q *db.Queries) (domain.Cart, error) {
		dbCart, err := q.GetCartByOwner(ctx, db.GetCartByOwnerParams{
			OwnerKind: string(owner.Kind),
			OwnerID:   owner.ID,
		})
		if err != nil {
			return domain.Cart{}, fmt.Errorf("q.GetCartByOwner: %w", notFound(err))
		}

		return getCartItems(ctx, q, dbCart)
	})
}

type cartLines struct {
	cart  domain.Cart
	lines []domain.PricedLine
}

func (r *cartRepository) GetLines(ctx context.Context, owner domain.Owner) (domain.Cart, []domain.PricedLine, error) {
	if err := owner.Validate(); err != nil {
		return domain.Cart{}, nil, fmt.Errorf("owner.Validate: %w", err)
	}

	result, err := withTx(ctx, r.dbtx, readSnapshot, func(q *db.Queries) (cartLines, error) {
		dbCart, err := q.GetCartByOwner(ctx, db.GetCartByOwnerParams{
			OwnerKind: string(owner.Kind),
			OwnerID:   owner.ID,
		})
		if err != nil {
			return cartLines{}, fmt.Errorf("q.GetCartByOwner: %w", notFound(err))
		}

		rows, err := q.GetCartLines(ctx, dbCart.ID)
		if err != nil {
			return cartLines{}, fmt.Errorf("q.GetCartLines: %w", err)
		}

		cart := mapDBCartToDomain(dbCart)
		lines := make([]domain.PricedLine, 0, len(rows))

		for _, row := range rows {
			line, err := mapGetCartLinesRowToDomain(row)
			if err != nil {
				return cartLines{}, fmt.Errorf("mapGetCartLinesRowToDomain: %w", err)
			}
			cart.Items = append(cart.Items, line.Item)
			lines = append(lines, line)
		}

		return cartLines{cart: cart, lines: lines}, nil
	})
	if err != nil {
		return domain.Cart{}, nil, err
	}

	return result.cart, result.lines, nil
}

func (r *cartRepository) AddItem(ctx context.Context, cartID, offerID uuid.UUID, quantity int) (domain.CartItem, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return domain.CartItem{}, err
	}

	return withTx(ctx, r.dbtx, readWrite, func(q *db.Queries) (domain.CartItem, error) {
		row, err := q.AddCartItem(ctx, db.AddCartItemParams{
			CartID:   cartID,
			OfferID:  offerID,
			Quantity: int32(quantity),
		})
		if err != nil {
			return domain.CartItem{}, fmt.Errorf("q.AddCartItem: %w", notFound(err))
		}

		if err := q.TouchCart(ctx, cartID); err != nil {
			return domain.CartItem{}, fmt.Errorf("q.TouchCart: %w", err)
		}

		return mapDBCartItemToDomain(row), nil
	})
}

func (r *cartRepository) SetQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return err
	}

	cmdTag, err := r.q.UpdateCartItemQuantity(ctx, db.UpdateCartItemQuantityParams{
		Quantity: int32(quantity),
		CartID:   cartID,
		ID:       itemID,
	})
	if err != nil {
		return fmt.Errorf("q.UpdateCartItemQuantity: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.UpdateCartItemQuantity: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error) {
	cmdTag, err := r.q.DeleteCartItem(ctx, db.DeleteCartItemParams{
		CartID: cartID,
		ID:     itemID,
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteCartItem: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func (r *cartRepository) MergeCarts(ctx context.Context, from, to domain.Owner) (int64, error) {
	if err := from.Validate(); err != nil {
		return 0, fmt.Errorf("from.Validate: %w", err)
	}
	if err := to.Validate(); err != nil {
		return 0, fmt.Errorf("to.Validate: %w", err)
	}
	if from == to {
		return 0, errors.New("cannot merge a cart into itself")
	}

	return withTx(ctx, r.dbtx, readWrite, func(q *db.Queries) (int64, error) {
		source, err := q.GetCartByOwnerForUpdate(ctx, db.GetCartByOwnerForUpdateParams{
			OwnerKind: string(from.Kind),
			OwnerID:   from.ID,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, nil
			}
			return 0, fmt.Errorf("q.GetCartByOwnerForUpdate: %w", err)
		}

		target, err := q.UpsertCart(ctx, db.UpsertCartParams{
			OwnerKind: string(to.Kind),
			OwnerID:   to.ID,
		})
		if err != nil {
			return 0, fmt.Errorf("q.UpsertCart: %w", err)
		}

		cmdTag, err := q.MoveCartItems(ctx, db.MoveCartItemsParams{
			ToCartID:   target.ID,
			FromCartID: source.ID,
		})
		if err != nil {
			return 0, fmt.Errorf("q.MoveCartItems: %w", err)
		}

		if _, err := q.DeleteCart(ctx, source.ID); err != nil {
			return 0, fmt.Errorf("q.DeleteCart: %w", err)
		}

		if err := q.TouchCart(ctx, target.ID); err != nil {
			return 0, fmt.Errorf("q.TouchCart: %w", err)
		}

		return cmdTag.RowsAffected(), nil
	})
}

func (r *cartRepository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	cmdTag, err := r.q.DeleteCart(ctx, cartID)
	if err != nil {
		return fmt.Errorf("q.DeleteCart: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.DeleteCart: %w", domain.ErrNotFound)
	}

	return nil
}

func getCartItems(ctx context.Context, q *db.Queries, dbCart db.Cart) (domain.Cart, error) {
	rows, err := q.GetCartItems(ctx, dbCart.ID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCartItems: %w", err)
	}

	cart := mapDBCartToDomain(dbCart)
	for _, row := range rows {
		cart.Items = append(cart.Items, mapDBCartItemToDomain(row))
	}

	return cart, nil
}

func mapDBCartToDomain(row db.Cart) domain.Cart {
	return domain.Cart{
		ID: row.ID,
		Owner: domain.Owner{
			Kind: domain.OwnerKind(row.OwnerKind),
			ID:   row.OwnerID,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func mapDBCartItemToDomain(row db.CartItem) domain.CartItem {
	return domain.CartItem{
		ID:        row.ID,
		OfferID:   row.OfferID,
		Quantity:  int(row.Quantity),
		CreatedAt: row.CreatedAt,
	}
}

func mapGetCartLinesRowToDomain(row db.GetCartLinesRow) (domain.PricedLine, error) {
	price, err := toMoney(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.PricedLine{}, fmt.Errorf("toMoney: %w", err)
	}

	return domain.PricedLine{
		Item: domain.CartItem{
			ID:        row.ItemID,
			OfferID:   row.OfferID,
			Quantity:  int(row.ItemQuantity),
			CreatedAt: row.ItemCreatedAt,
		},
		Offer: domain.Offer{
			ID:        row.OfferID,
			ProductID: row.ProductID,
			SellerID:  row.SellerID,
			Price:     price,
			Quantity:  int(row.OfferQuantity),
			IsActive:  row.OfferIsActive,
		},
	}, nil
}
