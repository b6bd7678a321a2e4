package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartprice/internal/db"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/nikolayk812/cartprice/internal/port"
	"github.com/samber/lo"
)

type catalogRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewCatalog(pool *pgxpool.Pool) port.CatalogRepository {
	return &catalogRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewCatalogWithTx(tx pgx.Tx) port.CatalogRepository {
	return &catalogRepository{
		q:    db.New(tx),
		dbtx: tx,
	}
}

func (r *catalogRepository) GetOffer(ctx context.Context, offerID uuid.UUID) (domain.Offer, error) {
	row, err := r.q.GetOffer(ctx, offerID)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("q.GetOffer: %w", notFound(err))
	}

	offer, err := mapDBOfferToDomain(row)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("mapDBOfferToDomain: %w", err)
	}

	return offer, nil
}

func (r *catalogRepository) ListOffersByProduct(ctx context.Context, productID uuid.UUID) ([]domain.Offer, error) {
	rows, err := r.q.ListActiveOffersByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("q.ListActiveOffersByProduct: %w", err)
	}

	offers := make([]domain.Offer, 0, len(rows))
	for _, row := range rows {
		offer, err := mapDBOfferToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapDBOfferToDomain: %w", err)
		}
		offers = append(offers, offer)
	}

	return offers, nil
}

func (r *catalogRepository) ListProductDiscounts(ctx context.Context, productIDs []uuid.UUID) ([]domain.ProductDiscount, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	rows, err := r.q.ListActiveProductDiscounts(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("q.ListActiveProductDiscounts: %w", err)
	}

	return lo.Map(rows, func(row db.ProductDiscount, _ int) domain.ProductDiscount {
		return domain.ProductDiscount{
			ID:          row.ID,
			ProductID:   row.ProductID,
			Value:       domain.DiscountValue{IsPercent: row.IsPercent, Size: row.Size},
			Window:      domain.Window{Start: row.StartAt, End: row.EndAt},
			IsActive:    row.IsActive,
			IsPriority:  row.IsPriority,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
		}
	}), nil
}

func (r *catalogRepository) ListSetDiscounts(ctx context.Context, setIDs []uuid.UUID) ([]domain.SetDiscount, error) {
	if len(setIDs) == 0 {
		return nil, nil
	}

	rows, err := r.q.ListActiveSetDiscounts(ctx, setIDs)
	if err != nil {
		return nil, fmt.Errorf("q.ListActiveSetDiscounts: %w", err)
	}

	return lo.Map(rows, func(row db.SetDiscount, _ int) domain.SetDiscount {
		return domain.SetDiscount{
			ID:          row.ID,
			SetID:       row.SetID,
			Value:       domain.DiscountValue{IsPercent: row.IsPercent, Size: row.Size},
			Window:      domain.Window{Start: row.StartAt, End: row.EndAt},
			IsActive:    row.IsActive,
			IsPriority:  row.IsPriority,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
		}
	}), nil
}

func (r *catalogRepository) ListCartDiscounts(ctx context.Context, cartID uuid.UUID) ([]domain.CartDiscount, error) {
	rows, err := r.q.ListActiveCartDiscounts(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("q.ListActiveCartDiscounts: %w", err)
	}

	return lo.Map(rows, func(row db.CartDiscount, _ int) domain.CartDiscount {
		return domain.CartDiscount{
			ID:          row.ID,
			CartID:      row.CartID,
			MinOrderSum: fromNullDecimal(row.MinOrderSum),
			MinQuantity: fromInt32Ptr(row.MinQuantity),
			Value:       domain.DiscountValue{IsPercent: row.IsPercent, Size: row.Size},
			Window:      domain.Window{Start: row.StartAt, End: row.EndAt},
			IsActive:    row.IsActive,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
		}
	}), nil
}

// ListSetsByProducts returns sets ordered by ID with every group loaded,
// including groups none of the given products belong to.
func (r *catalogRepository) ListSetsByProducts(ctx context.Context, productIDs []uuid.UUID) ([]domain.SetOfProducts, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	rows, err := r.q.ListSetsByProducts(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("q.ListSetsByProducts: %w", err)
	}

	var sets []domain.SetOfProducts

	// rows are ordered by set, then group
	for _, row := range rows {
		if len(sets) == 0 || sets[len(sets)-1].ID != row.SetID {
			sets = append(sets, domain.SetOfProducts{ID: row.SetID, Name: row.SetName})
		}
		set := &sets[len(sets)-1]

		if len(set.Groups) == 0 || set.Groups[len(set.Groups)-1].ID != row.GroupID {
			set.Groups = append(set.Groups, domain.ProductGroup{ID: row.GroupID, Name: row.GroupName})
		}
		group := &set.Groups[len(set.Groups)-1]

		if row.ProductID != nil {
			group.ProductIDs = append(group.ProductIDs, *row.ProductID)
		}
	}

	return sets, nil
}

func (r *catalogRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	if product.Title == "" {
		return uuid.Nil, errors.New("title is empty")
	}

	id, err := r.q.InsertProduct(ctx, db.InsertProductParams{
		Title:    product.Title,
		IsActive: product.IsActive,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.InsertProduct: %w", err)
	}

	return id, nil
}

func (r *catalogRepository) InsertOffer(ctx context.Context, offer domain.Offer) (uuid.UUID, error) {
	if err := offer.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("offer.Validate: %w", err)
	}

	id, err := r.q.InsertOffer(ctx, db.InsertOfferParams{
		ProductID:     offer.ProductID,
		SellerID:      offer.SellerID,
		PriceAmount:   offer.Price.Amount,
		PriceCurrency: offer.Price.Currency.String(),
		Quantity:      int32(offer.Quantity),
		IsActive:      offer.IsActive,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.InsertOffer: %w", notFound(err))
	}

	return id, nil
}

// InsertProductDiscount stores an already expired discount as inactive.
func (r *catalogRepository) InsertProductDiscount(ctx context.Context, discount domain.ProductDiscount) (uuid.UUID, error) {
	if err := discount.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("discount.Validate: %w", err)
	}

	id, err := r.q.InsertProductDiscount(ctx, db.InsertProductDiscountParams{
		ProductID:   discount.ProductID,
		IsPercent:   discount.Value.IsPercent,
		Size:        discount.Value.Size,
		StartAt:     discount.Window.Start,
		EndAt:       discount.Window.End,
		IsActive:    discount.IsActive,
		IsPriority:  discount.IsPriority,
		Description: discount.Description,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.InsertProductDiscount: %w", notFound(err))
	}

	return id, nil
}

func (r *catalogRepository) InsertProductGroup(ctx context.Context, group domain.ProductGroup) (uuid.UUID, error) {
	if group.Name == "" {
		return uuid.Nil, errors.New("name is empty")
	}

	return withTx(ctx, r.dbtx, readWrite, func(q *db.Queries) (uuid.UUID, error) {
		groupID, err := q.InsertProductGroup(ctx, group.Name)
		if err != nil {
			return uuid.Nil, fmt.Errorf("q.InsertProductGroup: %w", err)
		}

		for _, productID := range lo.Uniq(group.ProductIDs) {
			if err := q.InsertProductGroupProduct(ctx, db.InsertProductGroupProductParams{
				GroupID:   groupID,
				ProductID: productID,
			}); err != nil {
				return uuid.Nil, fmt.Errorf("q.InsertProductGroupProduct: %w", notFound(err))
			}
		}

		return groupID, nil
	})
}

// InsertSetOfProducts links existing groups into a new set.
func (r *catalogRepository) InsertSetOfProducts(ctx context.Context, set domain.SetOfProducts) (uuid.UUID, error) {
	if err := set.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("set.Validate: %w", err)
	}

	return withTx(ctx, r.dbtx, readWrite, func(q *db.Queries) (uuid.UUID, error) {
		setID, err := q.InsertProductSet(ctx, set.Name)
		if err != nil {
			return uuid.Nil, fmt.Errorf("q.InsertProductSet: %w", err)
		}

		for _, group := range set.Groups {
			if err := q.InsertProductSetGroup(ctx, db.InsertProductSetGroupParams{
				SetID:   setID,
				GroupID: group.ID,
			}); err != nil {
				return uuid.Nil, fmt.Errorf("q.InsertProductSetGroup: %w", notFound(err))
			}
		}

		return setID, nil
	})
}

func (r *catalogRepository) InsertSetDiscount(ctx context.Context, discount domain.SetDiscount) (uuid.UUID, error) {
	if err := discount.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("discount.Validate: %w", err)
	}

	id, err := r.q.InsertSetDiscount(ctx, db.InsertSetDiscountParams{
		SetID:       discount.SetID,
		IsPercent:   discount.Value.IsPercent,
		Size:        discount.Value.Size,
		StartAt:     discount.Window.Start,
		EndAt:       discount.Window.End,
		IsActive:    discount.IsActive,
		IsPriority:  discount.IsPriority,
		Description: discount.Description,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.InsertSetDiscount: %w", notFound(err))
	}

	return id, nil
}

func (r *catalogRepository) InsertCartDiscount(ctx context.Context, discount domain.CartDiscount) (uuid.UUID, error) {
	if err := discount.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("discount.Validate: %w", err)
	}

	id, err := r.q.InsertCartDiscount(ctx, db.InsertCartDiscountParams{
		CartID:      discount.CartID,
		MinOrderSum: toNullDecimal(discount.MinOrderSum),
		MinQuantity: toInt32Ptr(discount.MinQuantity),
		IsPercent:   discount.Value.IsPercent,
		Size:        discount.Value.Size,
		StartAt:     discount.Window.Start,
		EndAt:       discount.Window.End,
		IsActive:    discount.IsActive,
		Description: discount.Description,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.InsertCartDiscount: %w", notFound(err))
	}

	return id, nil
}

func (r *catalogRepository) DeactivateExpiredDiscounts(ctx context.Context, now time.Time) (int64, error) {
	cmdTag, err := r.q.DeactivateExpiredProductDiscounts(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("q.DeactivateExpiredProductDiscounts: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

func mapDBOfferToDomain(row db.Offer) (domain.Offer, error) {
	price, err := toMoney(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("toMoney: %w", err)
	}

	return domain.Offer{
		ID:        row.ID,
		ProductID: row.ProductID,
		SellerID:  row.SellerID,
		Price:     price,
		Quantity:  int(row.Quantity),
		IsActive:  row.IsActive,
	}, nil
}
