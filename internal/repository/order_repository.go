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
	"github.com/shopspring/decimal"
)

type orderRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		dbtx: tx,
	}
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := withTx(ctx, r.dbtx, readSnapshot, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.GetOrder(ctx, orderID)
		if err != nil {
			return o, fmt.Errorf("q.GetOrder: %w", notFound(err))
		}

		dbOrderItems, err := q.GetOrderItems(ctx, orderID)
		if err != nil {
			return o, fmt.Errorf("q.GetOrderItems: %w", err)
		}

		domainOrder, err := mapDBOrderToDomain(dbOrder, dbOrderItems)
		if err != nil {
			return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
		}

		return domainOrder, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if err := order.Validate(); err != nil {
		return uuid.Nil, err
	}

	orderID, err := withTx(ctx, r.dbtx, readWrite, func(q *db.Queries) (uuid.UUID, error) {
		return insertOrder(ctx, q, order)
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}

// CompleteOrder deletes the cart only after the order items are written, in the same transaction.
// A concurrent reader sees either the cart or the order, never both gone.
func (r *orderRepository) CompleteOrder(ctx context.Context, order domain.Order, cartID uuid.UUID) (uuid.UUID, error) {
	if err := order.Validate(); err != nil {
		return uuid.Nil, err
	}
	if cartID == uuid.Nil {
		return uuid.Nil, errors.New("cartID is empty")
	}

	orderID, err := withTx(ctx, r.dbtx, readWrite, func(q *db.Queries) (uuid.UUID, error) {
		orderID, err := insertOrder(ctx, q, order)
		if err != nil {
			return uuid.Nil, err
		}

		cmdTag, err := q.DeleteCart(ctx, cartID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("q.DeleteCart: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return uuid.Nil, fmt.Errorf("q.DeleteCart: %w", domain.ErrNotFound)
		}

		return orderID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}

func insertOrder(ctx context.Context, q *db.Queries, order domain.Order) (uuid.UUID, error) {
	status := order.Status
	if status == "" {
		status = domain.OrderStatusAwaitingPayment
	}

	discount := order.Discount
	if discount.Kind == "" {
		discount = domain.NoDiscount()
	}

	var discountID *uuid.UUID
	if discount.DiscountID != uuid.Nil {
		discountID = lo.ToPtr(discount.DiscountID)
	}

	id := order.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	orderID, err := q.InsertOrder(ctx, db.InsertOrderParams{
		ID:             id,
		OwnerID:        order.OwnerID,
		Status:         string(status),
		TotalAmount:    order.Total.Amount,
		TotalCurrency:  order.Total.Currency.String(),
		DiscountKind:   string(discount.Kind),
		DiscountID:     discountID,
		DiscountAmount: discount.Amount,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.InsertOrder: %w", err)
	}

	// TODO: batch with pgx.Batch once orders routinely exceed a handful of items
	for _, item := range order.Items {
		arg := db.InsertOrderItemParams{
			OrderID:       orderID,
			OfferID:       item.OfferID,
			ProductID:     item.ProductID,
			Quantity:      int32(item.Quantity),
			PriceAmount:   item.Price.Amount,
			PriceCurrency: item.Price.Currency.String(),
		}
		if err := q.InsertOrderItem(ctx, arg); err != nil {
			return uuid.Nil, fmt.Errorf("q.InsertOrderItem: %w", err)
		}
	}

	return orderID, nil
}

func mapDomainOrderFilterToDBFilter(filter domain.OrderFilter) db.SearchOrdersParams {
	statuses := lo.Map(filter.Statuses, func(s domain.OrderStatus, _ int) string {
		return string(s)
	})

	kinds := lo.Map(filter.DiscountKinds, func(k domain.DiscountKind, _ int) string {
		return string(k)
	})

	var createdAfter, createdBefore *time.Time
	if filter.CreatedAt != nil {
		createdAfter = filter.CreatedAt.After
		createdBefore = filter.CreatedAt.Before
	}

	return db.SearchOrdersParams{
		Ids:           nilSliceIfEmpty(filter.IDs),
		OwnerIds:      nilSliceIfEmpty(filter.OwnerIDs),
		Statuses:      nilSliceIfEmpty(statuses),
		DiscountKinds: nilSliceIfEmpty(kinds),
		CreatedAfter:  createdAfter,
		CreatedBefore: createdBefore,
	}
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	dbOrders, err := r.q.SearchOrders(ctx, mapDomainOrderFilterToDBFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("q.SearchOrders: %w", err)
	}

	// rows are ordered by order, keep that order in the result
	var orders []domain.Order
	for _, row := range dbOrders {
		if len(orders) == 0 || orders[len(orders)-1].ID != row.ID {
			order, err := mapSearchOrdersRowToDomainOrder(row)
			if err != nil {
				return nil, fmt.Errorf("mapSearchOrdersRowToDomainOrder: %w", err)
			}
			orders = append(orders, order)
		}

		item, err := mapSearchOrdersRowToDomainOrderItem(row)
		if err != nil {
			return nil, fmt.Errorf("mapSearchOrdersRowToDomainOrderItem: %w", err)
		}

		last := &orders[len(orders)-1]
		last.Items = append(last.Items, item)
	}

	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}
	if status == "" {
		return fmt.Errorf("status is empty")
	}
	if _, err := domain.ToOrderStatus(string(status)); err != nil {
		return fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}

	cmdTag, err := r.q.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
		Status: string(status),
		ID:     orderID,
	})
	if err != nil {
		return fmt.Errorf("q.UpdateOrderStatus: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.UpdateOrderStatus: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	if err := withTxVoid(ctx, r.dbtx, func(q *db.Queries) error {
		cmdTag, err := q.DeleteOrderItems(ctx, orderID)
		if err != nil {
			return fmt.Errorf("q.DeleteOrderItems: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("q.DeleteOrderItems: %w", domain.ErrNotFound)
		}

		cmdTag, err = q.DeleteOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("q.DeleteOrder: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("q.DeleteOrder: %w", domain.ErrNotFound)
		}

		return nil
	}); err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (r *orderRepository) SoftDeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	cmdTag, err := r.q.SoftDeleteOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("q.SoftDeleteOrder: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.SoftDeleteOrder: %w", domain.ErrNotFound)
	}

	return nil
}

func mapDBOrderToDomain(dbOrder db.GetOrderRow, dbOrderItems []db.GetOrderItemsRow) (domain.Order, error) {
	var o domain.Order

	header, err := mapOrderHeader(orderHeader{
		ID:             dbOrder.ID,
		OwnerID:        dbOrder.OwnerID,
		Status:         dbOrder.Status,
		TotalAmount:    dbOrder.TotalAmount,
		TotalCurrency:  dbOrder.TotalCurrency,
		DiscountKind:   dbOrder.DiscountKind,
		DiscountID:     dbOrder.DiscountID,
		DiscountAmount: dbOrder.DiscountAmount,
		CreatedAt:      dbOrder.CreatedAt,
		UpdatedAt:      dbOrder.UpdatedAt,
	})
	if err != nil {
		return o, fmt.Errorf("mapOrderHeader: %w", err)
	}

	for _, row := range dbOrderItems {
		price, err := toMoney(row.PriceAmount, row.PriceCurrency)
		if err != nil {
			return o, fmt.Errorf("toMoney: %w", err)
		}

		header.Items = append(header.Items, domain.OrderItem{
			OfferID:   row.OfferID,
			ProductID: row.ProductID,
			Quantity:  int(row.Quantity),
			Price:     price,
			CreatedAt: row.CreatedAt,
		})
	}

	return header, nil
}

func mapSearchOrdersRowToDomainOrder(row db.SearchOrdersRow) (domain.Order, error) {
	return mapOrderHeader(orderHeader{
		ID:             row.ID,
		OwnerID:        row.OwnerID,
		Status:         row.Status,
		TotalAmount:    row.TotalAmount,
		TotalCurrency:  row.TotalCurrency,
		DiscountKind:   row.DiscountKind,
		DiscountID:     row.DiscountID,
		DiscountAmount: row.DiscountAmount,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	})
}

func mapSearchOrdersRowToDomainOrderItem(row db.SearchOrdersRow) (domain.OrderItem, error) {
	price, err := toMoney(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("toMoney: %w", err)
	}

	return domain.OrderItem{
		OfferID:   row.OfferID,
		ProductID: row.ProductID,
		Quantity:  int(row.Quantity),
		Price:     price,
	}, nil
}

type orderHeader struct {
	ID             uuid.UUID
	OwnerID        string
	Status         string
	TotalAmount    decimal.Decimal
	TotalCurrency  string
	DiscountKind   string
	DiscountID     *uuid.UUID
	DiscountAmount decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func mapOrderHeader(h orderHeader) (domain.Order, error) {
	var o domain.Order

	status, err := domain.ToOrderStatus(h.Status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", h.Status, err)
	}

	kind, err := domain.ToDiscountKind(h.DiscountKind)
	if err != nil {
		return o, fmt.Errorf("domain.ToDiscountKind[%s]: %w", h.DiscountKind, err)
	}

	total, err := toMoney(h.TotalAmount, h.TotalCurrency)
	if err != nil {
		return o, fmt.Errorf("toMoney: %w", err)
	}

	return domain.Order{
		ID:      h.ID,
		OwnerID: h.OwnerID,
		Status:  status,
		Total:   total,
		Discount: domain.DiscountOutcome{
			Kind:       kind,
			DiscountID: lo.FromPtr(h.DiscountID),
			Amount:     h.DiscountAmount,
		},
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}, nil
}
