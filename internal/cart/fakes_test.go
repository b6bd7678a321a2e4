package cart_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/nikolayk812/cartprice/internal/port"
	"github.com/samber/lo"
)

type memoryCarts struct {
	mu     sync.Mutex
	carts  map[domain.Owner]*domain.Cart
	offers map[uuid.UUID]domain.Offer
}

func newMemoryCarts(offers ...domain.Offer) *memoryCarts {
	return &memoryCarts{
		carts:  map[domain.Owner]*domain.Cart{},
		offers: lo.KeyBy(offers, func(o domain.Offer) uuid.UUID { return o.ID }),
	}
}

func (m *memoryCarts) EnsureCart(_ context.Context, owner domain.Owner) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.carts[owner]; ok {
		return cloneCart(*c), nil
	}

	c := &domain.Cart{ID: uuid.New(), Owner: owner}
	m.carts[owner] = c
	return cloneCart(*c), nil
}

func (m *memoryCarts) GetCart(_ context.Context, owner domain.Owner) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.carts[owner]
	if !ok {
		return domain.Cart{}, domain.ErrNotFound
	}
	return cloneCart(*c), nil
}

func (m *memoryCarts) GetLines(ctx context.Context, owner domain.Owner) (domain.Cart, []domain.PricedLine, error) {
	c, err := m.GetCart(ctx, owner)
	if err != nil {
		return domain.Cart{}, nil, err
	}

	lines := lo.Map(c.Items, func(item domain.CartItem, _ int) domain.PricedLine {
		return domain.PricedLine{Item: item, Offer: m.offers[item.OfferID]}
	})
	return c, lines, nil
}

func (m *memoryCarts) AddItem(_ context.Context, cartID, offerID uuid.UUID, quantity int) (domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.byID(cartID)
	if c == nil {
		return domain.CartItem{}, domain.ErrNotFound
	}

	for i := range c.Items {
		if c.Items[i].OfferID == offerID {
			c.Items[i].Quantity += quantity
			return c.Items[i], nil
		}
	}

	item := domain.CartItem{ID: uuid.New(), OfferID: offerID, Quantity: quantity}
	c.Items = append(c.Items, item)
	return item, nil
}

func (m *memoryCarts) SetQuantity(_ context.Context, cartID, itemID uuid.UUID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.byID(cartID)
	if c == nil {
		return domain.ErrNotFound
	}

	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memoryCarts) DeleteItem(_ context.Context, cartID, itemID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.byID(cartID)
	if c == nil {
		return false, nil
	}

	before := len(c.Items)
	c.Items = lo.Reject(c.Items, func(item domain.CartItem, _ int) bool { return item.ID == itemID })
	return len(c.Items) < before, nil
}

func (m *memoryCarts) MergeCarts(_ context.Context, from, to domain.Owner) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	source, ok := m.carts[from]
	if !ok {
		return 0, nil
	}

	target, ok := m.carts[to]
	if !ok {
		target = &domain.Cart{ID: uuid.New(), Owner: to}
		m.carts[to] = target
	}

	var moved int64
	for _, item := range source.Items {
		if _, found := target.FindByOffer(item.OfferID); found {
			continue
		}
		item.ID = uuid.New()
		target.Items = append(target.Items, item)
		moved++
	}

	delete(m.carts, from)
	return moved, nil
}

func (m *memoryCarts) DeleteCart(_ context.Context, cartID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for owner, c := range m.carts {
		if c.ID == cartID {
			delete(m.carts, owner)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memoryCarts) byID(cartID uuid.UUID) *domain.Cart {
	for _, c := range m.carts {
		if c.ID == cartID {
			return c
		}
	}
	return nil
}

func cloneCart(c domain.Cart) domain.Cart {
	c.Items = append([]domain.CartItem(nil), c.Items...)
	return c
}

// memoryCatalog serves offers and discounts; the write surface is not used by the cart service.
type memoryCatalog struct {
	port.CatalogRepository

	offers           map[uuid.UUID]domain.Offer
	productDiscounts []domain.ProductDiscount
	setDiscounts     []domain.SetDiscount
	cartDiscounts    []domain.CartDiscount
	sets             []domain.SetOfProducts
}

func newMemoryCatalog(offers ...domain.Offer) *memoryCatalog {
	return &memoryCatalog{
		offers: lo.KeyBy(offers, func(o domain.Offer) uuid.UUID { return o.ID }),
	}
}

func (m *memoryCatalog) GetOffer(_ context.Context, offerID uuid.UUID) (domain.Offer, error) {
	offer, ok := m.offers[offerID]
	if !ok {
		return domain.Offer{}, domain.ErrNotFound
	}
	return offer, nil
}

func (m *memoryCatalog) ListProductDiscounts(_ context.Context, productIDs []uuid.UUID) ([]domain.ProductDiscount, error) {
	return lo.Filter(m.productDiscounts, func(d domain.ProductDiscount, _ int) bool {
		return d.IsActive && d.ProductID != nil && lo.Contains(productIDs, *d.ProductID)
	}), nil
}

func (m *memoryCatalog) ListSetDiscounts(_ context.Context, setIDs []uuid.UUID) ([]domain.SetDiscount, error) {
	return lo.Filter(m.setDiscounts, func(d domain.SetDiscount, _ int) bool {
		return d.IsActive && lo.Contains(setIDs, d.SetID)
	}), nil
}

func (m *memoryCatalog) ListCartDiscounts(_ context.Context, cartID uuid.UUID) ([]domain.CartDiscount, error) {
	return lo.Filter(m.cartDiscounts, func(d domain.CartDiscount, _ int) bool {
		return d.IsActive && d.CartID == cartID
	}), nil
}

func (m *memoryCatalog) ListSetsByProducts(_ context.Context, productIDs []uuid.UUID) ([]domain.SetOfProducts, error) {
	return lo.Filter(m.sets, func(s domain.SetOfProducts, _ int) bool {
		return lo.SomeBy(productIDs, s.Contains)
	}), nil
}
