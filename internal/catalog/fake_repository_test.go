package catalog_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/samber/lo"
)

// fakeRepository keeps catalog rows in memory and filters by the active flag only,
// like the postgres repository.
type fakeRepository struct {
	mu sync.Mutex

	offers           []domain.Offer
	productDiscounts []domain.ProductDiscount
	setDiscounts     []domain.SetDiscount
	cartDiscounts    []domain.CartDiscount
	sets             []domain.SetOfProducts

	err   error
	calls int
}

func (f *fakeRepository) track() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeRepository) GetOffer(_ context.Context, offerID uuid.UUID) (domain.Offer, error) {
	if err := f.track(); err != nil {
		return domain.Offer{}, err
	}
	offer, ok := lo.Find(f.offers, func(o domain.Offer) bool { return o.ID == offerID })
	if !ok {
		return domain.Offer{}, domain.ErrNotFound
	}
	return offer, nil
}

func (f *fakeRepository) ListOffersByProduct(_ context.Context, productID uuid.UUID) ([]domain.Offer, error) {
	if err := f.track(); err != nil {
		return nil, err
	}
	return lo.Filter(f.offers, func(o domain.Offer, _ int) bool {
		return o.ProductID == productID && o.IsActive
	}), nil
}

func (f *fakeRepository) ListProductDiscounts(_ context.Context, productIDs []uuid.UUID) ([]domain.ProductDiscount, error) {
	if err := f.track(); err != nil {
		return nil, err
	}
	return lo.Filter(f.productDiscounts, func(d domain.ProductDiscount, _ int) bool {
		return d.IsActive && d.ProductID != nil && lo.Contains(productIDs, *d.ProductID)
	}), nil
}

func (f *fakeRepository) ListSetDiscounts(_ context.Context, setIDs []uuid.UUID) ([]domain.SetDiscount, error) {
	if err := f.track(); err != nil {
		return nil, err
	}
	return lo.Filter(f.setDiscounts, func(d domain.SetDiscount, _ int) bool {
		return d.IsActive && lo.Contains(setIDs, d.SetID)
	}), nil
}

func (f *fakeRepository) ListCartDiscounts(_ context.Context, cartID uuid.UUID) ([]domain.CartDiscount, error) {
	if err := f.track(); err != nil {
		return nil, err
	}
	return lo.Filter(f.cartDiscounts, func(d domain.CartDiscount, _ int) bool {
		return d.IsActive && d.CartID == cartID
	}), nil
}

func (f *fakeRepository) ListSetsByProducts(_ context.Context, productIDs []uuid.UUID) ([]domain.SetOfProducts, error) {
	if err := f.track(); err != nil {
		return nil, err
	}
	return lo.Filter(f.sets, func(s domain.SetOfProducts, _ int) bool {
		return lo.SomeBy(productIDs, s.Contains)
	}), nil
}

func (f *fakeRepository) InsertProduct(context.Context, domain.Product) (uuid.UUID, error) {
	return uuid.New(), f.track()
}

func (f *fakeRepository) InsertOffer(_ context.Context, offer domain.Offer) (uuid.UUID, error) {
	offer.ID = uuid.New()
	f.offers = append(f.offers, offer)
	return offer.ID, f.track()
}

func (f *fakeRepository) InsertProductDiscount(_ context.Context, d domain.ProductDiscount) (uuid.UUID, error) {
	d.ID = uuid.New()
	f.productDiscounts = append(f.productDiscounts, d)
	return d.ID, f.track()
}

func (f *fakeRepository) InsertProductGroup(context.Context, domain.ProductGroup) (uuid.UUID, error) {
	return uuid.New(), f.track()
}

func (f *fakeRepository) InsertSetOfProducts(_ context.Context, s domain.SetOfProducts) (uuid.UUID, error) {
	s.ID = uuid.New()
	f.sets = append(f.sets, s)
	return s.ID, f.track()
}

func (f *fakeRepository) InsertSetDiscount(_ context.Context, d domain.SetDiscount) (uuid.UUID, error) {
	d.ID = uuid.New()
	f.setDiscounts = append(f.setDiscounts, d)
	return d.ID, f.track()
}

func (f *fakeRepository) InsertCartDiscount(_ context.Context, d domain.CartDiscount) (uuid.UUID, error) {
	d.ID = uuid.New()
	f.cartDiscounts = append(f.cartDiscounts, d)
	return d.ID, f.track()
}

func (f *fakeRepository) DeactivateExpiredDiscounts(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for i, d := range f.productDiscounts {
		if d.IsActive && d.Window.End != nil && !d.Window.End.After(now) {
			f.productDiscounts[i].IsActive = false
			n++
		}
	}
	return n, f.track()
}
