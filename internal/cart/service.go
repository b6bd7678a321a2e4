package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/catalog"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/nikolayk812/cartprice/internal/lock"
	"github.com/nikolayk812/cartprice/internal/logger"
	"github.com/nikolayk812/cartprice/internal/metrics"
	"github.com/nikolayk812/cartprice/internal/port"
	"github.com/nikolayk812/cartprice/internal/pricing"
)

// Locker runs fn while no other process holds key.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(context.Context) error) error
}

// QuotedCart is a cart together with the quote computed from one snapshot of it.
// Cart.ID is uuid.Nil when the owner has no cart yet.
type QuotedCart struct {
	Cart  domain.Cart
	Quote pricing.Quote
}

type Service struct {
	carts   port.CartRepository
	catalog port.CatalogRepository
	index   *catalog.Index
	engine  *pricing.Engine
	locker  Locker
	metrics *metrics.PricingMetrics
	log     *logger.Logger
	now     func() time.Time
}

type Option func(*Service)

func WithMetrics(m *metrics.PricingMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(log *logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock replaces time.Now, used to price carts at a fixed instant.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(carts port.CartRepository, catalogRepo port.CatalogRepository, locker Locker, opts ...Option) (*Service, error) {
	if carts == nil {
		return nil, errors.New("cart repository is nil")
	}
	if catalogRepo == nil {
		return nil, errors.New("catalog repository is nil")
	}
	if locker == nil {
		return nil, errors.New("locker is nil")
	}

	s := &Service{
		carts:   carts,
		catalog: catalogRepo,
		locker:  locker,
		log:     logger.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.index = catalog.NewIndex(catalogRepo, s.log)
	s.engine = pricing.NewEngine(s.log)

	return s, nil
}

func (s *Service) EnsureCart(ctx context.Context, owner domain.Owner) (domain.Cart, error) {
	cart, err := s.carts.EnsureCart(ctx, owner)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.EnsureCart: %w", err)
	}
	return cart, nil
}

// AddItem puts quantity units of the offer into the owner's cart, creating the cart on first use.
// Anonymous carts get a soft stock check: a new line cannot exceed stock and a line already at stock cannot grow.
func (s *Service) AddItem(ctx context.Context, owner domain.Owner, offerID uuid.UUID, quantity int) (domain.CartItem, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return domain.CartItem{}, err
	}
	if err := owner.Validate(); err != nil {
		return domain.CartItem{}, fmt.Errorf("owner.Validate: %w", err)
	}

	var item domain.CartItem

	err := s.WithCartLock(ctx, owner, func(ctx context.Context) error {
		offer, err := s.activeOffer(ctx, offerID)
		if err != nil {
			return err
		}

		cart, err := s.carts.EnsureCart(ctx, owner)
		if err != nil {
			return fmt.Errorf("carts.EnsureCart: %w", err)
		}

		if owner.IsAnonymous() {
			existing, found := cart.FindByOffer(offerID)
			if !found && quantity > offer.Quantity {
				return &domain.InvalidQuantityError{Requested: quantity, Available: &offer.Quantity}
			}
			if found && existing.Quantity >= offer.Quantity {
				return &domain.InvalidQuantityError{Requested: existing.Quantity + quantity, Available: &offer.Quantity}
			}
		}

		item, err = s.carts.AddItem(ctx, cart.ID, offerID, quantity)
		if err != nil {
			return fmt.Errorf("carts.AddItem: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.CartItem{}, err
	}

	s.log.Debug(s.log.WithOwner(ctx, owner.String()), "item added")

	return item, nil
}

func (s *Service) RemoveItem(ctx context.Context, owner domain.Owner, itemID uuid.UUID) error {
	return s.WithCartLock(ctx, owner, func(ctx context.Context) error {
		cart, err := s.carts.GetCart(ctx, owner)
		if err != nil {
			return fmt.Errorf("carts.GetCart: %w", err)
		}

		found, err := s.carts.DeleteItem(ctx, cart.ID, itemID)
		if err != nil {
			return fmt.Errorf("carts.DeleteItem: %w", err)
		}
		if !found {
			return fmt.Errorf("item[%s]: %w", itemID, domain.ErrNotFound)
		}

		return nil
	})
}

// SetQuantity replaces the quantity of a line. Anonymous carts cannot go above stock.
func (s *Service) SetQuantity(ctx context.Context, owner domain.Owner, itemID uuid.UUID, quantity int) error {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return err
	}

	return s.WithCartLock(ctx, owner, func(ctx context.Context) error {
		cart, err := s.carts.GetCart(ctx, owner)
		if err != nil {
			return fmt.Errorf("carts.GetCart: %w", err)
		}

		item, found := cart.FindItem(itemID)
		if !found {
			return fmt.Errorf("item[%s]: %w", itemID, domain.ErrNotFound)
		}

		if owner.IsAnonymous() {
			offer, err := s.activeOffer(ctx, item.OfferID)
			if err != nil {
				return err
			}
			if quantity > offer.Quantity {
				return &domain.InvalidQuantityError{Requested: quantity, Available: &offer.Quantity}
			}
		}

		if err := s.carts.SetQuantity(ctx, cart.ID, itemID, quantity); err != nil {
			return fmt.Errorf("carts.SetQuantity: %w", err)
		}

		return nil
	})
}

// MergeInto moves the lines of from's cart that to's cart lacks, then deletes from's cart.
// Both carts are locked, always in the same key order.
func (s *Service) MergeInto(ctx context.Context, from, to domain.Owner) error {
	if from == to {
		return errors.New("cannot merge a cart into itself")
	}

	keys := []string{lock.CartKey(from), lock.CartKey(to)}
	slices.Sort(keys)

	return s.locker.WithLock(ctx, keys[0], func(ctx context.Context) error {
		return s.locker.WithLock(ctx, keys[1], func(ctx context.Context) error {
			moved, err := s.carts.MergeCarts(ctx, from, to)
			if err != nil {
				return fmt.Errorf("carts.MergeCarts: %w", err)
			}

			s.log.Info(s.log.WithFields(ctx, map[string]any{
				"from":  from.String(),
				"to":    to.String(),
				"moved": moved,
			}), "carts merged")

			return nil
		})
	})
}

// Lines reads the cart and its offers in one consistent snapshot.
func (s *Service) Lines(ctx context.Context, owner domain.Owner) ([]domain.PricedLine, domain.Cart, error) {
	cart, lines, err := s.carts.GetLines(ctx, owner)
	if err != nil {
		return nil, domain.Cart{}, fmt.Errorf("carts.GetLines: %w", err)
	}
	return lines, cart, nil
}

// Quote prices the owner's cart at the service clock. An owner without a cart gets an empty quote.
func (s *Service) Quote(ctx context.Context, owner domain.Owner) (QuotedCart, error) {
	return s.QuoteAt(ctx, owner, s.now())
}

func (s *Service) QuoteAt(ctx context.Context, owner domain.Owner, now time.Time) (QuotedCart, error) {
	start := time.Now()

	lines, cart, err := s.Lines(ctx, owner)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return QuotedCart{}, err
	}

	snapshot, err := s.index.Snapshot(ctx, lines, cart.ID, now)
	if err != nil {
		return QuotedCart{}, fmt.Errorf("index.Snapshot: %w", err)
	}

	quote, err := s.engine.Quote(s.log.WithCartID(ctx, cart.ID.String()), snapshot)
	if err != nil {
		return QuotedCart{}, fmt.Errorf("engine.Quote: %w", err)
	}

	s.metrics.ObserveQuote(string(quote.Outcome.Kind), time.Since(start))
	s.metrics.AddClamped(quote.ClampedLines)

	return QuotedCart{Cart: cart, Quote: quote}, nil
}

// WithCartLock runs fn while holding the owner's cart lock.
func (s *Service) WithCartLock(ctx context.Context, owner domain.Owner, fn func(context.Context) error) error {
	return s.locker.WithLock(ctx, lock.CartKey(owner), fn)
}

func (s *Service) activeOffer(ctx context.Context, offerID uuid.UUID) (domain.Offer, error) {
	offer, err := s.catalog.GetOffer(ctx, offerID)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("catalog.GetOffer: %w", err)
	}
	if !offer.IsActive {
		return domain.Offer{}, fmt.Errorf("offer[%s] is inactive: %w", offerID, domain.ErrNotFound)
	}
	return offer, nil
}
