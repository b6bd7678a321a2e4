package catalog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/nikolayk812/cartprice/internal/logger"
	"github.com/nikolayk812/cartprice/internal/port"
	"github.com/nikolayk812/cartprice/internal/pricing"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Index answers which discounts apply at a given instant.
// The repository returns rows by active flag only; time windows are checked here.
type Index struct {
	repo port.CatalogRepository
	log  *logger.Logger
}

func NewIndex(repo port.CatalogRepository, log *logger.Logger) *Index {
	if log == nil {
		log = logger.Nop()
	}

	return &Index{
		repo: repo,
		log:  log,
	}
}

// ActiveDiscountFor returns nil when the product has no discount in its window at now.
// If several are active, a priority discount wins, then the most recently created one.
func (i *Index) ActiveDiscountFor(ctx context.Context, productID uuid.UUID, now time.Time) (*domain.ProductDiscount, error) {
	discounts, err := i.repo.ListProductDiscounts(ctx, []uuid.UUID{productID})
	if err != nil {
		return nil, missingAsNone("repo.ListProductDiscounts", err)
	}

	return pickProductDiscount(discounts, now), nil
}

// ActiveSetDiscount returns the most recently created active discount of the set, or nil.
func (i *Index) ActiveSetDiscount(ctx context.Context, setID uuid.UUID, now time.Time) (*domain.SetDiscount, error) {
	discounts, err := i.repo.ListSetDiscounts(ctx, []uuid.UUID{setID})
	if err != nil {
		return nil, missingAsNone("repo.ListSetDiscounts", err)
	}

	return pickSetDiscount(discounts, now), nil
}

// ActiveCartDiscounts returns every discount of the cart active at now, ordered by creation.
func (i *Index) ActiveCartDiscounts(ctx context.Context, cartID uuid.UUID, now time.Time) ([]domain.CartDiscount, error) {
	discounts, err := i.repo.ListCartDiscounts(ctx, cartID)
	if err != nil {
		return nil, missingAsNone("repo.ListCartDiscounts", err)
	}

	active := lo.Filter(discounts, func(d domain.CartDiscount, _ int) bool {
		return d.ActiveAt(now)
	})

	slices.SortFunc(active, func(a, b domain.CartDiscount) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	return active, nil
}

// SetsContainingProducts returns sets that hold any of productIDs in one of their groups, ordered by ID.
func (i *Index) SetsContainingProducts(ctx context.Context, productIDs []uuid.UUID) ([]domain.SetOfProducts, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	sets, err := i.repo.ListSetsByProducts(ctx, productIDs)
	if err != nil {
		return nil, missingAsNone("repo.ListSetsByProducts", err)
	}

	sets = lo.Filter(sets, func(s domain.SetOfProducts, _ int) bool {
		return lo.SomeBy(productIDs, s.Contains)
	})

	slices.SortFunc(sets, func(a, b domain.SetOfProducts) int {
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	return sets, nil
}

// Snapshot gathers every discount relevant to lines at now. The three catalog reads run concurrently.
// cartID may be uuid.Nil for a cart that does not exist yet.
func (i *Index) Snapshot(ctx context.Context, lines []domain.PricedLine, cartID uuid.UUID, now time.Time) (pricing.Snapshot, error) {
	snapshot := pricing.Snapshot{
		Now:   now,
		Lines: lines,
	}

	productIDs := lo.Uniq(lo.Map(lines, func(l domain.PricedLine, _ int) uuid.UUID {
		return l.Offer.ProductID
	}))

	if len(productIDs) == 0 {
		return snapshot, nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		discounts, err := i.productDiscounts(gctx, productIDs, now)
		if err != nil {
			return fmt.Errorf("productDiscounts: %w", err)
		}
		snapshot.ProductDiscounts = discounts
		return nil
	})

	g.Go(func() error {
		candidates, err := i.setCandidates(gctx, productIDs, now)
		if err != nil {
			return fmt.Errorf("setCandidates: %w", err)
		}
		snapshot.Sets = candidates
		return nil
	})

	if cartID != uuid.Nil {
		g.Go(func() error {
			discounts, err := i.ActiveCartDiscounts(gctx, cartID, now)
			if err != nil {
				return fmt.Errorf("ActiveCartDiscounts: %w", err)
			}
			snapshot.CartDiscounts = discounts
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return pricing.Snapshot{}, err
	}

	return snapshot, nil
}

func (i *Index) productDiscounts(ctx context.Context, productIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*domain.ProductDiscount, error) {
	discounts, err := i.repo.ListProductDiscounts(ctx, productIDs)
	if err != nil {
		return nil, missingAsNone("repo.ListProductDiscounts", err)
	}

	byProduct := lo.GroupBy(
		lo.Filter(discounts, func(d domain.ProductDiscount, _ int) bool { return d.ProductID != nil }),
		func(d domain.ProductDiscount) uuid.UUID { return *d.ProductID },
	)

	result := make(map[uuid.UUID]*domain.ProductDiscount, len(byProduct))
	for productID, candidates := range byProduct {
		if d := pickProductDiscount(candidates, now); d != nil {
			result[productID] = d
		}
	}

	return result, nil
}

func (i *Index) setCandidates(ctx context.Context, productIDs []uuid.UUID, now time.Time) ([]pricing.SetCandidate, error) {
	sets, err := i.SetsContainingProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, nil
	}

	setIDs := lo.Map(sets, func(s domain.SetOfProducts, _ int) uuid.UUID { return s.ID })

	discounts, err := i.repo.ListSetDiscounts(ctx, setIDs)
	if err != nil {
		return nil, missingAsNone("repo.ListSetDiscounts", err)
	}

	bySet := lo.GroupBy(discounts, func(d domain.SetDiscount) uuid.UUID { return d.SetID })

	candidates := make([]pricing.SetCandidate, 0, len(sets))
	for _, set := range sets {
		candidates = append(candidates, pricing.SetCandidate{
			Set:      set,
			Discount: pickSetDiscount(bySet[set.ID], now),
		})
	}

	return candidates, nil
}

// pickProductDiscount resolves overlapping rows for one product: priority first, then most recent.
func pickProductDiscount(discounts []domain.ProductDiscount, now time.Time) *domain.ProductDiscount {
	var best *domain.ProductDiscount

	for _, d := range discounts {
		if !d.ActiveAt(now) {
			continue
		}
		if best == nil || preferProductDiscount(d, *best) {
			best = &d
		}
	}

	return best
}

func preferProductDiscount(a, b domain.ProductDiscount) bool {
	if a.IsPriority != b.IsPriority {
		return a.IsPriority
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

func pickSetDiscount(discounts []domain.SetDiscount, now time.Time) *domain.SetDiscount {
	var best *domain.SetDiscount

	for _, d := range discounts {
		if !d.ActiveAt(now) {
			continue
		}
		if best == nil || d.CreatedAt.After(best.CreatedAt) ||
			(d.CreatedAt.Equal(best.CreatedAt) && d.ID.String() < best.ID.String()) {
			best = &d
		}
	}

	return best
}

// missingAsNone turns missing catalog data into an empty result.
func missingAsNone(callee string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("%s: %w", callee, err)
}
