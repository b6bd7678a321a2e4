package pricing

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/nikolayk812/cartprice/internal/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const moneyPlaces = 2

// Engine turns a Snapshot into a Quote. It holds no state besides the logger.
type Engine struct {
	log *logger.Logger
}

func NewEngine(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{log: log}
}

// Quote prices the cart in three ways and presents the cheapest:
// base total after product discounts, minus the best set discount,
// and minus every qualifying cart discount stacked.
// On equal totals the set discount path wins.
func (e *Engine) Quote(ctx context.Context, s Snapshot) (Quote, error) {
	if len(s.Lines) == 0 {
		return emptyQuote(), nil
	}

	cur := s.Lines[0].Offer.Price.Currency

	q := Quote{
		Currency: cur,
		Lines:    make([]QuoteLine, 0, len(s.Lines)),
	}

	listTotal := decimal.Zero
	baseTotal := decimal.Zero
	// unrounded line totals, keyed by line index
	rawTotals := make([]decimal.Decimal, 0, len(s.Lines))
	productSavings := map[uuid.UUID]decimal.Decimal{}

	for _, line := range s.Lines {
		offer := line.Offer
		if offer.Price.Currency != cur {
			return Quote{}, fmt.Errorf("offer[%s] %s vs %s: %w", offer.ID, offer.Price.Currency, cur, domain.ErrCurrencyMismatch)
		}
		if line.Item.Quantity <= 0 {
			return Quote{}, fmt.Errorf("item[%s]: %w", line.Item.ID, &domain.InvalidQuantityError{Requested: line.Item.Quantity})
		}

		d := s.ProductDiscounts[offer.ProductID]
		if d != nil && !d.ActiveAt(s.Now) {
			d = nil
		}

		unit, clamped, err := effectivePrice(offer.Price, d)
		if err != nil {
			return Quote{}, fmt.Errorf("effectivePrice[%s]: %w", offer.ID, err)
		}
		if clamped {
			q.ClampedLines++
			e.log.Warn(ctx, "discounted price below zero, clamped", map[string]any{
				"offer_id":    offer.ID.String(),
				"discount_id": d.ID.String(),
				"list_price":  offer.Price.String(),
			})
		}

		qty := decimal.NewFromInt(int64(line.Item.Quantity))
		lineList := offer.Price.Amount.Mul(qty)
		lineTotal := unit.Amount.Mul(qty)

		listTotal = listTotal.Add(lineList)
		baseTotal = baseTotal.Add(lineTotal)
		rawTotals = append(rawTotals, lineTotal)
		q.TotalQuantity += line.Item.Quantity

		ql := QuoteLine{
			ItemID:    line.Item.ID,
			OfferID:   offer.ID,
			ProductID: offer.ProductID,
			Quantity:  line.Item.Quantity,
			ListPrice: offer.Price,
			UnitPrice: unit,
			Total:     domain.Money{Amount: lineTotal.Round(moneyPlaces), Currency: cur},
			Clamped:   clamped,
		}
		if d != nil {
			ql.DiscountID = &d.ID
			productSavings[d.ID] = productSavings[d.ID].Add(lineList.Sub(lineTotal))
		}
		q.Lines = append(q.Lines, ql)
	}

	listTotal = listTotal.Round(moneyPlaces)
	baseTotal = baseTotal.Round(moneyPlaces)

	q.ListTotal = domain.Money{Amount: listTotal, Currency: cur}
	q.BaseTotal = domain.Money{Amount: baseTotal, Currency: cur}

	q.SetDiscount = bestSetDiscount(s, q.Lines, rawTotals, baseTotal)

	afterSet := baseTotal
	if q.SetDiscount != nil {
		afterSet = baseTotal.Sub(q.SetDiscount.Amount)
	}

	afterCart, applied := stackCartDiscounts(s, baseTotal, q.TotalQuantity)
	q.CartDiscounts = applied

	q.TotalAfterSetDiscount = domain.Money{Amount: afterSet, Currency: cur}
	q.TotalAfterCartDiscount = domain.Money{Amount: afterCart, Currency: cur}

	switch {
	case afterCart.LessThan(afterSet):
		q.Total = q.TotalAfterCartDiscount
		q.Outcome = domain.CartDiscountApplied(largest(applied).ID, baseTotal.Sub(afterCart))
	case q.SetDiscount != nil && q.SetDiscount.Amount.IsPositive():
		q.Total = q.TotalAfterSetDiscount
		q.Outcome = domain.SetDiscountApplied(q.SetDiscount.ID, q.SetDiscount.Amount)
	default:
		q.Total = q.TotalAfterSetDiscount
		q.Outcome = productOutcome(productSavings, listTotal.Sub(baseTotal))
	}

	return q, nil
}

// bestSetDiscount picks the fully represented set with the largest discount amount.
// Sets are visited in ID order and only a strictly larger amount replaces the current best.
// A set subtotal sums unrounded line totals and is rounded once, the same way baseTotal is.
func bestSetDiscount(s Snapshot, lines []QuoteLine, rawTotals []decimal.Decimal, baseTotal decimal.Decimal) *AppliedDiscount {
	productIDs := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		productIDs = append(productIDs, line.ProductID)
	}

	candidates := slices.Clone(s.Sets)
	slices.SortFunc(candidates, func(a, b SetCandidate) int {
		return compareIDs(a.Set.ID, b.Set.ID)
	})

	var best *AppliedDiscount

	for _, c := range candidates {
		if c.Discount == nil || !c.Discount.ActiveAt(s.Now) {
			continue
		}
		if !c.Set.RepresentedBy(productIDs) {
			continue
		}

		subtotal := decimal.Zero
		for i, line := range lines {
			if c.Set.Contains(line.ProductID) {
				subtotal = subtotal.Add(rawTotals[i])
			}
		}
		subtotal = subtotal.Round(moneyPlaces)

		amount := c.Discount.Value.AmountOf(subtotal).Round(moneyPlaces)
		amount = decimal.Min(amount, subtotal, baseTotal)

		if best == nil || amount.GreaterThan(best.Amount) {
			best = &AppliedDiscount{ID: c.Discount.ID, Amount: amount}
		}
	}

	return best
}

// stackCartDiscounts applies every active qualifying cart discount in turn.
// Thresholds and amounts are measured against baseTotal. The running total never drops below zero.
func stackCartDiscounts(s Snapshot, baseTotal decimal.Decimal, quantity int) (decimal.Decimal, []AppliedDiscount) {
	discounts := slices.Clone(s.CartDiscounts)
	slices.SortFunc(discounts, func(a, b domain.CartDiscount) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})

	running := baseTotal
	var applied []AppliedDiscount

	for _, d := range discounts {
		if !d.ActiveAt(s.Now) || !d.Qualifies(baseTotal, quantity) {
			continue
		}

		amount := d.Value.AmountOf(baseTotal).Round(moneyPlaces)
		if amount.GreaterThan(running) {
			amount = running
		}
		if !amount.IsPositive() {
			continue
		}

		running = running.Sub(amount)
		applied = append(applied, AppliedDiscount{ID: d.ID, Amount: amount})
	}

	return running, applied
}

func productOutcome(savings map[uuid.UUID]decimal.Decimal, total decimal.Decimal) domain.DiscountOutcome {
	if !total.IsPositive() {
		return domain.NoDiscount()
	}

	var (
		bestID     uuid.UUID
		bestAmount decimal.Decimal
	)
	for id, amount := range savings {
		if bestID == uuid.Nil || amount.GreaterThan(bestAmount) ||
			(amount.Equal(bestAmount) && compareIDs(id, bestID) < 0) {
			bestID, bestAmount = id, amount
		}
	}

	return domain.ProductDiscountApplied(bestID, total)
}

func largest(applied []AppliedDiscount) AppliedDiscount {
	var best AppliedDiscount
	for i, a := range applied {
		if i == 0 || a.Amount.GreaterThan(best.Amount) {
			best = a
		}
	}
	return best
}

func compareIDs(a, b uuid.UUID) int {
	return strings.Compare(a.String(), b.String())
}

func emptyQuote() Quote {
	zero := domain.Money{Amount: decimal.Zero, Currency: currency.Unit{}}
	return Quote{
		ListTotal:              zero,
		BaseTotal:              zero,
		TotalAfterSetDiscount:  zero,
		TotalAfterCartDiscount: zero,
		Total:                  zero,
		Outcome:                domain.NoDiscount(),
	}
}
