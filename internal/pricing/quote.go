package pricing

import (
	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type QuoteLine struct {
	ItemID     uuid.UUID    `json:"item_id"`
	OfferID    uuid.UUID    `json:"offer_id"`
	ProductID  uuid.UUID    `json:"product_id"`
	Quantity   int          `json:"quantity"`
	ListPrice  domain.Money `json:"list_price"`
	UnitPrice  domain.Money `json:"unit_price"`
	Total      domain.Money `json:"total"`
	DiscountID *uuid.UUID   `json:"discount_id,omitempty"`
	Clamped    bool         `json:"clamped,omitempty"`
}

type AppliedDiscount struct {
	ID     uuid.UUID       `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// Quote is the priced breakdown of a cart. Total is the presented price,
// Outcome names the discount that produced it.
type Quote struct {
	Currency      currency.Unit `json:"-"`
	TotalQuantity int           `json:"total_quantity"`

	ListTotal              domain.Money `json:"list_total"`
	BaseTotal              domain.Money `json:"base_total"`
	TotalAfterSetDiscount  domain.Money `json:"total_after_set_discount"`
	TotalAfterCartDiscount domain.Money `json:"total_after_cart_discount"`
	Total                  domain.Money `json:"total"`

	Lines         []QuoteLine       `json:"lines"`
	SetDiscount   *AppliedDiscount  `json:"set_discount,omitempty"`
	CartDiscounts []AppliedDiscount `json:"cart_discounts,omitempty"`

	Outcome      domain.DiscountOutcome `json:"outcome"`
	ClampedLines int                    `json:"-"`
}

// OrderItems freezes the quote lines into order items.
func (q Quote) OrderItems() []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(q.Lines))
	for _, line := range q.Lines {
		items = append(items, domain.OrderItem{
			OfferID:   line.OfferID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     domain.Money{Amount: line.UnitPrice.Amount.Round(moneyPlaces), Currency: line.UnitPrice.Currency},
		})
	}
	return items
}
