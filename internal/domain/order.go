package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID       uuid.UUID
	OwnerID  string
	Total    Money
	Discount DiscountOutcome
	Items    []OrderItem
	Status   OrderStatus

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// OrderItem freezes the unit price of a line at completion time,
// product discount included.
type OrderItem struct {
	OfferID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Price     Money

	CreatedAt time.Time
	DeletedAt *time.Time
}

func (o Order) Validate() error {
	if o.OwnerID == "" {
		return errors.New("ownerID is empty")
	}
	if len(o.Items) == 0 {
		return errors.New("no items in order")
	}
	if err := o.Total.Validate(); err != nil {
		return fmt.Errorf("total: %w", err)
	}
	for i, item := range o.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("item[%d]: quantity is not positive", i)
		}
		if item.Quantity > MaxQuantity {
			return fmt.Errorf("item[%d]: quantity is too large", i)
		}
	}
	return nil
}
