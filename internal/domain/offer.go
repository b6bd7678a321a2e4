package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Offer is a seller's listing of a product. It is treated as immutable
// for the duration of one pricing computation.
type Offer struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	SellerID  uuid.UUID
	Price     Money
	Quantity  int
	IsActive  bool
}

func (o Offer) Validate() error {
	if o.ProductID == uuid.Nil {
		return errors.New("productID is empty")
	}
	if o.SellerID == uuid.Nil {
		return errors.New("sellerID is empty")
	}
	if err := o.Price.Validate(); err != nil {
		return fmt.Errorf("price: %w", err)
	}
	if o.Quantity < 0 {
		return errors.New("quantity is negative")
	}
	if o.Quantity > MaxQuantity {
		return errors.New("quantity is too large")
	}
	return nil
}

type Product struct {
	ID       uuid.UUID
	Title    string
	IsActive bool
}
