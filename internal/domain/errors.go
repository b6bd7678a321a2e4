package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNotFound                = errors.New("not found")
	ErrNegativeDiscountedPrice = errors.New("discounted price is negative")
	ErrCurrencyMismatch        = errors.New("currency mismatch")
)

// InvalidQuantityError rejects a cart mutation before it happens.
// Available is nil when the quantity is invalid on its own (zero or negative).
type InvalidQuantityError struct {
	Requested int
	Available *int
}

func (e *InvalidQuantityError) Error() string {
	if e.Available == nil {
		return fmt.Sprintf("invalid quantity %d", e.Requested)
	}
	return fmt.Sprintf("invalid quantity %d: only %d available", e.Requested, *e.Available)
}

func IsInvalidQuantity(err error) bool {
	var target *InvalidQuantityError
	return errors.As(err, &target)
}

// MaxQuantity is the largest quantity a cart line, order item or stock level can hold.
const MaxQuantity = math.MaxInt32

// ValidateQuantity rejects zero, negative and out-of-range quantities.
func ValidateQuantity(quantity int) error {
	if quantity <= 0 || quantity > MaxQuantity {
		return &InvalidQuantityError{Requested: quantity}
	}
	return nil
}
