package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountValue is either a percentage of a price or an absolute amount
// in the currency of the price it is applied to.
type DiscountValue struct {
	IsPercent bool
	Size      decimal.Decimal
}

func Percent(size int64) DiscountValue {
	return DiscountValue{IsPercent: true, Size: decimal.NewFromInt(size)}
}

func Absolute(size decimal.Decimal) DiscountValue {
	return DiscountValue{Size: size}
}

func (v DiscountValue) Validate() error {
	if v.Size.IsNegative() {
		return errors.New("size is negative")
	}
	if v.IsPercent && v.Size.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("percent size is greater than 100")
	}
	return nil
}

// AmountOf returns the reduction this value yields against base.
func (v DiscountValue) AmountOf(base decimal.Decimal) decimal.Decimal {
	if v.IsPercent {
		return base.Mul(v.Size).Div(decimal.NewFromInt(100))
	}
	return v.Size
}

// Window bounds the validity of a discount. Nil bounds are open.
type Window struct {
	Start *time.Time
	End   *time.Time
}

func (w Window) Validate() error {
	if w.Start != nil && w.End != nil && w.Start.After(*w.End) {
		return errors.New("start is after end")
	}
	return nil
}

// Contains treats both bounds as inclusive.
func (w Window) Contains(now time.Time) bool {
	if w.Start != nil && now.Before(*w.Start) {
		return false
	}
	if w.End != nil && now.After(*w.End) {
		return false
	}
	return true
}

// ContainsEndExclusive is Contains with an exclusive end bound.
func (w Window) ContainsEndExclusive(now time.Time) bool {
	if w.Start != nil && now.Before(*w.Start) {
		return false
	}
	if w.End != nil && !now.Before(*w.End) {
		return false
	}
	return true
}

type ProductDiscount struct {
	ID          uuid.UUID
	ProductID   *uuid.UUID
	Value       DiscountValue
	Window      Window
	IsActive    bool
	IsPriority  bool
	Description string

	CreatedAt time.Time
}

func (d ProductDiscount) ActiveAt(now time.Time) bool {
	return d.IsActive && d.Window.Contains(now)
}

func (d ProductDiscount) Validate() error {
	if err := d.Value.Validate(); err != nil {
		return fmt.Errorf("value: %w", err)
	}
	if err := d.Window.Validate(); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}

type SetDiscount struct {
	ID          uuid.UUID
	SetID       uuid.UUID
	Value       DiscountValue
	Window      Window
	IsActive    bool
	IsPriority  bool
	Description string

	CreatedAt time.Time
}

func (d SetDiscount) ActiveAt(now time.Time) bool {
	return d.IsActive && d.Window.Contains(now)
}

func (d SetDiscount) Validate() error {
	if d.SetID == uuid.Nil {
		return errors.New("setID is empty")
	}
	if err := d.Value.Validate(); err != nil {
		return fmt.Errorf("value: %w", err)
	}
	if err := d.Window.Validate(); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}

type CartDiscount struct {
	ID          uuid.UUID
	CartID      uuid.UUID
	MinOrderSum *decimal.Decimal
	MinQuantity *int
	Value       DiscountValue
	Window      Window
	IsActive    bool
	Description string

	CreatedAt time.Time
}

func (d CartDiscount) ActiveAt(now time.Time) bool {
	return d.IsActive && d.Window.ContainsEndExclusive(now)
}

// Qualifies checks both thresholds. A nil threshold is always satisfied.
func (d CartDiscount) Qualifies(orderSum decimal.Decimal, quantity int) bool {
	if d.MinOrderSum != nil && orderSum.LessThan(*d.MinOrderSum) {
		return false
	}
	if d.MinQuantity != nil && quantity < *d.MinQuantity {
		return false
	}
	return true
}

func (d CartDiscount) Validate() error {
	if d.CartID == uuid.Nil {
		return errors.New("cartID is empty")
	}
	if d.MinOrderSum != nil && d.MinOrderSum.IsNegative() {
		return errors.New("min order sum is negative")
	}
	if d.MinQuantity != nil && *d.MinQuantity < 0 {
		return errors.New("min quantity is negative")
	}
	if d.MinQuantity != nil && *d.MinQuantity > MaxQuantity {
		return errors.New("min quantity is too large")
	}
	if err := d.Value.Validate(); err != nil {
		return fmt.Errorf("value: %w", err)
	}
	if err := d.Window.Validate(); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}
