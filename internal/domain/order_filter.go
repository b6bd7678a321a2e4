package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderFilter matches orders satisfying every non-empty field.
// A slice field matches when any of its values does.
type OrderFilter struct {
	IDs           []uuid.UUID
	OwnerIDs      []string
	Statuses      []OrderStatus
	DiscountKinds []DiscountKind
	CreatedAt     *TimeRange
}

func (f OrderFilter) Validate() error {
	if len(f.IDs) == 0 && len(f.OwnerIDs) == 0 && len(f.Statuses) == 0 &&
		len(f.DiscountKinds) == 0 && f.CreatedAt == nil {
		return errors.New("all fields are empty")
	}

	for _, status := range f.Statuses {
		if _, err := ToOrderStatus(string(status)); err != nil {
			return fmt.Errorf("statuses[%s]: %w", status, err)
		}
	}

	for _, kind := range f.DiscountKinds {
		if _, err := ToDiscountKind(string(kind)); err != nil {
			return fmt.Errorf("discountKinds[%s]: %w", kind, err)
		}
	}

	if f.CreatedAt != nil {
		if err := f.CreatedAt.Validate(); err != nil {
			return fmt.Errorf("createdAt: %w", err)
		}
	}

	return nil
}

// TimeRange is inclusive on both ends. Either end may be open.
type TimeRange struct {
	Before *time.Time
	After  *time.Time
}

func (t TimeRange) Validate() error {
	if t.Before == nil && t.After == nil {
		return errors.New("both Before and After are nil")
	}

	if t.Before != nil && t.After != nil && t.Before.Before(*t.After) {
		return errors.New("before is earlier than after")
	}

	return nil
}
