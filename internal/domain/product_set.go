package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type ProductGroup struct {
	ID         uuid.UUID
	Name       string
	ProductIDs []uuid.UUID
}

func (g ProductGroup) Contains(productID uuid.UUID) bool {
	return lo.Contains(g.ProductIDs, productID)
}

// SetOfProducts is fully represented in a cart only when each of its
// groups matches at least one line item.
type SetOfProducts struct {
	ID     uuid.UUID
	Name   string
	Groups []ProductGroup
}

func (s SetOfProducts) Validate() error {
	if s.Name == "" {
		return errors.New("name is empty")
	}
	if len(s.Groups) < 2 {
		return errors.New("set needs at least two groups")
	}
	return nil
}

// Contains reports whether any group of the set holds the product.
func (s SetOfProducts) Contains(productID uuid.UUID) bool {
	return lo.SomeBy(s.Groups, func(g ProductGroup) bool {
		return g.Contains(productID)
	})
}

func (s SetOfProducts) RepresentedBy(productIDs []uuid.UUID) bool {
	if len(s.Groups) == 0 {
		return false
	}

	return lo.EveryBy(s.Groups, func(g ProductGroup) bool {
		return lo.SomeBy(productIDs, g.Contains)
	})
}
