package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiscountKind string

// remember to add new kinds to ToDiscountKind
const (
	DiscountKindNone    DiscountKind = "none"
	DiscountKindProduct DiscountKind = "product"
	DiscountKindSet     DiscountKind = "set"
	DiscountKindCart    DiscountKind = "cart"
)

func ToDiscountKind(s string) (DiscountKind, error) {
	switch kind := DiscountKind(s); kind {
	case DiscountKindNone, DiscountKindProduct, DiscountKindSet, DiscountKindCart:
		return kind, nil
	}

	return "", errors.New("invalid discount kind")
}

// DiscountOutcome tells which discount produced the presented total.
// DiscountID is uuid.Nil and Amount is zero for DiscountKindNone.
type DiscountOutcome struct {
	Kind       DiscountKind    `json:"kind"`
	DiscountID uuid.UUID       `json:"discount_id"`
	Amount     decimal.Decimal `json:"amount"`
}

func NoDiscount() DiscountOutcome {
	return DiscountOutcome{Kind: DiscountKindNone}
}

func ProductDiscountApplied(id uuid.UUID, amount decimal.Decimal) DiscountOutcome {
	return DiscountOutcome{Kind: DiscountKindProduct, DiscountID: id, Amount: amount}
}

func SetDiscountApplied(id uuid.UUID, amount decimal.Decimal) DiscountOutcome {
	return DiscountOutcome{Kind: DiscountKindSet, DiscountID: id, Amount: amount}
}

func CartDiscountApplied(id uuid.UUID, amount decimal.Decimal) DiscountOutcome {
	return DiscountOutcome{Kind: DiscountKindCart, DiscountID: id, Amount: amount}
}

func (o DiscountOutcome) IsNone() bool {
	return o.Kind == "" || o.Kind == DiscountKindNone
}
