package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OwnerKind string

const (
	OwnerKindSession OwnerKind = "session"
	OwnerKindBuyer   OwnerKind = "buyer"
)

func ToOwnerKind(s string) (OwnerKind, error) {
	switch kind := OwnerKind(s); kind {
	case OwnerKindSession, OwnerKindBuyer:
		return kind, nil
	}

	return "", errors.New("invalid owner kind")
}

// Owner is either an anonymous session or an authenticated buyer, never both.
type Owner struct {
	Kind OwnerKind
	ID   string
}

func SessionOwner(sessionKey string) Owner {
	return Owner{Kind: OwnerKindSession, ID: sessionKey}
}

func BuyerOwner(buyerID string) Owner {
	return Owner{Kind: OwnerKindBuyer, ID: buyerID}
}

func (o Owner) Validate() error {
	if _, err := ToOwnerKind(string(o.Kind)); err != nil {
		return err
	}
	if o.ID == "" {
		return errors.New("owner id is empty")
	}
	return nil
}

func (o Owner) String() string {
	return fmt.Sprintf("%s:%s", o.Kind, o.ID)
}

// IsAnonymous reports whether stock checks apply to the owner's cart.
func (o Owner) IsAnonymous() bool {
	return o.Kind == OwnerKindSession
}

type Cart struct {
	ID    uuid.UUID
	Owner Owner
	Items []CartItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID       uuid.UUID
	OfferID  uuid.UUID
	Quantity int

	CreatedAt time.Time
}

func (c Cart) TotalQuantity() int {
	var total int
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c Cart) FindByOffer(offerID uuid.UUID) (CartItem, bool) {
	for _, item := range c.Items {
		if item.OfferID == offerID {
			return item, true
		}
	}
	return CartItem{}, false
}

func (c Cart) FindItem(itemID uuid.UUID) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return CartItem{}, false
}

// PricedLine is a cart item joined with the offer it refers to.
type PricedLine struct {
	Item  CartItem
	Offer Offer
}
