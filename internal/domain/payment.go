package domain

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusSuccess     PaymentStatus = "success"
	PaymentStatusDeclined    PaymentStatus = "declined"
	PaymentStatusUnreachable PaymentStatus = "unreachable"
)

type ChargeRequest struct {
	OrderID    uuid.UUID `validate:"required"`
	Username   string    `validate:"required"`
	CardNumber string    `validate:"required,numeric"`
	Amount     Money
}
