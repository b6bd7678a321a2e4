package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/cart"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/nikolayk812/cartprice/internal/logger"
	"github.com/nikolayk812/cartprice/internal/port"
)

type Step interface {
	Name() string
	Run(ctx context.Context, state *State) error
}

// State is passed from step to step within one pipeline run.
type State struct {
	Request Request
	OrderID uuid.UUID
	Quoted  cart.QuotedCart
	Payment domain.PaymentStatus
	Order   domain.Order
}

type QuoteStep struct {
	carts CartQuoter
}

func NewQuoteStep(carts CartQuoter) (QuoteStep, error) {
	var s QuoteStep

	if carts == nil {
		return s, errors.New("carts is nil")
	}

	return QuoteStep{carts: carts}, nil
}

func (s QuoteStep) Name() string {
	return "quote"
}

func (s QuoteStep) Run(ctx context.Context, state *State) error {
	quoted, err := s.carts.Quote(ctx, state.Request.Owner)
	if err != nil {
		return fmt.Errorf("carts.Quote: %w", err)
	}

	if quoted.Cart.ID == uuid.Nil || len(quoted.Quote.Lines) == 0 {
		return ErrEmptyCart
	}

	state.Quoted = quoted

	return nil
}

type ChargeStep struct {
	gateway port.PaymentGateway
}

func NewChargeStep(gateway port.PaymentGateway) (ChargeStep, error) {
	var s ChargeStep

	if gateway == nil {
		return s, errors.New("gateway is nil")
	}

	return ChargeStep{gateway: gateway}, nil
}

func (s ChargeStep) Name() string {
	return "charge"
}

func (s ChargeStep) Run(ctx context.Context, state *State) error {
	status, err := s.gateway.Charge(ctx, domain.ChargeRequest{
		OrderID:    state.OrderID,
		Username:   state.Request.Username,
		CardNumber: state.Request.CardNumber,
		Amount:     state.Quoted.Quote.Total,
	})
	if err != nil {
		return fmt.Errorf("gateway.Charge: %w", err)
	}

	state.Payment = status

	switch status {
	case domain.PaymentStatusSuccess:
		return nil
	case domain.PaymentStatusDeclined:
		return ErrPaymentDeclined
	case domain.PaymentStatusUnreachable:
		return ErrPaymentUnreachable
	default:
		return fmt.Errorf("unknown payment status[%s]", status)
	}
}

type CompleteStep struct {
	orders port.OrderRepository
	log    *logger.Logger
}

func NewCompleteStep(orders port.OrderRepository, log *logger.Logger) (CompleteStep, error) {
	var s CompleteStep

	if orders == nil {
		return s, errors.New("orders is nil")
	}
	if log == nil {
		log = logger.Nop()
	}

	return CompleteStep{orders: orders, log: log}, nil
}

func (s CompleteStep) Name() string {
	return "complete"
}

func (s CompleteStep) Run(ctx context.Context, state *State) error {
	quote := state.Quoted.Quote

	order := domain.Order{
		ID:       state.OrderID,
		OwnerID:  state.Request.Owner.ID,
		Total:    quote.Total,
		Discount: quote.Outcome,
		Items:    quote.OrderItems(),
		Status:   domain.OrderStatusPaid,
	}

	orderID, err := s.orders.CompleteOrder(ctx, order, state.Quoted.Cart.ID)
	if err != nil {
		// the charge already went through, the order must be reconciled by hand
		s.log.Error(s.log.WithFields(ctx, map[string]any{
			"order_id": state.OrderID.String(),
			"payment":  string(state.Payment),
			"total":    quote.Total.String(),
		}), "charged order not stored", err)
		return fmt.Errorf("orders.CompleteOrder: %w", err)
	}

	order.ID = orderID
	state.Order = order

	return nil
}
