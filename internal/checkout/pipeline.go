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

var (
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrPaymentUnreachable = errors.New("payment gateway unreachable")
	ErrEmptyCart          = errors.New("cart is empty")
)

// CartQuoter prices a cart and serializes work on it. *cart.Service satisfies it.
type CartQuoter interface {
	Quote(ctx context.Context, owner domain.Owner) (cart.QuotedCart, error)
	WithCartLock(ctx context.Context, owner domain.Owner, fn func(context.Context) error) error
}

type Request struct {
	Owner      domain.Owner
	Username   string
	CardNumber string
}

type Result struct {
	Order   domain.Order
	Payment domain.PaymentStatus
}

// Pipeline quotes the cart, charges the total and stores the order, all under the cart lock.
// A failed charge stops the pipeline before anything is written, so the cart stays as it was.
type Pipeline struct {
	carts CartQuoter
	steps []Step
	log   *logger.Logger
}

func NewPipeline(carts CartQuoter, gateway port.PaymentGateway, orders port.OrderRepository, log *logger.Logger) (Pipeline, error) {
	var p Pipeline

	if carts == nil {
		return p, errors.New("carts is nil")
	}
	if log == nil {
		log = logger.Nop()
	}

	pSteps, err := buildSteps(carts, gateway, orders, log)
	if err != nil {
		return p, fmt.Errorf("buildSteps: %w", err)
	}

	return Pipeline{
		carts: carts,
		steps: pSteps,
		log:   log,
	}, nil
}

func (p Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if err := req.Owner.Validate(); err != nil {
		return Result{}, fmt.Errorf("owner.Validate: %w", err)
	}

	state := &State{
		Request: req,
		OrderID: uuid.New(),
	}

	ctx = p.log.WithFields(ctx, map[string]any{
		"owner":    req.Owner.String(),
		"order_id": state.OrderID.String(),
	})

	err := p.carts.WithCartLock(ctx, req.Owner, func(ctx context.Context) error {
		for idx, step := range p.steps {
			if err := step.Run(ctx, state); err != nil {
				return fmt.Errorf("step.Run[%d][%s]: %w", idx, step.Name(), err)
			}
			p.log.Debug(ctx, "checkout step done: "+step.Name())
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPaymentDeclined) || errors.Is(err, ErrPaymentUnreachable) {
			p.log.Warn(ctx, "checkout stopped", map[string]any{"payment": string(state.Payment)})
		}
		return Result{Payment: state.Payment}, err
	}

	p.log.Info(p.log.WithField(ctx, "total", state.Order.Total.String()), "checkout completed")

	return Result{Order: state.Order, Payment: state.Payment}, nil
}

func buildSteps(carts CartQuoter, gateway port.PaymentGateway, orders port.OrderRepository, log *logger.Logger) ([]Step, error) {
	var results []Step

	step0, err := NewQuoteStep(carts)
	if err != nil {
		return nil, fmt.Errorf("NewQuoteStep: %w", err)
	}
	results = append(results, step0)

	step1, err := NewChargeStep(gateway)
	if err != nil {
		return nil, fmt.Errorf("NewChargeStep: %w", err)
	}
	results = append(results, step1)

	step2, err := NewCompleteStep(orders, log)
	if err != nil {
		return nil, fmt.Errorf("NewCompleteStep: %w", err)
	}
	results = append(results, step2)

	return results, nil
}
