package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/nikolayk812/cartprice/internal/logger"
	"github.com/nikolayk812/cartprice/internal/metrics"
	"github.com/sony/gobreaker/v2"
)

const (
	purchasePath          = "/api/v1/purchase/"
	defaultTimeout        = 5 * time.Second
	responseBodyLimit     = 4096
	defaultFailuresToTrip = 5
)

// errUnreachable marks a gateway failure for the breaker. It never leaves the package.
var errUnreachable = errors.New("payment gateway unreachable")

type BreakerSettings struct {
	// FailuresToTrip consecutive unreachable calls open the breaker.
	FailuresToTrip uint32
	// OpenTimeout is how long the breaker stays open before letting a trial request through.
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of trial requests allowed while half-open.
	HalfOpenRequests uint32
}

// Client charges orders through the payment gateway's HTTP API.
// It never retries: a charge either reaches the gateway once or reports unreachable.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[domain.PaymentStatus]
	validate   *validator.Validate
	metrics    *metrics.PricingMetrics
	log        *logger.Logger
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithMetrics(m *metrics.PricingMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func NewClient(baseURL string, timeout time.Duration, breaker BreakerSettings, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("payment base url is empty")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	failuresToTrip := breaker.FailuresToTrip
	if failuresToTrip == 0 {
		failuresToTrip = defaultFailuresToTrip
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    trimmed,
		validate:   validator.New(),
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[domain.PaymentStatus](gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: breaker.HalfOpenRequests,
		Timeout:     breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failuresToTrip
		},
		IsSuccessful: func(err error) bool {
			return !errors.Is(err, errUnreachable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn(context.Background(), "circuit breaker state changed", map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})

	return c, nil
}

type chargeBody struct {
	Username   string `json:"username"`
	OrderID    string `json:"order_id"`
	CardNumber string `json:"card_number"`
	Amount     string `json:"amount"`
}

type chargeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Charge returns an error only for a request that cannot be sent at all.
// Gateway rejections and failures come back as PaymentStatusDeclined and PaymentStatusUnreachable.
func (c *Client) Charge(ctx context.Context, req domain.ChargeRequest) (domain.PaymentStatus, error) {
	req.CardNumber = strings.ReplaceAll(req.CardNumber, " ", "")

	if err := c.validate.Struct(req); err != nil {
		return "", fmt.Errorf("validate.Struct: %w", err)
	}
	if err := req.Amount.Validate(); err != nil {
		return "", fmt.Errorf("amount: %w", err)
	}

	payload, err := json.Marshal(chargeBody{
		Username:   req.Username,
		OrderID:    req.OrderID.String(),
		CardNumber: req.CardNumber,
		Amount:     req.Amount.Amount.StringFixed(2),
	})
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	ctx = c.log.WithField(ctx, "order_id", req.OrderID.String())

	status, err := c.breaker.Execute(func() (domain.PaymentStatus, error) {
		return c.send(ctx, payload)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.log.Warn(ctx, "payment skipped, circuit breaker open", nil)
		}
		status = domain.PaymentStatusUnreachable
	}

	c.metrics.IncPayment(string(status))

	return status, nil
}

func (c *Client) send(ctx context.Context, payload []byte) (domain.PaymentStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+purchasePath, bytes.NewReader(payload))
	if err != nil {
		return domain.PaymentStatusUnreachable, fmt.Errorf("http.NewRequestWithContext: %w: %w", errUnreachable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error(ctx, "payment gateway request failed", err)
		return domain.PaymentStatusUnreachable, fmt.Errorf("httpClient.Do: %w: %w", errUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		return domain.PaymentStatusUnreachable, fmt.Errorf("io.ReadAll: %w: %w", errUnreachable, err)
	}

	var parsed chargeResponse
	// a non-JSON body is judged by the status code alone
	_ = json.Unmarshal(body, &parsed)

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return domain.PaymentStatusUnreachable, fmt.Errorf("status %d: %w", resp.StatusCode, errUnreachable)
	case resp.StatusCode == http.StatusPaymentRequired,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusUnprocessableEntity,
		parsed.Status == "error":
		c.log.Info(c.log.WithField(ctx, "reason", parsed.Message), "payment declined")
		return domain.PaymentStatusDeclined, nil
	case resp.StatusCode == http.StatusOK:
		return domain.PaymentStatusSuccess, nil
	default:
		return domain.PaymentStatusUnreachable, fmt.Errorf("unexpected status %d: %w", resp.StatusCode, errUnreachable)
	}
}
