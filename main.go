package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nikolayk812/cartprice/internal/cart"
	"github.com/nikolayk812/cartprice/internal/catalog"
	"github.com/nikolayk812/cartprice/internal/checkout"
	"github.com/nikolayk812/cartprice/internal/config"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/nikolayk812/cartprice/internal/lock"
	"github.com/nikolayk812/cartprice/internal/logger"
	"github.com/nikolayk812/cartprice/internal/metrics"
	"github.com/nikolayk812/cartprice/internal/payment"
	"github.com/nikolayk812/cartprice/internal/port"
	"github.com/nikolayk812/cartprice/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
)

const usage = `usage: cartprice <command> [flags]

commands:
  migrate up|down                              apply or roll back schema migrations
  quote -owner-kind K -owner-id ID             price the owner's cart
  checkout -owner-kind K -owner-id ID -username U -card N
                                               charge the cart total and store the order
  stats -product-id ID                         price statistics of a product's offers
  deactivate-expired                           switch off expired product discounts
  orders -id ID                                show one order
  orders [-owner-id ID] [-status S,..] [-discount-kind K,..]
                                               search orders
  order-status -id ID -status S                move an order to another status
  delete-order -id ID [-hard]                  soft delete an order, or remove it with -hard
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// bootstrap logger for config errors, replaced once config is loaded
	logg := logger.New(logger.Options{ServiceName: "cartprice"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "cartprice",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		Output:      os.Stderr,
	})

	cmd, args := os.Args[1], os.Args[2:]
	ctx = logg.WithField(ctx, "cmd", cmd)

	switch cmd {
	case "migrate":
		err = runMigrate(ctx, logg, cfg, args)
	case "quote":
		err = runQuote(ctx, logg, cfg, args)
	case "checkout":
		err = runCheckout(ctx, logg, cfg, args)
	case "stats":
		err = runStats(ctx, logg, cfg, args)
	case "deactivate-expired":
		err = runDeactivateExpired(ctx, logg, cfg)
	case "orders":
		err = runOrders(ctx, cfg, args)
	case "order-status":
		err = runOrderStatus(ctx, logg, cfg, args)
	case "delete-order":
		err = runDeleteOrder(ctx, logg, cfg, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		logg.Error(ctx, "command failed", err)
		os.Exit(1)
	}
}

func runMigrate(ctx context.Context, logg *logger.Logger, cfg *config.Config, args []string) error {
	direction := "up"
	if len(args) > 0 {
		direction = args[0]
	}

	switch direction {
	case "up":
		if err := repository.MigrateUp(cfg.DB.DSN); err != nil {
			return fmt.Errorf("repository.MigrateUp: %w", err)
		}
	case "down":
		if err := repository.MigrateDown(cfg.DB.DSN); err != nil {
			return fmt.Errorf("repository.MigrateDown: %w", err)
		}
	default:
		return fmt.Errorf("unknown migrate direction[%s]", direction)
	}

	logg.Info(logg.WithField(ctx, "direction", direction), "migrations applied")
	return nil
}

func runQuote(ctx context.Context, logg *logger.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("quote", flag.ExitOnError)
	owner := ownerFlags(fs)
	_ = fs.Parse(args)

	app, err := newApp(ctx, logg, cfg, "quote")
	if err != nil {
		return err
	}
	defer app.close(ctx)

	quoted, err := app.carts.Quote(ctx, owner())
	if err != nil {
		return fmt.Errorf("carts.Quote: %w", err)
	}

	return printJSON(quoted.Quote)
}

func runCheckout(ctx context.Context, logg *logger.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	owner := ownerFlags(fs)
	username := fs.String("username", "", "payer username")
	card := fs.String("card", "", "card number")
	_ = fs.Parse(args)

	app, err := newApp(ctx, logg, cfg, "checkout")
	if err != nil {
		return err
	}
	defer app.close(ctx)

	gateway, err := payment.NewClient(cfg.Payment.URL, cfg.Payment.Timeout, payment.BreakerSettings{
		FailuresToTrip: cfg.Payment.BreakerFailures,
		OpenTimeout:    cfg.Payment.BreakerOpenTimeout,
	}, payment.WithMetrics(app.metrics), payment.WithLogger(logg))
	if err != nil {
		return fmt.Errorf("payment.NewClient: %w", err)
	}

	pipeline, err := checkout.NewPipeline(app.carts, gateway, repository.NewOrder(app.pool), logg)
	if err != nil {
		return fmt.Errorf("checkout.NewPipeline: %w", err)
	}

	result, err := pipeline.Run(ctx, checkout.Request{
		Owner:      owner(),
		Username:   *username,
		CardNumber: *card,
	})
	if err != nil {
		return fmt.Errorf("pipeline.Run: %w", err)
	}

	return printJSON(result.Order)
}

func runStats(ctx context.Context, logg *logger.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	rawID := fs.String("product-id", "", "product id")
	_ = fs.Parse(args)

	productID, err := uuid.Parse(*rawID)
	if err != nil {
		return fmt.Errorf("uuid.Parse[%s]: %w", *rawID, err)
	}

	app, err := newApp(ctx, logg, cfg, "stats")
	if err != nil {
		return err
	}
	defer app.close(ctx)

	stats, err := catalog.NewIndex(app.catalog, logg).ProductPriceStats(ctx, productID, time.Now())
	if err != nil {
		return fmt.Errorf("ProductPriceStats: %w", err)
	}

	return printJSON(stats)
}

func runDeactivateExpired(ctx context.Context, logg *logger.Logger, cfg *config.Config) error {
	app, err := newApp(ctx, logg, cfg, "deactivate-expired")
	if err != nil {
		return err
	}
	defer app.close(ctx)

	n, err := app.catalog.DeactivateExpiredDiscounts(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("catalog.DeactivateExpiredDiscounts: %w", err)
	}

	logg.Info(logg.WithField(ctx, "deactivated", n), "expired discounts deactivated")
	return nil
}

func runOrders(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	rawID := fs.String("id", "", "order id")
	ownerID := fs.String("owner-id", "", "owner id")
	statuses := fs.String("status", "", "comma separated order statuses")
	kinds := fs.String("discount-kind", "", "comma separated discount kinds: none, product, set, cart")
	_ = fs.Parse(args)

	var filter domain.OrderFilter
	if *rawID == "" {
		var err error
		filter, err = orderFilterFromFlags(*ownerID, *statuses, *kinds)
		if err != nil {
			return fmt.Errorf("orderFilterFromFlags: %w", err)
		}
	}

	pool, err := newPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	orders := repository.NewOrder(pool)

	if *rawID != "" {
		orderID, err := uuid.Parse(*rawID)
		if err != nil {
			return fmt.Errorf("uuid.Parse[%s]: %w", *rawID, err)
		}

		order, err := orders.GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("orders.GetOrder: %w", err)
		}
		return printJSON(order)
	}

	found, err := orders.SearchOrders(ctx, filter)
	if err != nil {
		return fmt.Errorf("orders.SearchOrders: %w", err)
	}

	return printJSON(found)
}

func runOrderStatus(ctx context.Context, logg *logger.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("order-status", flag.ExitOnError)
	rawID := fs.String("id", "", "order id")
	rawStatus := fs.String("status", "", "new order status")
	_ = fs.Parse(args)

	orderID, err := uuid.Parse(*rawID)
	if err != nil {
		return fmt.Errorf("uuid.Parse[%s]: %w", *rawID, err)
	}

	status, err := domain.ToOrderStatus(*rawStatus)
	if err != nil {
		return fmt.Errorf("domain.ToOrderStatus: %w", err)
	}

	pool, err := newPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := repository.NewOrder(pool).UpdateOrderStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("orders.UpdateOrderStatus: %w", err)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"order_id": orderID.String(),
		"status":   string(status),
	}), "order status updated")
	return nil
}

func runDeleteOrder(ctx context.Context, logg *logger.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("delete-order", flag.ExitOnError)
	rawID := fs.String("id", "", "order id")
	hard := fs.Bool("hard", false, "remove the order and its items instead of marking it deleted")
	_ = fs.Parse(args)

	orderID, err := uuid.Parse(*rawID)
	if err != nil {
		return fmt.Errorf("uuid.Parse[%s]: %w", *rawID, err)
	}

	pool, err := newPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	orders := repository.NewOrder(pool)

	if *hard {
		if err := orders.DeleteOrder(ctx, orderID); err != nil {
			return fmt.Errorf("orders.DeleteOrder: %w", err)
		}
	} else {
		if err := orders.SoftDeleteOrder(ctx, orderID); err != nil {
			return fmt.Errorf("orders.SoftDeleteOrder: %w", err)
		}
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"order_id": orderID.String(),
		"hard":     *hard,
	}), "order deleted")
	return nil
}

// orderFilterFromFlags builds a search filter from comma separated flag values.
func orderFilterFromFlags(ownerID, statuses, kinds string) (domain.OrderFilter, error) {
	var filter domain.OrderFilter

	if ownerID = strings.TrimSpace(ownerID); ownerID != "" {
		filter.OwnerIDs = []string{ownerID}
	}

	for _, raw := range splitList(statuses) {
		status, err := domain.ToOrderStatus(raw)
		if err != nil {
			return filter, fmt.Errorf("domain.ToOrderStatus: %w", err)
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	for _, raw := range splitList(kinds) {
		kind, err := domain.ToDiscountKind(raw)
		if err != nil {
			return filter, fmt.Errorf("domain.ToDiscountKind: %w", err)
		}
		filter.DiscountKinds = append(filter.DiscountKinds, kind)
	}

	if err := filter.Validate(); err != nil {
		return filter, fmt.Errorf("filter.Validate: %w", err)
	}

	return filter, nil
}

func splitList(value string) []string {
	parts := lo.Map(strings.Split(value, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Uniq(lo.Compact(parts))
}

type app struct {
	pool     *pgxpool.Pool
	redis    *redis.Client
	catalog  port.CatalogRepository
	carts    *cart.Service
	registry *prometheus.Registry
	metrics  *metrics.PricingMetrics
	logg     *logger.Logger
	cfg      *config.Config
	command  string
}

func newPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	poolConfig.MaxConns = cfg.DB.MaxConns
	poolConfig.MaxConnLifetime = cfg.DB.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	return pool, nil
}

func newApp(ctx context.Context, logg *logger.Logger, cfg *config.Config, command string) (*app, error) {
	pool, err := newPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	a := &app{pool: pool, redis: redisClient, logg: logg, cfg: cfg, command: command}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		a.release()
		return nil, fmt.Errorf("redis.Ping: %w", err)
	}

	locker, err := lock.New(redisClient, lock.WithTTL(cfg.Lock.TTL), lock.WithRetryBackoff(cfg.Lock.RetryBackoff))
	if err != nil {
		a.release()
		return nil, fmt.Errorf("lock.New: %w", err)
	}

	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.NewPricingMetrics(cfg.Metrics.Namespace, a.registry)
	a.catalog = repository.NewCatalog(pool)

	a.carts, err = cart.NewService(repository.NewCart(pool), a.catalog, locker,
		cart.WithMetrics(a.metrics),
		cart.WithLogger(logg),
	)
	if err != nil {
		a.release()
		return nil, fmt.Errorf("cart.NewService: %w", err)
	}

	return a, nil
}

// close pushes the metrics of the run when a Pushgateway is configured and releases connections.
func (a *app) close(ctx context.Context) {
	if a.cfg.Metrics.PushURL != "" {
		err := metrics.Push(context.WithoutCancel(ctx), a.cfg.Metrics.PushURL, a.command, a.registry, a.cfg.Metrics.PushTimeout)
		if err != nil {
			a.logg.Error(ctx, "metrics push failed", err)
		}
	}

	a.release()
}

func (a *app) release() {
	_ = a.redis.Close()
	a.pool.Close()
}

// ownerFlags registers -owner-kind and -owner-id and returns a reader for the parsed owner.
func ownerFlags(fs *flag.FlagSet) func() domain.Owner {
	kind := fs.String("owner-kind", string(domain.OwnerKindSession), "session or buyer")
	id := fs.String("owner-id", "", "session id or buyer id")

	return func() domain.Owner {
		return domain.Owner{Kind: domain.OwnerKind(*kind), ID: *id}
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json.Encode: %w", err)
	}
	return nil
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
