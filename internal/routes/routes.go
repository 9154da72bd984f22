package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/cdez-cactus-os/KristPay2/internal/config"
	"github.com/cdez-cactus-os/KristPay2/internal/economy"
	"github.com/cdez-cactus-os/KristPay2/internal/krist"
	"github.com/cdez-cactus-os/KristPay2/internal/ledger"
	"github.com/cdez-cactus-os/KristPay2/internal/middleware"
	"github.com/cdez-cactus-os/KristPay2/internal/notification"
	"github.com/cdez-cactus-os/KristPay2/internal/welfare"
)

// devReserve is the static reserve used when no master address is configured.
const devReserve = 1_000_000

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.Dev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var store ledger.Store
	if d.DB != nil {
		store = ledger.NewPostgresStore(d.DB)
	} else {
		store = ledger.NewMemoryStore()
	}

	accounts := ledger.New(store, krist.RandomWalletFactory{})
	if err := accounts.Load(context.Background()); err != nil {
		return err
	}

	var oracle krist.ReserveOracle
	if d.Cfg.MasterAddress != "" {
		oracle = krist.NewNodeOracle(krist.NewNodeClient(d.Cfg.NodeURL), d.Cfg.MasterAddress)
		if d.Cache != nil {
			oracle = krist.NewCachedOracle(oracle, d.Cache, d.Cfg.ReserveCacheTTL)
		}
	} else {
		oracle = krist.StaticOracle{Balance: devReserve}
	}

	engine := economy.NewEngine(accounts, oracle, d.Cfg.StartingBalance)
	notifier := notification.NewLoggerNotifier(d.Logger)
	welfareSvc := welfare.NewService(engine, d.Cfg.WelfareAmount, d.Cfg.WelfareInterval, d.Logger)

	economyHandler := economy.NewHandler(engine, notifier)
	welfareHandler := welfare.NewHandler(welfareSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	api.Get("/reserve", func(c *fiber.Ctx) error {
		reserve, err := oracle.ReserveBalance(c.UserContext())
		if err != nil {
			return fiber.NewError(http.StatusServiceUnavailable, err.Error())
		}
		distributed := accounts.TotalDistributed()
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"reserve":     reserve,
			"distributed": distributed,
			"available":   reserve - distributed,
		})
	})

	api.Get("/accounts/:owner", economyHandler.GetAccount)
	api.Get("/accounts/:owner/balance", economyHandler.GetBalance)

	protected := api.Group("", middleware.APIKey(d.Cfg.APIKeyHash))
	protected.Post("/accounts", economyHandler.CreateAccount)
	protected.Post("/accounts/:owner/deposit", economyHandler.Deposit)
	protected.Post("/accounts/:owner/withdraw", economyHandler.Withdraw)
	protected.Post("/accounts/:owner/balance", economyHandler.SetBalance)
	protected.Post("/accounts/:owner/reset", economyHandler.Reset)
	protected.Post("/accounts/:owner/welfare", welfareHandler.Pay)
	protected.Post("/transfers", economyHandler.Transfer)
	protected.Post("/welfare/run", welfareHandler.PayAll)

	return nil
}
