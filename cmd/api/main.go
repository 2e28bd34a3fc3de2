package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribuidora-api/internal/application/auth"
	"github.com/jhoicas/Distribuidora-api/internal/application/catchweight"
	"github.com/jhoicas/Distribuidora-api/internal/application/credit"
	"github.com/jhoicas/Distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/Distribuidora-api/internal/application/usecase"
	"github.com/jhoicas/Distribuidora-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Distribuidora-api/internal/interfaces/http"
	"github.com/jhoicas/Distribuidora-api/pkg/config"
	"github.com/jhoicas/Distribuidora-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	positionRepo := postgres.NewPositionRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	catchWeightRepo := postgres.NewCatchWeightRepository(pool)
	openInvoiceRepo := postgres.NewOpenInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Policy.LockTimeoutMS)

	ledgerUC := inventory.NewLedgerUseCase(txRunner, positionRepo, transactionRepo)
	transferUC := inventory.NewTransferUseCase(txRunner)
	lotUC := inventory.NewLotUseCase(positionRepo, cfg.Policy.ExpiryWarningDays)
	catchWeightUC := catchweight.NewUseCase(txRunner, ledgerUC, productRepo, catchWeightRepo, catchweight.Policy{
		AutoAcceptPercent: decimal.NewFromFloat(cfg.Policy.AutoAcceptVariancePct),
		PieceSumEpsilon:   decimal.NewFromFloat(cfg.Policy.PieceSumEpsilon),
	})
	creditUC := credit.NewUseCase(customerRepo, openInvoiceRepo, cfg.Policy.DefaultCreditPolicy)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Distribuidora API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CompanyUC:     companyUC,
		WarehouseUC:   warehouseUC,
		ProductUC:     productUC,
		CustomerUC:    customerUC,
		LedgerUC:      ledgerUC,
		TransferUC:    transferUC,
		LotUC:         lotUC,
		CatchWeightUC: catchWeightUC,
		CreditUC:      creditUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
