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
	"github.com/robfig/cron/v3"

	"github.com/pacoficinas/oficina-api/internal/application/auth"
	"github.com/pacoficinas/oficina-api/internal/application/finance"
	"github.com/pacoficinas/oficina-api/internal/application/importing"
	"github.com/pacoficinas/oficina-api/internal/application/inventory"
	"github.com/pacoficinas/oficina-api/internal/application/orders"
	"github.com/pacoficinas/oficina-api/internal/application/usecase"
	"github.com/pacoficinas/oficina-api/internal/infrastructure/postgres"
	httpRouter "github.com/pacoficinas/oficina-api/internal/interfaces/http"
	"github.com/pacoficinas/oficina-api/pkg/config"
	"github.com/pacoficinas/oficina-api/pkg/decimals"
	"github.com/pacoficinas/oficina-api/pkg/logger"
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

	workshopRepo := postgres.NewWorkshopRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	docRepo := postgres.NewImportedDocumentRepository(pool)
	orderRepo := postgres.NewServiceOrderRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	obligationRepo := postgres.NewObligationRepository(pool)
	commissionCfgRepo := postgres.NewCommissionConfigRepository(pool)
	commissionRepo := postgres.NewCommissionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	generator := finance.NewGenerator(finance.Terms{
		PayableDays:    cfg.Import.PayableTermDays,
		ReceivableDays: cfg.Orders.ReceivableTermDays,
	})

	policy := importing.DefaultPolicy()
	if markup, err := decimals.Parse(cfg.Import.SaleMarkup); err == nil {
		policy.SaleMarkup = markup
	}
	if minStock, err := decimals.Parse(cfg.Import.DefaultMinStock); err == nil {
		policy.MinStock = minStock
	}
	if cfg.Import.DefaultUnit != "" {
		policy.DefaultUnit = cfg.Import.DefaultUnit
	}

	workshopUC := usecase.NewWorkshopUseCase(workshopRepo)
	productUC := usecase.NewProductUseCase(productRepo, movementRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo, vehicleRepo)
	adjustStockUC := inventory.NewAdjustStockUseCase(txRunner, productRepo)
	importUC := importing.NewImportInvoiceUseCase(txRunner, docRepo, generator, policy, log)
	orderUC := orders.NewOrderUseCase(txRunner, orderRepo, budgetRepo, customerRepo, vehicleRepo, commissionCfgRepo, generator, log)
	budgetUC := orders.NewBudgetUseCase(txRunner, budgetRepo, customerRepo, vehicleRepo, log)
	obligationUC := finance.NewObligationUseCase(obligationRepo)
	commissionUC := finance.NewCommissionUseCase(commissionCfgRepo, commissionRepo)
	authUC := auth.NewAuthUseCase(userRepo, workshopRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Barrido diario: obligaciones open vencidas pasan a overdue y
	// presupuestos open fuera de validez pasan a expired.
	financeLog := log.Component("finance")
	scheduler := cron.New()
	_, err = scheduler.AddFunc("5 0 * * *", func() {
		ref := time.Now().UTC()
		n, err := obligationUC.MarkOverdue(context.Background(), ref)
		if err != nil {
			financeLog.Error().Err(err).Msg("barrido de obligaciones vencidas")
		} else if n > 0 {
			financeLog.Info().Int64("marcadas", n).Msg("obligaciones pasadas a overdue")
		}
		if _, err := budgetUC.MarkExpired(context.Background(), ref); err != nil {
			financeLog.Error().Err(err).Msg("barrido de presupuestos vencidos")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("programar barrido diario")
	}
	scheduler.Start()

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
		Title:    "Oficina API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WorkshopUC:   workshopUC,
		ProductUC:    productUC,
		CustomerUC:   customerUC,
		AdjustStock:  adjustStockUC,
		ImportUC:     importUC,
		OrderUC:      orderUC,
		BudgetUC:     budgetUC,
		ObligationUC: obligationUC,
		CommissionUC: commissionUC,
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
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

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
