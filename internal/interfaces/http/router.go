package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pacoficinas/oficina-api/internal/application/auth"
	"github.com/pacoficinas/oficina-api/internal/application/finance"
	"github.com/pacoficinas/oficina-api/internal/application/importing"
	"github.com/pacoficinas/oficina-api/internal/application/inventory"
	"github.com/pacoficinas/oficina-api/internal/application/orders"
	"github.com/pacoficinas/oficina-api/internal/application/usecase"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WorkshopUC   *usecase.WorkshopUseCase
	ProductUC    *usecase.ProductUseCase
	CustomerUC   *usecase.CustomerUseCase
	AdjustStock  *inventory.AdjustStockUseCase
	ImportUC     *importing.ImportInvoiceUseCase
	OrderUC      *orders.OrderUseCase
	BudgetUC     *orders.BudgetUseCase
	ObligationUC *finance.ObligationUseCase
	CommissionUC *finance.CommissionUseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Workshops (alta pública; consulta protegida)
	workshopHandler := NewWorkshopHandler(deps.WorkshopUC)
	api.Post("/workshops", workshopHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/workshops/:id", workshopHandler.GetByID)

	// Catálogo y stock
	productHandler := NewProductHandler(deps.ProductUC, deps.AdjustStock)
	products := protected.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/movements", productHandler.Movements)
	protected.Post("/inventory/adjustments",
		RequireRole(entity.RoleAdmin, entity.RoleAtendente),
		productHandler.AdjustStock)

	// Importación de NF-e
	importHandler := NewImportHandler(deps.ImportUC)
	imports := protected.Group("/imports")
	imports.Post("/nfe", RequireRole(entity.RoleAdmin, entity.RoleAtendente), importHandler.Import)
	imports.Get("/nfe", importHandler.List)

	// Clientes y vehículos
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers := protected.Group("/customers")
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Post("/:id/vehicles", customerHandler.AddVehicle)
	customers.Get("/:id/vehicles", customerHandler.Vehicles)

	// Órdenes de servicio
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup := protected.Group("/orders")
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Post("/:id/transition", orderHandler.Transition)

	// Presupuestos
	budgetHandler := NewBudgetHandler(deps.BudgetUC)
	budgets := protected.Group("/budgets")
	budgets.Post("/", budgetHandler.Create)
	budgets.Get("/", budgetHandler.List)
	budgets.Get("/:id", budgetHandler.GetByID)
	budgets.Post("/:id/approve", budgetHandler.Approve)
	budgets.Post("/:id/decline", budgetHandler.Decline)
	budgets.Post("/:id/convert", orderHandler.ConvertBudget)

	// Finanzas
	obligationHandler := NewObligationHandler(deps.ObligationUC)
	obligations := protected.Group("/obligations")
	obligations.Get("/", obligationHandler.List)
	obligations.Post("/:id/settle",
		RequireRole(entity.RoleAdmin, entity.RoleFinanceiro),
		obligationHandler.Settle)

	// Comisiones de mecánicos
	commissionHandler := NewCommissionHandler(deps.CommissionUC)
	commissions := protected.Group("/commissions")
	commissions.Post("/config", RequireRole(entity.RoleAdmin), commissionHandler.SaveConfig)
	commissions.Get("/config", commissionHandler.ListConfigs)
	commissions.Delete("/config/:id", RequireRole(entity.RoleAdmin), commissionHandler.DeleteConfig)
	commissions.Get("/", commissionHandler.List)
	commissions.Post("/:id/pay",
		RequireRole(entity.RoleAdmin, entity.RoleFinanceiro),
		commissionHandler.Pay)
	commissions.Post("/:id/cancel",
		RequireRole(entity.RoleAdmin, entity.RoleFinanceiro),
		commissionHandler.Cancel)
}
