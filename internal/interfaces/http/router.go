package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Distribuidora-api/internal/application/auth"
	"github.com/jhoicas/Distribuidora-api/internal/application/catchweight"
	"github.com/jhoicas/Distribuidora-api/internal/application/credit"
	"github.com/jhoicas/Distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/Distribuidora-api/internal/application/usecase"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CompanyUC     *usecase.CompanyUseCase
	WarehouseUC   *usecase.WarehouseUseCase
	ProductUC     *usecase.ProductUseCase
	CustomerUC    *usecase.CustomerUseCase
	LedgerUC      *inventory.LedgerUseCase
	TransferUC    *inventory.TransferUseCase
	LotUC         *inventory.LotUseCase
	CatchWeightUC *catchweight.UseCase
	CreditUC      *credit.UseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	// Inventory: libro, traslados, lotes (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.TransferUC, deps.LotUC)
	invGroup.Post("/receive", inventoryHandler.Receive)
	invGroup.Post("/allocate", inventoryHandler.Allocate)
	invGroup.Post("/release", inventoryHandler.Release)
	invGroup.Post("/ship", inventoryHandler.Ship)
	invGroup.Post("/adjust", inventoryHandler.Adjust)
	invGroup.Post("/transfers", inventoryHandler.Transfer)
	invGroup.Get("/positions", inventoryHandler.GetPosition)
	invGroup.Get("/positions/history", inventoryHandler.History)
	invGroup.Get("/positions/reconcile", inventoryHandler.Reconcile)
	invGroup.Get("/pick-plan", inventoryHandler.PickPlan)
	invGroup.Get("/expiring", inventoryHandler.Expiring)

	// Catch weight (protegido; el override exige supervisor o admin)
	cwGroup := protected.Group("/catch-weight")
	cwHandler := NewCatchWeightHandler(deps.CatchWeightUC)
	cwGroup.Post("/captures", cwHandler.Capture)
	cwGroup.Get("/captures", cwHandler.ListByReference)
	cwGroup.Get("/captures/:id", cwHandler.GetByID)
	cwGroup.Post("/captures/:id/override",
		RequireRole(entity.RoleSupervisor, entity.RoleAdmin), cwHandler.Override)
	cwGroup.Post("/captures/:id/billed", cwHandler.MarkBilled)
	cwGroup.Get("/captures/:id/billing-adjustment", cwHandler.BillingAdjustment)

	// Credit (protegido)
	creditGroup := protected.Group("/credit")
	creditHandler := NewCreditHandler(deps.CreditUC)
	creditGroup.Get("/:customerID/exposure", creditHandler.Exposure)
	creditGroup.Post("/:customerID/check", creditHandler.Check)
}
