package http

import (
	"github.com/gofiber/fiber/v2"

	appcredit "github.com/jhoicas/repairshop-api/internal/application/credit"
	"github.com/jhoicas/repairshop-api/internal/application/inventory"
	"github.com/jhoicas/repairshop-api/internal/application/pricing"
	"github.com/jhoicas/repairshop-api/internal/application/sales"
	"github.com/jhoicas/repairshop-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterSale     *sales.RegisterSaleUseCase
	VoidSale         *sales.VoidSaleUseCase
	CreditAccounts   *appcredit.AccountUseCase
	Reconciler       *appcredit.Reconciler
	RegisterMovement *inventory.RegisterMovementUseCase
	Ledger           *inventory.StockLedger
	Quotes           *pricing.QuoteUseCase
	DefaultWarehouse string
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Ventas
	saleHandler := NewSaleHandler(deps.RegisterSale, deps.VoidSale)
	salesGroup := api.Group("/sales")
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/void", saleHandler.Void)

	// Cuentas corrientes; /sweep va antes de /:id
	creditHandler := NewCreditHandler(deps.CreditAccounts, deps.Reconciler)
	credit := api.Group("/credit-accounts")
	credit.Post("/sweep", adminOnly, creditHandler.Sweep)
	credit.Post("/", creditHandler.Open)
	credit.Get("/:id", creditHandler.Statement)
	credit.Post("/:id/payments", creditHandler.RegisterPayment)
	credit.Post("/:id/evaluate", creditHandler.Evaluate)

	// Catálogo
	productHandler := NewProductHandler(deps.Quotes)
	api.Get("/products/:id/price", productHandler.Price)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Ledger, deps.DefaultWarehouse)
	inv := api.Group("/inventory")
	inv.Post("/movements", RequireRole(jwt.RoleAdmin, jwt.RoleStock), inventoryHandler.RegisterMovement)
	inv.Get("/ledger/:product_id", inventoryHandler.Ledger)
}
