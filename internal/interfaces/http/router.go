package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thierrypro75/gosbi-backend/internal/application/auth"
	"github.com/thierrypro75/gosbi-backend/internal/application/catalog"
	"github.com/thierrypro75/gosbi-backend/internal/application/pricing"
	"github.com/thierrypro75/gosbi-backend/internal/application/stock"
	"github.com/thierrypro75/gosbi-backend/internal/application/supply"
)

// RouterDeps dépendances du routeur.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Catalog     *catalog.Service
	Coordinator *stock.Coordinator
	Pricing     *pricing.Service
	Supply      *supply.Service
	JWTSecret   string
}

// Router enregistre les routes de l'API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Routes protégées (Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	manager := RequireRole("admin", "gerant")

	// Catalogue produits
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.Catalog)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", manager, productHandler.Delete)

	// Présentations
	presentationHandler := NewPresentationHandler(deps.Catalog)
	products.Post("/:id/presentations", presentationHandler.Create)
	presentations := protected.Group("/presentations")
	presentations.Get("/", presentationHandler.List)
	presentations.Get("/:id", presentationHandler.GetByID)
	presentations.Put("/:id", presentationHandler.Update)
	presentations.Delete("/:id", manager, presentationHandler.Delete)
	presentations.Get("/:id/movements", presentationHandler.ListMovements)

	// Mutations de stock
	stockHandler := NewStockHandler(deps.Coordinator)
	presentations.Post("/:id/sale", stockHandler.Sale)
	presentations.Post("/:id/return", stockHandler.Return)
	presentations.Post("/:id/adjustment", stockHandler.Adjustment)
	protected.Post("/movements/:id/correction", manager, stockHandler.Correction)

	// Prix de vente
	pricingHandler := NewPricingHandler(deps.Pricing)
	presentations.Get("/:id/prices", pricingHandler.List)
	presentations.Post("/:id/prices", pricingHandler.Add)
	presentations.Post("/:id/prices/reconcile", manager, pricingHandler.Reconcile)
	prices := protected.Group("/prices")
	prices.Put("/:id", pricingHandler.Update)
	prices.Delete("/:id", pricingHandler.Delete)

	// Approvisionnements
	supplies := protected.Group("/supplies")
	supplyHandler := NewSupplyHandler(deps.Supply)
	supplies.Post("/", supplyHandler.Create)
	supplies.Get("/", supplyHandler.List)
	supplies.Get("/:id", supplyHandler.GetByID)
	supplies.Delete("/:id", manager, supplyHandler.Delete)
	supplyLines := protected.Group("/supply-lines")
	supplyLines.Post("/:id/receive", supplyHandler.ReceiveLine)
	supplyLines.Post("/:id/not-received", supplyHandler.MarkLineNotReceived)
}
