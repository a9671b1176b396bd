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
	"github.com/thierrypro75/gosbi-backend/internal/application/alert"
	"github.com/thierrypro75/gosbi-backend/internal/application/auth"
	"github.com/thierrypro75/gosbi-backend/internal/application/catalog"
	"github.com/thierrypro75/gosbi-backend/internal/application/pricing"
	"github.com/thierrypro75/gosbi-backend/internal/application/stock"
	"github.com/thierrypro75/gosbi-backend/internal/application/supply"
	"github.com/thierrypro75/gosbi-backend/internal/infrastructure/postgres"
	httpRouter "github.com/thierrypro75/gosbi-backend/internal/interfaces/http"
	"github.com/thierrypro75/gosbi-backend/pkg/config"
	"github.com/thierrypro75/gosbi-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("charger la configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("démarrage de l'application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connexion à PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	presentationRepo := postgres.NewPresentationRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	priceRepo := postgres.NewSellingPriceRepository(pool)
	supplyRepo := postgres.NewSupplyRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	notifier := alert.NewLogNotifier(log)
	coordinator := stock.NewCoordinator(txRunner, notifier)
	pricingSvc := pricing.NewService(txRunner, priceRepo, presentationRepo)
	catalogSvc := catalog.NewService(productRepo, presentationRepo, movementRepo, coordinator, pricingSvc)
	supplySvc := supply.NewService(txRunner, coordinator, supplyRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
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

	// Swagger UI en local : http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gosbi API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		Catalog:     catalogSvc,
		Coordinator: coordinator,
		Pricing:     pricingSvc,
		Supply:      supplySvc,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("serveur HTTP terminé")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("signal d'arrêt reçu, fermeture du serveur...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("arrêt du serveur")
	}

	log.Info().Msg("application arrêtée")
}
