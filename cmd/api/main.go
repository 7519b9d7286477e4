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

	"github.com/skladpro/sklad-api/internal/application/catalog"
	"github.com/skladpro/sklad-api/internal/application/documents"
	"github.com/skladpro/sklad-api/internal/application/posting"
	"github.com/skladpro/sklad-api/internal/application/stock"
	"github.com/skladpro/sklad-api/internal/infrastructure/postgres"
	httpRouter "github.com/skladpro/sklad-api/internal/interfaces/http"
	"github.com/skladpro/sklad-api/pkg/config"
	"github.com/skladpro/sklad-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	poster := posting.NewPoster(txRunner, documentRepo, productRepo, customerRepo, posting.Options{
		DefaultVATRate:           cfg.VAT.DefaultRate,
		DisallowLineRateOverride: !cfg.VAT.AllowLineRateOverride,
	})
	productUC := catalog.NewProductUseCase(productRepo)
	customerUC := catalog.NewCustomerUseCase(customerRepo)
	documentUC := documents.NewQueryUseCase(documentRepo, productRepo, customerRepo)
	stockUC := stock.NewSnapshot(movementRepo, productRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Sklad API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		CustomerUC: customerUC,
		Poster:     poster,
		DocumentUC: documentUC,
		StockUC:    stockUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
