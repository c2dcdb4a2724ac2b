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

	"github.com/cocinaops/CocinaOps-api/internal/application/approval"
	"github.com/cocinaops/CocinaOps-api/internal/application/auth"
	"github.com/cocinaops/CocinaOps-api/internal/application/ledger"
	"github.com/cocinaops/CocinaOps-api/internal/application/recipes"
	"github.com/cocinaops/CocinaOps-api/internal/application/reports"
	"github.com/cocinaops/CocinaOps-api/internal/application/waste"
	"github.com/cocinaops/CocinaOps-api/internal/infrastructure/cache"
	"github.com/cocinaops/CocinaOps-api/internal/infrastructure/postgres"
	httpRouter "github.com/cocinaops/CocinaOps-api/internal/interfaces/http"
	"github.com/cocinaops/CocinaOps-api/pkg/config"
	"github.com/cocinaops/CocinaOps-api/pkg/logger"
)

const swaggerJSONPath = "./docs/swagger.json"

// swaggerHandler devuelve el middleware de Swagger UI solo si el JSON
// generado existe: en un checkout sin docs generados el middleware entraría
// en pánico al arrancar, y la documentación nunca debe impedir el arranque.
func swaggerHandler(filePath string) (fiber.Handler, bool) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, false
	}
	return swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: filePath,
		Path:     "docs",
		Title:    "CocinaOps API",
	}), true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Options{
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

	batchRepo := postgres.NewBatchRepository(pool)
	recipeRepo := postgres.NewRecipeRepository(pool)
	wasteRepo := postgres.NewWasteRepository(pool)
	approvalRepo := postgres.NewApprovalRepository(pool)
	levelRepo := postgres.NewStockLevelRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cache de costeo de recetas. Sin REDIS_ADDR se usa el cache nulo.
	var costCache recipes.CostCache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCostCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisCache.Close()
		costCache = redisCache
		log.Info().Str("addr", cfg.Redis.Addr).Msg("cache de costeo en Redis")
	}

	ledgerUC := ledger.NewLedgerUseCase(txRunner, batchRepo, levelRepo)
	recipeUC := recipes.NewRecipeUseCase(recipeRepo, batchRepo, costCache, log.Component("recipes"))
	wasteUC := waste.NewWasteUseCase(txRunner, recipeRepo, wasteRepo)
	approvalUC := approval.NewApprovalUseCase(txRunner, approvalRepo, batchRepo, wasteRepo)
	reportUC := reports.NewReportUseCase(reportRepo)
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

	// Swagger UI en local: http://localhost:<port>/docs
	if h, ok := swaggerHandler(swaggerJSONPath); ok {
		app.Use(h)
	} else {
		log.Warn().Str("path", swaggerJSONPath).
			Msg("swagger.json no encontrado (generar con swag init), UI de documentación deshabilitada")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:   ledgerUC,
		RecipeUC:   recipeUC,
		WasteUC:    wasteUC,
		ApprovalUC: approvalUC,
		ReportUC:   reportUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
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
