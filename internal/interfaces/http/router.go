package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cocinaops/CocinaOps-api/internal/application/approval"
	"github.com/cocinaops/CocinaOps-api/internal/application/auth"
	"github.com/cocinaops/CocinaOps-api/internal/application/ledger"
	"github.com/cocinaops/CocinaOps-api/internal/application/recipes"
	"github.com/cocinaops/CocinaOps-api/internal/application/reports"
	"github.com/cocinaops/CocinaOps-api/internal/application/waste"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC   *ledger.LedgerUseCase
	RecipeUC   *recipes.RecipeUseCase
	WasteUC    *waste.WasteUseCase
	ApprovalUC *approval.ApprovalUseCase
	ReportUC   *reports.ReportUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Libro de lotes (protegido)
	inventory := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	inventory.Post("/batches", inventoryHandler.AddBatch)
	inventory.Get("/batches", inventoryHandler.ListBatches)
	inventory.Post("/deduct", inventoryHandler.Deduct)
	inventory.Post("/stock-levels", inventoryHandler.ConfigureStockLevel)
	inventory.Get("/stock-levels", inventoryHandler.ListStockLevels)

	// Recetas y costeo (protegido)
	recipesGroup := protected.Group("/recipes")
	recipeHandler := NewRecipeHandler(deps.RecipeUC)
	recipesGroup.Post("/", recipeHandler.Create)
	recipesGroup.Get("/", recipeHandler.List)
	recipesGroup.Get("/:id", recipeHandler.GetByID)
	recipesGroup.Get("/:id/cost", recipeHandler.CalculateCost)

	// Desperdicios (protegido)
	wasteGroup := protected.Group("/waste")
	wasteHandler := NewWasteHandler(deps.WasteUC, deps.ReportUC)
	wasteGroup.Post("/", wasteHandler.Register)
	wasteGroup.Get("/", wasteHandler.List)
	wasteGroup.Get("/summary", wasteHandler.Summary)

	// Aprobaciones (protegido). La revisión exige rol revisor además del
	// chequeo del caso de uso.
	approvals := protected.Group("/approvals")
	approvalHandler := NewApprovalHandler(deps.ApprovalUC)
	approvals.Post("/", approvalHandler.Submit)
	approvals.Get("/", approvalHandler.List)
	approvals.Get("/:id", approvalHandler.GetByID)
	approvals.Post("/:id/review", RequireRole(entity.RoleAdmin, entity.RoleGerente), approvalHandler.Review)

	// Reportes (protegido)
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reportsGroup.Get("/low-stock", reportHandler.LowStock)
}
