package router

import (
	"time"

	"tenderhub/internal/config"
	"tenderhub/internal/handler"
	"tenderhub/internal/middleware"
	"tenderhub/internal/repository"
	"tenderhub/internal/service"
	"tenderhub/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	tenderRepo := repository.NewTenderRepository(db)
	itemRepo := repository.NewLineItemRepository(db)
	profileRepo := repository.NewMarkupProfileRepository(db)
	categoryRepo := repository.NewCostCategoryRepository(db)
	redistributionRepo := repository.NewRedistributionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	tenderSvc := service.NewTenderService(tenderRepo, itemRepo, profileRepo, categoryRepo, dispatcher)
	profileSvc := service.NewProfileService(profileRepo, tenderRepo, dispatcher)
	categorySvc := service.NewCategoryService(categoryRepo, tenderRepo)
	costingSvc := service.NewCostingService(itemRepo, profileRepo, tenderRepo, rdb)
	redistributionSvc := service.NewRedistributionService(redistributionRepo, categoryRepo, itemRepo, tenderRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	tendersH := handler.NewTendersHandler(tenderSvc)
	itemsH := handler.NewItemsHandler(tenderSvc)
	profilesH := handler.NewProfilesHandler(profileSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	costingH := handler.NewCostingHandler(costingSvc)
	redistributionsH := handler.NewRedistributionsHandler(redistributionSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		tenders := v1.Group("/tenders")
		{
			tenders.POST("", tendersH.Create)
			tenders.GET("", tendersH.List)
			tenders.GET("/:id", tendersH.GetByID)

			tenders.POST("/:id/positions", tendersH.CreatePosition)
			tenders.GET("/:id/positions", tendersH.ListPositions)

			tenders.GET("/:id/markup-profile", profilesH.GetActive)
			tenders.PUT("/:id/markup-profile", profilesH.Update)

			tenders.POST("/:id/recompute", costingH.Recompute)
			tenders.GET("/:id/cost-report", costingH.CostReport)

			tenders.GET("/:id/cost-categories", categoriesH.List)
			tenders.POST("/:id/cost-categories", categoriesH.Create)

			tenders.POST("/:id/redistributions", redistributionsH.Create)
			tenders.GET("/:id/redistributions", redistributionsH.List)
			tenders.GET("/:id/redistributions/active/report", redistributionsH.ActiveReport)
		}

		positions := v1.Group("/positions")
		{
			positions.GET("/:id/items", itemsH.ListByPosition)
			positions.POST("/:id/items", itemsH.Create)
		}

		v1.PUT("/items/:id", itemsH.Update)

		v1.POST("/costing/preview", costingH.Preview)

		redistributions := v1.Group("/redistributions")
		{
			redistributions.GET("/:id/details", redistributionsH.Details)
			redistributions.POST("/:id/activate", redistributionsH.Activate)
			redistributions.POST("/:id/deactivate", redistributionsH.Deactivate)
			redistributions.DELETE("/:id", redistributionsH.Delete)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
