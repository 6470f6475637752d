package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/praxislabs/praxis-backend/internal/config"
	"github.com/praxislabs/praxis-backend/internal/handler"
	"github.com/praxislabs/praxis-backend/internal/middleware"
	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/response"
	"github.com/praxislabs/praxis-backend/internal/session"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Scenario   *handler.ScenarioHandler
	Program    *handler.ProgramHandler
	Evaluation *handler.EvaluationHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	sessions *session.Store,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Accept-Language", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Negotiate the content language once per request.
	router.Use(middleware.Locale(cfg.DefaultLanguage))

	// Health check.
	router.GET("/health", handlers.System.Health)

	// Rate limiter for auth routes.
	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateInterval)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireSession(sessions), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireSession(sessions), handlers.Auth.Me)
	}

	// ─── 2. Catalog Group (Public) ─────────────────────────────────────
	catalog := router.Group("/api/v1/scenarios")
	{
		catalog.GET("", handlers.Scenario.ListActive)
		catalog.GET("/:id", handlers.Scenario.Get)
	}

	// ─── 3. Learner Group (Session) ────────────────────────────────────
	learnerAPI := router.Group("/api/v1")
	learnerAPI.Use(middleware.RequireSession(sessions))
	{
		learnerAPI.POST("/programs", handlers.Program.Start)
		learnerAPI.GET("/programs", handlers.Program.List)
		learnerAPI.GET("/programs/:program_id", handlers.Program.Get)
		learnerAPI.GET("/programs/:program_id/tasks", handlers.Program.ListTasks)
		learnerAPI.PUT("/programs/:program_id/tasks/:task_id/response", handlers.Program.SubmitResponse)
		learnerAPI.POST("/programs/:program_id/tasks/:task_id/interactions", handlers.Program.AddInteraction)
		learnerAPI.POST("/programs/:program_id/tasks/:task_id/complete", handlers.Program.CompleteTask)

		learnerAPI.GET("/evaluations", handlers.Evaluation.ListMine)
	}

	// ─── 4. Manage Group (Session + Teacher Role) ──────────────────────
	manageAPI := router.Group("/api/v1/manage")
	manageAPI.Use(
		middleware.RequireSession(sessions),
		middleware.RequireRole(model.RoleTeacher),
	)
	{
		manageAPI.GET("/scenarios", handlers.Scenario.ListAll)
		manageAPI.POST("/scenarios", handlers.Scenario.Create)
		manageAPI.PUT("/scenarios/:id", handlers.Scenario.Update)
		manageAPI.DELETE("/scenarios/:id", handlers.Scenario.Delete)

		manageAPI.POST("/evaluations", handlers.Evaluation.Record)
		manageAPI.GET("/evaluations/:subject_type/:subject_id", handlers.Evaluation.ListBySubject)
		manageAPI.GET("/users/:user_id/evaluations", handlers.Evaluation.ListByUser)

		manageAPI.GET("/system/stats", handlers.System.Stats)
	}

	return router
}
