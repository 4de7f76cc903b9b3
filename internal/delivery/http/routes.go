package http

import (
	"github.com/gin-gonic/gin"

	"github.com/analoghub/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		analog := v1.Group("/analog")
		{
			analog.POST("/search_analog", handler.SearchAnalog)
			analog.POST("/search_product", handler.SearchProduct)
			analog.GET("/analogs/:id", handler.GetAnalog)
			analog.GET("/products/:id", handler.GetProduct)
			analog.POST("/search_list_analogs", handler.SearchListAnalogs)
			analog.POST("/search_list_analogs_async", handler.SearchListAnalogsAsync)
			analog.GET("/results/:file", handler.Result)
			analog.POST("/upload_analogs", handler.UploadAnalogs)
			analog.POST("/upload_makers", handler.UploadMakers)
			analog.GET("/tasks/:task_id", handler.TaskStatus)
		}

		bearer := AuthMiddleware(handler.auth)

		manage := v1.Group("/manage", bearer)
		{
			manage.GET("/tools", handler.ListTools)
			manage.GET("/tool", handler.GetTool)
			manage.POST("/tool", handler.CreateTool)
			manage.PUT("/tool", handler.UpdateTool)
			manage.DELETE("/tool", handler.DeleteTool)
			manage.POST("/tool_bulk", handler.CreateToolBulk)
			manage.PUT("/tool_bulk", handler.UpdateToolBulk)
			manage.DELETE("/tool_bulk", handler.DeleteToolBulk)
		}

		auth := v1.Group("/auth")
		{
			auth.POST("/signup", handler.Signup)
			auth.POST("/token", handler.Login)
			auth.POST("/refresh", handler.Refresh)
			auth.POST("/logout", bearer, handler.Logout)
			auth.GET("/me", bearer, handler.Me)
		}
	}

	return router
}
