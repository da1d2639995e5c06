package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/munidigital/tramites-api/internal/handler"
	"github.com/munidigital/tramites-api/internal/middleware"
	"github.com/munidigital/tramites-api/internal/service"
	"github.com/munidigital/tramites-api/pkg/config"
	"github.com/munidigital/tramites-api/pkg/logger"
	corsmiddleware "github.com/munidigital/tramites-api/pkg/middleware/cors"
	reqidmiddleware "github.com/munidigital/tramites-api/pkg/middleware/requestid"

	"go.uber.org/zap"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Person    *handler.PersonHandler
	Procedure *handler.ProcedureHandler
	Document  *handler.DocumentHandler
	Metrics   *handler.MetricsHandler
}

// New assembles the gin engine: global middleware, observability endpoints,
// static uploads and the API groups. Read endpoints on persons, procedures
// and documents are public; every mutation requires an admin token.
func New(cfg *config.Config, logr *zap.Logger, handlers Handlers, authSvc *service.AuthService, metricsSvc *service.MetricsService) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", handlers.Metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", handlers.Metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.Static("/uploads", cfg.Uploads.Dir)

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", handlers.Auth.Login)
			auth.GET("/verify", middleware.JWT(authSvc), handlers.Auth.Verify)
		}

		persons := api.Group("/persons")
		{
			persons.GET("/search", handlers.Person.Search)
			persons.GET("/:id", handlers.Person.Get)

			admin := persons.Group("", middleware.JWT(authSvc), middleware.RequireAdmin())
			admin.GET("", handlers.Person.List)
			admin.POST("", handlers.Person.Create)
			admin.PUT("/:id", handlers.Person.Update)
			admin.DELETE("/:id", handlers.Person.Delete)
			admin.GET("/export", handlers.Person.ExportCSV)
			admin.GET("/:id/report", handlers.Person.HistoryPDF)
		}

		procedures := api.Group("/procedures")
		{
			procedures.GET("/person/:personId", handlers.Procedure.ListByPerson)
			procedures.GET("/:id", handlers.Procedure.Get)

			admin := procedures.Group("", middleware.JWT(authSvc), middleware.RequireAdmin())
			admin.GET("", handlers.Procedure.ListRecent)
			admin.POST("", handlers.Procedure.Create)
			admin.PUT("/:id", handlers.Procedure.Update)
			admin.DELETE("/:id", handlers.Procedure.Delete)
		}

		documents := api.Group("/documents")
		{
			documents.GET("/procedure/:procedureId", handlers.Document.ListByProcedure)
			documents.GET("/download/:id", handlers.Document.Download)

			admin := documents.Group("", middleware.JWT(authSvc), middleware.RequireAdmin())
			admin.POST("/upload", handlers.Document.Upload)
			admin.DELETE("/:id", handlers.Document.Delete)
		}
	}

	return r
}
