package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/notesapp/api/handlers"
	"github.com/meghashyamc/notesapp/app"
	"github.com/meghashyamc/notesapp/metrics"
	"github.com/meghashyamc/notesapp/validation"
)

func setupRoutes(router *gin.Engine, application *app.App, m *metrics.Metrics, validator *validation.Validator) {
	router.GET("/health", health())
	router.GET("/metrics", m.Handler())

	logger := application.Logger
	handlers.SetupNotes(router, logger, application.Journal, validator)
	handlers.SetupSearch(router, logger, application.Search, m, validator)
	handlers.SetupSessions(router, logger, application.Sessions, validator)
	handlers.SetupIndex(router, logger, application.Index)
	handlers.SetupImport(router, logger, application.Importer, validator)
}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter(application *app.App, m *metrics.Metrics, validator *validation.Validator) *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())
	router.Use(m.Middleware())
	router.Use(loggingMiddleware(application.Logger))
	router.Use(userMiddleware())

	setupRoutes(router, application, m, validator)
	return router
}
