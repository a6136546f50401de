package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meghashyamc/notesapp/db/kvdb"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/services/importer"
	"github.com/meghashyamc/notesapp/services/index"
	"github.com/meghashyamc/notesapp/validation"
)

type IndexResponse struct {
	ID string `json:"id"`
}

type IndexStatusResponse struct {
	ID       string `json:"id"`
	Progress int    `json:"progress"`
}

type ImportRequest struct {
	Path           string   `json:"path" validate:"valid_path"`
	ExcludeFolders []string `json:"exclude_folders" validate:"max=50,dive,min=1,max=255"`
	Replace        bool     `json:"replace"`
}

func SetupIndex(router *gin.Engine, logger logger.Logger, service *index.Service) {
	router.POST("/index", handleCreateIndex(service, logger))
	router.GET("/index/:id", handleIndexStatus(service, logger))
}

func SetupImport(router *gin.Engine, logger logger.Logger, service *importer.Importer, validator *validation.Validator) {
	router.POST("/import", handleImport(service, logger, validator))
}

func handleCreateIndex(service *index.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		if err := service.Build(requestID); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, index.ErrIndexingInProgress) {
				status = http.StatusConflict
			}
			logger.Warn("could not start index rebuild", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, status, []string{err.Error()})
			return
		}

		writeResponse(c, IndexResponse{ID: requestID}, http.StatusAccepted, nil)
	}
}

func handleIndexStatus(service *index.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Param("id")
		progress, err := service.GetStatus(requestID)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, kvdb.ErrNotFound) {
				status = http.StatusNotFound
			}
			logger.Warn("could not get index status", "request_id", requestID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, status, []string{err.Error()})
			return
		}

		writeResponse(c, IndexStatusResponse{ID: requestID, Progress: progress}, http.StatusOK, nil)
	}
}

func handleImport(service *importer.Importer, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := ImportRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from import request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate import request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		report, err := service.Import(c.Request.Context(), request.Path, importer.Options{
			ExcludeFolders: request.ExcludeFolders,
			Replace:        request.Replace,
		})
		if err != nil {
			logger.Error("import failed", "path", request.Path, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, report, http.StatusOK, nil)
	}
}
