package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/services/session"
	"github.com/meghashyamc/notesapp/validation"
)

type SessionQueryRequest struct {
	Query string `json:"query" validate:"max=1000"`
}

type SessionResponse struct {
	ID    string        `json:"id"`
	State session.State `json:"state"`
}

func SetupSessions(router *gin.Engine, logger logger.Logger, manager *session.Manager, validator *validation.Validator) {
	sessions := router.Group("/sessions")
	sessions.POST("", handleCreateSession(manager, logger))
	sessions.GET("/:id", handleSessionState(manager, logger))
	sessions.PUT("/:id/query", handleSetSessionQuery(manager, logger, validator))
	sessions.PUT("/:id/filters", handleSetSessionFilters(manager, logger, validator))
	sessions.DELETE("/:id/query", handleClearSession(manager, logger, (*session.Session).ClearQuery))
	sessions.DELETE("/:id/filters", handleClearSession(manager, logger, (*session.Session).ClearFilters))
	sessions.DELETE("/:id", handleCloseSession(manager, logger))
}

func handleCreateSession(manager *session.Manager, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, s, err := manager.Create(owner(c))
		if err != nil {
			logger.Error("could not create search session", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}
		writeResponse(c, SessionResponse{ID: id, State: s.Snapshot()}, http.StatusCreated, nil)
	}
}

func handleSessionState(manager *session.Manager, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookupSession(c, manager, logger)
		if !ok {
			return
		}
		writeResponse(c, SessionResponse{ID: c.Param("id"), State: s.Snapshot()}, http.StatusOK, nil)
	}
}

// handleSetSessionQuery answers before the debounce fires; the state it
// returns is pending until the session searches.
func handleSetSessionQuery(manager *session.Manager, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SessionQueryRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from session query request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate session query request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		s, ok := lookupSession(c, manager, logger)
		if !ok {
			return
		}
		s.SetQuery(request.Query)
		writeResponse(c, SessionResponse{ID: c.Param("id"), State: s.Snapshot()}, http.StatusOK, nil)
	}
}

func handleSetSessionFilters(manager *session.Manager, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := FiltersRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from session filters request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}
		request.normalize()

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate session filters request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		s, ok := lookupSession(c, manager, logger)
		if !ok {
			return
		}
		s.SetFilters(request.toFilters())
		writeResponse(c, SessionResponse{ID: c.Param("id"), State: s.Snapshot()}, http.StatusOK, nil)
	}
}

func handleClearSession(manager *session.Manager, logger logger.Logger, clear func(*session.Session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookupSession(c, manager, logger)
		if !ok {
			return
		}
		clear(s)
		writeResponse(c, SessionResponse{ID: c.Param("id"), State: s.Snapshot()}, http.StatusOK, nil)
	}
}

func handleCloseSession(manager *session.Manager, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := manager.Close(c.Param("id"), owner(c)); err != nil {
			writeSessionError(c, logger, err)
			return
		}
		writeResponse(c, nil, http.StatusNoContent, nil)
	}
}

func lookupSession(c *gin.Context, manager *session.Manager, logger logger.Logger) (*session.Session, bool) {
	s, err := manager.Get(c.Param("id"), owner(c))
	if err != nil {
		writeSessionError(c, logger, err)
		return nil, false
	}
	return s, true
}

func writeSessionError(c *gin.Context, logger logger.Logger, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, session.ErrSessionNotFound) {
		status = http.StatusNotFound
	}
	logger.Warn("search session request failed", "session_id", c.Param("id"), "err", err.Error())
	c.Abort()
	writeResponse(c, nil, status, []string{err.Error()})
}
