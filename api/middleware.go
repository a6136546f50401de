package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/notesapp/api/handlers"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/services/auth"
)

const HeaderPaginationTotalCount = "X-Pagination-Total-Count"

// Identity headers set by the authenticating proxy in front of the service.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
)

func loggingMiddleware(logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "duration", time.Since(start).String())
	}
}

// userMiddleware mirrors the proxy's view of the caller into an auth store and
// records the resulting owner on the context.
func userMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		store := auth.NewStore()
		if uid := c.GetHeader(HeaderUserID); uid != "" {
			store.Dispatch(auth.Login{User: auth.User{
				UID:         uid,
				Email:       c.GetHeader(HeaderUserEmail),
				DisplayName: c.GetHeader(HeaderUserName),
			}})
		} else {
			store.Dispatch(auth.Logout{})
		}

		c.Set(handlers.OwnerKey, store.Owner())
		c.Next()
	}
}

// _CORSMiddleware starts with _ so that it is not imported outside of the server package.
func _CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-User-ID, X-User-Email, X-User-Name") // nolint:lll
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", HeaderPaginationTotalCount)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)

			return
		}

		c.Next()
	}
}
