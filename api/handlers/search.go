package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/notesapp/db/searchdb"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/metrics"
	"github.com/meghashyamc/notesapp/services/search"
	"github.com/meghashyamc/notesapp/validation"
)

// SearchObserver records how long searches take and how much they return.
type SearchObserver interface {
	ObserveSearch(kind string, duration time.Duration, results int)
}

type SearchRequest struct {
	Query string `form:"query" validate:"max=1000"`
	PageRequest
	FiltersRequest
}

type FulltextRequest struct {
	Query string `form:"query" validate:"required,valid_query,min=1,max=1000"`
	PageRequest
}

type SearchResponse struct {
	Results     []search.Result `json:"results"`
	PageDetails Pagination      `json:"page_details"`
}

type FulltextResponse struct {
	Results     []searchdb.Result `json:"results"`
	PageDetails Pagination        `json:"page_details"`
}

type KeywordsResponse struct {
	Keywords []string `json:"keywords"`
}

func SetupSearch(router *gin.Engine, logger logger.Logger, service *search.Service, observer SearchObserver, validator *validation.Validator) {
	router.GET("/search", handleSearch(service, observer, logger, validator))
	router.GET("/search/fulltext", handleFulltextSearch(service, observer, logger, validator))
	router.GET("/keywords", handleKeywords(service))
}

func handleSearch(service *search.Service, observer SearchObserver, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}
		request.setDefaults()
		request.normalize()

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		start := time.Now()
		results := service.Search(request.Query, request.toFilters())
		observer.ObserveSearch(metrics.SearchKindRelevance, time.Since(start), len(results))

		limit, offset := request.limitOffset()
		writeResponse(c, SearchResponse{
			Results:     page(results, limit, offset),
			PageDetails: calculatePagination(len(results), limit, offset),
		}, http.StatusOK, nil)
	}
}

func handleFulltextSearch(service *search.Service, observer SearchObserver, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := FulltextRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from fulltext search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}
		request.setDefaults()

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate fulltext search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		limit, offset := request.limitOffset()
		start := time.Now()
		results, err := service.Fulltext(request.Query, limit, offset)
		if err != nil {
			logger.Error("fulltext search failed", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}
		observer.ObserveSearch(metrics.SearchKindFulltext, time.Since(start), len(results.Results))

		found := results.Results
		if found == nil {
			found = []searchdb.Result{}
		}
		writeResponse(c, FulltextResponse{
			Results:     found,
			PageDetails: calculatePagination(int(results.Total), limit, offset),
		}, http.StatusOK, nil)
	}
}

func handleKeywords(service *search.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		keywords := service.Keywords()
		if keywords == nil {
			keywords = []string{}
		}
		writeResponse(c, KeywordsResponse{Keywords: keywords}, http.StatusOK, nil)
	}
}
