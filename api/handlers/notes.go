package handlers

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/notes"
	"github.com/meghashyamc/notesapp/services/journal"
	"github.com/meghashyamc/notesapp/validation"
)

type NoteRequest struct {
	Title      string   `json:"title" validate:"required,max=200"`
	Body       string   `json:"body" validate:"max=100000"`
	Category   string   `json:"category" validate:"max=100"`
	Tags       []string `json:"tags" validate:"max=50,dive,min=1,max=100"`
	Color      string   `json:"color" validate:"valid_color"`
	Priority   string   `json:"priority" validate:"valid_priority"`
	IsFavorite bool     `json:"isFavorite"`
	IsPinned   bool     `json:"isPinned"`
	ImageURLs  []string `json:"imageUrls" validate:"max=20,dive,url"`
}

func (r NoteRequest) toNote(id string) notes.Note {
	note := notes.Note{
		ID:         id,
		Title:      r.Title,
		Body:       r.Body,
		Category:   r.Category,
		Tags:       r.Tags,
		Color:      r.Color,
		IsFavorite: r.IsFavorite,
		IsPinned:   r.IsPinned,
		ImageURLs:  r.ImageURLs,
	}
	if r.Priority != "" {
		note.Priority, _ = notes.ParsePriority(r.Priority)
	}
	return note
}

type NotesResponse struct {
	Notes       []notes.Note `json:"notes"`
	PageDetails Pagination   `json:"page_details"`
}

func SetupNotes(router *gin.Engine, logger logger.Logger, store *journal.Store, validator *validation.Validator) {
	router.GET("/notes", handleListNotes(store, logger, validator))
	router.GET("/notes/:id", handleGetNote(store))
	router.POST("/notes", handleCreateNote(store, logger, validator))
	router.PUT("/notes/:id", handleUpdateNote(store, logger, validator))
	router.DELETE("/notes/:id", handleDeleteNote(store, logger))
}

func handleListNotes(store *journal.Store, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := PageRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from list notes request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}
		request.setDefaults()

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate list notes request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		all := store.Snapshot()
		sort.SliceStable(all, func(i, j int) bool { return all[i].UpdatedAt > all[j].UpdatedAt })

		limit, offset := request.limitOffset()
		writeResponse(c, NotesResponse{
			Notes:       page(all, limit, offset),
			PageDetails: calculatePagination(len(all), limit, offset),
		}, http.StatusOK, nil)
	}
}

func handleGetNote(store *journal.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		note, ok := store.Note(c.Param("id"))
		if !ok {
			c.Abort()
			writeResponse(c, nil, http.StatusNotFound, []string{journal.ErrNoteNotFound.Error()})
			return
		}
		writeResponse(c, note, http.StatusOK, nil)
	}
}

func handleCreateNote(store *journal.Store, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request, ok := bindNoteRequest(c, logger, validator)
		if !ok {
			return
		}

		note := request.toNote(uuid.NewString())
		note.Touch(time.Now())
		if err := store.Dispatch(journal.AddNote{Note: note}); err != nil {
			logger.Error("could not create note", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, note, http.StatusCreated, nil)
	}
}

func handleUpdateNote(store *journal.Store, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		request, ok := bindNoteRequest(c, logger, validator)
		if !ok {
			return
		}

		existing, found := store.Note(id)
		if !found {
			c.Abort()
			writeResponse(c, nil, http.StatusNotFound, []string{journal.ErrNoteNotFound.Error()})
			return
		}

		note := request.toNote(id)
		note.CreatedAt = existing.CreatedAt
		note.Touch(time.Now())
		if err := store.Dispatch(journal.UpdateNote{Note: note}); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, journal.ErrNoteNotFound) {
				status = http.StatusNotFound
			}
			logger.Warn("could not update note", "id", id, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, status, []string{err.Error()})
			return
		}

		writeResponse(c, note, http.StatusOK, nil)
	}
}

func handleDeleteNote(store *journal.Store, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := store.Dispatch(journal.DeleteNote{ID: id}); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, journal.ErrNoteNotFound) {
				status = http.StatusNotFound
			}
			logger.Warn("could not delete note", "id", id, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, status, []string{err.Error()})
			return
		}

		writeResponse(c, nil, http.StatusNoContent, nil)
	}
}

func bindNoteRequest(c *gin.Context, logger logger.Logger, validator *validation.Validator) (NoteRequest, bool) {
	request := NoteRequest{}
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Warn("could not extract expected params from note request", "err", err.Error())
		c.Abort()
		writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
		return request, false
	}

	if err := validator.Validate(request); err != nil {
		logger.Warn("could not validate note request", "err", err.Error())
		c.Abort()
		writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
		return request, false
	}
	return request, true
}
