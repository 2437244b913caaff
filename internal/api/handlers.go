package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/notexe/voice-reminder/internal/reminder"
)

type createRequest struct {
	Text string `json:"text" binding:"notblank"`
}

type createResponse struct {
	ID int64 `json:"id"`
}

type setDoneRequest struct {
	Done *bool `json:"done" binding:"required"`
}

// Handler serves the reminder endpoints. Errors are written as plain text.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) CreateReminder(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "create", bindMessage(err, "text is required"))
		return
	}

	id, err := h.store.Create(c.Request.Context(), req.Text)
	if err != nil {
		h.fail(c, "create", err)
		return
	}

	TrackOperation("create", resultOK)
	c.JSON(http.StatusCreated, createResponse{ID: id})
}

func (h *Handler) ListReminders(c *gin.Context) {
	reminders, err := h.store.List(c.Request.Context())
	if err != nil {
		h.fail(c, "list", err)
		return
	}

	TrackOperation("list", resultOK)
	c.JSON(http.StatusOK, reminders)
}

func (h *Handler) SetReminderDone(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.badRequest(c, "set_done", "invalid reminder id")
		return
	}

	var req setDoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "set_done", bindMessage(err, "done is required"))
		return
	}

	if err := h.store.SetDone(c.Request.Context(), id, *req.Done); err != nil {
		h.fail(c, "set_done", err)
		return
	}

	TrackOperation("set_done", resultOK)
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteReminder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.badRequest(c, "delete", "invalid reminder id")
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "delete", err)
		return
	}

	TrackOperation("delete", resultOK)
	c.Status(http.StatusNoContent)
}

func (h *Handler) badRequest(c *gin.Context, op, msg string) {
	TrackOperation(op, resultInvalid)
	c.String(http.StatusBadRequest, msg)
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, reminder.ErrNotFound):
		TrackOperation(op, resultNotFound)
		c.String(http.StatusNotFound, "reminder not found")
	case errors.Is(err, reminder.ErrValidation):
		h.badRequest(c, op, err.Error())
	default:
		TrackOperation(op, resultError)
		log.Printf("[api] %s failed (request %s): %v", op, c.GetString(requestIDKey), err)
		c.String(http.StatusInternalServerError, "internal server error")
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// bindMessage turns a binding failure into a short client message.
func bindMessage(err error, invalid string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return invalid
	}
	return "invalid request body"
}
