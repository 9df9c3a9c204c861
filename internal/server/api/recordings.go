package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ayusman/gesturerelay/internal/store"
)

// RecordingHandler serves the stored frame recordings.
type RecordingHandler struct {
	repo   *store.RecordingRepository
	logger *slog.Logger
}

func NewRecordingHandler(repo *store.RecordingRepository, logger *slog.Logger) *RecordingHandler {
	return &RecordingHandler{
		repo:   repo,
		logger: logger,
	}
}

func (h *RecordingHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
}

type recordingResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Source     string `json:"source"`
	Frames     int    `json:"frames"`
	DurationMs int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type recordingListResponse struct {
	Recordings []recordingResponse `json:"recordings"`
}

func toResponse(r *store.Recording) recordingResponse {
	return recordingResponse{
		ID:         r.ID,
		Name:       r.Name,
		Source:     r.Source,
		Frames:     r.Frames,
		DurationMs: r.DurationMs,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  r.UpdatedAt.Format(time.RFC3339),
	}
}

// List returns every recording, newest first.
func (h *RecordingHandler) List(c echo.Context) error {
	recordings, err := h.repo.List()
	if err != nil {
		h.logger.Error("failed to list recordings", "error", err)
		return InternalError("list_failed", "failed to list recordings")
	}

	response := recordingListResponse{Recordings: make([]recordingResponse, len(recordings))}
	for i, r := range recordings {
		response.Recordings[i] = toResponse(r)
	}

	return c.JSON(http.StatusOK, response)
}

func (h *RecordingHandler) Get(c echo.Context) error {
	id := c.Param("id")

	rec, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFound("recording_not_found", "recording not found")
		}
		h.logger.Error("failed to get recording", "error", err, "id", id)
		return InternalError("get_failed", "failed to get recording")
	}

	return c.JSON(http.StatusOK, toResponse(rec))
}

func (h *RecordingHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	if err := h.repo.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFound("recording_not_found", "recording not found")
		}
		h.logger.Error("failed to delete recording", "error", err, "id", id)
		return InternalError("delete_failed", "failed to delete recording")
	}

	h.logger.Info("recording deleted", "id", id)
	return c.NoContent(http.StatusNoContent)
}
