package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "seisprep/internal/errors"
	"seisprep/internal/services"
)

// PipelineHandler handles pipeline-related HTTP requests.
type PipelineHandler struct {
	service *services.PipelineService
	logger  *slog.Logger
}

// NewPipelineHandler creates a pipeline handler.
func NewPipelineHandler(service *services.PipelineService, logger *slog.Logger) *PipelineHandler {
	return &PipelineHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "pipeline")),
	}
}

// Run handles POST /api/pipeline/run. The run executes synchronously; the
// response carries the run metadata.
func (h *PipelineHandler) Run(w http.ResponseWriter, r *http.Request) {
	meta, err := h.service.Run(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrRunInProgress) {
			_ = render.Render(w, r, apierrors.ErrRunInProgress)
			return
		}
		h.logger.ErrorContext(r.Context(), "pipeline run failed",
			slog.String("error", err.Error()))
		_ = render.Render(w, r, apierrors.PipelineFailedWithError(err))
		return
	}
	render.JSON(w, r, meta)
}

// Status handles GET /api/pipeline/status.
func (h *PipelineHandler) Status(w http.ResponseWriter, r *http.Request) {
	meta := h.service.LastRun()
	if meta == nil {
		_ = render.Render(w, r, apierrors.ErrNoRunYet)
		return
	}
	render.JSON(w, r, meta)
}
