package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/overload-api/internal/api/shared"
	"github.com/phrazzld/overload-api/internal/domain"
	"github.com/phrazzld/overload-api/internal/domain/difficulty"
	"github.com/phrazzld/overload-api/internal/domain/progression"
	"github.com/phrazzld/overload-api/internal/platform/logger"
	"github.com/phrazzld/overload-api/internal/service"
)

// ProgressHandler serves the /api/progress endpoints.
type ProgressHandler struct {
	progressService service.ProgressService
	logger          *slog.Logger
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(progressService service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if progressService == nil {
		panic("progressService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		progressService: progressService,
		logger:          logger.With(slog.String("component", "progress_handler")),
	}
}

// List handles GET /api/progress.
func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	records, err := h.progressService.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list progress")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, progressListToResponse(records))
}

// Get handles GET /api/progress/{exercise}.
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	exercise, err := getPathExercise(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	p, err := h.progressService.Get(r.Context(), userID, exercise)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get progress")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(p))
}

// GetOrCreate handles POST /api/progress. It answers 201 when the record
// was created and 200 when it already existed.
func (h *ProgressHandler) GetOrCreate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateProgressRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}
	exercise, err := domain.ParseExerciseKind(req.Exercise)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.progressService.GetOrCreate(r.Context(), userID, exercise, req.Reps)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create progress")
		return
	}

	status := http.StatusOK
	if result.Outcome == progression.ProgressCreated {
		status = http.StatusCreated
	}
	shared.RespondWithJSON(w, r, status, progressToResponse(result.Progress))
}

// Adjust handles PATCH /api/progress/{exercise}.
func (h *ProgressHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	exercise, err := getPathExercise(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req AdjustProgressRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	var tier *difficulty.Tier
	if req.Difficulty != nil {
		parsed, err := difficulty.ParseTier(*req.Difficulty)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		tier = &parsed
	}

	p, err := h.progressService.Adjust(r.Context(), userID, exercise, tier, req.Reps)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update progress")
		return
	}

	log.Debug("progress adjusted",
		slog.String("user_id", userID.String()),
		slog.String("exercise", exercise.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(p))
}
