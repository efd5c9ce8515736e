package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/overload-api/internal/api/shared"
	"github.com/phrazzld/overload-api/internal/domain"
	"github.com/phrazzld/overload-api/internal/domain/progression"
	"github.com/phrazzld/overload-api/internal/platform/logger"
	"github.com/phrazzld/overload-api/internal/service"
)

// SessionHandler serves the /api/sessions endpoints.
type SessionHandler struct {
	workoutService service.WorkoutService
	logger         *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(workoutService service.WorkoutService, logger *slog.Logger) *SessionHandler {
	if workoutService == nil {
		panic("workoutService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		workoutService: workoutService,
		logger:         logger.With(slog.String("component", "session_handler")),
	}
}

// List handles GET /api/sessions?page=&size=&exercise=.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	exercise, err := getQueryExercise(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	page, err := getQueryInt(r, "page", 1)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	size, err := getQueryInt(r, "size", service.DefaultPageSize)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if size > service.MaxPageSize {
		HandleAPIError(w, r, domain.NewValidationError("size", "must be at most 100", nil), "")
		return
	}

	result, err := h.workoutService.List(r.Context(), userID, exercise, page, size)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list sessions")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(result))
}

// Last handles GET /api/sessions/last?exercise=.
func (h *SessionHandler) Last(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	exercise, err := getQueryExercise(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	session, err := h.workoutService.Last(r.Context(), userID, exercise)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get last session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// Get handles GET /api/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	sessionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	session, err := h.workoutService.Get(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// Start handles POST /api/sessions.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req StartSessionRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}
	exercise, err := domain.ParseExerciseKind(req.Exercise)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	session, err := h.workoutService.Start(r.Context(), userID, exercise)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(session))
}

// CreateProgressAndSession handles POST /api/sessions/create.
func (h *SessionHandler) CreateProgressAndSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateProgressAndSessionRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}
	exercise, err := domain.ParseExerciseKind(req.Exercise)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.workoutService.CreateProgressAndSession(r.Context(), userID, exercise, req.Reps)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create progress and session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, ProgressAndSessionResponse{
		Progress: progressToResponse(result.Progress),
		Session:  sessionToResponse(result.Session),
		Created:  result.Outcome == progression.ProgressCreated,
	})
}

// Finish handles POST /api/sessions/{id}/finish.
func (h *SessionHandler) Finish(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	sessionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req FinishSessionRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	outcome, err := h.workoutService.Finish(r.Context(), userID, sessionID, *req.Completed, req.Notes)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to finish session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, outcomeToResponse(outcome))
}

// Update handles PATCH /api/sessions/{id}.
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	sessionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateSessionRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	outcome, err := h.workoutService.Update(r.Context(), userID, sessionID, req.Completed, req.Notes)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, outcomeToResponse(outcome))
}
