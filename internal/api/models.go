package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
	"github.com/phrazzld/overload-api/internal/domain/progression"
	"github.com/phrazzld/overload-api/internal/service"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the login endpoint. Login is an
// email address or a username.
type LoginRequest struct {
	Login    string `json:"login"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by successful registration and login.
type AuthResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	// ExpiresAt is the RFC 3339 time the access token expires.
	ExpiresAt string `json:"expires_at"`
}

// CreateProgressRequest is the body of POST /api/progress. Rep counts are
// range-checked by the domain so they fail with 422 rather than 400.
type CreateProgressRequest struct {
	Exercise string `json:"exercise"             validate:"required"`
	Reps     int    `json:"current_reps_per_set"`
}

// AdjustProgressRequest is the body of PATCH /api/progress/{exercise}. At
// least one field must be set.
type AdjustProgressRequest struct {
	Difficulty *string `json:"difficulty"`
	Reps       *int    `json:"current_reps_per_set"`
}

// StartSessionRequest is the body of POST /api/sessions.
type StartSessionRequest struct {
	Exercise string `json:"exercise" validate:"required"`
}

// CreateProgressAndSessionRequest is the body of POST /api/sessions/create.
type CreateProgressAndSessionRequest struct {
	Exercise string `json:"exercise" validate:"required"`
	Reps     int    `json:"reps"`
}

// FinishSessionRequest is the body of POST /api/sessions/{id}/finish.
type FinishSessionRequest struct {
	Completed *bool   `json:"completed" validate:"required"`
	Notes     *string `json:"notes"`
}

// UpdateSessionRequest is the body of PATCH /api/sessions/{id}. A missing
// completed counts as false.
type UpdateSessionRequest struct {
	Completed *bool   `json:"completed"`
	Notes     *string `json:"notes"`
}

// ProgressResponse represents a progress record.
type ProgressResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Exercise      string     `json:"exercise"`
	Difficulty    string     `json:"difficulty"`
	RepsPerSet    int        `json:"current_reps_per_set"`
	LastSuccessAt *time.Time `json:"last_success_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SessionResponse represents a workout session.
type SessionResponse struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Exercise          string    `json:"exercise"`
	DifficultyAtStart string    `json:"difficulty_at_start"`
	RepsPerSetAtStart int       `json:"reps_per_set_at_start"`
	Completion        string    `json:"completion"`
	Completed         bool      `json:"completed"`
	Notes             string    `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ProgressAndSessionResponse is returned by POST /api/sessions/create.
type ProgressAndSessionResponse struct {
	Progress ProgressResponse `json:"progress"`
	Session  SessionResponse  `json:"session"`
	Created  bool             `json:"created"`
}

// SessionOutcomeResponse is returned when a session outcome is recorded.
// Progress is omitted when the session was not completed.
type SessionOutcomeResponse struct {
	Session  SessionResponse   `json:"session"`
	Progress *ProgressResponse `json:"progress,omitempty"`
	Promoted bool              `json:"promoted"`
}

// SessionPageResponse is one page of sessions.
type SessionPageResponse struct {
	Items   []SessionResponse `json:"items"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	Size    int               `json:"size"`
	Pages   int               `json:"pages"`
	HasNext bool              `json:"has_next"`
	HasPrev bool              `json:"has_prev"`
}

func progressToResponse(p *domain.Progress) ProgressResponse {
	return ProgressResponse{
		ID:            p.ID.String(),
		UserID:        p.UserID.String(),
		Exercise:      p.Exercise.String(),
		Difficulty:    p.Tier.String(),
		RepsPerSet:    p.RepsPerSet,
		LastSuccessAt: p.LastSuccessAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func progressListToResponse(records []*domain.Progress) []ProgressResponse {
	out := make([]ProgressResponse, 0, len(records))
	for _, p := range records {
		out = append(out, progressToResponse(p))
	}
	return out
}

func sessionToResponse(s *domain.WorkoutSession) SessionResponse {
	return SessionResponse{
		ID:                s.ID.String(),
		UserID:            s.UserID.String(),
		Exercise:          s.Exercise.String(),
		DifficultyAtStart: s.TierAtStart.String(),
		RepsPerSetAtStart: s.RepsPerSetAtStart,
		Completion:        string(s.Completion),
		Completed:         s.IsCompleted(),
		Notes:             s.Notes,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func outcomeToResponse(o progression.SessionOutcome) SessionOutcomeResponse {
	resp := SessionOutcomeResponse{
		Session:  sessionToResponse(o.Session),
		Promoted: o.Promoted,
	}
	if o.Progress != nil {
		p := progressToResponse(o.Progress)
		resp.Progress = &p
	}
	return resp
}

func pageToResponse(page *service.SessionPage) SessionPageResponse {
	items := make([]SessionResponse, 0, len(page.Items))
	for _, s := range page.Items {
		items = append(items, sessionToResponse(s))
	}
	return SessionPageResponse{
		Items:   items,
		Total:   page.Total,
		Page:    page.Page,
		Size:    page.Size,
		Pages:   page.Pages,
		HasNext: page.HasNext,
		HasPrev: page.HasPrev,
	}
}
