package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/availability-tracker/internal/application"
	"github.com/example/availability-tracker/internal/availability"
)

type userService interface {
	SetTimezone(ctx context.Context, params application.SetTimezoneParams) (application.User, error)
	SetStatus(ctx context.Context, params application.SetStatusParams) (application.User, error)
	GetUser(ctx context.Context, userID string) (application.User, error)
	ListUsers(ctx context.Context) ([]application.User, error)
}

// UserHandler serves the user resources: identity, timezone, the cached
// status, and the user's current local time.
type UserHandler struct {
	service   userService
	responder responder
	logger    *slog.Logger
	now       func() time.Time
}

func NewUserHandler(service userService, logger *slog.Logger) *UserHandler {
	base := defaultLogger(logger)
	return &UserHandler{service: service, responder: newResponder(base), logger: base, now: time.Now}
}

func (h *UserHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "UserHandler", operation, attrs...)
}

// List returns every tracked user with their cached status.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.log(r.Context(), "List", "error_kind", application.ErrorKind(err)).ErrorContext(r.Context(), "user listing failed", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	// One clock reading for the whole listing keeps the local times mutually
	// consistent.
	now := h.now()
	dtos := make([]userDTO, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, toUserDTO(user, now))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, usersResponse{Users: dtos})
}

// Get returns one user with their cached status.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok || userID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.log(r.Context(), "Get", "user_id", userID, "error_kind", application.ErrorKind(err)).ErrorContext(r.Context(), "user lookup failed", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, userResponse{User: toUserDTO(user, h.now())})
}

// SetTimezone stores the user's IANA timezone.
func (h *UserHandler) SetTimezone(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok || userID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req timezoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SetTimezone", "user_id", userID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode timezone request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetTimezone", "principal_id", principal.UserID, "user_id", userID)

	user, err := h.service.SetTimezone(r.Context(), application.SetTimezoneParams{
		Principal: principal,
		UserID:    userID,
		Timezone:  req.Timezone,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "timezone update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "timezone updated", "timezone", user.Timezone)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, userResponse{User: toUserDTO(user, h.now())})
}

// SetStatus stores an explicit current status for the user.
func (h *UserHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok || userID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SetStatus", "user_id", userID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode status request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetStatus", "principal_id", principal.UserID, "user_id", userID)

	user, err := h.service.SetStatus(r.Context(), application.SetStatusParams{
		Principal: principal,
		UserID:    userID,
		Status:    req.Status,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "status update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "status updated", "status", string(user.Status))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, userResponse{User: toUserDTO(user, h.now())})
}

type timezoneRequest struct {
	Timezone string `json:"timezone"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type userDTO struct {
	ID        string    `json:"id"`
	Timezone  string    `json:"timezone,omitempty"`
	LocalTime string    `json:"local_time,omitempty"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type userResponse struct {
	User userDTO `json:"user"`
}

type usersResponse struct {
	Users []userDTO `json:"users"`
}

func toUserDTO(user application.User, now time.Time) userDTO {
	status := string(user.Status)
	if status == "" {
		status = "unknown"
	}
	dto := userDTO{
		ID:        user.ID,
		Timezone:  user.Timezone,
		Status:    status,
		UpdatedAt: user.UpdatedAt,
	}
	// The current wall clock in the user's own zone; absent until they set a
	// resolvable timezone.
	if user.Timezone != "" {
		if loc, err := availability.LoadZone(user.Timezone); err == nil {
			dto.LocalTime = now.In(loc).Format("03:04 PM")
		}
	}
	return dto
}
