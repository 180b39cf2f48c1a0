package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/availability-tracker/internal/application"
)

type scheduleService interface {
	SetEntry(ctx context.Context, params application.SetEntryParams) (application.ScheduleEntry, error)
	GetSchedule(ctx context.Context, userID string) ([]application.ScheduleEntry, error)
	ClearSchedule(ctx context.Context, principal application.Principal, userID string) ([]application.ScheduleEntry, error)
	SetDefault(ctx context.Context, params application.SetDefaultParams) (application.DefaultWindows, error)
	GetDefault(ctx context.Context, userID string) (application.DefaultWindows, bool, error)
}

type renderService interface {
	Render(ctx context.Context, viewerID, targetID string) ([]string, error)
	RenderAll(ctx context.Context, viewerID string) ([]string, error)
}

// ScheduleHandler serves the weekly schedule, default windows, and the
// rendered cross-timezone views.
type ScheduleHandler struct {
	service   scheduleService
	render    renderService
	responder responder
	logger    *slog.Logger
}

func NewScheduleHandler(service scheduleService, render renderService, logger *slog.Logger) *ScheduleHandler {
	base := defaultLogger(logger)
	return &ScheduleHandler{service: service, render: render, responder: newResponder(base), logger: base}
}

func (h *ScheduleHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ScheduleHandler", operation, attrs...)
}

// SetEntry stores one day's window for the user.
func (h *ScheduleHandler) SetEntry(w http.ResponseWriter, r *http.Request) {
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

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SetEntry", "user_id", userID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode entry request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetEntry", "principal_id", principal.UserID, "user_id", userID)

	entry, err := h.service.SetEntry(r.Context(), application.SetEntryParams{
		Principal: principal,
		UserID:    userID,
		Day:       req.Day,
		Start:     req.Start,
		End:       req.End,
		Status:    req.Status,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "entry update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "entry updated", "day", entry.Day.String())
	h.responder.writeJSON(r.Context(), w, http.StatusOK, entryResponse{Entry: toEntryDTO(entry)})
}

// List returns the user's entries ordered Monday through Sunday.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok || userID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	entries, err := h.service.GetSchedule(r.Context(), userID)
	if err != nil {
		h.log(r.Context(), "List", "user_id", userID, "error_kind", application.ErrorKind(err)).ErrorContext(r.Context(), "schedule listing failed", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]entryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, toEntryDTO(entry))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, entriesResponse{Entries: dtos})
}

// Clear wipes the user's entries and returns the synthesized reset, if any.
func (h *ScheduleHandler) Clear(w http.ResponseWriter, r *http.Request) {
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
	logger := h.log(r.Context(), "Clear", "principal_id", principal.UserID, "user_id", userID)

	reset, err := h.service.ClearSchedule(r.Context(), principal, userID)
	if err != nil {
		logger.ErrorContext(r.Context(), "schedule clear failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "schedule cleared", "reset_entries", len(reset))
	dtos := make([]entryDTO, 0, len(reset))
	for _, entry := range reset {
		dtos = append(dtos, toEntryDTO(entry))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, entriesResponse{Entries: dtos})
}

// SetDefault stores the user's fallback working windows.
func (h *ScheduleHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
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

	var req defaultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SetDefault", "user_id", userID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode default request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetDefault", "principal_id", principal.UserID, "user_id", userID)

	def, err := h.service.SetDefault(r.Context(), application.SetDefaultParams{
		Principal:    principal,
		UserID:       userID,
		WeekdayStart: req.WeekdayStart,
		WeekdayEnd:   req.WeekdayEnd,
		WeekendStart: req.WeekendStart,
		WeekendEnd:   req.WeekendEnd,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "default update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "default windows updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, defaultResponse{Default: toDefaultDTO(def)})
}

// GetDefault returns the user's fallback working windows.
func (h *ScheduleHandler) GetDefault(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok || userID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	def, ok, err := h.service.GetDefault(r.Context(), userID)
	if err != nil {
		h.log(r.Context(), "GetDefault", "user_id", userID, "error_kind", application.ErrorKind(err)).ErrorContext(r.Context(), "default lookup failed", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	// A user without stored windows yields a null default, not an error.
	var dto *defaultDTO
	if ok {
		dto = toDefaultDTO(def)
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, defaultResponse{Default: dto})
}

// View renders one user's schedule into the viewer's timezone.
func (h *ScheduleHandler) View(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.render == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok || userID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	viewerID := viewerFor(r)
	if viewerID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingViewer)
		return
	}

	chunks, err := h.render.Render(r.Context(), viewerID, userID)
	if err != nil {
		h.log(r.Context(), "View", "viewer_id", viewerID, "user_id", userID, "error_kind", application.ErrorKind(err)).ErrorContext(r.Context(), "schedule render failed", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, viewResponse{Chunks: chunks})
}

// ViewAll renders every tracked user's schedule into the viewer's timezone.
func (h *ScheduleHandler) ViewAll(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.render == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	viewerID := viewerFor(r)
	if viewerID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingViewer)
		return
	}

	chunks, err := h.render.RenderAll(r.Context(), viewerID)
	if err != nil {
		h.log(r.Context(), "ViewAll", "viewer_id", viewerID, "error_kind", application.ErrorKind(err)).ErrorContext(r.Context(), "schedule render failed", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, viewResponse{Chunks: chunks})
}

// viewerFor resolves the viewing user: the viewer query parameter wins,
// falling back to the request principal.
func viewerFor(r *http.Request) string {
	if viewer := strings.TrimSpace(r.URL.Query().Get("viewer")); viewer != "" {
		return viewer
	}
	principal, _ := PrincipalFromContext(r.Context())
	return principal.UserID
}

type entryRequest struct {
	Day    string `json:"day"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status"`
}

type defaultRequest struct {
	WeekdayStart string `json:"weekday_start"`
	WeekdayEnd   string `json:"weekday_end"`
	WeekendStart string `json:"weekend_start"`
	WeekendEnd   string `json:"weekend_end"`
}

type entryDTO struct {
	Day       string    `json:"day"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type entryResponse struct {
	Entry entryDTO `json:"entry"`
}

type entriesResponse struct {
	Entries []entryDTO `json:"entries"`
}

type defaultDTO struct {
	WeekdayStart string    `json:"weekday_start"`
	WeekdayEnd   string    `json:"weekday_end"`
	WeekendStart string    `json:"weekend_start"`
	WeekendEnd   string    `json:"weekend_end"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type defaultResponse struct {
	Default *defaultDTO `json:"default"`
}

type viewResponse struct {
	Chunks []string `json:"chunks"`
}

func toEntryDTO(entry application.ScheduleEntry) entryDTO {
	return entryDTO{
		Day:       entry.Day.String(),
		Start:     entry.Start.String(),
		End:       entry.End.String(),
		Status:    string(entry.Status),
		UpdatedAt: entry.UpdatedAt,
	}
}

func toDefaultDTO(def application.DefaultWindows) *defaultDTO {
	return &defaultDTO{
		WeekdayStart: def.WeekdayStart.String(),
		WeekdayEnd:   def.WeekdayEnd.String(),
		WeekendStart: def.WeekendStart.String(),
		WeekendEnd:   def.WeekendEnd.String(),
		UpdatedAt:    def.UpdatedAt,
	}
}
