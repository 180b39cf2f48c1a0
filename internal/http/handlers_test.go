package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/availability-tracker/internal/application"
	"github.com/example/availability-tracker/internal/availability"
	"github.com/example/availability-tracker/internal/testfixtures"
)

type userServiceStub struct {
	setTimezone func(application.SetTimezoneParams) (application.User, error)
	setStatus   func(application.SetStatusParams) (application.User, error)
	getUser     func(string) (application.User, error)
	listUsers   func() ([]application.User, error)
}

func (s *userServiceStub) SetTimezone(ctx context.Context, params application.SetTimezoneParams) (application.User, error) {
	return s.setTimezone(params)
}

func (s *userServiceStub) SetStatus(ctx context.Context, params application.SetStatusParams) (application.User, error) {
	return s.setStatus(params)
}

func (s *userServiceStub) GetUser(ctx context.Context, userID string) (application.User, error) {
	return s.getUser(userID)
}

func (s *userServiceStub) ListUsers(ctx context.Context) ([]application.User, error) {
	return s.listUsers()
}

type scheduleServiceStub struct {
	setEntry    func(application.SetEntryParams) (application.ScheduleEntry, error)
	getSchedule func(string) ([]application.ScheduleEntry, error)
	clear       func(application.Principal, string) ([]application.ScheduleEntry, error)
	setDefault  func(application.SetDefaultParams) (application.DefaultWindows, error)
	getDefault  func(string) (application.DefaultWindows, bool, error)
}

func (s *scheduleServiceStub) SetEntry(ctx context.Context, params application.SetEntryParams) (application.ScheduleEntry, error) {
	return s.setEntry(params)
}

func (s *scheduleServiceStub) GetSchedule(ctx context.Context, userID string) ([]application.ScheduleEntry, error) {
	return s.getSchedule(userID)
}

func (s *scheduleServiceStub) ClearSchedule(ctx context.Context, principal application.Principal, userID string) ([]application.ScheduleEntry, error) {
	return s.clear(principal, userID)
}

func (s *scheduleServiceStub) SetDefault(ctx context.Context, params application.SetDefaultParams) (application.DefaultWindows, error) {
	return s.setDefault(params)
}

func (s *scheduleServiceStub) GetDefault(ctx context.Context, userID string) (application.DefaultWindows, bool, error) {
	return s.getDefault(userID)
}

type renderServiceStub struct {
	render    func(viewerID, targetID string) ([]string, error)
	renderAll func(viewerID string) ([]string, error)
}

func (s *renderServiceStub) Render(ctx context.Context, viewerID, targetID string) ([]string, error) {
	return s.render(viewerID, targetID)
}

func (s *renderServiceStub) RenderAll(ctx context.Context, viewerID string) ([]string, error) {
	return s.renderAll(viewerID)
}

func newTestRouter(users *userServiceStub, schedules *scheduleServiceStub, render *renderServiceStub) http.Handler {
	var userHandler *UserHandler
	if users != nil {
		userHandler = NewUserHandler(users, nil)
	}
	var scheduleHandler *ScheduleHandler
	if schedules != nil || render != nil {
		var svc scheduleService
		if schedules != nil {
			svc = schedules
		}
		var rnd renderService
		if render != nil {
			rnd = render
		}
		scheduleHandler = NewScheduleHandler(svc, rnd, nil)
	}
	return NewRouter(RouterConfig{
		Users:      userHandler,
		Schedules:  scheduleHandler,
		Middleware: []func(http.Handler) http.Handler{PrincipalFromHeaders},
	})
}

func TestUserHandler_SetTimezone(t *testing.T) {
	var got application.SetTimezoneParams
	users := &userServiceStub{
		setTimezone: func(params application.SetTimezoneParams) (application.User, error) {
			got = params
			return application.User{ID: params.UserID, Timezone: params.Timezone, Status: availability.StatusUnknown}, nil
		},
	}
	router := newTestRouter(users, nil, nil)

	req := httptest.NewRequest(http.MethodPut, "/users/alice/timezone", strings.NewReader(`{"timezone":"Europe/Berlin"}`))
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.UserID != "alice" || got.Timezone != "Europe/Berlin" {
		t.Errorf("Unexpected params: %+v", got)
	}
	if got.Principal.UserID != "alice" {
		t.Errorf("Expected principal 'alice', got %+v", got.Principal)
	}

	var resp struct {
		User struct {
			ID       string `json:"id"`
			Timezone string `json:"timezone"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.User.Timezone != "Europe/Berlin" {
		t.Errorf("Expected timezone in response, got %+v", resp)
	}
}

func TestUserHandler_SetStatus_Unauthorized(t *testing.T) {
	users := &userServiceStub{
		setStatus: func(params application.SetStatusParams) (application.User, error) {
			return application.User{}, application.ErrUnauthorized
		},
	}
	router := newTestRouter(users, nil, nil)

	req := httptest.NewRequest(http.MethodPut, "/users/alice/status", strings.NewReader(`{"status":"green"}`))
	req.Header.Set("X-User-ID", "bob")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("Expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "AUTH_FORBIDDEN") {
		t.Errorf("Expected AUTH_FORBIDDEN error code, got %s", rec.Body.String())
	}
}

func TestUserHandler_SetStatus_ValidationError(t *testing.T) {
	users := &userServiceStub{
		setStatus: func(params application.SetStatusParams) (application.User, error) {
			return application.User{}, &application.ValidationError{
				FieldErrors: map[string]string{"status": `invalid status "blue", use green, yellow, or red`},
			}
		},
	}
	router := newTestRouter(users, nil, nil)

	req := httptest.NewRequest(http.MethodPut, "/users/alice/status", strings.NewReader(`{"status":"blue"}`))
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status"`) {
		t.Errorf("Expected field errors in body, got %s", rec.Body.String())
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	users := &userServiceStub{
		getUser: func(userID string) (application.User, error) {
			return application.User{}, application.ErrNotFound
		},
	}
	router := newTestRouter(users, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUserHandler_List_LocalTimes(t *testing.T) {
	users := &userServiceStub{
		listUsers: func() ([]application.User, error) {
			return []application.User{
				{ID: "alice", Timezone: "UTC", Status: availability.StatusGreen},
				{ID: "bob", Timezone: "Etc/GMT-5", Status: availability.StatusRed},
				{ID: "carol", Status: availability.StatusUnknown},
			}, nil
		},
	}
	handler := NewUserHandler(users, nil)
	handler.now = func() time.Time { return testfixtures.ReferenceTime() }
	router := NewRouter(RouterConfig{Users: handler})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Users []struct {
			ID        string `json:"id"`
			LocalTime string `json:"local_time"`
		} `json:"users"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Users) != 3 {
		t.Fatalf("Expected 3 users, got %d", len(resp.Users))
	}
	if resp.Users[0].LocalTime != "12:00 PM" {
		t.Errorf("Expected alice at '12:00 PM' UTC, got '%s'", resp.Users[0].LocalTime)
	}
	if resp.Users[1].LocalTime != "05:00 PM" {
		t.Errorf("Expected bob at '05:00 PM' in Etc/GMT-5, got '%s'", resp.Users[1].LocalTime)
	}
	if resp.Users[2].LocalTime != "" {
		t.Errorf("Expected no local time without a timezone, got '%s'", resp.Users[2].LocalTime)
	}
}

func TestUserHandler_BadRequestBody(t *testing.T) {
	users := &userServiceStub{}
	router := newTestRouter(users, nil, nil)

	req := httptest.NewRequest(http.MethodPut, "/users/alice/timezone", strings.NewReader("not json"))
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestScheduleHandler_SetEntry(t *testing.T) {
	var got application.SetEntryParams
	schedules := &scheduleServiceStub{
		setEntry: func(params application.SetEntryParams) (application.ScheduleEntry, error) {
			got = params
			return application.ScheduleEntry{
				UserID: params.UserID,
				Day:    availability.Monday,
				Start:  availability.Minute(9 * 60),
				End:    availability.Minute(17 * 60),
				Status: availability.StatusGreen,
			}, nil
		},
	}
	router := newTestRouter(nil, schedules, nil)

	body := `{"day":"monday","start":"9:00","end":"17:00","status":"green"}`
	req := httptest.NewRequest(http.MethodPut, "/users/alice/schedule", strings.NewReader(body))
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Day != "monday" || got.Start != "9:00" {
		t.Errorf("Unexpected params: %+v", got)
	}
	if !strings.Contains(rec.Body.String(), `"start":"09:00"`) {
		t.Errorf("Expected normalized start in response, got %s", rec.Body.String())
	}
}

func TestScheduleHandler_Clear(t *testing.T) {
	schedules := &scheduleServiceStub{
		clear: func(principal application.Principal, userID string) ([]application.ScheduleEntry, error) {
			if userID != "alice" {
				t.Errorf("Expected clear for 'alice', got '%s'", userID)
			}
			return []application.ScheduleEntry{{
				UserID: userID,
				Day:    availability.Monday,
				Start:  availability.Minute(9 * 60),
				End:    availability.Minute(17 * 60),
				Status: availability.StatusGreen,
			}}, nil
		},
	}
	router := newTestRouter(nil, schedules, nil)

	req := httptest.NewRequest(http.MethodDelete, "/users/alice/schedule", nil)
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"day":"monday"`) {
		t.Errorf("Expected reset entries in response, got %s", rec.Body.String())
	}
}

func TestScheduleHandler_GetDefault_Absent(t *testing.T) {
	schedules := &scheduleServiceStub{
		getDefault: func(userID string) (application.DefaultWindows, bool, error) {
			return application.DefaultWindows{}, false, nil
		},
	}
	router := newTestRouter(nil, schedules, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/alice/default", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"default":null`) {
		t.Errorf("Expected a null default for a user without windows, got %s", rec.Body.String())
	}
}

func TestScheduleHandler_GetDefault_Present(t *testing.T) {
	schedules := &scheduleServiceStub{
		getDefault: func(userID string) (application.DefaultWindows, bool, error) {
			return application.DefaultWindows{
				UserID:       userID,
				WeekdayStart: availability.Minute(9 * 60),
				WeekdayEnd:   availability.Minute(17 * 60),
				WeekendStart: availability.Minute(10 * 60),
				WeekendEnd:   availability.Minute(16 * 60),
			}, true, nil
		},
	}
	router := newTestRouter(nil, schedules, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/alice/default", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"weekday_start":"09:00"`) {
		t.Errorf("Expected stored windows in response, got %s", rec.Body.String())
	}
}

func TestScheduleHandler_View(t *testing.T) {
	render := &renderServiceStub{
		render: func(viewerID, targetID string) ([]string, error) {
			if viewerID != "bob" || targetID != "alice" {
				t.Errorf("Unexpected render call: viewer=%s target=%s", viewerID, targetID)
			}
			return []string{"chunk one", "chunk two"}, nil
		},
	}
	router := newTestRouter(nil, &scheduleServiceStub{}, render)

	req := httptest.NewRequest(http.MethodGet, "/users/alice/schedule/view?viewer=bob", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Chunks []string `json:"chunks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Chunks) != 2 {
		t.Errorf("Expected 2 chunks, got %v", resp.Chunks)
	}
}

func TestScheduleHandler_View_ViewerFromPrincipal(t *testing.T) {
	render := &renderServiceStub{
		render: func(viewerID, targetID string) ([]string, error) {
			if viewerID != "carol" {
				t.Errorf("Expected viewer from principal, got '%s'", viewerID)
			}
			return []string{"ok"}, nil
		},
	}
	router := newTestRouter(nil, &scheduleServiceStub{}, render)

	req := httptest.NewRequest(http.MethodGet, "/users/alice/schedule/view", nil)
	req.Header.Set("X-User-ID", "carol")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestScheduleHandler_View_MissingViewer(t *testing.T) {
	router := newTestRouter(nil, &scheduleServiceStub{}, &renderServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/users/alice/schedule/view", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestScheduleHandler_View_MissingTimezone(t *testing.T) {
	render := &renderServiceStub{
		render: func(viewerID, targetID string) ([]string, error) {
			return nil, application.ErrMissingTimezone
		},
	}
	router := newTestRouter(nil, &scheduleServiceStub{}, render)

	req := httptest.NewRequest(http.MethodGet, "/users/alice/schedule/view?viewer=bob", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "MISSING_TIMEZONE") {
		t.Errorf("Expected MISSING_TIMEZONE error code, got %s", rec.Body.String())
	}
}

func TestScheduleHandler_ViewAll(t *testing.T) {
	render := &renderServiceStub{
		renderAll: func(viewerID string) ([]string, error) {
			return []string{"everyone"}, nil
		},
	}
	router := newTestRouter(nil, &scheduleServiceStub{}, render)

	req := httptest.NewRequest(http.MethodGet, "/schedules/view?viewer=bob", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	users := &userServiceStub{
		listUsers: func() ([]application.User, error) { return nil, nil },
	}
	router := newTestRouter(users, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodGet {
		t.Errorf("Expected Allow header 'GET', got '%s'", allow)
	}
}
