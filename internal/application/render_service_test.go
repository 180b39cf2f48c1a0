package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/availability-tracker/internal/availability"
)

func TestRenderService_Render(t *testing.T) {
	users := newUserRepoStub(
		User{ID: "viewer", Timezone: "Etc/GMT-5"},
		User{ID: "alice", Timezone: "UTC"},
	)
	schedule := newScheduleRepoStub()
	schedule.entries["alice"] = []ScheduleEntry{{
		UserID: "alice",
		Day:    availability.Monday,
		Start:  availability.Minute(9 * 60),
		End:    availability.Minute(17 * 60),
		Status: availability.StatusGreen,
	}}
	svc := NewRenderService(users, schedule, 0, nil)

	chunks, err := svc.Render(context.Background(), "viewer", "alice")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}

	text := chunks[0]
	if !strings.Contains(text, "alice's schedule") {
		t.Errorf("Expected header to mention alice, got:\n%s", text)
	}
	if !strings.Contains(text, "14:00-22:00 | 09:00-17:00: GREEN") {
		t.Errorf("Expected converted monday line, got:\n%s", text)
	}
}

func TestRenderService_Render_ChunksLongOutput(t *testing.T) {
	users := newUserRepoStub(
		User{ID: "viewer", Timezone: "UTC"},
		User{ID: "alice", Timezone: "UTC"},
	)
	schedule := newScheduleRepoStub()
	for _, day := range availability.Weekdays() {
		schedule.entries["alice"] = append(schedule.entries["alice"], ScheduleEntry{
			UserID: "alice",
			Day:    day,
			Start:  availability.Minute(9 * 60),
			End:    availability.Minute(17 * 60),
			Status: availability.StatusGreen,
		})
	}
	svc := NewRenderService(users, schedule, 80, nil)

	chunks, err := svc.Render(context.Background(), "viewer", "alice")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 80 {
			t.Errorf("Chunk %d exceeds limit: %d chars", i, len(chunk))
		}
	}
	if strings.Join(chunks, "") == "" {
		t.Error("Expected chunks to reassemble into the full text")
	}
}

func TestRenderService_Render_NoEntries(t *testing.T) {
	// A target without entries renders the empty-schedule message even when
	// they have no timezone on file.
	users := newUserRepoStub(
		User{ID: "viewer", Timezone: "UTC"},
		User{ID: "bob"},
	)
	svc := NewRenderService(users, newScheduleRepoStub(), 0, nil)

	chunks, err := svc.Render(context.Background(), "viewer", "bob")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "bob has no scheduled statuses." {
		t.Errorf("Expected empty-schedule message, got %v", chunks)
	}
}

func TestRenderService_Render_ViewerMissingTimezone(t *testing.T) {
	users := newUserRepoStub(
		User{ID: "viewer"},
		User{ID: "alice", Timezone: "UTC"},
	)
	svc := NewRenderService(users, newScheduleRepoStub(), 0, nil)

	_, err := svc.Render(context.Background(), "viewer", "alice")
	if !errors.Is(err, ErrMissingTimezone) {
		t.Fatalf("Expected ErrMissingTimezone, got %v", err)
	}
}

func TestRenderService_Render_TargetNotFound(t *testing.T) {
	users := newUserRepoStub(User{ID: "viewer", Timezone: "UTC"})
	svc := NewRenderService(users, newScheduleRepoStub(), 0, nil)

	_, err := svc.Render(context.Background(), "viewer", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestRenderService_Render_TargetMissingTimezone(t *testing.T) {
	users := newUserRepoStub(
		User{ID: "viewer", Timezone: "UTC"},
		User{ID: "alice"},
	)
	schedule := newScheduleRepoStub()
	schedule.entries["alice"] = []ScheduleEntry{{
		UserID: "alice",
		Day:    availability.Monday,
		Start:  availability.Minute(9 * 60),
		End:    availability.Minute(17 * 60),
		Status: availability.StatusGreen,
	}}
	svc := NewRenderService(users, schedule, 0, nil)

	_, err := svc.Render(context.Background(), "viewer", "alice")
	if !errors.Is(err, ErrMissingTimezone) {
		t.Fatalf("Expected ErrMissingTimezone, got %v", err)
	}
}

func TestRenderService_RenderAll_SkipsUnrenderable(t *testing.T) {
	users := newUserRepoStub()
	users.snapshots = []Snapshot{
		{User: User{ID: "viewer", Timezone: "UTC"}},
		{User: User{ID: "alice", Timezone: "UTC"}},
		{User: User{ID: "broken", Timezone: ""}},
	}
	for _, snapshot := range users.snapshots {
		users.users[snapshot.User.ID] = snapshot.User
	}
	schedule := newScheduleRepoStub()
	schedule.entries["alice"] = []ScheduleEntry{{
		UserID: "alice",
		Day:    availability.Tuesday,
		Start:  availability.Minute(10 * 60),
		End:    availability.Minute(12 * 60),
		Status: availability.StatusRed,
	}}
	schedule.entries["broken"] = []ScheduleEntry{{
		UserID: "broken",
		Day:    availability.Monday,
		Start:  availability.Minute(9 * 60),
		End:    availability.Minute(17 * 60),
		Status: availability.StatusGreen,
	}}
	svc := NewRenderService(users, schedule, 0, nil)

	chunks, err := svc.RenderAll(context.Background(), "viewer")
	if err != nil {
		t.Fatalf("RenderAll failed: %v", err)
	}

	text := strings.Join(chunks, "")
	if !strings.Contains(text, "alice's schedule") {
		t.Errorf("Expected alice's schedule in output, got:\n%s", text)
	}
	if !strings.Contains(text, "viewer has no scheduled statuses.") {
		t.Errorf("Expected viewer's empty schedule in output, got:\n%s", text)
	}
	if strings.Contains(text, "broken") {
		t.Errorf("Expected broken user to be skipped, got:\n%s", text)
	}
}
