package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/availability-tracker/internal/availability"
)

// RenderService produces the cross-timezone schedule views and splits them
// into transport-sized chunks.
type RenderService struct {
	users     UserRepository
	schedule  ScheduleRepository
	renderer  availability.Renderer
	chunkSize int
	logger    *slog.Logger
}

// NewRenderService wires dependencies for the render service. chunkSize
// bounds each returned chunk; zero or negative disables splitting.
func NewRenderService(users UserRepository, schedule ScheduleRepository, chunkSize int, logger *slog.Logger) *RenderService {
	return &RenderService{
		users:     users,
		schedule:  schedule,
		chunkSize: chunkSize,
		logger:    defaultLogger(logger),
	}
}

// Render builds the target user's weekly schedule as seen by the viewer.
// The viewer must have a timezone set; the target must exist and have one
// too, since their entries are stored in their local time.
func (s *RenderService) Render(ctx context.Context, viewerID, targetID string) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("RenderService is nil")
	}

	viewerZone, err := s.zoneFor(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	text, err := s.renderOne(ctx, targetID, viewerZone)
	if err != nil {
		return nil, err
	}
	return availability.ChunkText(text, s.chunkSize), nil
}

// RenderAll builds every tracked user's schedule as seen by the viewer, one
// after another. Users whose schedule cannot be rendered are skipped with a
// log line rather than failing the whole view.
func (s *RenderService) RenderAll(ctx context.Context, viewerID string) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("RenderService is nil")
	}

	viewerZone, err := s.zoneFor(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	logger := serviceLogger(ctx, s.logger, "render", "render_all")

	var blocks []string
	for _, user := range users {
		text, err := s.renderOne(ctx, user.ID, viewerZone)
		if err != nil {
			logger.Warn("skipping unrenderable schedule",
				"user_id", user.ID, "error_kind", ErrorKind(err))
			continue
		}
		blocks = append(blocks, text)
	}

	return availability.ChunkText(strings.Join(blocks, "\n\n"), s.chunkSize), nil
}

// renderOne renders a single user's schedule into the viewer's timezone.
func (s *RenderService) renderOne(ctx context.Context, targetID string, viewerZone *time.Location) (string, error) {
	target, err := s.users.GetUser(ctx, targetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	entries, err := s.schedule.ListEntries(ctx, target.ID)
	if err != nil {
		return "", err
	}

	subject := availability.Subject{Name: target.ID}
	if len(entries) > 0 {
		if target.Timezone == "" {
			return "", ErrMissingTimezone
		}
		zone, err := availability.LoadZone(target.Timezone)
		if err != nil {
			return "", err
		}
		subject.Zone = zone
		subject.Entries = make([]availability.Entry, 0, len(entries))
		for _, entry := range entries {
			subject.Entries = append(subject.Entries, availability.Entry{
				Day:    entry.Day,
				Start:  entry.Start,
				End:    entry.End,
				Status: entry.Status,
			})
		}
	}

	return s.renderer.Render(subject, viewerZone), nil
}

// zoneFor loads the viewer's timezone, distinguishing a missing user or an
// unset timezone from a bad zone name.
func (s *RenderService) zoneFor(ctx context.Context, userID string) (*time.Location, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if user.Timezone == "" {
		return nil, ErrMissingTimezone
	}
	return availability.LoadZone(user.Timezone)
}
