// Package calendar manages delivery appointments in Google Calendar.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2/jwt"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	infraconfig "github.com/icepoint/backend/internal/infrastructure/config"
)

// Event is an appointment to place on the shared calendar
type Event struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// Scheduler manages appointments on an external calendar
type Scheduler interface {
	// CreateEvent creates the appointment and returns its external id
	CreateEvent(ctx context.Context, event Event) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// GoogleScheduler implements Scheduler on the Google Calendar API using a
// service account
type GoogleScheduler struct {
	calendarID string
	jwtConfig  *jwt.Config
	timezone   string
}

// NewGoogleScheduler creates a Google Calendar scheduler from configuration
func NewGoogleScheduler(cfg *infraconfig.CalendarConfig) (*GoogleScheduler, error) {
	if cfg == nil || cfg.CalendarID == "" {
		return nil, errors.New("calendar id is required")
	}
	if cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		return nil, errors.New("calendar service account credentials are required")
	}

	// Keys pasted through env vars carry literal \n sequences
	privateKey := strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")

	return &GoogleScheduler{
		calendarID: cfg.CalendarID,
		jwtConfig: &jwt.Config{
			Email:      cfg.ClientEmail,
			PrivateKey: []byte(privateKey),
			Scopes:     []string{gcalendar.CalendarScope},
			TokenURL:   "https://oauth2.googleapis.com/token",
		},
		timezone: "America/Sao_Paulo",
	}, nil
}

func (s *GoogleScheduler) service(ctx context.Context) (*gcalendar.Service, error) {
	client := s.jwtConfig.Client(ctx)
	svc, err := gcalendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	return svc, nil
}

// CreateEvent creates the appointment and returns its external id
func (s *GoogleScheduler) CreateEvent(ctx context.Context, event Event) (string, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return "", err
	}

	created, err := svc.Events.Insert(s.calendarID, &gcalendar.Event{
		Summary:     event.Title,
		Description: event.Description,
		Location:    event.Location,
		Start: &gcalendar.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: s.timezone,
		},
		End: &gcalendar.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: s.timezone,
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}
	return created.Id, nil
}

// DeleteEvent removes the appointment from the calendar
func (s *GoogleScheduler) DeleteEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return nil
	}
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}
	if err := svc.Events.Delete(s.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	return nil
}

// Ensure GoogleScheduler implements Scheduler
var _ Scheduler = (*GoogleScheduler)(nil)
