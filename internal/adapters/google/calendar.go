package google

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/mikey/mail-triage/internal/core"
)

// CalendarClient books meetings on a Google calendar
type CalendarClient struct {
	events          *calendar.EventsService
	calendarID      string
	reminderMinutes int64
	logger          *zap.Logger
}

// NewCalendarClient creates a calendar client writing to calendarID
func NewCalendarClient(ctx context.Context, calendarID string, reminderMinutes int64, logger *zap.Logger, opts ...option.ClientOption) (*CalendarClient, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &CalendarClient{
		events:          svc.Events,
		calendarID:      calendarID,
		reminderMinutes: reminderMinutes,
		logger:          logger,
	}, nil
}

// AddMeeting inserts an event for the slot and returns its web link
func (c *CalendarClient) AddMeeting(ctx context.Context, subject, sender string, slot core.MeetingSlot) (string, error) {
	event := &calendar.Event{
		Summary:     "Meeting: " + subject,
		Description: "Email from: " + sender,
		Start: &calendar.EventDateTime{
			DateTime: slot.Start.Format(time.RFC3339),
			TimeZone: slot.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: slot.End.Format(time.RFC3339),
			TimeZone: slot.TimeZone,
		},
		Reminders: &calendar.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
		},
	}
	if c.reminderMinutes > 0 {
		event.Reminders.Overrides = []*calendar.EventReminder{
			{Method: "popup", Minutes: c.reminderMinutes},
		}
	}

	created, err := c.events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}

	c.logger.Info("Meeting added to calendar",
		zap.String("event_id", created.Id),
		zap.Time("start", slot.Start))
	return created.HtmlLink, nil
}
