// Package calendar decides when proposed meetings are booked.
package calendar

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
)

const (
	defaultMeetingHour = 10
	defaultDuration    = 30 * time.Minute
)

// PlaceholderSlot returns the slot offered for every detected meeting:
// tomorrow at cfg.MeetingHour in cfg.TimeZone. The message text is not
// consulted for a date or time.
func PlaceholderSlot(now time.Time, cfg config.CalendarConfig) (core.MeetingSlot, error) {
	loc := time.Local
	if cfg.TimeZone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.TimeZone)
		if err != nil {
			return core.MeetingSlot{}, fmt.Errorf("failed to load time zone %q: %w", cfg.TimeZone, err)
		}
	}

	hour := cfg.MeetingHour
	if hour < 0 || hour > 23 {
		hour = defaultMeetingHour
	}
	duration := cfg.Duration
	if duration <= 0 {
		duration = defaultDuration
	}

	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day()+1, hour, 0, 0, 0, loc)

	return core.MeetingSlot{
		Start:    start,
		End:      start.Add(duration),
		TimeZone: loc.String(),
	}, nil
}
