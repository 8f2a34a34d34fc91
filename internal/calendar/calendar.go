// Package calendar holds the calendar collaborator port and the two
// artifacts the booking core derives from an appointment: the "add to
// calendar" render URL and the iCalendar export document.
package calendar

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Event is the collaborator-facing view of an appointment.
type Event struct {
	Title         string
	Description   string
	Location      string
	Start         time.Time
	End           time.Time
	AttendeeEmail string
}

// Port inserts an event into an external calendar service. The booking core
// calls it after a booking commits and discards failures deliberately.
type Port interface {
	InsertEvent(ctx context.Context, ev Event) error
}

// Noop satisfies Port when no external calendar is configured.
type Noop struct{}

func (Noop) InsertEvent(ctx context.Context, ev Event) error {
	return nil
}

const timestampLayout = "20060102T150405Z"

// RenderLink builds the Google Calendar event-template URL for an event.
func RenderLink(ev Event) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", ev.Title)
	q.Set("dates", fmt.Sprintf("%s/%s",
		ev.Start.UTC().Format(timestampLayout),
		ev.End.UTC().Format(timestampLayout)))
	if ev.Description != "" {
		q.Set("details", ev.Description)
	}
	if ev.Location != "" {
		q.Set("location", ev.Location)
	}
	if ev.AttendeeEmail != "" {
		q.Set("add", ev.AttendeeEmail)
	}

	return "https://calendar.google.com/calendar/render?" + q.Encode()
}

// ICS renders the event as a single-VEVENT iCalendar document. Output is
// byte-stable for identical inputs apart from the caller-supplied stamp.
func ICS(ev Event, uid string, stamp time.Time) []byte {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//mindwell//wellness-booking//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + uid,
		"DTSTAMP:" + stamp.UTC().Format(timestampLayout),
		"DTSTART:" + ev.Start.UTC().Format(timestampLayout),
		"DTEND:" + ev.End.UTC().Format(timestampLayout),
		"SUMMARY:" + escapeText(ev.Title),
	}
	if ev.Description != "" {
		lines = append(lines, "DESCRIPTION:"+escapeText(ev.Description))
	}
	if ev.Location != "" {
		lines = append(lines, "LOCATION:"+escapeText(ev.Location))
	}
	lines = append(lines,
		"END:VEVENT",
		"END:VCALENDAR",
	)

	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

// escapeText applies RFC 5545 text escaping.
func escapeText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
