package calendar

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() Event {
	return Event{
		Title:         "Wellness session",
		Description:   "Session for Asha Rao",
		Location:      "Studio 4, Indiranagar",
		Start:         time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC),
		End:           time.Date(2025, 1, 10, 11, 0, 0, 0, time.UTC),
		AttendeeEmail: "asha@example.com",
	}
}

func TestRenderLink(t *testing.T) {
	link := RenderLink(sampleEvent())

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "calendar.google.com", u.Host)
	assert.Equal(t, "/calendar/render", u.Path)

	q := u.Query()
	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "Wellness session", q.Get("text"))
	assert.Equal(t, "20250110T100000Z/20250110T110000Z", q.Get("dates"))
	assert.Equal(t, "Session for Asha Rao", q.Get("details"))
	assert.Equal(t, "Studio 4, Indiranagar", q.Get("location"))
	assert.Equal(t, "asha@example.com", q.Get("add"))
}

func TestRenderLinkOmitsEmptyFields(t *testing.T) {
	ev := sampleEvent()
	ev.Description = ""
	ev.Location = ""
	ev.AttendeeEmail = ""

	q, err := url.Parse(RenderLink(ev))
	require.NoError(t, err)

	values := q.Query()
	assert.False(t, values.Has("details"))
	assert.False(t, values.Has("location"))
	assert.False(t, values.Has("add"))
}

func TestRenderLinkConvertsToUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	ev := sampleEvent()
	ev.Start = time.Date(2025, 1, 10, 15, 30, 0, 0, ist)
	ev.End = time.Date(2025, 1, 10, 16, 30, 0, 0, ist)

	u, err := url.Parse(RenderLink(ev))
	require.NoError(t, err)
	assert.Equal(t, "20250110T100000Z/20250110T110000Z", u.Query().Get("dates"))
}

func TestICS(t *testing.T) {
	stamp := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	doc := string(ICS(sampleEvent(), "7@mindwell", stamp))

	assert.True(t, strings.HasPrefix(doc, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(doc, "END:VCALENDAR\r\n"))

	for _, line := range []string{
		"VERSION:2.0",
		"UID:7@mindwell",
		"DTSTAMP:20250102T120000Z",
		"DTSTART:20250110T100000Z",
		"DTEND:20250110T110000Z",
		"SUMMARY:Wellness session",
		`LOCATION:Studio 4\, Indiranagar`,
	} {
		assert.Contains(t, doc, line+"\r\n")
	}

	// Every line ends in CRLF, never a bare LF.
	assert.NotContains(t, strings.ReplaceAll(doc, "\r\n", ""), "\n")
}

func TestICSStable(t *testing.T) {
	stamp := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	first := ICS(sampleEvent(), "7@mindwell", stamp)
	second := ICS(sampleEvent(), "7@mindwell", stamp)
	assert.Equal(t, first, second)
}

func TestEscapeText(t *testing.T) {
	cases := map[string]string{
		"plain":            "plain",
		"a,b;c":            `a\,b\;c`,
		"line1\nline2":     `line1\nline2`,
		`back\slash`:       `back\\slash`,
		"mix;of,all\nfour": `mix\;of\,all\nfour`,
	}
	for in, want := range cases {
		assert.Equal(t, want, escapeText(in))
	}
}
