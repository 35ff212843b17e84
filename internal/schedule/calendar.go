package schedule

import (
	"net/url"
	"time"
)

const calendarTimeLayout = "20060102T150405"

// CalendarLink builds a Google Calendar event URL for one interview slot so
// the candidate can add the meeting with a click.
func CalendarLink(candidateName string, start time.Time, duration time.Duration) string {
	end := start.Add(duration)
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", "Interview with "+candidateName)
	params.Set("dates", start.Format(calendarTimeLayout)+"/"+end.Format(calendarTimeLayout))
	params.Set("details", "Interview scheduled for candidate selection process.")
	params.Set("location", "Google Meet / Office")
	return "https://www.google.com/calendar/render?" + params.Encode()
}
