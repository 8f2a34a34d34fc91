package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPClient posts events to an external calendar event-insert endpoint.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type insertEventRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location,omitempty"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	AttendeeEmail string    `json:"attendee_email,omitempty"`
}

func (c *HTTPClient) InsertEvent(ctx context.Context, ev Event) error {
	body, err := json.Marshal(insertEventRequest{
		Title:         ev.Title,
		Description:   ev.Description,
		Location:      ev.Location,
		Start:         ev.Start.UTC(),
		End:           ev.End.UTC(),
		AttendeeEmail: ev.AttendeeEmail,
	})
	if err != nil {
		return fmt.Errorf("calendar: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/events", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("calendar: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calendar: insert event: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("calendar: insert event: status %d", resp.StatusCode)
	}

	return nil
}
