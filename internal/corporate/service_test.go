package corporate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	requests []Request
	nextID   int64
}

func (r *memRepo) CreateRequest(ctx context.Context, req *Request) (*Request, error) {
	stored := *req
	r.nextID++
	stored.ID = r.nextID
	stored.CreatedAt = time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	r.requests = append(r.requests, stored)
	out := stored
	return &out, nil
}

func (r *memRepo) ListRequests(ctx context.Context) ([]Request, error) {
	return append([]Request(nil), r.requests...), nil
}

type recordingNotifier struct {
	to      []string
	subject string
	body    string
	err     error
}

func (n *recordingNotifier) Send(ctx context.Context, to []string, subject, body string) error {
	n.to = to
	n.subject = subject
	n.body = body
	return n.err
}

func validRequest() Request {
	return Request{
		CompanyName:       "Acme Labs",
		ContactPerson:     "Priya Nair",
		Email:             "priya@acme.example",
		Phone:             "080-4000-1234",
		ServiceType:       ServiceWorkshop,
		NumberOfEmployees: 40,
		PreferredDate:     time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
		Message:           "Quarterly wellbeing workshop for the Bangalore office.",
	}
}

func TestSubmit(t *testing.T) {
	repo := &memRepo{}
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, "corporate@mindwell.example")

	saved, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotZero(t, saved.ID)
	assert.Len(t, repo.requests, 1)

	assert.Equal(t, []string{"corporate@mindwell.example"}, notifier.to)
	assert.Equal(t, "New Corporate Service Request", notifier.subject)
	assert.Contains(t, notifier.body, "Acme Labs")
	assert.Contains(t, notifier.body, "Preferred Date: 2025-02-14")
}

func TestSubmitValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing company", func(r *Request) { r.CompanyName = " " }},
		{"missing contact", func(r *Request) { r.ContactPerson = "" }},
		{"bad email", func(r *Request) { r.Email = "nope" }},
		{"bad service type", func(r *Request) { r.ServiceType = "yoga" }},
		{"zero employees", func(r *Request) { r.NumberOfEmployees = 0 }},
		{"missing date", func(r *Request) { r.PreferredDate = time.Time{} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &memRepo{}
			svc := NewService(repo, &recordingNotifier{}, "corporate@mindwell.example")

			req := validRequest()
			tc.mutate(&req)

			_, err := svc.Submit(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, repo.requests, "invalid requests are not persisted")
		})
	}
}

func TestList(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, &recordingNotifier{}, "corporate@mindwell.example")

	_, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	other := validRequest()
	other.CompanyName = "Globex"
	_, err = svc.Submit(context.Background(), other)
	require.NoError(t, err)

	requests, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, requests, 2)
}

func TestSubmitNotifyFailure(t *testing.T) {
	repo := &memRepo{}
	notifier := &recordingNotifier{err: errors.New("smtp: connection refused")}
	svc := NewService(repo, notifier, "corporate@mindwell.example")

	saved, err := svc.Submit(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrNotifyFailed)

	// The row survives the failed mail so staff can still find it.
	require.NotNil(t, saved)
	assert.Len(t, repo.requests, 1)
}
