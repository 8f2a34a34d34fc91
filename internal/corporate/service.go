package corporate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mindwellhq/wellness-booking/internal/notify"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotifyFailed = errors.New("notification delivery failed")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Service struct {
	repo     Repository
	notifier notify.Notifier
	inbox    string
}

func NewService(repo Repository, notifier notify.Notifier, inbox string) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		inbox:    inbox,
	}
}

// Submit validates, persists and then emails the inquiry to the corporate
// inbox. Unlike the booking side effects the mail IS the requested
// operation here, so a delivery failure is surfaced; the persisted row is
// kept so staff can still find the request.
func (s *Service) Submit(ctx context.Context, req Request) (*Request, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	saved, err := s.repo.CreateRequest(ctx, &req)
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf(
		"Company Name: %s\nContact Person: %s\nEmail: %s\nPhone: %s\n\n"+
			"Service Type: %s\nEmployees: %d\nPreferred Date: %s\n\nMessage:\n%s\n",
		saved.CompanyName, saved.ContactPerson, saved.Email, saved.Phone,
		saved.ServiceType, saved.NumberOfEmployees,
		saved.PreferredDate.Format("2006-01-02"), saved.Message,
	)

	if err := s.notifier.Send(ctx, []string{s.inbox}, "New Corporate Service Request", body); err != nil {
		return saved, fmt.Errorf("%w: %v", ErrNotifyFailed, err)
	}

	return saved, nil
}

func (s *Service) List(ctx context.Context) ([]Request, error) {
	return s.repo.ListRequests(ctx)
}

func validate(req Request) error {
	if strings.TrimSpace(req.CompanyName) == "" {
		return fmt.Errorf("%w: company name is required", ErrValidation)
	}
	if strings.TrimSpace(req.ContactPerson) == "" {
		return fmt.Errorf("%w: contact person is required", ErrValidation)
	}
	if !emailPattern.MatchString(req.Email) {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, req.Email)
	}
	if !req.ServiceType.Valid() {
		return fmt.Errorf("%w: unknown service type %q", ErrValidation, req.ServiceType)
	}
	if req.NumberOfEmployees < 1 {
		return fmt.Errorf("%w: number of employees must be at least 1", ErrValidation)
	}
	if req.PreferredDate.IsZero() {
		return fmt.Errorf("%w: preferred date is required", ErrValidation)
	}
	return nil
}
