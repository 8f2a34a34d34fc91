package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("chat service unavailable")
)

// Message is one side of a stored exchange; Role is "user" or "assistant".
type Message struct {
	ID        int64
	UserEmail string
	Role      string
	Content   string
	CreatedAt time.Time
}

// Repository persists the chat transcript.
type Repository interface {
	InsertMessage(ctx context.Context, m *Message) (*Message, error)
	ListMessages(ctx context.Context, userEmail string, limit int) ([]Message, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) InsertMessage(ctx context.Context, m *Message) (*Message, error) {
	out := *m

	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat_messages (user_email, role, content, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, created_at
	`, m.UserEmail, m.Role, m.Content).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert chat message: %w", err)
	}

	return &out, nil
}

func (r *PgRepository) ListMessages(ctx context.Context, userEmail string, limit int) ([]Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_email, role, content, created_at
		FROM chat_messages
		WHERE user_email = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userEmail, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.UserEmail, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

type Service struct {
	repo      Repository
	completer Completer
	log       *zap.Logger
}

func NewService(repo Repository, completer Completer, log *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		completer: completer,
		log:       log,
	}
}

// Ask forwards the message to the completion collaborator and returns the
// reply. The completion call is the whole operation, so its failure is
// returned outright; transcript persistence is best effort.
func (s *Service) Ask(ctx context.Context, userEmail, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: message is required", ErrValidation)
	}
	if s.completer == nil {
		return "", ErrUnavailable
	}

	reply, err := s.completer.Complete(ctx, message)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	for _, m := range []Message{
		{UserEmail: userEmail, Role: "user", Content: message},
		{UserEmail: userEmail, Role: "assistant", Content: reply},
	} {
		if _, err := s.repo.InsertMessage(ctx, &m); err != nil {
			s.log.Warn("store chat message", zap.String("role", m.Role), zap.Error(err))
		}
	}

	return reply, nil
}

// History returns the caller's most recent messages, newest first.
func (s *Service) History(ctx context.Context, userEmail string, limit int) ([]Message, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.repo.ListMessages(ctx, userEmail, limit)
}
