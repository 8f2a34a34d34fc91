package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	messages []Message
	err      error
}

func (r *memRepo) InsertMessage(ctx context.Context, m *Message) (*Message, error) {
	if r.err != nil {
		return nil, r.err
	}
	stored := *m
	stored.ID = int64(len(r.messages) + 1)
	r.messages = append(r.messages, stored)
	out := stored
	return &out, nil
}

func (r *memRepo) ListMessages(ctx context.Context, userEmail string, limit int) ([]Message, error) {
	var out []Message
	for _, m := range r.messages {
		if m.UserEmail == userEmail {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type staticCompleter struct {
	reply string
	err   error
}

func (c staticCompleter) Complete(ctx context.Context, message string) (string, error) {
	return c.reply, c.err
}

func TestAsk(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, staticCompleter{reply: "Try a short breathing exercise."}, zap.NewNop())

	reply, err := svc.Ask(context.Background(), "asha@example.com", "I feel anxious today")
	require.NoError(t, err)
	assert.Equal(t, "Try a short breathing exercise.", reply)

	// Both sides of the exchange land in the transcript.
	require.Len(t, repo.messages, 2)
	assert.Equal(t, "user", repo.messages[0].Role)
	assert.Equal(t, "I feel anxious today", repo.messages[0].Content)
	assert.Equal(t, "assistant", repo.messages[1].Role)
	assert.Equal(t, "Try a short breathing exercise.", repo.messages[1].Content)
}

func TestAskValidation(t *testing.T) {
	svc := NewService(&memRepo{}, staticCompleter{reply: "hi"}, zap.NewNop())

	_, err := svc.Ask(context.Background(), "asha@example.com", "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAskNoCompleter(t *testing.T) {
	svc := NewService(&memRepo{}, nil, zap.NewNop())

	_, err := svc.Ask(context.Background(), "asha@example.com", "hello")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAskCompleterFailure(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, staticCompleter{err: errors.New("upstream 500")}, zap.NewNop())

	_, err := svc.Ask(context.Background(), "asha@example.com", "hello")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, repo.messages, "failed exchanges are not persisted")
}

func TestHistory(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, staticCompleter{reply: "ok"}, zap.NewNop())

	_, err := svc.Ask(context.Background(), "asha@example.com", "first")
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), "vik@example.com", "other user")
	require.NoError(t, err)

	history, err := svc.History(context.Background(), "asha@example.com", 50)
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, m := range history {
		assert.Equal(t, "asha@example.com", m.UserEmail)
	}

	// Nonsense limits fall back to the default instead of erroring.
	history, err = svc.History(context.Background(), "asha@example.com", -1)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestAskPersistFailureDoesNotFail(t *testing.T) {
	repo := &memRepo{err: errors.New("db down")}
	svc := NewService(repo, staticCompleter{reply: "ok"}, zap.NewNop())

	reply, err := svc.Ask(context.Background(), "asha@example.com", "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}
