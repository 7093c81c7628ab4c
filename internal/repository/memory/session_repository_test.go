package memory

import (
	"context"
	"testing"
	"time"

	"ai-interview-be/internal/entity"
	"ai-interview-be/pkg/interview/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Minute)

	_, err := repo.Load(ctx, "missing")
	assert.ErrorIs(t, err, engine.ErrSessionMissing)

	session := &entity.Session{
		Id:        "s1",
		Questions: []entity.Question{{Id: "q_1", Text: "Why Go?"}},
		Status:    entity.StatusInProgress,
	}
	require.NoError(t, repo.Save(ctx, session))

	loaded, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Why Go?", loaded.Questions[0].Text)

	loaded.Questions[0].Text = "mutated"
	again, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Why Go?", again.Questions[0].Text, "loads are independent copies")

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Load(ctx, "s1")
	assert.ErrorIs(t, err, engine.ErrSessionMissing)
	assert.NoError(t, repo.Ping(ctx))
}

func TestSessionRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(20 * time.Millisecond)

	require.NoError(t, repo.Save(ctx, &entity.Session{Id: "s1"}))
	time.Sleep(40 * time.Millisecond)

	_, err := repo.Load(ctx, "s1")
	assert.ErrorIs(t, err, engine.ErrSessionMissing)
}
