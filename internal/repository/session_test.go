package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrooms/tictactoe-backend/internal/entity"
	"github.com/gridrooms/tictactoe-backend/testing/suite"
)

const testSessionTTL = time.Hour

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage, testSessionTTL)

	// Given: a session bound to a room
	session := &entity.Session{
		ID:       "sess-123",
		Name:     "Alice",
		RoomCode: "ABC123",
	}

	// When: CreateOrUpdate is called
	err := sessionRepo.CreateOrUpdate(ctx, session)

	// Then: no error is returned and LastSeen is stamped
	require.NoError(t, err)
	assert.False(t, session.LastSeen.IsZero())
}

func TestSessionRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, testSessionTTL)

		// Given: a stored session
		session := &entity.Session{
			ID:       "sess-123",
			Name:     "Alice",
			RoomCode: "ABC123",
		}

		err := sessionRepo.CreateOrUpdate(ctx, session)
		require.NoError(t, err)

		// When: GetByID is called with the existing ID
		retrieved, err := sessionRepo.GetByID(ctx, session.ID)

		// Then: the retrieved session matches what was saved
		require.NoError(t, err)
		assert.Equal(t, session.ID, retrieved.ID)
		assert.Equal(t, session.Name, retrieved.Name)
		assert.Equal(t, session.RoomCode, retrieved.RoomCode)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, testSessionTTL)

		// When: GetByID is called with a non-existent ID
		retrieved, err := sessionRepo.GetByID(ctx, "sess-ghost")

		// Then: ErrSessionNotFound is returned
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.Empty(t, retrieved.ID)
	})
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage, testSessionTTL)

	// Given: a stored session
	session := &entity.Session{
		ID:   "sess-123",
		Name: "Alice",
	}

	err := sessionRepo.CreateOrUpdate(ctx, session)
	require.NoError(t, err)

	// When: DeleteByID is called
	err = sessionRepo.DeleteByID(ctx, session.ID)

	// Then: the session is gone
	require.NoError(t, err)

	_, err = sessionRepo.GetByID(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
