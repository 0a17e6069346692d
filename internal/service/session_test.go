package service

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adarshalexbalmuchu/nextnode/internal/mocks"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
	"github.com/adarshalexbalmuchu/nextnode/internal/testutil"
	"github.com/adarshalexbalmuchu/nextnode/internal/token"
)

func sha(s string) []byte {
	h := sha256.Sum256([]byte(s))
	return h[:]
}

func TestSessionService_Issue(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	tm := mocks.NewTokenManager(t)
	store := mocks.NewRefreshTokenStore(t)
	svc := NewSessionService(tm, store, testutil.MakeNoopLogger())

	tm.On("GenerateAccessToken", userID).Return("access-token", nil).Once()
	tm.On("GenerateRefreshToken", userID).Return("refresh-token", "jti-1", nil).Once()
	store.On("Create", ctx, mock.MatchedBy(func(rt model.RefreshToken) bool {
		return rt.JTI == "jti-1" &&
			rt.UserID == userID &&
			assert.ObjectsAreEqual(sha("refresh-token"), rt.TokenHash) &&
			rt.RotatedFromJTI == nil
	})).Return(nil).Once()

	access, refresh, expiresAt, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "access-token", access)
	assert.Equal(t, "refresh-token", refresh)
	assert.WithinDuration(t, time.Now().Add(token.AccessTTL), expiresAt, 5*time.Second)
}

func TestSessionService_Refresh(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	validRecord := func() model.RefreshToken {
		return model.RefreshToken{
			ID:        uuid.New(),
			JTI:       "jti-old",
			UserID:    userID,
			TokenHash: sha("old-refresh"),
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}

	t.Run("rotates the presented token", func(t *testing.T) {
		tm := mocks.NewTokenManager(t)
		store := mocks.NewRefreshTokenStore(t)
		svc := NewSessionService(tm, store, testutil.MakeNoopLogger())

		tm.On("ParseRefreshToken", "old-refresh").Return(userID, "jti-old", nil).Once()
		store.On("GetByJTI", ctx, "jti-old").Return(validRecord(), nil).Once()
		store.On("RevokeByJTI", ctx, "jti-old").Return(nil).Once()
		tm.On("GenerateAccessToken", userID).Return("new-access", nil).Once()
		tm.On("GenerateRefreshToken", userID).Return("new-refresh", "jti-new", nil).Once()
		store.On("Create", ctx, mock.MatchedBy(func(rt model.RefreshToken) bool {
			return rt.JTI == "jti-new" &&
				rt.RotatedFromJTI != nil && *rt.RotatedFromJTI == "jti-old"
		})).Return(nil).Once()

		access, refresh, _, err := svc.Refresh(ctx, "old-refresh")
		require.NoError(t, err)
		assert.Equal(t, "new-access", access)
		assert.Equal(t, "new-refresh", refresh)
	})

	t.Run("rejects a revoked token", func(t *testing.T) {
		tm := mocks.NewTokenManager(t)
		store := mocks.NewRefreshTokenStore(t)
		svc := NewSessionService(tm, store, testutil.MakeNoopLogger())

		revokedAt := time.Now().Add(-time.Minute)
		rt := validRecord()
		rt.RevokedAt = &revokedAt

		tm.On("ParseRefreshToken", "old-refresh").Return(userID, "jti-old", nil).Once()
		store.On("GetByJTI", ctx, "jti-old").Return(rt, nil).Once()

		_, _, _, err := svc.Refresh(ctx, "old-refresh")
		require.ErrorIs(t, err, model.ErrTokenRevoked)
		store.AssertNotCalled(t, "RevokeByJTI", mock.Anything, mock.Anything)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		tm := mocks.NewTokenManager(t)
		store := mocks.NewRefreshTokenStore(t)
		svc := NewSessionService(tm, store, testutil.MakeNoopLogger())

		rt := validRecord()
		rt.ExpiresAt = time.Now().Add(-time.Minute)

		tm.On("ParseRefreshToken", "old-refresh").Return(userID, "jti-old", nil).Once()
		store.On("GetByJTI", ctx, "jti-old").Return(rt, nil).Once()

		_, _, _, err := svc.Refresh(ctx, "old-refresh")
		require.ErrorIs(t, err, model.ErrTokenExpired)
	})

	t.Run("rejects a token whose hash does not match the record", func(t *testing.T) {
		tm := mocks.NewTokenManager(t)
		store := mocks.NewRefreshTokenStore(t)
		svc := NewSessionService(tm, store, testutil.MakeNoopLogger())

		rt := validRecord()
		rt.TokenHash = sha("some-other-token")

		tm.On("ParseRefreshToken", "old-refresh").Return(userID, "jti-old", nil).Once()
		store.On("GetByJTI", ctx, "jti-old").Return(rt, nil).Once()

		_, _, _, err := svc.Refresh(ctx, "old-refresh")
		require.ErrorIs(t, err, model.ErrTokenMismatch)
		store.AssertNotCalled(t, "RevokeByJTI", mock.Anything, mock.Anything)
	})

	t.Run("unknown jti", func(t *testing.T) {
		tm := mocks.NewTokenManager(t)
		store := mocks.NewRefreshTokenStore(t)
		svc := NewSessionService(tm, store, testutil.MakeNoopLogger())

		tm.On("ParseRefreshToken", "old-refresh").Return(userID, "jti-old", nil).Once()
		store.On("GetByJTI", ctx, "jti-old").Return(model.RefreshToken{}, model.ErrNotFound).Once()

		_, _, _, err := svc.Refresh(ctx, "old-refresh")
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestSessionService_RevokeByToken(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("revokes by jti", func(t *testing.T) {
		tm := mocks.NewTokenManager(t)
		store := mocks.NewRefreshTokenStore(t)
		svc := NewSessionService(tm, store, testutil.MakeNoopLogger())

		tm.On("ParseRefreshToken", "refresh-token").Return(userID, "jti-1", nil).Once()
		store.On("RevokeByJTI", ctx, "jti-1").Return(nil).Once()

		require.NoError(t, svc.RevokeByToken(ctx, "refresh-token"))
	})

	t.Run("propagates parse failure", func(t *testing.T) {
		tm := mocks.NewTokenManager(t)
		store := mocks.NewRefreshTokenStore(t)
		svc := NewSessionService(tm, store, testutil.MakeNoopLogger())

		tm.On("ParseRefreshToken", "garbage").Return(uuid.Nil, "", assert.AnError).Once()

		err := svc.RevokeByToken(ctx, "garbage")
		require.ErrorIs(t, err, assert.AnError)
		store.AssertNotCalled(t, "RevokeByJTI", mock.Anything, mock.Anything)
	})
}
