package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adarshalexbalmuchu/nextnode/internal/logger"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
	"github.com/adarshalexbalmuchu/nextnode/internal/token"
)

// SessionService issues, refreshes, and revokes session token pairs. It
// composes the TokenManager and RefreshTokenStore.
type SessionService struct {
	manager model.TokenManager
	store   model.RefreshTokenStore
	logger  *logger.Logger
}

func NewSessionService(manager model.TokenManager, store model.RefreshTokenStore, logger *logger.Logger) *SessionService {
	return &SessionService{manager: manager, store: store, logger: logger}
}

// Issue creates a new access/refresh pair for the user and persists the
// refresh side. The returned expiry is the access token's.
func (s *SessionService) Issue(ctx context.Context, userID uuid.UUID) (accessToken string, refreshToken string, expiresAt time.Time, err error) {
	access, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, jti, err := s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("issue refresh: %w", err)
	}

	now := time.Now()
	rt := model.RefreshToken{
		ID:        uuid.New(),
		JTI:       jti,
		UserID:    userID,
		TokenHash: hashRefresh(refresh),
		IssuedAt:  now,
		ExpiresAt: now.Add(token.RefreshTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, rt); err != nil {
		return "", "", time.Time{}, fmt.Errorf("persist refresh: %w", err)
	}

	return access, refresh, now.Add(token.AccessTTL), nil
}

// Refresh rotates the presented refresh token: the old JTI is revoked and a
// new pair is issued.
func (s *SessionService) Refresh(ctx context.Context, presentedRefresh string) (newAccess string, newRefresh string, expiresAt time.Time, err error) {
	userID, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return "", "", time.Time{}, err
	}

	rt, err := s.store.GetByJTI(ctx, jti)
	if err != nil {
		return "", "", time.Time{}, err
	}

	// Validate stored state vs presented token.
	if err := validateRecord(rt, hashRefresh(presentedRefresh), time.Now()); err != nil {
		return "", "", time.Time{}, err
	}

	if err := s.store.RevokeByJTI(ctx, jti); err != nil {
		return "", "", time.Time{}, fmt.Errorf("revoke old refresh: %w", err)
	}

	access, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("issue new access: %w", err)
	}

	refresh, newJTI, err := s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("issue new refresh: %w", err)
	}

	now := time.Now()
	rotatedFrom := rt.JTI
	newRT := model.RefreshToken{
		ID:             uuid.New(),
		JTI:            newJTI,
		UserID:         userID,
		TokenHash:      hashRefresh(refresh),
		IssuedAt:       now,
		ExpiresAt:      now.Add(token.RefreshTTL),
		RotatedFromJTI: &rotatedFrom,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, newRT); err != nil {
		return "", "", time.Time{}, fmt.Errorf("persist new refresh: %w", err)
	}

	return access, refresh, now.Add(token.AccessTTL), nil
}

func (s *SessionService) RevokeByToken(ctx context.Context, presentedRefresh string) error {
	_, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return err
	}
	return s.store.RevokeByJTI(ctx, jti)
}

func (s *SessionService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.RevokeAllByUser(ctx, userID)
}

func (s *SessionService) GetUserID(ctx context.Context, tokenString string) (uuid.UUID, error) {
	return s.manager.ParseAccessToken(tokenString)
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateRecord(rt model.RefreshToken, presentedHash []byte, now time.Time) error {
	if rt.RevokedAt != nil {
		return model.ErrTokenRevoked
	}
	if now.After(rt.ExpiresAt) {
		return model.ErrTokenExpired
	}
	if !equalBytes(rt.TokenHash, presentedHash) {
		return model.ErrTokenMismatch
	}
	return nil
}

func equalBytes(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
