package app

import (
	"context"

	"go.uber.org/zap"

	errprocess "chatterbox_service/pkg/err"
	"chatterbox_service/pkg/logger"
	token "chatterbox_service/pkg/token"
)

// Verify check the credential signature and the live session behind it.
// A valid JWT whose session was revoked or expired is rejected, and a
// passing check slides the session TTL forward.
func (m *memberUseCase) Verify(ctx context.Context, credential string) (*token.Claims, error) {
	claims, err := token.ParseJWTWrapper(credential)
	if err != nil {
		return nil, err
	}

	session, err := m.redisRepo.Get(ctx, claims.MemberID)
	if err != nil {
		logger.Log.Debug("session lookup failed", zap.String("MemberID", claims.MemberID), zap.Error(err))
		return nil, errprocess.Set("session not found")
	}
	if session.Token != credential {
		return nil, errprocess.Set("session was superseded by a newer login")
	}
	if session.IsExpired() {
		return nil, errprocess.Set("session expired")
	}

	if err := m.redisRepo.ExtendTTL(ctx, claims.MemberID, m.sessionTTL); err != nil {
		logger.Log.Warn("extend session ttl failed", zap.String("MemberID", claims.MemberID), zap.Error(err))
	}

	return claims, nil
}
