package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
	"github.com/vaadbayit/vaad_backend/internal/platform/config"
	"github.com/vaadbayit/vaad_backend/internal/utils"
)

// authService authenticates the single configured administrator.
type authService struct {
	BaseService
	cfg *config.Config
}

// NewAuthService creates a new auth service.
func NewAuthService(cfg *config.Config) portssvc.AuthSvc {
	return &authService{cfg: cfg}
}

var _ portssvc.AuthSvc = (*authService)(nil)

func (s *authService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if s.cfg.AdminPasswordHash == "" {
		s.LogError(ctx, apperrors.ErrUnauthorized, "Login attempted but no administrator password is configured")
		return "", time.Time{}, apperrors.ErrUnauthorized
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
	passOK := utils.CheckPasswordHash(password, s.cfg.AdminPasswordHash)
	if !userOK || !passOK {
		s.LogInfo(ctx, "Rejected login", slog.String("username", username))
		return "", time.Time{}, apperrors.ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(s.cfg.AdminUsername, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token")
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, expiresAt, nil
}
