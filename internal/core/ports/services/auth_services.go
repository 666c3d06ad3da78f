package services

import (
	"context"
	"time"
)

// AuthSvc authenticates the building administrator and issues access tokens.
type AuthSvc interface {
	// Login returns a signed access token and its expiry, or
	// apperrors.ErrUnauthorized when the credentials do not match.
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}
