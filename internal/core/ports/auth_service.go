package ports

import (
	"context"

	"github.com/finboard/auth-service/internal/core/domain"
)

// AuthService implements the backend's credential flow: verify a password,
// record the login, and mint a bearer token.
type AuthService interface {
	Login(ctx context.Context, identifier, password string) (string, *domain.Identity, error)
}

// LoginThrottle limits failed login attempts per identifier.
type LoginThrottle interface {
	Allow(ctx context.Context, identifier string) (bool, error)
	RecordFailure(ctx context.Context, identifier string) error
	Reset(ctx context.Context, identifier string) error
}
