package ports

import (
	"context"

	"github.com/finboard/auth-service/internal/core/domain"
)

// AuthResult is the recoverable outcome of an Authenticate call. On failure,
// Error carries a human-readable reason; callers must not branch on its text.
type AuthResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SessionStore is the client-side authentication state machine.
type SessionStore interface {
	Initialize(ctx context.Context)
	Login(ctx context.Context, identity *domain.Identity)
	Authenticate(ctx context.Context, identifier, password string) AuthResult
	Logout(ctx context.Context)
	Snapshot() domain.Session
	CheckPermission(permission string) bool
	HasRole(role string) bool
}
