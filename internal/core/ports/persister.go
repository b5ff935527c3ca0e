package ports

import (
	"context"

	"github.com/finboard/auth-service/internal/core/domain"
)

// SessionPersister is the durable slot for {user, isAuthenticated}. Load
// reports ok=false when the slot is absent; Delete erases the slot entirely
// rather than writing an empty value.
type SessionPersister interface {
	SaveSession(ctx context.Context, s domain.Session) error
	LoadSession(ctx context.Context) (domain.Session, bool, error)
	DeleteSession(ctx context.Context) error
}

// TokenPersister is the durable slot for the raw bearer token.
type TokenPersister interface {
	SaveToken(ctx context.Context, token string) error
	LoadToken(ctx context.Context) (string, bool, error)
	DeleteToken(ctx context.Context) error
}

// AsyncWriter decouples state mutation from the durable write. Enqueued ops
// run in the background; no caller waits for them.
type AsyncWriter interface {
	Enqueue(name string, op func(ctx context.Context) error)
}
