package ports

import (
	"context"
	"time"

	"github.com/finboard/auth-service/internal/core/domain"
)

// UserDirectory is the lookup collaborator the session store authenticates
// against. RecordLogin is best-effort; callers ignore its failure.
type UserDirectory interface {
	FindByIdentifier(ctx context.Context, identifier string) (*domain.Identity, error)
	RecordLogin(ctx context.Context, id string, at time.Time) error
}

// UserRepository is the full persistence interface for user accounts.
type UserRepository interface {
	UserDirectory
	Create(ctx context.Context, user *domain.Identity) (*domain.Identity, error)
	List(ctx context.Context) ([]*domain.Identity, error)
}
