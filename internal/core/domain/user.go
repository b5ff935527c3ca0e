package domain

import "time"

const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
)

// Account statuses. Any status other than StatusActive blocks login.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// Identity models an authenticated actor in the dashboard.
//
// Permissions is an optional per-user override list carried through from the
// backend. Permission checks do not consult it; the role catalog is
// authoritative.
type Identity struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Status       string     `json:"status,omitempty"`
	Permissions  []string   `json:"permissions,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Clone returns a copy safe to hand to consumers. The session store owns its
// identity exclusively; everyone else gets snapshots.
func (u *Identity) Clone() *Identity {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Permissions != nil {
		clone.Permissions = append([]string(nil), u.Permissions...)
	}
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		clone.LastLoginAt = &t
	}
	return &clone
}
