package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/finboard/auth-service/internal/core/domain"
	"github.com/finboard/auth-service/internal/core/ports"
)

// Human-readable Authenticate failure reasons. Callers display these; they
// must not branch on them.
const (
	msgIdentifierRequired = "Email is required"
	msgUserNotFound       = "User not found"
	msgAccountDisabled    = "Account is disabled"
	msgInvalidPassword    = "Invalid password"
)

// SessionStore holds the process's authentication state machine:
//
//	LOADING → {AUTHENTICATED, UNAUTHENTICATED}
//
// LOADING is entered once, at construction, and left on the first Initialize.
// Login/Authenticate and Logout move between the two resolved states.
// Persistence is write-through and fire-and-forget via the AsyncWriter.
type SessionStore struct {
	mu      sync.RWMutex
	session domain.Session
	done    bool // Initialize has run

	// authMu serializes overlapping Authenticate calls so the last-write-wins
	// race of concurrent attempts cannot happen. State reads stay concurrent:
	// callers observe the pre-authentication state until a call commits.
	authMu sync.Mutex

	directory ports.UserDirectory
	persister ports.SessionPersister
	tokens    ports.TokenHolder
	async     ports.AsyncWriter
	log       zerolog.Logger
}

func NewSessionStore(directory ports.UserDirectory, persister ports.SessionPersister, tokens ports.TokenHolder, async ports.AsyncWriter, log zerolog.Logger) *SessionStore {
	if async == nil {
		async = inlineWriter{}
	}
	return &SessionStore{
		session:   domain.Session{IsLoading: true},
		directory: directory,
		persister: persister,
		tokens:    tokens,
		async:     async,
		log:       log,
	}
}

// Initialize restores a previously persisted session. Idempotent: only the
// first call consults storage; every call leaves IsLoading false, whether or
// not restoration succeeded.
func (s *SessionStore) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		s.session.IsLoading = false
		return
	}
	s.done = true

	restored, ok, err := s.persister.LoadSession(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session restore failed; starting unauthenticated")
	}
	if ok && err == nil && restored.IsAuthenticated && restored.User != nil {
		s.session.User = restored.User
		s.session.IsAuthenticated = true
	}
	s.session.IsLoading = false
}

// Login commits an authenticated identity and writes it through to the
// persisted slot.
func (s *SessionStore) Login(ctx context.Context, identity *domain.Identity) {
	s.mu.Lock()
	s.session.User = identity.Clone()
	s.session.IsAuthenticated = true
	s.session.IsLoading = false
	record := s.session
	s.mu.Unlock()

	s.async.Enqueue("session.save", func(ctx context.Context) error {
		return s.persister.SaveSession(ctx, record)
	})
}

// Authenticate resolves identifier+password against the user directory and,
// on success, commits the session. Failures return a recoverable result and
// leave session state untouched.
func (s *SessionStore) Authenticate(ctx context.Context, identifier, password string) ports.AuthResult {
	s.authMu.Lock()
	defer s.authMu.Unlock()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return ports.AuthResult{Error: msgIdentifierRequired}
	}

	user, err := s.directory.FindByIdentifier(ctx, identifier)
	if err != nil {
		return ports.AuthResult{Error: msgUserNotFound}
	}
	if user.Status != domain.StatusActive {
		return ports.AuthResult{Error: msgAccountDisabled}
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ports.AuthResult{Error: msgInvalidPassword}
	}

	// Best effort; a failed timestamp update never blocks the login.
	now := time.Now().UTC()
	if err := s.directory.RecordLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("last-login update failed")
	}
	user.LastLoginAt = &now

	s.Login(ctx, user)
	return ports.AuthResult{Success: true}
}

// Logout clears the identity and erases the persisted session and token
// slots. Safe to call in any state.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	s.session.User = nil
	s.session.IsAuthenticated = false
	s.session.IsLoading = false
	s.mu.Unlock()

	if s.tokens != nil {
		s.tokens.Clear(ctx)
	}
	s.async.Enqueue("session.delete", func(ctx context.Context) error {
		return s.persister.DeleteSession(ctx)
	})
}

// Snapshot returns a read-only copy of the current session.
func (s *SessionStore) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.session
	snap.User = snap.User.Clone()
	return snap
}

// CheckPermission reports whether the current identity's role grants
// permission. Fails closed: no identity means no permissions. The per-user
// override list on Identity is deliberately not consulted; the role catalog
// is authoritative.
func (s *SessionStore) CheckPermission(permission string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.User == nil {
		return false
	}
	return domain.RoleHasPermission(s.session.User.Role, permission)
}

// HasRole reports whether the current identity's role equals role exactly.
func (s *SessionStore) HasRole(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User != nil && s.session.User.Role == role
}

// inlineWriter runs persistence ops synchronously. Used when no background
// writer is wired, e.g. in tests.
type inlineWriter struct{}

func (inlineWriter) Enqueue(_ string, op func(ctx context.Context) error) {
	_ = op(context.Background())
}
