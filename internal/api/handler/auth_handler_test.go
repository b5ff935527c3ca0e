package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/finboard/auth-service/internal/api/middleware"
	"github.com/finboard/auth-service/internal/core/domain"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, identifier, password string) (string, *domain.Identity, error)
}

func (s *stubAuthService) Login(ctx context.Context, identifier, password string) (string, *domain.Identity, error) {
	return s.loginFn(ctx, identifier, password)
}

type stubUserRepo struct {
	users map[string]*domain.Identity
}

func (r *stubUserRepo) FindByIdentifier(_ context.Context, identifier string) (*domain.Identity, error) {
	u, ok := r.users[identifier]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) RecordLogin(context.Context, string, time.Time) error { return nil }

func (r *stubUserRepo) Create(_ context.Context, user *domain.Identity) (*domain.Identity, error) {
	return user, nil
}

func (r *stubUserRepo) List(context.Context) ([]*domain.Identity, error) {
	out := make([]*domain.Identity, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

type stubThrottle struct {
	allowed  bool
	failures int
	resets   int
}

func (t *stubThrottle) Allow(context.Context, string) (bool, error) { return t.allowed, nil }

func (t *stubThrottle) RecordFailure(context.Context, string) error {
	t.failures++
	return nil
}

func (t *stubThrottle) Reset(context.Context, string) error {
	t.resets++
	return nil
}

func newLoginContext(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, identifier, password string) (string, *domain.Identity, error) {
			if identifier != "alice@x.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", identifier, password)
			}
			return "token123", &domain.Identity{ID: "u1", Email: identifier, Role: domain.RoleAdmin}, nil
		},
	}
	throttle := &stubThrottle{allowed: true}
	h := NewAuthHandler(stub, &stubUserRepo{}, throttle, zerolog.Nop())

	c, rec := newLoginContext(e, `{"identifier":"alice@x.com","password":"secret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "token123" {
		t.Fatalf("expected access_token, got %v", resp["access_token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "alice@x.com" || user["role"] != domain.RoleAdmin {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if throttle.resets != 1 {
		t.Fatalf("expected throttle reset on success")
	}
}

func TestAuthHandler_Login_Failure(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.Identity, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	throttle := &stubThrottle{allowed: true}
	h := NewAuthHandler(stub, &stubUserRepo{}, throttle, zerolog.Nop())

	c, _ := newLoginContext(e, `{"identifier":"alice@x.com","password":"bad"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials surfaced, got %v", err)
	}
	if throttle.failures != 1 {
		t.Fatalf("expected one recorded failure, got %d", throttle.failures)
	}
}

func TestAuthHandler_Login_Throttled(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.Identity, error) {
			t.Fatalf("service must not be called when throttled")
			return "", nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubUserRepo{}, &stubThrottle{allowed: false}, zerolog.Nop())

	c, rec := newLoginContext(e, `{"identifier":"alice@x.com","password":"secret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.Identity, error) {
			t.Fatalf("service must not be called")
			return "", nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubUserRepo{}, &stubThrottle{allowed: true}, zerolog.Nop())

	c, rec := newLoginContext(e, `{"identifier":"alice@x.com"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.Identity, error) {
			t.Fatalf("service must not be called")
			return "", nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubUserRepo{}, &stubThrottle{allowed: true}, zerolog.Nop())

	c, rec := newLoginContext(e, "{")
	_ = h.Login(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := echo.New()
	repo := &stubUserRepo{users: map[string]*domain.Identity{
		"alice@x.com": {ID: "u1", Email: "alice@x.com", Role: domain.RoleAdmin},
	}}
	h := NewAuthHandler(&stubAuthService{}, repo, &stubThrottle{allowed: true}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetClaims(c, middleware.Claims{UserID: "u1", Email: "alice@x.com", Role: domain.RoleAdmin})

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got domain.Identity
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.ID != "u1" || got.Email != "alice@x.com" {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestAuthHandler_Me_MissingClaims(t *testing.T) {
	e := echo.New()
	h := NewAuthHandler(&stubAuthService{}, &stubUserRepo{}, &stubThrottle{allowed: true}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
