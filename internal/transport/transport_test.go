package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/finboard/auth-service/internal/core/domain"
	"github.com/finboard/auth-service/internal/core/service"
)

type memTokenSlot struct {
	token string
	set   bool
}

func (m *memTokenSlot) SaveToken(_ context.Context, token string) error {
	m.token, m.set = token, true
	return nil
}

func (m *memTokenSlot) LoadToken(context.Context) (string, bool, error) {
	return m.token, m.set, nil
}

func (m *memTokenSlot) DeleteToken(context.Context) error {
	m.token, m.set = "", false
	return nil
}

func newHolder() *service.TokenHolder {
	return service.NewTokenHolder(&memTokenSlot{}, nil, zerolog.Nop())
}

func TestAuthTransport_AttachesBearer(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	holder := newHolder()
	holder.Set(context.Background(), "tok-123")

	client := &http.Client{Transport: &AuthTransport{Tokens: holder}}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if seen != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", seen)
	}
}

func TestAuthTransport_NoTokenMeansNoHeader(t *testing.T) {
	var seen string
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		seen = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{Transport: &AuthTransport{Tokens: newHolder()}}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if !hit {
		t.Fatalf("unauthenticated request must still reach the backend")
	}
	if seen != "" {
		t.Fatalf("expected no Authorization header, got %q", seen)
	}
}

func TestAuthTransport_401ClearsTokenAndNotifies(t *testing.T) {
	var headers []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	holder := newHolder()
	holder.Set(context.Background(), "expired")

	lost := 0
	client := &http.Client{Transport: &AuthTransport{
		Tokens:              holder,
		OnAuthorizationLost: func() { lost++ },
	}}

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("401 must be surfaced to the caller, got %d", resp.StatusCode)
	}
	if lost != 1 {
		t.Fatalf("expected one authorization-lost notification, got %d", lost)
	}
	if _, ok := holder.Get(context.Background()); ok {
		t.Fatalf("token holder must be cleared after 401")
	}

	// The next request goes out without a credential.
	resp, err = client.Get(srv.URL)
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	resp.Body.Close()

	if len(headers) != 2 {
		t.Fatalf("expected two requests, got %d", len(headers))
	}
	if headers[0] != "Bearer expired" || headers[1] != "" {
		t.Fatalf("unexpected headers: %v", headers)
	}
}

func TestAuthTransport_Non401PassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	holder := newHolder()
	holder.Set(context.Background(), "tok")

	lost := 0
	client := &http.Client{Transport: &AuthTransport{
		Tokens:              holder,
		OnAuthorizationLost: func() { lost++ },
	}}

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502 passed through, got %d", resp.StatusCode)
	}
	if lost != 0 {
		t.Fatalf("non-401 must not trigger authorization-lost")
	}
	if _, ok := holder.Get(context.Background()); !ok {
		t.Fatalf("token must survive non-401 errors")
	}
}

func TestClient_LoginAndMe(t *testing.T) {
	user := &domain.Identity{ID: "u1", Email: "admin@x.com", Role: domain.RoleAdmin}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			var req struct {
				Identifier string `json:"identifier"`
				Password   string `json:"password"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(LoginResponse{AccessToken: "tok-1", User: user})
		case "/auth/me":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(user)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	holder := newHolder()
	client := NewClient(srv.URL, holder, nil)

	resp, err := client.Login(context.Background(), "admin@x.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.AccessToken != "tok-1" || resp.User.Email != "admin@x.com" {
		t.Fatalf("unexpected login response: %+v", resp)
	}

	holder.Set(context.Background(), resp.AccessToken)
	me, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if me.ID != "u1" {
		t.Fatalf("unexpected identity: %+v", me)
	}
}

func TestClient_SurfacesBackendErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"user already exists"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, newHolder(), nil)
	_, err := client.Me(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Message != "user already exists" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}
