package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/finboard/auth-service/internal/core/domain"
	"github.com/finboard/auth-service/internal/core/ports"
)

const defaultClientTimeout = 15 * time.Second

// APIError is a non-2xx backend response surfaced to the caller untouched.
// The transport layer does not suppress or retry these; user-visible handling
// belongs to whoever made the call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Client is a typed client for the auth backend's REST contract.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client whose requests flow through an AuthTransport
// bound to tokens. onAuthorizationLost is forwarded to the transport.
func NewClient(baseURL string, tokens ports.TokenHolder, onAuthorizationLost func()) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: defaultClientTimeout,
			Transport: &AuthTransport{
				Tokens:              tokens,
				OnAuthorizationLost: onAuthorizationLost,
			},
		},
	}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginResponse is the payload of POST /auth/login.
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	User        *domain.Identity `json:"user"`
}

// Login exchanges credentials for a bearer token and the user profile.
func (c *Client) Login(ctx context.Context, identifier, password string) (*LoginResponse, error) {
	body, err := json.Marshal(loginRequest{Identifier: identifier, Password: password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out LoginResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the authenticated identity from GET /auth/me.
func (c *Client) Me(ctx context.Context) (*domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var out domain.Identity
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func readErrorMessage(r io.Reader) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&envelope); err != nil || envelope.Error == "" {
		return "request failed"
	}
	return envelope.Error
}
