// Package transport wraps outbound HTTP traffic to the dashboard backend.
// It attaches the bearer credential on the way out and watches for
// authorization failures on the way back.
package transport

import (
	"net/http"

	"github.com/finboard/auth-service/internal/core/ports"
)

// AuthTransport is an http.RoundTripper that injects
// "Authorization: Bearer <token>" when the token holder has a credential.
// A missing token produces an unauthenticated request; the backend decides.
//
// Any 401 response clears the token holder and fires OnAuthorizationLost,
// regardless of which endpoint produced it. The response itself still flows
// back to the caller, as do all non-401 statuses. The transport never retries
// and never performs navigation; reacting to a lost authorization is the
// subscriber's job.
type AuthTransport struct {
	Base   http.RoundTripper
	Tokens ports.TokenHolder

	// OnAuthorizationLost is invoked after the token holder is cleared on a
	// 401. Optional.
	OnAuthorizationLost func()
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	out := req.Clone(req.Context())
	if token, ok := t.Tokens.Get(req.Context()); ok {
		out.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.Tokens.Clear(req.Context())
		if t.OnAuthorizationLost != nil {
			t.OnAuthorizationLost()
		}
	}
	return resp, nil
}
