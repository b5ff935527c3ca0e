package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/finboard/auth-service/internal/core/ports"
)

// TokenHolder is the process-wide credential cache. At most one credential is
// live at a time; Set supersedes the prior value atomically, so the transport
// sees either the old token or the new one, never a partial write.
//
// Get rehydrates from the persisted slot on a cache miss, which lets a fresh
// process reuse a still-valid credential without re-authenticating. There is
// no expiry logic: a token lives until Clear or until the server rejects it.
type TokenHolder struct {
	mu     sync.Mutex
	cached string
	loaded bool // cache is authoritative; skip the persisted slot

	persister ports.TokenPersister
	async     ports.AsyncWriter
	log       zerolog.Logger
}

func NewTokenHolder(persister ports.TokenPersister, async ports.AsyncWriter, log zerolog.Logger) *TokenHolder {
	if async == nil {
		async = inlineWriter{}
	}
	return &TokenHolder{persister: persister, async: async, log: log}
}

// Set stores token in the cache and mirrors it to the persisted slot.
func (h *TokenHolder) Set(ctx context.Context, token string) {
	h.mu.Lock()
	h.cached = token
	h.loaded = true
	h.mu.Unlock()

	h.async.Enqueue("token.save", func(ctx context.Context) error {
		return h.persister.SaveToken(ctx, token)
	})
}

// Get returns the live credential, consulting the persisted slot once when
// the cache is cold.
func (h *TokenHolder) Get(ctx context.Context) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.loaded {
		h.loaded = true
		token, ok, err := h.persister.LoadToken(ctx)
		if err != nil {
			h.log.Warn().Err(err).Msg("token rehydration failed")
		} else if ok {
			h.cached = token
		}
	}
	return h.cached, h.cached != ""
}

// Clear empties the cache and erases the persisted slot.
func (h *TokenHolder) Clear(ctx context.Context) {
	h.mu.Lock()
	h.cached = ""
	h.loaded = true
	h.mu.Unlock()

	h.async.Enqueue("token.delete", func(ctx context.Context) error {
		return h.persister.DeleteToken(ctx)
	})
}
