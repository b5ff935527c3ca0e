package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/finboard/auth-service/internal/core/domain"
)

// Persisted slot keys. The session slot holds JSON {user, isAuthenticated};
// the token slot holds the raw bearer string. An absent key means
// unauthenticated / no credential.
const (
	sessionSlotKey = "auth-storage"
	tokenSlotKey   = "auth_token"
)

// SlotStore implements the session and token persisted slots on Redis,
// giving the client core durability across process restarts.
type SlotStore struct {
	client *redis.Client
}

func NewSlotStore(client *redis.Client) *SlotStore {
	return &SlotStore{client: client}
}

func (s *SlotStore) SaveSession(ctx context.Context, record domain.Session) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode session slot: %w", err)
	}
	if err := s.client.Set(ctx, sessionSlotKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("save session slot: %w", err)
	}
	return nil
}

func (s *SlotStore) LoadSession(ctx context.Context) (domain.Session, bool, error) {
	payload, err := s.client.Get(ctx, sessionSlotKey).Bytes()
	if err == redis.Nil {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("load session slot: %w", err)
	}

	var record domain.Session
	if err := json.Unmarshal(payload, &record); err != nil {
		return domain.Session{}, false, fmt.Errorf("decode session slot: %w", err)
	}
	return record, true, nil
}

func (s *SlotStore) DeleteSession(ctx context.Context) error {
	if err := s.client.Del(ctx, sessionSlotKey).Err(); err != nil {
		return fmt.Errorf("delete session slot: %w", err)
	}
	return nil
}

func (s *SlotStore) SaveToken(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, tokenSlotKey, token, 0).Err(); err != nil {
		return fmt.Errorf("save token slot: %w", err)
	}
	return nil
}

func (s *SlotStore) LoadToken(ctx context.Context) (string, bool, error) {
	token, err := s.client.Get(ctx, tokenSlotKey).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load token slot: %w", err)
	}
	return token, true, nil
}

func (s *SlotStore) DeleteToken(ctx context.Context) error {
	if err := s.client.Del(ctx, tokenSlotKey).Err(); err != nil {
		return fmt.Errorf("delete token slot: %w", err)
	}
	return nil
}
