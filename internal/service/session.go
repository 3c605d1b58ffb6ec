package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkoroteev/auth-service/internal/model"
)

// sessionKeyPrefix namespaces session entries in Redis.
const sessionKeyPrefix = "session:"

// Session is the cached view of an authenticated user. It mirrors
// the public profile; the password hash is deliberately absent.
type Session struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IssuedAt time.Time `json:"issued_at"`
}

// SessionStore caches the profile of the most recent session per user in
// Redis. Entries live as long as the refresh token so that downstream
// services can resolve a subject without hitting the relational store.
// The store is optional: a nil client turns every operation into a no-op,
// matching how the rest of the service degrades when Redis is unreachable.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore wraps the given Redis client. client may be nil.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Save writes the session entry for the user, replacing any previous one.
func (s *SessionStore) Save(ctx context.Context, u model.User) error {
	if s == nil || s.client == nil {
		return nil
	}
	rec := Session{
		UserID:   u.ID,
		Email:    u.Email,
		Role:     u.Role,
		IssuedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+u.ID, data, s.ttl).Err()
}

// Get returns the cached session for the user, or (nil, nil) when no entry
// exists or the store is disabled.
func (s *SessionStore) Get(ctx context.Context, userID string) (*Session, error) {
	if s == nil || s.client == nil {
		return nil, nil
	}
	data, err := s.client.Get(ctx, sessionKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec Session
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete drops the session entry for the user.
func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Del(ctx, sessionKeyPrefix+userID).Err()
}
