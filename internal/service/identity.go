// Package service contains the identity service, which orchestrates
// registration, login and token refresh on top of the password hasher, the
// token codec and the external user store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/dkoroteev/auth-service/internal/auth"
	"github.com/dkoroteev/auth-service/internal/model"
	"github.com/dkoroteev/auth-service/internal/repository"
)

// ErrInvalidCredentials is the single outward failure for every bad-login
// shape: unknown email, wrong password, unverifiable stored hash, invalid
// or expired refresh token, deleted subject. Collapsing them prevents the
// response from revealing which part failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken is returned by Register when the store reports a unique
// email conflict.
var ErrEmailTaken = errors.New("email already registered")

// UserStore is the slice of the external relational store the identity
// service needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

// AuthEventRecorder receives best-effort audit notifications about
// successful auth operations. Implementations must tolerate being called
// concurrently.
type AuthEventRecorder interface {
	Record(ctx context.Context, event, userID, email string)
}

// AuthResult is returned by every operation that establishes a session:
// a fresh access/refresh pair plus the credential record the claims were
// derived from. The record's password hash never leaves the handler layer.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         model.User
}

// Identity bundles the dependencies of the credential flows. All
// configuration is passed in at construction; nothing is read from
// process-wide state.
type Identity struct {
	secret     string
	accessTTL  int64 // seconds
	refreshTTL int64 // seconds
	hasher     *auth.PasswordHasher
	users      UserStore
	sessions   *SessionStore     // optional
	audit      AuthEventRecorder // optional
}

// NewIdentity constructs the identity service. sessions and audit may be
// nil; both are best-effort side channels.
func NewIdentity(secret string, accessTTL, refreshTTL int64, hasher *auth.PasswordHasher, users UserStore, sessions *SessionStore, audit AuthEventRecorder) *Identity {
	return &Identity{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		hasher:     hasher,
		users:      users,
		sessions:   sessions,
		audit:      audit,
	}
}

// Create hashes the password and persists a new user record with a fresh
// UUID and the default non-privileged role. It issues no tokens; Register
// builds on it for the self-service flow and the admin user-creation
// endpoint uses it directly. On any failure no partial state is observable:
// persistence only happens after hashing succeeds, and a failed insert
// leaves no row behind.
func (s *Identity) Create(ctx context.Context, name, email, password string, age *int) (model.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.User{}, fmt.Errorf("register: %w", err)
	}
	now := time.Now().UTC()
	u := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         model.RoleUser,
		PasswordHash: hash,
		Age:          age,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("persist user: %w", err)
	}
	return u, nil
}

// Register creates the account and immediately establishes a session for
// it. Tokens are only issued once the record is durably persisted.
func (s *Identity) Register(ctx context.Context, name, email, password string, age *int) (AuthResult, error) {
	u, err := s.Create(ctx, name, email, password, age)
	if err != nil {
		return AuthResult{}, err
	}
	return s.establishSession(ctx, u, "register")
}

// Login verifies the credentials against the stored record and issues a
// fresh token pair. Unknown email and wrong password fail identically.
// Claims are derived from the stored identity, never from caller input.
func (s *Identity) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("load user: %w", err)
	}
	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil || !ok {
		// An unverifiable stored hash is logged but surfaces exactly like
		// a wrong password.
		if err != nil {
			log.Printf("identity: verify password for %s: %v", u.ID, err)
		}
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.establishSession(ctx, u, "login")
}

// Refresh exchanges a valid refresh token for a fresh pair. The subject is
// re-fetched so the new claims reflect the current record; role or email
// changes since the original issuance are picked up here and a deleted
// subject invalidates the token. Access-typed tokens are rejected.
func (s *Identity) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	claims, err := auth.VerifyToken(refreshToken, s.secret)
	if err != nil {
		log.Printf("identity: refresh rejected: %v", err)
		return AuthResult{}, ErrInvalidCredentials
	}
	if claims.TokenType != auth.TokenTypeRefresh {
		log.Printf("identity: refresh rejected: token type %q", claims.TokenType)
		return AuthResult{}, ErrInvalidCredentials
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("load user: %w", err)
	}
	return s.establishSession(ctx, u, "refresh")
}

// establishSession issues the access/refresh pair for the given record and
// fans out the best-effort side effects (session cache, audit trail).
func (s *Identity) establishSession(ctx context.Context, u model.User, event string) (AuthResult, error) {
	access, err := auth.IssueToken(u.ID, u.Email, u.Role, auth.TokenTypeAccess, s.secret, s.accessTTL)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := auth.IssueToken(u.ID, u.Email, u.Role, auth.TokenTypeRefresh, s.secret, s.refreshTTL)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue refresh token: %w", err)
	}
	if s.sessions != nil {
		if err := s.sessions.Save(ctx, u); err != nil {
			log.Printf("identity: cache session for %s: %v", u.ID, err)
		}
	}
	if s.audit != nil {
		s.audit.Record(ctx, event, u.ID, u.Email)
	}
	return AuthResult{AccessToken: access, RefreshToken: refresh, User: u}, nil
}
