package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkoroteev/auth-service/internal/auth"
	"github.com/dkoroteev/auth-service/internal/model"
	"github.com/dkoroteev/auth-service/internal/repository"
)

const testSecret = "test-secret-key"

// fakeStore is an in-memory UserStore with the same sentinel behavior as
// the MySQL repository.
type fakeStore struct {
	mu   sync.Mutex
	byID map[string]model.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: make(map[string]model.User)}
}

func (f *fakeStore) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeStore) GetByID(_ context.Context, id string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) delete(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
}

func (f *fakeStore) setRole(id, role string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID[id]
	u.Role = role
	f.byID[id] = u
}

func newTestIdentity(store *fakeStore) *Identity {
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	return NewIdentity(testSecret, 3600, 604800, hasher, store, nil, nil)
}

func TestRegister_IssuesDistinctTokenPair(t *testing.T) {
	t.Parallel()

	svc := newTestIdentity(newFakeStore())
	res, err := svc.Register(context.Background(), "Ann", "ann@x.com", "p@ss1234", nil)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if res.AccessToken == res.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}
	if res.User.Role != model.RoleUser {
		t.Fatalf("new account role = %q, want %q", res.User.Role, model.RoleUser)
	}
	if res.User.ID == "" {
		t.Fatal("no identifier assigned")
	}
	if res.User.Age != nil {
		t.Fatalf("age = %v, want nil", *res.User.Age)
	}

	access, err := auth.VerifyToken(res.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("access token does not verify: %v", err)
	}
	if access.TokenType != auth.TokenTypeAccess || access.UserID != res.User.ID || access.Email != "ann@x.com" {
		t.Fatalf("unexpected access claims: %+v", access)
	}
	refresh, err := auth.VerifyToken(res.RefreshToken, testSecret)
	if err != nil {
		t.Fatalf("refresh token does not verify: %v", err)
	}
	if refresh.TokenType != auth.TokenTypeRefresh {
		t.Fatalf("refresh typ = %q", refresh.TokenType)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newTestIdentity(newFakeStore())
	if _, err := svc.Register(context.Background(), "Ann", "ann@x.com", "p@ss1234", nil); err != nil {
		t.Fatalf("first Register error: %v", err)
	}
	_, err := svc.Register(context.Background(), "Ann2", "ann@x.com", "other", nil)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestIdentity(store)
	reg, err := svc.Register(context.Background(), "Ann", "ann@x.com", "p@ss1234", nil)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	res, err := svc.Login(context.Background(), "ann@x.com", "p@ss1234")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if res.User.ID != reg.User.ID {
		t.Fatalf("login resolved wrong user: got %q want %q", res.User.ID, reg.User.ID)
	}
}

// Unknown email and wrong password must fail identically so a caller
// cannot probe which accounts exist.
func TestLogin_FailuresIndistinguishable(t *testing.T) {
	t.Parallel()

	svc := newTestIdentity(newFakeStore())
	if _, err := svc.Register(context.Background(), "Ann", "ann@x.com", "p@ss1234", nil); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, errWrongPass := svc.Login(context.Background(), "ann@x.com", "wrong")
	_, errNoUser := svc.Login(context.Background(), "nobody@x.com", "p@ss1234")

	if !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPass)
	}
	if !errors.Is(errNoUser, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", errNoUser)
	}
}

func TestRefresh_RotatesPair(t *testing.T) {
	t.Parallel()

	svc := newTestIdentity(newFakeStore())
	reg, err := svc.Register(context.Background(), "Ann", "ann@x.com", "p@ss1234", nil)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	res, err := svc.Refresh(context.Background(), reg.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if res.User.ID != reg.User.ID {
		t.Fatalf("refresh resolved wrong user: got %q want %q", res.User.ID, reg.User.ID)
	}
	if _, err := auth.VerifyToken(res.AccessToken, testSecret); err != nil {
		t.Fatalf("refreshed access token does not verify: %v", err)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	t.Parallel()

	svc := newTestIdentity(newFakeStore())
	reg, err := svc.Register(context.Background(), "Ann", "ann@x.com", "p@ss1234", nil)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, err = svc.Refresh(context.Background(), reg.AccessToken)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for access-typed token, got %v", err)
	}
}

func TestRefresh_RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestIdentity(store)
	reg, err := svc.Register(context.Background(), "Ann", "ann@x.com", "p@ss1234", nil)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	expired, err := auth.IssueToken(reg.User.ID, reg.User.Email, reg.User.Role, auth.TokenTypeRefresh, testSecret, -60)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	_, err = svc.Refresh(context.Background(), expired)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for expired token, got %v", err)
	}
}

func TestRefresh_RejectsDeletedSubject(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestIdentity(store)
	reg, err := svc.Register(context.Background(), "Ann", "ann@x.com", "p@ss1234", nil)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	store.delete(reg.User.ID)
	_, err = svc.Refresh(context.Background(), reg.RefreshToken)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for deleted subject, got %v", err)
	}
}

// Claims are re-derived from the current record on refresh, never copied
// from the old token.
func TestRefresh_PicksUpRoleChange(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestIdentity(store)
	reg, err := svc.Register(context.Background(), "Ann", "ann@x.com", "p@ss1234", nil)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	store.setRole(reg.User.ID, model.RoleAdmin)
	res, err := svc.Refresh(context.Background(), reg.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	claims, err := auth.VerifyToken(res.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if claims.Role != model.RoleAdmin {
		t.Fatalf("refreshed role = %q, want %q", claims.Role, model.RoleAdmin)
	}
}
