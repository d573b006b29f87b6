package service

import (
	"context"
	"errors"
	"testing"
	"time"

	commoncrypto "github.com/weblogin/weblogin/internal/common/crypto"
	commonerrors "github.com/weblogin/weblogin/internal/common/errors"
	"github.com/weblogin/weblogin/internal/user/domain"
	userrepo "github.com/weblogin/weblogin/internal/user/repository"
)

func storedUser() domain.User {
	return domain.User{
		ID:           "user-1",
		Username:     "admin",
		PasswordHash: "$2a$12$hash",
		CreatedAt:    time.Now(),
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := &mockRepository{
		FindByUsernameFunc: func(ctx context.Context, username string) (domain.User, error) {
			if username != "admin" {
				t.Fatalf("unexpected username lookup: %s", username)
			}
			return storedUser(), nil
		},
	}
	hasher := &mockHasher{
		CompareFunc: func(hash string, password string) error {
			if hash != "$2a$12$hash" || password != "pass" {
				t.Fatalf("unexpected compare arguments: %s / %s", hash, password)
			}
			return nil
		},
	}

	svc := NewAuthService(repo, hasher, nil, nil, "admin", "pass", newTestLogger(t))

	user, err := svc.Authenticate(context.Background(), "admin", "pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("expected user-1, got %s", user.ID)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	repo := &mockRepository{
		FindByUsernameFunc: func(ctx context.Context, username string) (domain.User, error) {
			return domain.User{}, userrepo.ErrUserNotFound
		},
	}
	hasher := &mockHasher{
		CompareFunc: func(hash string, password string) error {
			t.Fatal("compare must not run for unknown users")
			return nil
		},
	}

	svc := NewAuthService(repo, hasher, nil, nil, "admin", "pass", newTestLogger(t))

	_, err := svc.Authenticate(context.Background(), "ghost", "pass")
	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := &mockRepository{
		FindByUsernameFunc: func(ctx context.Context, username string) (domain.User, error) {
			return storedUser(), nil
		},
	}
	hasher := &mockHasher{
		CompareFunc: func(hash string, password string) error {
			return commoncrypto.ErrPasswordMismatch
		},
	}

	svc := NewAuthService(repo, hasher, nil, nil, "admin", "pass", newTestLogger(t))

	_, err := svc.Authenticate(context.Background(), "admin", "wrong")
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}

func TestAuthenticateStoreFault(t *testing.T) {
	storeErr := errors.New("connection refused")
	repo := &mockRepository{
		FindByUsernameFunc: func(ctx context.Context, username string) (domain.User, error) {
			return domain.User{}, storeErr
		},
	}
	hasher := &mockHasher{
		CompareFunc: func(hash string, password string) error {
			t.Fatal("compare must not run on store faults")
			return nil
		},
	}

	svc := NewAuthService(repo, hasher, nil, nil, "admin", "pass", newTestLogger(t))

	_, err := svc.Authenticate(context.Background(), "admin", "pass")
	if !errors.Is(err, ErrStoreFault) {
		t.Fatalf("expected ErrStoreFault, got %v", err)
	}
	if errors.Is(err, ErrUnknownUser) || errors.Is(err, ErrWrongPassword) {
		t.Error("store fault must not be reported as a credential failure")
	}
	if !errors.Is(err, storeErr) {
		t.Error("expected the cause to be preserved")
	}
}

func TestAuthenticateCircuitOpen(t *testing.T) {
	repo := &mockRepository{
		FindByUsernameFunc: func(ctx context.Context, username string) (domain.User, error) {
			t.Fatal("repository must not be called when the circuit is open")
			return domain.User{}, nil
		},
	}
	hasher := &mockHasher{
		CompareFunc: func(hash string, password string) error { return nil },
	}

	breaker := openBreaker{err: commonerrors.ErrCircuitOpen}
	svc := NewAuthService(repo, hasher, nil, breaker, "admin", "pass", newTestLogger(t))

	_, err := svc.Authenticate(context.Background(), "admin", "pass")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestAuthenticateCompareFault(t *testing.T) {
	repo := &mockRepository{
		FindByUsernameFunc: func(ctx context.Context, username string) (domain.User, error) {
			return storedUser(), nil
		},
	}
	hasher := &mockHasher{
		CompareFunc: func(hash string, password string) error {
			return errors.New("malformed hash")
		},
	}

	svc := NewAuthService(repo, hasher, nil, nil, "admin", "pass", newTestLogger(t))

	_, err := svc.Authenticate(context.Background(), "admin", "pass")
	if !errors.Is(err, ErrStoreFault) {
		t.Fatalf("expected ErrStoreFault, got %v", err)
	}
}
