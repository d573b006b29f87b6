package service

import (
	"context"
	"testing"

	"github.com/weblogin/weblogin/internal/common/logger"
	"github.com/weblogin/weblogin/internal/user/domain"
)

type mockRepository struct {
	CreateFunc           func(ctx context.Context, user domain.User) error
	FindByUsernameFunc   func(ctx context.Context, username string) (domain.User, error)
	FindByIDFunc         func(ctx context.Context, id domain.ID) (domain.User, error)
	ExistsByUsernameFunc func(ctx context.Context, username string) (bool, error)
}

func (m *mockRepository) Create(ctx context.Context, user domain.User) error {
	return m.CreateFunc(ctx, user)
}

func (m *mockRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return m.FindByUsernameFunc(ctx, username)
}

func (m *mockRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return m.ExistsByUsernameFunc(ctx, username)
}

type mockHasher struct {
	HashFunc    func(password string) (string, error)
	CompareFunc func(hash string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	return m.HashFunc(password)
}

func (m *mockHasher) Compare(hash string, password string) error {
	return m.CompareFunc(hash, password)
}

type mockIDGenerator struct {
	NewIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	return m.NewIDFunc()
}

type openBreaker struct {
	err error
}

func (b openBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	return b.err
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("", "test", "CRITICAL")
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return log
}
