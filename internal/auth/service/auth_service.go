package service

import (
	"context"
	"errors"
	"time"

	commoncrypto "github.com/weblogin/weblogin/internal/common/crypto"
	commonerrors "github.com/weblogin/weblogin/internal/common/errors"
	"github.com/weblogin/weblogin/internal/common/logger"
	userdomain "github.com/weblogin/weblogin/internal/user/domain"
	userrepo "github.com/weblogin/weblogin/internal/user/repository"
)

// Breaker guards credential store calls so a failing backend is reported as
// unavailable instead of hammered.
type Breaker interface {
	Call(ctx context.Context, fn func(context.Context) error) error
}

type passthroughBreaker struct{}

func (passthroughBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type AuthService struct {
	repo          userrepo.Repository
	hasher        commoncrypto.PasswordHasher
	idGenerator   commoncrypto.IDGenerator
	breaker       Breaker
	now           func() time.Time
	log           *logger.Logger
	adminUsername string
	adminPassword string
}

func NewAuthService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	breaker Breaker,
	adminUsername string,
	adminPassword string,
	log *logger.Logger,
) *AuthService {
	if breaker == nil {
		breaker = passthroughBreaker{}
	}
	return &AuthService{
		repo:          repo,
		hasher:        hasher,
		idGenerator:   idGenerator,
		breaker:       breaker,
		now:           time.Now,
		log:           log,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
	}
}

// Authenticate resolves a username/password pair to the stored user. The
// lookup is exact and case-sensitive. Store faults are propagated as faults,
// never disguised as credential failures.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (userdomain.User, error) {
	incrementLoginAttempts()
	s.log.WithFields(ctx, logger.Fields{
		"username": username,
		"action":   "login_attempt",
	}).Info("login attempt")

	var user userdomain.User
	var notFound bool

	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		u, err := s.repo.FindByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, userrepo.ErrUserNotFound) {
				notFound = true
				return nil
			}
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		incrementLoginFailure("store_error")
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		if errors.Is(err, commonerrors.ErrCircuitOpen) {
			return userdomain.User{}, ErrServiceUnavailable.WithCause(err)
		}
		return userdomain.User{}, ErrStoreFault.WithCause(err)
	}

	if notFound {
		incrementLoginFailure("unknown_user")
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "login_user_not_found",
		}).Warn("login failed: not found")
		return userdomain.User{}, ErrUnknownUser
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, commoncrypto.ErrPasswordMismatch) {
			incrementLoginFailure("wrong_password")
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "login_invalid_password",
			}).Warn("login failed: invalid password")
			return userdomain.User{}, ErrWrongPassword
		}
		incrementLoginFailure("store_error")
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "login_compare_failed",
		}).Errorf("login failed: hash comparison error: %v", err)
		return userdomain.User{}, ErrStoreFault.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")

	return user, nil
}
