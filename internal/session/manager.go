package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	commoncrypto "github.com/weblogin/weblogin/internal/common/crypto"
	"github.com/weblogin/weblogin/internal/common/logger"
	"github.com/weblogin/weblogin/internal/observability/metrics"
	userdomain "github.com/weblogin/weblogin/internal/user/domain"
	userrepo "github.com/weblogin/weblogin/internal/user/repository"
)

type Manager struct {
	store  Store
	users  userrepo.Repository
	tokens commoncrypto.TokenGenerator
	ttl    time.Duration
	log    *logger.Logger
}

func NewManager(
	store Store,
	users userrepo.Repository,
	tokens commoncrypto.TokenGenerator,
	ttl time.Duration,
	log *logger.Logger,
) *Manager {
	return &Manager{
		store:  store,
		users:  users,
		tokens: tokens,
		ttl:    ttl,
		log:    log,
	}
}

// Login issues a fresh opaque token mapped to the user's id.
func (m *Manager) Login(ctx context.Context, user userdomain.User) (string, error) {
	token, err := m.tokens.NewToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	if err := m.store.Set(ctx, token, string(user.ID), m.ttl); err != nil {
		return "", err
	}

	metrics.SessionsEstablished.Inc()
	m.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "session_established",
	}).Info("session established")

	return token, nil
}

// Logout destroys the token mapping. Logging out an unknown or empty token is
// a no-op, not an error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := m.store.Delete(ctx, token); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}

	metrics.SessionsDestroyed.Inc()
	m.log.WithFields(ctx, logger.Fields{
		"action": "session_destroyed",
	}).Info("session destroyed")

	return nil
}

// CurrentUser rehydrates the full identity behind a token. A token whose user
// no longer exists resolves to anonymous and the stale mapping is dropped.
// The returned error reports session store faults only; anonymous outcomes
// are (zero user, false, nil).
func (m *Manager) CurrentUser(ctx context.Context, token string) (userdomain.User, bool, error) {
	if token == "" {
		metrics.SessionLookupsTotal.WithLabelValues("miss").Inc()
		return userdomain.User{}, false, nil
	}

	userID, err := m.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			metrics.SessionLookupsTotal.WithLabelValues("miss").Inc()
			return userdomain.User{}, false, nil
		}
		metrics.SessionLookupsTotal.WithLabelValues("error").Inc()
		return userdomain.User{}, false, err
	}

	user, err := m.users.FindByID(ctx, userdomain.ID(userID))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			metrics.SessionLookupsTotal.WithLabelValues("stale").Inc()
			m.log.WithFields(ctx, logger.Fields{
				"user_id": userID,
				"action":  "session_stale",
			}).Warn("session references deleted user")
			if delErr := m.store.Delete(ctx, token); delErr != nil {
				m.log.Errorf("failed to drop stale session: %v", delErr)
			}
			return userdomain.User{}, false, nil
		}
		metrics.SessionLookupsTotal.WithLabelValues("error").Inc()
		return userdomain.User{}, false, err
	}

	if err := m.store.Refresh(ctx, token, m.ttl); err != nil && !errors.Is(err, ErrSessionNotFound) {
		m.log.Warnf("failed to refresh session ttl: %v", err)
	}

	metrics.SessionLookupsTotal.WithLabelValues("hit").Inc()
	return user, true, nil
}

// IsAuthenticated reports whether the token maps to a still-valid user.
func (m *Manager) IsAuthenticated(ctx context.Context, token string) (bool, error) {
	_, ok, err := m.CurrentUser(ctx, token)
	return ok, err
}
