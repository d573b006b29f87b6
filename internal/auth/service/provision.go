package service

import (
	"context"
	"errors"

	commonerrors "github.com/weblogin/weblogin/internal/common/errors"
	"github.com/weblogin/weblogin/internal/common/logger"
	userdomain "github.com/weblogin/weblogin/internal/user/domain"
)

// EnsureDefaultAdmin creates the default administrative account if it does
// not exist yet. The check-then-create window is closed by the store's
// uniqueness constraint: losing the race surfaces as ErrDuplicateUser, never
// as a second admin row.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) error {
	exists, err := s.repo.ExistsByUsername(ctx, s.adminUsername)
	if err != nil {
		incrementProvisionRun("store_error")
		s.log.WithFields(ctx, logger.Fields{
			"username": s.adminUsername,
			"action":   "provision_check_failed",
		}).Errorf("provisioning failed: %v", err)
		return ErrStoreFault.WithCause(err)
	}

	if exists {
		incrementProvisionRun("exists")
		s.log.WithFields(ctx, logger.Fields{
			"username": s.adminUsername,
			"action":   "provision_noop",
		}).Info("default admin already provisioned")
		return nil
	}

	if err := validateNewCredentials(s.adminUsername, s.adminPassword); err != nil {
		incrementProvisionRun("invalid")
		return err
	}

	hash, err := s.hasher.Hash(s.adminPassword)
	if err != nil {
		incrementProvisionRun("hash_error")
		s.log.WithFields(ctx, logger.Fields{
			"username": s.adminUsername,
			"action":   "provision_hash_failed",
		}).Errorf("provisioning failed: password hash error: %v", err)
		return ErrStoreFault.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		incrementProvisionRun("id_error")
		return ErrStoreFault.WithCause(err)
	}

	user, err := userdomain.New(id, s.adminUsername, hash, s.now())
	if err != nil {
		incrementProvisionRun("invalid")
		return ErrValidation.WithCause(err)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, commonerrors.ErrUsernameAlreadyExists) {
			incrementProvisionRun("duplicate")
			s.log.WithFields(ctx, logger.Fields{
				"username": s.adminUsername,
				"action":   "provision_lost_race",
			}).Warn("default admin created concurrently")
			return ErrDuplicateUser.WithCause(err)
		}
		incrementProvisionRun("store_error")
		s.log.WithFields(ctx, logger.Fields{
			"username": s.adminUsername,
			"action":   "provision_create_failed",
		}).Errorf("provisioning failed: %v", err)
		return ErrStoreFault.WithCause(err)
	}

	incrementProvisionRun("created")
	s.log.WithFields(ctx, logger.Fields{
		"username": s.adminUsername,
		"user_id":  string(user.ID),
		"action":   "provision_success",
	}).Info("default admin provisioned")

	return nil
}
