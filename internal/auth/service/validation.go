package service

import (
	"regexp"
	"unicode"

	"github.com/weblogin/weblogin/internal/common/constants"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateNewCredentials guards the provisioning write path. Login submissions
// are not validated this way: an unknown shape simply fails authentication.
func validateNewCredentials(username, password string) error {
	if len(username) < constants.UsernameMinLength || len(username) > constants.UsernameMaxLength {
		return ErrValidation
	}

	if len(password) < constants.PasswordMinLength || len(password) > constants.PasswordMaxLength {
		return ErrValidation
	}

	if !isValidUsername(username) {
		return ErrValidation
	}

	return nil
}

func isValidUsername(value string) bool {
	if !usernameRegex.MatchString(value) {
		return false
	}

	if !unicode.IsLetter(rune(value[0])) && !unicode.IsDigit(rune(value[0])) {
		return false
	}

	if !unicode.IsLetter(rune(value[len(value)-1])) && !unicode.IsDigit(rune(value[len(value)-1])) {
		return false
	}

	return true
}
