package service

import (
	commonerrors "github.com/weblogin/weblogin/internal/common/errors"
)

// Failure reasons are distinguished internally for logs and metrics; the web
// layer collapses them into one generic message before showing the user.
var (
	ErrUnknownUser = commonerrors.NewDomainError(
		"UNKNOWN_USER",
		commonerrors.CategoryUnauthorized,
		401,
		"Incorrect Username",
	)

	ErrWrongPassword = commonerrors.NewDomainError(
		"WRONG_PASSWORD",
		commonerrors.CategoryUnauthorized,
		401,
		"Incorrect Password",
	)

	ErrDuplicateUser = commonerrors.NewDomainError(
		"DUPLICATE_USER",
		commonerrors.CategoryConflict,
		409,
		"username already exists",
	)

	ErrStoreFault = commonerrors.NewDomainError(
		"STORE_ERROR",
		commonerrors.CategoryInternal,
		500,
		"credential store failure",
	)

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		400,
		"validation failed",
	)

	ErrServiceUnavailable = commonerrors.NewDomainError(
		"SERVICE_UNAVAILABLE",
		commonerrors.CategoryExternal,
		503,
		"service temporarily unavailable",
	)
)
