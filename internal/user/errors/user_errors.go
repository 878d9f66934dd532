package usererrors

import (
	"net/http"

	"timeclock/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"A user with this email already exists",
		http.StatusConflict,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)

	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid role",
		http.StatusBadRequest,
	)

	ErrInvalidSupervisorID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid supervisor ID",
		http.StatusBadRequest,
	)

	ErrInvalidGroupID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid group ID",
		http.StatusBadRequest,
	)

	ErrCannotDeactivateSelf = apperror.New(
		apperror.CodeInvalidState,
		"You cannot deactivate your own account",
		http.StatusBadRequest,
	)

	ErrNoChanges = apperror.New(
		apperror.CodeInvalidInput,
		"No changes provided",
		http.StatusBadRequest,
	)
)
