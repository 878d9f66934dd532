package workruleerrors

import (
	"net/http"

	"timeclock/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)
	ErrInvalidWeekday = apperror.New(
		apperror.CodeInvalidInput,
		"Weekday must be between 0 (Monday) and 6 (Sunday)",
		http.StatusBadRequest,
	)
	ErrNotVisible = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to view this user's work rules",
		http.StatusForbidden,
	)
)
