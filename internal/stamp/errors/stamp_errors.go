package stamperrors

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

	ErrNotVisible = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to view this user's time records",
		http.StatusForbidden,
	)

	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date range, expected from and to as YYYY-MM-DD with from <= to",
		http.StatusBadRequest,
	)
)
