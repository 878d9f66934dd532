package overviewerrors

import (
	"net/http"

	"timeclock/internal/shared/apperror"
)

var ErrInvalidDateRange = apperror.New(
	apperror.CodeInvalidInput,
	"Invalid date range, expected from and to as YYYY-MM-DD with from <= to",
	http.StatusBadRequest,
)
