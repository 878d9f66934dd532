package grouperrors

import (
	"net/http"

	"timeclock/internal/shared/apperror"
)

var (
	ErrGroupNotFound = apperror.New(
		apperror.CodeNotFound,
		"Group not found",
		http.StatusNotFound,
	)

	ErrNameTaken = apperror.New(
		apperror.CodeConflict,
		"A group with this name already exists",
		http.StatusConflict,
	)

	ErrInvalidGroupID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid group ID",
		http.StatusBadRequest,
	)
)
