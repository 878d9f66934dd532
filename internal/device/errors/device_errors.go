package deviceerrors

import (
	"net/http"

	"timeclock/internal/shared/apperror"
)

var (
	ErrDeviceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Device not found",
		http.StatusNotFound,
	)

	ErrDeviceExists = apperror.New(
		apperror.CodeConflict,
		"A device with this ID is already registered",
		http.StatusConflict,
	)

	ErrInvalidDeviceID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid device ID",
		http.StatusBadRequest,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)

	ErrDeviceInactive = apperror.New(
		apperror.CodeInvalidState,
		"Device is deactivated",
		http.StatusConflict,
	)
)
