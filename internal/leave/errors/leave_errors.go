package leaveerrors

import (
	"net/http"

	"timeclock/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)

	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave request ID",
		http.StatusBadRequest,
	)

	ErrInvalidType = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown leave type",
		http.StatusBadRequest,
	)

	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"date_from must not be after date_to",
		http.StatusBadRequest,
	)

	ErrOverlap = apperror.New(
		apperror.CodeConflict,
		"The requested dates overlap an existing leave request",
		http.StatusConflict,
	)

	ErrAlreadyReviewed = apperror.New(
		apperror.CodeInvalidState,
		"This leave request has already been reviewed",
		http.StatusConflict,
	)

	ErrNotReviewable = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to review this leave request",
		http.StatusForbidden,
	)

	ErrNotDeletable = apperror.New(
		apperror.CodeInvalidState,
		"Only your own pending requests can be withdrawn",
		http.StatusConflict,
	)

	ErrNotVisible = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to view this leave request",
		http.StatusForbidden,
	)
)
