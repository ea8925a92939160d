package service

import (
	"errors"
	"net/http"

	apperrors "github.com/aarushkx/speak-free/pkg/util/errorutil"

	"github.com/aarushkx/speak-free/internal/repository"
)

// Named business errors. Messages are shown to end users as-is.
var (
	ErrUsernameTaken = apperrors.NewBadRequest("USERNAME_TAKEN", "Username is already taken")
	ErrEmailTaken    = apperrors.NewBadRequest("EMAIL_TAKEN", "User already exists with this e-mail")

	ErrCodeExpiredAndInvalid = apperrors.NewBadRequest("CODE_EXPIRED_AND_INVALID",
		"Verification code has expired and is invalid. Please request a new one.")
	ErrInvalidCode = apperrors.NewDomainError("INVALID_CODE", "Invalid verification code", http.StatusUnauthorized, nil)
	ErrCodeExpired = apperrors.NewBadRequest("CODE_EXPIRED", "Verification code has expired. Please request a new one.")

	ErrNoSuchUser        = apperrors.NewDomainError("NO_SUCH_USER", "No user found with this email", http.StatusUnauthorized, nil)
	ErrNotVerified       = apperrors.NewDomainError("NOT_VERIFIED", "Your account has not been verified yet", http.StatusUnauthorized, nil)
	ErrIncorrectPassword = apperrors.NewDomainError("INCORRECT_PASSWORD", "Incorrect password", http.StatusUnauthorized, nil)

	ErrUserNotFound    = apperrors.NewNotFound("USER_NOT_FOUND", "User")
	ErrNotAccepting    = apperrors.NewForbidden("NOT_ACCEPTING", "User is not accepting messages")
	ErrMessageNotFound = apperrors.NewNotFound("MESSAGE_NOT_FOUND", "Message")
	ErrNoMessages      = apperrors.NewDomainError("NO_MESSAGES", "No messages found or already empty", http.StatusNotFound, nil)
	ErrMissingFields   = apperrors.NewBadRequest("MISSING_FIELDS", "Username and content are required")

	ErrSuggestionGenerationFailed = apperrors.NewDomainError("SUGGESTION_GENERATION_FAILED",
		"Failed to generate suggestions", http.StatusOK, nil)
	ErrVerificationEmailFailed = apperrors.NewDomainError("VERIFICATION_EMAIL_FAILED",
		"Failed to send verification e-mail.", http.StatusInternalServerError, nil)
)

// errToggleTargetMissing keeps the historical wording of the toggle route.
var errToggleTargetMissing = apperrors.NewDomainError("USER_NOT_FOUND",
	"Failed to update message acceptance status. User not found", http.StatusNotFound, nil)

// mapRepoError turns repository failures into domain errors; unknown causes become 500.
func mapRepoError(err error, notFound *apperrors.DomainError) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrNotAccepting):
		return ErrNotAccepting
	case errors.Is(err, repository.ErrMessageNotFound):
		return ErrMessageNotFound
	case errors.Is(err, repository.ErrNoMessages):
		return ErrNoMessages
	default:
		return apperrors.NewInternalError(err)
	}
}
