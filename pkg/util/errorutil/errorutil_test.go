package errorutil

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("USER_NOT_FOUND", "User")
	assert.Equal(t, "User not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)

	other := NewNotFound("MESSAGE_NOT_FOUND", "Message")
	assert.False(t, errors.Is(err, other))
	assert.True(t, errors.Is(err.Wrap(errors.New("cause")), err))
}

func TestNewForbidden(t *testing.T) {
	err := NewForbidden("NOT_ACCEPTING", "User is not accepting messages")
	assert.Equal(t, http.StatusForbidden, err.HTTPStatus)
	assert.Equal(t, "NOT_ACCEPTING", ToDomainError(err).Code)
}

func TestToDomainError_WrapsUnknown(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	converted := ToDomainError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
	assert.Equal(t, "internal server error", converted.Message)
}
