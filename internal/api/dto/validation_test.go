package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/aarushkx/speak-free/pkg/util/errorutil"
)

func TestValidate_Register(t *testing.T) {
	require.NoError(t, Validate(RegisterRequest{Username: "alice_1", Email: "a@x.com", Password: "secret1"}))

	err := Validate(RegisterRequest{Username: "al!", Email: "nope", Password: "123"})
	require.Error(t, err)

	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "Username can not contain special characters", de.Details["username"])
	assert.Equal(t, "Invalid email address", de.Details["email"])
	assert.Equal(t, "Password must be at least 6 characters long", de.Details["password"])
}

func TestValidate_UsernameLength(t *testing.T) {
	err := Validate(UsernameQuery{Username: "ab"})
	require.Error(t, err)
	assert.Equal(t, "Username must be at least 3 characters long", apperrors.ToDomainError(err).Message)

	err = Validate(UsernameQuery{Username: "abcdefghijklmnopqrstu"})
	require.Error(t, err)
	assert.Equal(t, "Username can not be longer than 20 characters", apperrors.ToDomainError(err).Message)
}

func TestValidate_DeduplicatesSharedMessages(t *testing.T) {
	err := Validate(SendMessageRequest{})
	require.Error(t, err)
	assert.Equal(t, "Username and content are required", apperrors.ToDomainError(err).Message)
}

func TestValidate_AcceptMessagesAllowsFalse(t *testing.T) {
	off := false
	assert.NoError(t, Validate(AcceptMessagesRequest{AcceptMessages: &off}))
	assert.Error(t, Validate(AcceptMessagesRequest{}))
}
