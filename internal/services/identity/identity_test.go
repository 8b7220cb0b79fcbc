package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderProvider(t *testing.T) {
	p := NewHeaderProvider()

	r := httptest.NewRequest("GET", "/cart", nil)
	_, err := p.CurrentUser(r)
	assert.ErrorIs(t, err, ErrNoUser)

	r.Header.Set(HeaderUserID, " uid-1 ")
	r.Header.Set(HeaderUserEmail, "asha@example.com")
	u, err := p.CurrentUser(r)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", u.UID)
	assert.Equal(t, "asha", u.Name())

	r.Header.Set(HeaderUserName, "Asha K")
	u, err = p.CurrentUser(r)
	require.NoError(t, err)
	assert.Equal(t, "Asha K", u.Name())
}

func TestUserContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), User{UID: "u1"})
	u, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", u.UID)
}

func TestMessageForCode(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{CodeInvalidCredential, "Invalid email or password."},
		{CodeWrongPassword, "Invalid email or password."},
		{CodeUserNotFound, "Invalid email or password."},
		{CodeTooManyRequests, "Too many failed attempts. Please try again later."},
		{CodeEmailAlreadyInUse, "An account already exists with this email address."},
		{CodeInvalidEmail, "Invalid email address."},
		{CodeOperationNotAllowed, "Email/password accounts are not enabled."},
		{CodeWeakPassword, "Password is too weak. Please use a stronger password."},
		{CodePermissionDenied, "Access denied. Please contact support."},
		{"auth/network-request-failed", genericAuthMessage},
		{"", genericAuthMessage},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, MessageForCode(tt.code))
		})
	}

	for _, code := range []string{CodePopupBlocked, CodeAccountExists} {
		assert.NotEqual(t, genericAuthMessage, MessageForCode(code))
	}
}

func TestAuthError(t *testing.T) {
	cause := errors.New("rejected")
	err := fmt.Errorf("sign in: %w", &AuthError{Code: CodeWrongPassword, Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Invalid email or password.", UserMessage(err))

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.True(t, authErr.IsCredentialMismatch())
	assert.False(t, (&AuthError{Code: CodeTooManyRequests}).IsCredentialMismatch())

	assert.Equal(t, genericAuthMessage, UserMessage(errors.New("plain")))
}
