package identity

import (
	"errors"
	"fmt"
)

// Codes reported by the auth and profile backends.
const (
	CodeInvalidCredential   = "auth/invalid-credential"
	CodeWrongPassword       = "auth/wrong-password"
	CodeUserNotFound        = "auth/user-not-found"
	CodeTooManyRequests     = "auth/too-many-requests"
	CodePopupBlocked        = "auth/popup-blocked"
	CodeAccountExists       = "auth/account-exists-with-different-credential"
	CodeEmailAlreadyInUse   = "auth/email-already-in-use"
	CodeInvalidEmail        = "auth/invalid-email"
	CodeOperationNotAllowed = "auth/operation-not-allowed"
	CodeWeakPassword        = "auth/weak-password"
	CodePermissionDenied    = "permission-denied"
)

const genericAuthMessage = "Something went wrong. Please try again."

var authMessages = map[string]string{
	CodeInvalidCredential:   "Invalid email or password.",
	CodeWrongPassword:       "Invalid email or password.",
	CodeUserNotFound:        "Invalid email or password.",
	CodeTooManyRequests:     "Too many failed attempts. Please try again later.",
	CodePopupBlocked:        "Sign-in popup was blocked. Please allow popups and try again.",
	CodeAccountExists:       "An account already exists with the same email but a different sign-in method.",
	CodeEmailAlreadyInUse:   "An account already exists with this email address.",
	CodeInvalidEmail:        "Invalid email address.",
	CodeOperationNotAllowed: "Email/password accounts are not enabled.",
	CodeWeakPassword:        "Password is too weak. Please use a stronger password.",
	CodePermissionDenied:    "Access denied. Please contact support.",
}

// AuthError is a failure reported by the identity backend.
type AuthError struct {
	Code string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Message returns the text shown to the user for this code.
func (e *AuthError) Message() string {
	return MessageForCode(e.Code)
}

// IsCredentialMismatch reports whether the code means wrong email or password.
func (e *AuthError) IsCredentialMismatch() bool {
	switch e.Code {
	case CodeInvalidCredential, CodeWrongPassword, CodeUserNotFound:
		return true
	}
	return false
}

// MessageForCode maps a backend code to a user-facing message.
// Unknown codes get a generic message.
func MessageForCode(code string) string {
	if msg, ok := authMessages[code]; ok {
		return msg
	}
	return genericAuthMessage
}

// UserMessage returns the user-facing message for err.
func UserMessage(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Message()
	}
	return genericAuthMessage
}
