// Package identity resolves the signed-in user from requests forwarded by the
// auth proxy. No credentials are checked here.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
)

var ErrNoUser = errors.New("no signed-in user")

// User is the identity asserted by the auth proxy.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// Name returns the display name, falling back to the local part of the email.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if i := strings.IndexByte(u.Email, '@'); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}

// Provider reports whether a request carries a user.
type Provider interface {
	CurrentUser(r *http.Request) (User, error)
}

// HeaderProvider reads the user from the X-User-* headers.
type HeaderProvider struct{}

func NewHeaderProvider() *HeaderProvider {
	return &HeaderProvider{}
}

func (HeaderProvider) CurrentUser(r *http.Request) (User, error) {
	uid := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if uid == "" {
		return User{}, ErrNoUser
	}
	return User{
		UID:         uid,
		Email:       strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
		DisplayName: strings.TrimSpace(r.Header.Get(HeaderUserName)),
	}, nil
}

type ctxKey struct{}

// WithUser stores u in ctx.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the user stored by WithUser.
func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(ctxKey{}).(User)
	return u, ok
}
