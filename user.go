package gatekeeper

import (
	"context"

	"gopkg.in/square/go-jose.v2/jwt"
)

// User is the identity carried by a verified token.
type User struct {
	Username string           `json:"username"`
	IsAdmin  bool             `json:"isAdmin"`
	IssuedAt *jwt.NumericDate `json:"iat,omitempty"`
}

type userContextKey struct{}

func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the user stored by the extractor, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok && user != nil
}
