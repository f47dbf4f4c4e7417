package gatekeeper

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

var ErrUnauthorized = errors.New("Unauthorized")

// UnauthorizedError is returned by every guard that rejects a request.
type UnauthorizedError struct {
	Message string
}

func Unauthorized(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

func (e *UnauthorizedError) Error() string {
	if e.Message == "" {
		return ErrUnauthorized.Error()
	}
	return e.Message
}

func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}

func (e *UnauthorizedError) StatusCode() int {
	return http.StatusUnauthorized
}

// Step is a single check in a request pipeline. A non-nil error halts the
// pipeline.
type Step func(r *http.Request) error

// EnsureLoggedIn requires a user with a username.
func EnsureLoggedIn(r *http.Request) error {
	user, ok := UserFromContext(r.Context())
	if !ok || user.Username == "" {
		return Unauthorized("")
	}
	return nil
}

// EnsureIsAdmin requires a user flagged as admin.
func EnsureIsAdmin(r *http.Request) error {
	user, ok := UserFromContext(r.Context())
	if !ok || !user.IsAdmin {
		return Unauthorized("")
	}
	return nil
}

// EnsureIsAdminOrUser requires an admin, or the user named by the
// "username" route parameter.
func EnsureIsAdminOrUser(r *http.Request) error {
	return EnsureIsAdminOrParam("username")(r)
}

// EnsureIsAdminOrParam requires an admin, or a user whose username equals
// the route parameter key. The comparison is exact.
func EnsureIsAdminOrParam(key string) Step {
	return func(r *http.Request) error {
		user, ok := UserFromContext(r.Context())
		if !ok {
			return Unauthorized("")
		}

		if user.IsAdmin {
			return nil
		}

		if user.Username != "" && user.Username == chi.URLParam(r, key) {
			return nil
		}

		return Unauthorized("")
	}
}
