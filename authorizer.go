package gatekeeper

//go:generate mockgen -destination=mocks/mock_gatekeeper.go -package=mocks github.com/reverted/gatekeeper Notary,Authenticator
//go:generate mockgen -destination=mocks/mock_handler.go -package=mocks net/http Handler

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrMissingAuthorizationHeader = errors.New("Missing 'Authorization' header")
	ErrInvalidAuthorizationHeader = errors.New("Invalid 'Authorization' header")
)

type Notary interface {
	Notarize(string) (*User, error)
}

type opt func(*authorizer)

func WithNotary(notary Notary) opt {
	return func(a *authorizer) {
		a.Notary = notary
	}
}

func WithLogger(logger Logger) opt {
	return func(a *authorizer) {
		a.Logger = logger
	}
}

// New returns an authorizer verifying tokens against secret.
func New(secret string, opts ...opt) *authorizer {
	auth := &authorizer{
		Notary: NewNotary(secret),
		Logger: nopLogger{},
	}

	for _, opt := range opts {
		opt(auth)
	}

	return auth
}

type authorizer struct {
	Notary
	Logger
}

// Authorize returns the user carried by the request's bearer token.
func (a *authorizer) Authorize(r *http.Request) (*User, error) {

	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, ErrMissingAuthorizationHeader
	}

	parts := strings.Split(header, " ")

	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return nil, ErrInvalidAuthorizationHeader
	}

	return a.Notary.Notarize(parts[1])
}

// Authenticate stores the request's user in its context when the bearer
// token verifies. Any failure leaves the context untouched; it never
// returns an error.
func (a *authorizer) Authenticate(r *http.Request) error {

	user, err := a.Authorize(r)
	if err != nil {
		if err != ErrMissingAuthorizationHeader {
			a.Logger.Debug("ignoring bearer token:", err)
		}
		return nil
	}

	*r = *r.WithContext(WithUser(r.Context(), user))

	return nil
}

func (a *authorizer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.Authenticate(r)
		next.ServeHTTP(w, r)
	})
}

func NoopAuthorizer() *noopAuthorizer {
	return &noopAuthorizer{}
}

type noopAuthorizer struct{}

func (a *noopAuthorizer) Authenticate(r *http.Request) error {
	return nil
}

type nopLogger struct{}

func (nopLogger) Error(a ...any) {}

func (nopLogger) Debug(a ...any) {}
