package gatekeeper

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter returns a chi router that runs authenticator on every request.
// Routes needing a logged in user, an admin, or an owner add guards with
// Require.
func NewRouter(logger Logger, authenticator Authenticator) chi.Router {
	r := chi.NewRouter()

	r.Use(func(next http.Handler) http.Handler {
		return NewHandler(logger, next, WithAuthenticator(authenticator))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "Not Found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}
