package gatekeeper

import (
	"encoding/json"
	"net/http"
)

type Authenticator interface {
	Authenticate(r *http.Request) error
}

type handlerOpt func(h *handler)

func WithAuthenticator(authenticator Authenticator) handlerOpt {
	return func(h *handler) {
		h.Authenticator = authenticator
	}
}

func WithSteps(steps ...Step) handlerOpt {
	return func(h *handler) {
		h.Steps = append(h.Steps, steps...)
	}
}

// NewHandler runs the authenticator and then each step in order before
// forwarding to next. The first failing step ends the request.
func NewHandler(
	logger Logger,
	next http.Handler,
	opts ...handlerOpt,
) *handler {
	handler := &handler{
		Logger:        logger,
		Authenticator: NoopAuthorizer(),
		Handler:       next,
	}

	for _, opt := range opts {
		opt(handler)
	}

	return handler
}

type handler struct {
	Logger
	Authenticator
	http.Handler

	Steps []Step
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	if err := h.Authenticator.Authenticate(r); err != nil {
		h.fail(w, err)
		return
	}

	for _, step := range h.Steps {
		if err := step(r); err != nil {
			h.fail(w, err)
			return
		}
	}

	h.Handler.ServeHTTP(w, r)
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	status := statusCode(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error(err)
	} else {
		h.Logger.Debug(err)
	}
	WriteError(w, status, err.Error())
}

// Require returns middleware that enforces steps on the routes it wraps.
// The user must already be in the request context.
func Require(logger Logger, steps ...Step) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return NewHandler(logger, next, WithSteps(steps...))
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{errorDetail{message, status}})
}

func statusCode(err error) int {
	if coded, ok := err.(interface{ StatusCode() int }); ok {
		return coded.StatusCode()
	}
	return http.StatusInternalServerError
}
