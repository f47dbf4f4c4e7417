package gatekeeper_test

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/go-chi/chi/v5"
	"github.com/reverted/gatekeeper"
)

func withUser(req *http.Request, user *gatekeeper.User) *http.Request {
	return req.WithContext(gatekeeper.WithUser(req.Context(), user))
}

func withParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

var _ = Describe("Guards", func() {

	var (
		err  error
		req  *http.Request
		step gatekeeper.Step
	)

	BeforeEach(func() {
		req, err = http.NewRequest("GET", "http://localhost", nil)
		Expect(err).NotTo(HaveOccurred())
	})

	JustBeforeEach(func() {
		err = step(req)
	})

	Describe("EnsureLoggedIn", func() {
		BeforeEach(func() {
			step = gatekeeper.EnsureLoggedIn
		})

		Context("when the user has a username", func() {
			BeforeEach(func() {
				req = withUser(req, &gatekeeper.User{Username: "test"})
			})

			It("succeeds", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})

		Context("when there is no user", func() {
			It("is unauthorized", func() {
				Expect(errors.Is(err, gatekeeper.ErrUnauthorized)).To(BeTrue())
			})
		})

		Context("when the user has no username", func() {
			BeforeEach(func() {
				req = withUser(req, &gatekeeper.User{})
			})

			It("is unauthorized", func() {
				Expect(errors.Is(err, gatekeeper.ErrUnauthorized)).To(BeTrue())
			})
		})
	})

	Describe("EnsureIsAdmin", func() {
		BeforeEach(func() {
			step = gatekeeper.EnsureIsAdmin
		})

		Context("when the user is an admin", func() {
			BeforeEach(func() {
				req = withUser(req, &gatekeeper.User{Username: "testadmin", IsAdmin: true})
			})

			It("succeeds", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})

		Context("when there is no user", func() {
			It("is unauthorized", func() {
				Expect(errors.Is(err, gatekeeper.ErrUnauthorized)).To(BeTrue())
			})
		})

		Context("when the user is not an admin", func() {
			BeforeEach(func() {
				req = withUser(req, &gatekeeper.User{Username: "notAdmin", IsAdmin: false})
			})

			It("is unauthorized", func() {
				Expect(errors.Is(err, gatekeeper.ErrUnauthorized)).To(BeTrue())
			})
		})
	})

	Describe("EnsureIsAdminOrUser", func() {
		BeforeEach(func() {
			step = gatekeeper.EnsureIsAdminOrUser
			req = withParam(req, "username", "test")
		})

		Context("when the user is an admin", func() {
			BeforeEach(func() {
				req = withUser(req, &gatekeeper.User{Username: "testadmin", IsAdmin: true})
			})

			It("succeeds", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})

		Context("when the user is the same user", func() {
			BeforeEach(func() {
				req = withUser(req, &gatekeeper.User{Username: "test", IsAdmin: false})
			})

			It("succeeds", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})

		Context("when there is no user", func() {
			It("is unauthorized", func() {
				Expect(errors.Is(err, gatekeeper.ErrUnauthorized)).To(BeTrue())
			})
		})

		Context("when the user is neither an admin nor the same user", func() {
			BeforeEach(func() {
				req = withUser(req, &gatekeeper.User{Username: "notAdmin", IsAdmin: false})
			})

			It("is unauthorized", func() {
				Expect(errors.Is(err, gatekeeper.ErrUnauthorized)).To(BeTrue())
			})
		})

		Context("when the username differs only by case", func() {
			BeforeEach(func() {
				req = withUser(req, &gatekeeper.User{Username: "Test", IsAdmin: false})
			})

			It("is unauthorized", func() {
				Expect(errors.Is(err, gatekeeper.ErrUnauthorized)).To(BeTrue())
			})
		})

		Context("when the username has surrounding whitespace", func() {
			BeforeEach(func() {
				req = withUser(req, &gatekeeper.User{Username: " test", IsAdmin: false})
			})

			It("is unauthorized", func() {
				Expect(errors.Is(err, gatekeeper.ErrUnauthorized)).To(BeTrue())
			})
		})
	})

	Describe("EnsureIsAdminOrParam", func() {
		BeforeEach(func() {
			step = gatekeeper.EnsureIsAdminOrParam("owner")
			req = withParam(req, "owner", "test")
		})

		Context("when the user matches the parameter", func() {
			BeforeEach(func() {
				req = withUser(req, &gatekeeper.User{Username: "test"})
			})

			It("succeeds", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})

		Context("when the user has no username and the parameter is missing", func() {
			BeforeEach(func() {
				step = gatekeeper.EnsureIsAdminOrParam("missing")
				req = withUser(req, &gatekeeper.User{})
			})

			It("is unauthorized", func() {
				Expect(errors.Is(err, gatekeeper.ErrUnauthorized)).To(BeTrue())
			})
		})
	})
})

var _ = Describe("UnauthorizedError", func() {
	It("defaults its message", func() {
		err := gatekeeper.Unauthorized("")
		Expect(err.Error()).To(Equal("Unauthorized"))
		Expect(err.StatusCode()).To(Equal(http.StatusUnauthorized))
	})

	It("keeps a custom message", func() {
		err := gatekeeper.Unauthorized("Admins only")
		Expect(err.Error()).To(Equal("Admins only"))
		Expect(errors.Is(err, gatekeeper.ErrUnauthorized)).To(BeTrue())
	})
})
