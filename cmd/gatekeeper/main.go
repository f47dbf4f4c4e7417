package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reverted/gatekeeper"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := gatekeeper.LoadConfig("./config", ".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := gatekeeper.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	router := gatekeeper.NewRouter(logger, cfg.NewAuthorizer(logger))

	router.With(gatekeeper.Require(logger, gatekeeper.EnsureLoggedIn)).Get("/me", currentUser)
	router.With(gatekeeper.Require(logger, gatekeeper.EnsureIsAdmin)).Get("/admin", currentUser)
	router.With(gatekeeper.Require(logger, gatekeeper.EnsureIsAdminOrUser)).Get("/users/{username}", currentUser)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on %s", cfg.Server.Addr)
		if listenErr := srv.ListenAndServe(); listenErr != nil &&
			!errors.Is(listenErr, http.ErrServerClosed) {
			serverErrChan <- listenErr
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Println("Shutting down server...")
	case serverErr := <-serverErrChan:
		log.Printf("Server error, shutting down: %v", serverErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	} else {
		log.Println("Server stopped gracefully")
	}
}

func currentUser(w http.ResponseWriter, r *http.Request) {
	user, _ := gatekeeper.UserFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"user": user})
}
