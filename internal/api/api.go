// Package api serves conversions over http.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"compose2containerapps/docs"
	apiError "compose2containerapps/internal/api/error"
	"compose2containerapps/internal/api/handlers"
	"compose2containerapps/internal/api/middleware"
	"compose2containerapps/internal/env"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gorilla/mux"
)

const shutdownTimeout = 10 * time.Second

// LoadDocument parses and validates the embedded OpenAPI document.
func LoadDocument() (*openapi3.T, error) {
	data, err := docs.Docs.ReadFile("api.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading api docs: %w", err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("loading api docs: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validating api docs: %w", err)
	}
	return doc, nil
}

func NewRouter(e *env.Env) (http.Handler, error) {
	doc, err := LoadDocument()
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = apiError.EncodeError(w, apiError.NotFound,
			fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path), "")
	})
	router.Use(middleware.InjectEnvironment(e))
	router.Use(middleware.LogRequest)
	router.Use(middleware.Recover)
	router.Use(middleware.Validator(doc))
	addRoutes(router)
	return router, nil
}

func addRoutes(router *mux.Router) {
	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	router.HandleFunc("/openapi.yaml", handlers.OpenAPI).Methods(http.MethodGet)
	router.HandleFunc("/convert", handlers.Convert).Methods(http.MethodPost)
	router.HandleFunc("/conversions", handlers.Conversions).Methods(http.MethodGet)
}

// Start serves on port until ctx is canceled.
func Start(ctx context.Context, port string, e *env.Env) error {
	if e == nil {
		e = env.Null()
	}

	handler, err := NewRouter(e)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.Logger.InfoContext(ctx, fmt.Sprintf("Serving at 0.0.0.0:%s...", port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
