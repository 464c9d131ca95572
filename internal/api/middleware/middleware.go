// Package middleware contains api middleware.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	apiError "compose2containerapps/internal/api/error"
	"compose2containerapps/internal/api/requestid"
	"compose2containerapps/internal/env"
	"compose2containerapps/internal/logging"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	oapimw "github.com/oapi-codegen/nethttp-middleware"
	"github.com/oklog/ulid/v2"
)

const RequestIDHeader = "X-Request-ID"

// logResponseWriter captures the status code.
type logResponseWriter struct {
	http.ResponseWriter

	statusCode int
}

// Captures the status code and writes the response.
func (lrw *logResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if err, ok := rvr.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rvr)
				}

				e := env.FromContext(r.Context())
				e.Logger.ErrorContext(r.Context(),
					"panic recovered",
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())))

				_ = apiError.EncodeInternalError(w, requestid.FromContext(r.Context()))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func InjectEnvironment(e *env.Env) func(http.Handler) http.Handler {
	if e == nil {
		e = env.Null()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(e.WithContext(r.Context())))
		})
	}
}

// LogRequest assigns the request id, echoes it in X-Request-ID and logs the
// completed request.
func LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		e := env.FromContext(r.Context())

		requestID := ulid.MustNew(ulid.Timestamp(start), ulid.DefaultEntropy()).String()
		ctx := requestid.WithContext(r.Context(), requestID)
		ctx = logging.AppendCtx(ctx, slog.String("request_id", requestID))
		ctx = logging.AppendCtx(ctx, slog.String("method", r.Method))
		ctx = logging.AppendCtx(ctx, slog.String("path", r.URL.RequestURI()))
		r = r.WithContext(ctx)

		w.Header().Set(RequestIDHeader, requestID)
		lrw := &logResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		e.Logger.LogAttrs(
			r.Context(),
			slog.LevelInfo,
			"Request completed",
			slog.Duration("duration", time.Since(start)),
			slog.Int("status", lrw.statusCode),
		)
	})
}

// Validator rejects requests that do not match the OpenAPI document. Request
// bodies are checked by the handlers.
func Validator(doc *openapi3.T) func(http.Handler) http.Handler {
	return oapimw.OapiRequestValidatorWithOptions(doc, &oapimw.Options{
		Options: openapi3filter.Options{
			ExcludeRequestBody: true,
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
		ErrorHandlerWithOpts:  OAPIErrorHandler,
		SilenceServersWarning: true,
	})
}

// OAPIErrorHandler handles errors from oapi-codegen middleware and formats them
// as apiError responses.
func OAPIErrorHandler(
	ctx context.Context,
	err error,
	w http.ResponseWriter,
	r *http.Request,
	opts oapimw.ErrorHandlerOpts,
) {
	requestID := requestid.FromContext(r.Context())

	var errBody *apiError.Error
	if errors.As(err, &errBody) {
		_ = apiError.Encode(w, errBody)
		return
	}

	switch {
	case opts.StatusCode == http.StatusNotFound:
		_ = apiError.EncodeError(w, apiError.NotFound,
			fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path), requestID)
	case opts.StatusCode >= 400 && opts.StatusCode < 500:
		_ = apiError.Encode(w, &apiError.Error{
			Code:    apiError.BadRequest,
			Status:  opts.StatusCode,
			Message: err.Error(),
			ErrorID: requestID,
		})
	default:
		_ = apiError.EncodeInternalError(w, requestID)
	}
}
