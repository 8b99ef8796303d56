package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/heartmarshall/rucheng-dialect/pkg/ctxutil"
)

// recoveredBody matches the {"error": ...} shape of every /api response.
const recoveredBody = `{"error":"internal server error"}` + "\n"

// Recovery turns a handler panic into a logged 500 with a JSON error body.
// http.ErrAbortHandler is re-raised so net/http can drop the connection
// quietly.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.ErrorContext(r.Context(), "panic recovered",
					slog.Any("error", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", requestID(w, r)),
				)

				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(recoveredBody))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestID finds the ID whether Recovery runs inside RequestID (context)
// or outside it (response header already set).
func requestID(w http.ResponseWriter, r *http.Request) string {
	if id := ctxutil.RequestIDFromCtx(r.Context()); id != "" {
		return id
	}
	return w.Header().Get(RequestIDHeader)
}
