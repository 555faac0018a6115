package httpx

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/twitchtv/twirp"
)

// Recovery turns a handler panic into a 500 Twirp error response.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				slog.ErrorContext(r.Context(), "Panic while handling request",
					"panic", fmt.Sprint(rec),
					"http_method", r.Method,
					"http_path", r.URL.Path,
					"request_id", RequestID(r.Context()),
					"stack", string(debug.Stack()),
				)
				_ = twirp.WriteError(w, twirp.InternalError("internal server error"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
