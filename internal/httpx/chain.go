package httpx

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Chain wraps h with mws in the order mux.Router.Use applies them, the first
// one outermost. Routers skip their middleware for NotFoundHandler, so the
// same chain is applied to it by hand.
func Chain(h http.Handler, mws ...mux.MiddlewareFunc) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
