package middleware

import "net/http"

// Middleware wraps an http.Handler with cross-cutting behavior.
type Middleware func(http.Handler) http.Handler

// Chain folds middleware into one, applied in the order given:
// Chain(mw1, mw2)(h) is mw1(mw2(h)), so the first argument runs outermost.
// The router wraps its whole mux this way; ordering matters because
// RequestID must run before Logger, and Recovery must sit outside anything
// that can panic.
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}
