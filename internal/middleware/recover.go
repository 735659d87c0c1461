package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"

	svcerrors "github.com/R3E-Network/korechain_gateway/internal/errors"
	"github.com/R3E-Network/korechain_gateway/internal/httputil"
	"github.com/R3E-Network/korechain_gateway/internal/logging"
)

// Recover turns a handler panic into a 500 response.
func Recover(logger *logging.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.WithContext(r.Context()).WithFields(map[string]interface{}{
						"panic": fmt.Sprint(rec),
						"stack": string(debug.Stack()),
						"path":  r.URL.Path,
					}).Error("handler panicked")
					httputil.WriteMessage(w, http.StatusInternalServerError, svcerrors.MsgNotFound)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Standard returns the chain every route runs through, outermost first.
// Logging wraps Recover so panic reports carry the request's trace ID.
func Standard(logger *logging.Logger) []mux.MiddlewareFunc {
	return []mux.MiddlewareFunc{Logging(logger), Recover(logger)}
}
