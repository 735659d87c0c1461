package middleware

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	svcerrors "github.com/R3E-Network/korechain_gateway/internal/errors"
	"github.com/R3E-Network/korechain_gateway/internal/httputil"
	"github.com/R3E-Network/korechain_gateway/internal/logging"
)

// BasicAuth guards routes with a single user and password.
type BasicAuth struct {
	user   string
	hash   []byte
	logger *logging.Logger
}

// NewBasicAuth creates a basic auth guard. password may be plain text or a
// bcrypt hash. An empty password disables the guard.
func NewBasicAuth(user, password string, logger *logging.Logger) (*BasicAuth, error) {
	if logger == nil {
		logger = logging.NewDiscard("auth")
	}
	a := &BasicAuth{user: user, logger: logger}
	if password == "" {
		return a, nil
	}

	if isBcryptHash(password) {
		if _, err := bcrypt.Cost([]byte(password)); err != nil {
			return nil, err
		}
		a.hash = []byte(password)
		return a, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	a.hash = hash
	return a, nil
}

// Enabled reports whether credentials are checked.
func (a *BasicAuth) Enabled() bool {
	return len(a.hash) > 0
}

// Handler returns the middleware handler
func (a *BasicAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		user, password, ok := r.BasicAuth()
		if !ok || user != a.user || bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
			a.logger.LogSecurityEvent(r.Context(), "basic_auth_failed", map[string]interface{}{
				"path":        r.URL.Path,
				"method":      r.Method,
				"credentials": ok,
			})
			serviceErr := svcerrors.Unauthorized(svcerrors.MsgUnauthorized)
			w.Header().Set("WWW-Authenticate", `Basic realm="korechain"`)
			httputil.WriteJSON(w, serviceErr.HTTPStatus, serviceErr.Payload())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
