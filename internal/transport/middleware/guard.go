package middleware

import (
	"net/http"

	"github.com/frahmantamala/attendance-report/internal/auth"
	"github.com/frahmantamala/attendance-report/internal/transport"
	"github.com/frahmantamala/attendance-report/pkg/logger"
)

// Guard rejects requests whose identity may not perform an action. It must
// run after the auth middleware.
type Guard struct {
	base *transport.BaseHandler
}

func NewGuard(base *transport.BaseHandler) *Guard {
	return &Guard{base: base}
}

func (g *Guard) Require(action auth.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _ := auth.UserFromContext(r.Context())
			if err := auth.Authorize(u, action); err != nil {
				if u != nil {
					logger.From(r.Context()).Warn("access denied", "action", string(action))
				}
				g.base.HandleServiceError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
