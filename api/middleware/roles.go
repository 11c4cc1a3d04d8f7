package middleware

import (
	"net/http"

	"github.com/paintdepot/inkstock-backend/api/responses"
	pkgAuth "github.com/paintdepot/inkstock-backend/pkg/auth"
	pkgerrors "github.com/paintdepot/inkstock-backend/pkg/errors"
	"github.com/paintdepot/inkstock-backend/pkg/logger"
)

// RequireCapability rejects requests whose actor lacks the capability. The
// services re-check capabilities themselves; this keeps obviously
// unauthorized traffic out of the handlers.
func RequireCapability(capability pkgAuth.Capability, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if !actor.Can(capability) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "capability required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
