package appauth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	dErrors "persona/pkg/domain-errors"
	"persona/pkg/platform/httputil"
	"persona/pkg/platform/middleware/request"
)

// Validator validates an application token.
type Validator interface {
	Validate(tokenString string) (*AppClaims, error)
}

type contextKey struct{}

var claimsKey contextKey

// ClaimsFromContext returns the authenticated app claims, if present.
func ClaimsFromContext(ctx context.Context) (*AppClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*AppClaims)
	return claims, ok
}

// RequireApp returns middleware that validates the Authorization bearer token
// and stores the application claims in the request context.
func RequireApp(validator Validator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", request.GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", request.GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, claimsKey, claims)))
		})
	}
}
