package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/gobindacb/navigatebd/internal/httpx"
)

// RoleLookup resolves the stored role for an email. Implementations
// return "" with a nil error when no record exists.
type RoleLookup interface {
	RoleByEmail(ctx context.Context, email string) (string, error)
}

// Middleware holds the two request gates: token verification and
// role authorization. Verification is pure computation; the role gate
// re-reads the user store on every call so role changes take effect on
// the very next request.
type Middleware struct {
	logger *zap.Logger
	tokens TokenService
	roles  RoleLookup
}

func NewMiddleware(tokens TokenService, roles RoleLookup, logger *zap.Logger) *Middleware {
	return &Middleware{
		logger: logger,
		tokens: tokens,
		roles:  roles,
	}
}

// VerifyToken rejects requests without a valid bearer credential and
// attaches the decoded claims to the request context.
func (m *Middleware) VerifyToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrorResponse[any]{
				Code:    httpx.ErrUnauthorized,
				Message: "unauthorized access",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrorResponse[any]{
				Code:    httpx.ErrUnauthorized,
				Message: "unauthorized access",
			})
			return
		}

		claims, err := m.tokens.Verify(parts[1])
		if err != nil {
			m.logger.Debug("token verification failed", zap.Error(err))
			httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrorResponse[any]{
				Code:    httpx.ErrUnauthorized,
				Message: "unauthorized access",
			})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireRole permits only verified callers whose stored role matches.
// It must run after VerifyToken.
func (m *Middleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrorResponse[any]{
					Code:    httpx.ErrUnauthorized,
					Message: "unauthorized access",
				})
				return
			}

			stored, err := m.roles.RoleByEmail(r.Context(), claims.Email())
			if err != nil {
				m.logger.Error("role lookup failed", zap.String("email", claims.Email()), zap.Error(err))
				httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorResponse[any]{
					Code:    httpx.ErrInternal,
					Message: "internal server error",
				})
				return
			}
			if stored != role {
				httpx.WriteError(w, http.StatusForbidden, httpx.ErrorResponse[any]{
					Code:    httpx.ErrForbidden,
					Message: "forbidden access",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
