package middleware

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/auth"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// RevocationList reports tokens closed by logout
type RevocationList interface {
	IsRevoked(tokenID string) bool
}

// SessionSource is the server-side session consulted when no token is sent
type SessionSource interface {
	Current() (entities.Identity, bool)
}

type revocationAware struct {
	TokenValidator
	revoked RevocationList
}

func (v revocationAware) ValidateToken(token string) (*auth.Claims, error) {
	claims, err := v.TokenValidator.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if v.revoked.IsRevoked(claims.ID) {
		return nil, auth.ErrRevokedToken
	}
	return claims, nil
}

// WithRevocation rejects tokens listed in revoked. A nil list returns validator unchanged.
func WithRevocation(validator TokenValidator, revoked RevocationList) TokenValidator {
	if revoked == nil {
		return validator
	}
	return revocationAware{TokenValidator: validator, revoked: revoked}
}

func authenticated(r *http.Request, claims *auth.Claims) *http.Request {
	ctx := auth.SetUserInContext(r.Context(), claims.Identity())
	ctx = auth.SetTokenInContext(ctx, claims.Token())
	return r.WithContext(ctx)
}

// Authenticate rejects requests without a valid bearer token and puts the
// token's identity in the request context
func Authenticate(validator TokenValidator, errs *apperrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				errs.Handle(w, r, apperrors.NewUnauthorizedError("Missing authentication token"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Debug("Invalid token",
					zap.Error(err),
					zap.String("ip", getClientIP(r)),
					zap.String("path", r.URL.Path),
				)
				message := "Invalid token"
				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					message = "Token has expired"
				case errors.Is(err, auth.ErrInvalidSignature):
					message = "Invalid token signature"
				case errors.Is(err, auth.ErrRevokedToken):
					message = "Token has been revoked"
				}
				errs.Handle(w, r, apperrors.NewUnauthorizedError(message))
				return
			}

			next.ServeHTTP(w, authenticated(r, claims))
		})
	}
}

// OptionalAuthenticate attaches the identity of a valid token and otherwise
// lets the request through anonymously. Without any token the identity of
// session, when signed in, is used instead. session may be nil.
func OptionalAuthenticate(validator TokenValidator, session SessionSource) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			switch {
			case token != "":
				if claims, err := validator.ValidateToken(token); err == nil {
					r = authenticated(r, claims)
				}
			case session != nil:
				if user, ok := session.Current(); ok {
					r = r.WithContext(auth.SetUserInContext(r.Context(), user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole lets through only identities holding role
func RequireRole(role valueobjects.Role, errs *apperrors.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.GetUserFromContext(r.Context())
			if !ok {
				errs.Handle(w, r, apperrors.NewUnauthorizedError("Unauthorized"))
				return
			}
			if user.Role != role {
				errs.Handle(w, r, apperrors.NewForbiddenError("Insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP rejects clients that exceed limiter
func RateLimitByIP(limiter *auth.IPRateLimiter, errs *apperrors.ErrorHandler, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)
			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				logger.Error("Rate limiter error", zap.Error(err))
				errs.Handle(w, r, err)
				return
			}
			if !allowed {
				logger.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
				w.Header().Set("Retry-After", "60")
				errs.Handle(w, r, apperrors.NewRateLimitError(limiter.PerMinute(), "minute").
					WithDetails(map[string]interface{}{"retry_after_seconds": 60}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the token query parameter browsers use for websocket upgrades
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return header
	}
	return r.URL.Query().Get("token")
}

// getClientIP returns the host of RemoteAddr. Forwarding headers are only
// honoured through chi's RealIP, which rewrites RemoteAddr before this runs.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
