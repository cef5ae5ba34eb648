package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/gitforge/backend/auth"
	"github.com/gitforge/backend/models"
	"github.com/gitforge/backend/repositories"
	"github.com/gitforge/backend/services"
	"github.com/gitforge/backend/utils"
)

// clientNameHeader is the optional client-context header
const clientNameHeader = "Client-Name"

// AuthMiddleware resolves a bearer access token into an authenticated
// principal. Two policies exist: RequireUser treats an absent credential as
// an error, OptionalUser passes the request through anonymously. A supplied
// but invalid token fails under both policies.
type AuthMiddleware struct {
	codec  *auth.TokenCodec
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(codec *auth.TokenCodec, users repositories.UserRepository, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		codec:  codec,
		users:  users,
		logger: logger,
	}
}

// RequireUser is a middleware that requires a valid access token and a live
// principal behind it.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return m.resolve(next, true)
}

// OptionalUser is a middleware that resolves the principal when a token is
// supplied and otherwise lets the request through with no principal.
func (m *AuthMiddleware) OptionalUser(next http.Handler) http.Handler {
	return m.resolve(next, false)
}

func (m *AuthMiddleware) resolve(next http.Handler, required bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := chimw.GetReqID(ctx)

		if clientName := r.Header.Get(clientNameHeader); clientName != "" {
			ctx = WithClientName(ctx, clientName)
		}

		token := extractBearerToken(r)
		if token == "" {
			if required {
				m.logger.Warn("missing access token",
					zap.String("request_id", requestID))
				_ = utils.WriteUnauthorized(w, services.CodeAuthorizationRequired, "authorization required")
				return
			}
			// Anonymous access allowed: no principal in context
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		user, err := m.lookup(ctx, token)
		if err != nil {
			m.logger.Warn("token resolution failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			writeResolutionError(w, err)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.Int64("user_id", user.ID))

		next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
	})
}

// lookup decodes the token and loads the principal. Exactly one primary-key
// read is performed. The returned record is a plain value detached from the
// persistence session, so it can safely outlive the request's queries.
func (m *AuthMiddleware) lookup(ctx context.Context, token string) (*models.User, error) {
	claims, err := m.codec.Decode(token)
	if err != nil {
		return nil, services.TranslateTokenError(err)
	}

	user, err := m.users.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, services.WrapInternal("failed to look up user", err)
	}

	return user, nil
}

func writeResolutionError(w http.ResponseWriter, err error) {
	code := services.GetErrorCode(err)
	switch {
	case services.IsUnauthorizedError(err):
		_ = utils.WriteUnauthorized(w, code, err.Error())
	default:
		_ = utils.WriteInternalServerError(w, "an internal error occurred")
	}
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
