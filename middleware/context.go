package middleware

import (
	"context"

	"github.com/gitforge/backend/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	// UserKey is the context key for the authenticated principal
	UserKey contextKey = "user"

	// ClientNameKey is the context key for the optional client-context header
	ClientNameKey contextKey = "client_name"
)

// WithUser adds the authenticated principal to the context
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// UserFromContext retrieves the authenticated principal from context.
// Returns nil when the request was resolved anonymously.
func UserFromContext(ctx context.Context) *models.User {
	if val := ctx.Value(UserKey); val != nil {
		if user, ok := val.(*models.User); ok {
			return user
		}
	}
	return nil
}

// WithClientName adds the client-context header value to the context
func WithClientName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ClientNameKey, name)
}

// ClientNameFromContext retrieves the client-context header value, if any
func ClientNameFromContext(ctx context.Context) string {
	if val := ctx.Value(ClientNameKey); val != nil {
		if name, ok := val.(string); ok {
			return name
		}
	}
	return ""
}
