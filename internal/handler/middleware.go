package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/forummlcb/topdup/internal/model"
)

const userIDKey = "user_id"

// Resolver exchanges a bearer credential for a user id. The real
// implementation lives in pkg/auth.
type Resolver interface {
	ResolveUser(ctx context.Context, credential string) (int64, error)
}

// Identity resolves the caller's identity when a bearer token is present.
// Requests without a token continue anonymously; endpoints that need an
// identity reject them individually. A token that fails to resolve is a
// hard 401 rather than a silent downgrade to anonymous.
func Identity(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			c.Next()
			return
		}

		userID, err := resolver.ResolveUser(c.Request.Context(), token)
		if err != nil {
			if model.IsKind(err, model.KindUnauthenticated) {
				respondError(c, err)
				c.Abort()
				return
			}
			slog.Error("error resolving credential", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Auth service error"})
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// currentUserID returns the resolved user id, or 0 for anonymous requests.
func currentUserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
