package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ocs-recruitment-backend/internal/delivery/http/response"
	"ocs-recruitment-backend/internal/domain"
	"ocs-recruitment-backend/pkg/token"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware is the authorization guard's first half: it verifies the
// bearer token's signature and expiry and stashes the asserted identity on
// the context. Verification is stateless; the token alone carries identity
// and role, no store lookup happens here.
//
// Missing, malformed and tampered tokens all fail with the same 401 body.
// Only expiry gets its own message, since the client's correct reaction
// (re-authenticate) differs from a bug in token handling.
func AuthMiddleware(tokens *token.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if authHeader == "" || tokenString == authHeader {
			response.Error(c, http.StatusUnauthorized, "Authorization bearer token required", nil)
			c.Abort()
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				response.Error(c, http.StatusUnauthorized, "Token has expired", nil)
			} else {
				response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			}
			c.Abort()
			return
		}

		c.Set(string(domain.KeyIdentityID), claims.Subject)
		c.Set(string(domain.KeyIdentityRole), claims.Role)

		// Mirror into the request context so usecases can re-check without
		// depending on gin.
		ctx := context.WithValue(c.Request.Context(), domain.KeyIdentityID, claims.Subject)
		ctx = context.WithValue(ctx, domain.KeyIdentityRole, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRoles is the guard's second half: role membership. It must run
// after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role := c.GetString(string(domain.KeyIdentityRole))
		if !allowed[role] {
			response.Error(c, http.StatusForbidden, "Insufficient role for this operation", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
