package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/birlikweb/cms/models"
	"github.com/birlikweb/cms/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextAuthorKey stores the submitter's display name inside Gin context.
	ContextAuthorKey = "author"
	// ContextRoleKey stores the decoded role inside Gin context.
	ContextRoleKey = "role"
	// ContextTokenKey stores the raw bearer token (needed for logout revocation).
	ContextTokenKey = "token"
	// ContextClaimsKey stores the full parsed claims.
	ContextClaimsKey = "claims"
)

// RequireRole ensures the request carries a valid bearer JWT whose role claim
// is at least min. Missing credential, invalid/expired credential and
// insufficient role all answer 401, with distinguishable messages for
// logging and tests. The check has no side effects.
func RequireRole(min models.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			reject(ctx, "authorization header missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			reject(ctx, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			reject(ctx, "empty bearer token")
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			reject(ctx, "token revoked")
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			reject(ctx, "invalid or expired token")
			return
		}

		role := claims.RoleLevel()
		if !role.AtLeast(min) {
			if utils.Sugar != nil {
				utils.Sugar.Infow("request below minimum role",
					"user", claims.Username, "role", role.String(), "required", min.String())
			}
			reject(ctx, "insufficient role")
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextAuthorKey, claims.Author)
		ctx.Set(ContextRoleKey, role)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Set(ContextClaimsKey, claims)
		ctx.Next()
	}
}

func reject(ctx *gin.Context, message string) {
	utils.Error(ctx, http.StatusUnauthorized, message)
	ctx.Abort()
}
