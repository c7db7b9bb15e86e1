package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/lumina-backend/internal/http/response"
	"github.com/yungbote/lumina-backend/internal/platform/ctxutil"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

// Optional attaches request data when a valid token is present and lets
// anonymous requests through. A token that fails to verify is still a 401.
func (am *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			c.Next()
			return
		}
		if !am.attach(c, tokenString) {
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			response.AbortError(c, http.StatusUnauthorized, "not_authenticated", "Authentication credentials were not provided.")
			return
		}
		if !am.attach(c, tokenString) {
			return
		}
		c.Next()
	}
}

// RequireStaff must run after RequireAuth.
func (am *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil || rd.UserID == uuid.Nil {
			response.AbortError(c, http.StatusUnauthorized, "not_authenticated", "Authentication credentials were not provided.")
			return
		}
		if !rd.IsStaff {
			response.AbortError(c, http.StatusForbidden, "permission_denied", "You do not have permission to perform this action.")
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) attach(c *gin.Context, tokenString string) bool {
	ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
	if err != nil {
		am.log.Debug("Token rejected", "path", c.Request.URL.Path, "error", err)
		response.AbortError(c, http.StatusUnauthorized, "token_not_valid", "Given token not valid for any token type")
		return false
	}
	c.Request = c.Request.WithContext(ctx)
	if rd := ctxutil.GetRequestData(ctx); rd != nil {
		c.Set("user_id", rd.UserID.String())
	}
	return true
}

func extractTokenFromAll(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
