package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"timeclock/internal/domain"
	"timeclock/internal/shared/contextutil"
	"timeclock/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID    = "user_id"
	ctxRole      = "role"
	ctxFirstName = "first_name"
	ctxLastName  = "last_name"
	ctxGroupID   = "group_id"
)

// AuthMiddleware verifies the bearer token and loads the principal into the
// gin context. Credential issuance lives in the auth package; everything past
// this middleware only compares roles and ownership.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			code := "INVALID_TOKEN"
			msg := "Token is invalid"
			if err != nil && strings.Contains(err.Error(), "expired") {
				code = "TOKEN_EXPIRED"
				msg = "Token has expired"
			}
			response.Error(c, http.StatusUnauthorized, code, msg, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "User ID not found in token", nil)
			c.Abort()
			return
		}

		roleStr, _ := claims["role"].(string)
		role := domain.Role(roleStr)
		if !role.Valid() {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Role not found in token", nil)
			c.Abort()
			return
		}

		firstName, _ := claims["first_name"].(string)
		lastName, _ := claims["last_name"].(string)
		groupID, _ := claims["group_id"].(string)

		c.Set(ctxUserID, userID)
		c.Set(ctxRole, string(role))
		c.Set(ctxFirstName, firstName)
		c.Set(ctxLastName, lastName)
		c.Set(ctxGroupID, groupID)

		ctx := contextutil.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// PrincipalFrom reads the authenticated principal set by AuthMiddleware.
func PrincipalFrom(c *gin.Context) domain.Principal {
	return domain.Principal{
		UserID:    c.GetString(ctxUserID),
		Role:      domain.Role(c.GetString(ctxRole)),
		FirstName: c.GetString(ctxFirstName),
		LastName:  c.GetString(ctxLastName),
		GroupID:   c.GetString(ctxGroupID),
	}
}

// RoleMiddleware rejects callers whose role is not in the allowed set.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.Role(c.GetString(ctxRole))

		isAllowed := false
		for _, allowed := range allowedRoles {
			if role == allowed {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
