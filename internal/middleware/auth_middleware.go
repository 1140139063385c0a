// auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"marketplace-bidding-service/internal/service"

	"github.com/gin-gonic/gin"
)

// Nombres de cookie heredados del frontend
const (
	UserCookie   = "token"
	SellerCookie = "seller_token"
)

// Claves del contexto gin
const (
	CtxUserID   = "userID"
	CtxSellerID = "sellerID"
)

// Middleware que valida la cookie del usuario y guarda su id en el contexto
func UserAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c, UserCookie)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing session cookie"})
			c.Abort()
			return
		}

		id, err := authService.ValidateToken(token, service.RoleUser)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(CtxUserID, id)
		c.Next()
	}
}

// Middleware que valida la cookie de la tienda
func SellerAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c, SellerCookie)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing seller session cookie"})
			c.Abort()
			return
		}

		id, err := authService.ValidateToken(token, service.RoleSeller)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(CtxSellerID, id)
		c.Next()
	}
}

// tokenFrom busca primero la cookie y si no está, el header Authorization
func tokenFrom(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}
