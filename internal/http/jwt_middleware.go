package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mindcare-bot/internal/service"
)

const authIdentityKey = "auth_identity"

// OptionalAuthMiddleware acepta peticiones anonimas; si llega un token valido guarda la identidad.
// Un token presente pero invalido se rechaza para no tratarlo como anonimo en silencio.
func OptionalAuthMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !jwtSvc.Enabled() {
			c.Next()
			return
		}
		if !authenticate(c, jwtSvc, header) {
			return
		}
		c.Next()
	}
}

// RequireAuthMiddleware valida el access token y guarda la identidad en el contexto.
func RequireAuthMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !jwtSvc.Enabled() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
			c.Abort()
			return
		}
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}
		if !authenticate(c, jwtSvc, header) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, jwtSvc *service.JWTService, header string) bool {
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		c.Abort()
		return false
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	id, err := jwtSvc.ParseAccessToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		c.Abort()
		return false
	}
	c.Set(authIdentityKey, id)
	return true
}

// GetIdentity obtiene la identidad autenticada desde el contexto.
func GetIdentity(c *gin.Context) (service.Identity, bool) {
	val, ok := c.Get(authIdentityKey)
	if !ok {
		return service.Identity{}, false
	}
	id, ok := val.(service.Identity)
	return id, ok
}

func currentUserID(c *gin.Context) string {
	id, ok := GetIdentity(c)
	if !ok {
		return ""
	}
	return id.UserID
}
