package middleware

import (
	"net/http"
	"strings"

	"geolog/config"
	"geolog/internal/auth"
	"geolog/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	keyUserID    = "user_id"
	keyClaims    = "claims"
	keyPrincipal = "principal"
)

// PrincipalResolver turns token claims into a principal with capabilities.
type PrincipalResolver interface {
	Principal(userID string, roles []string) *domain.Principal
}

// AuthRequired validates the bearer token and stores the claims and the
// resolved principal in the context.
func AuthRequired(cfg *config.JWTConfig, resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthenticated(c)
			return
		}
		claims, principal, err := Authenticate(cfg, resolver, token)
		if err != nil {
			abortUnauthenticated(c)
			return
		}
		c.Set(keyUserID, claims.UserID)
		c.Set(keyClaims, claims)
		c.Set(keyPrincipal, principal)
		c.Next()
	}
}

// Authenticate parses an access token and resolves its principal. Tokens for
// the Guest user are rejected.
func Authenticate(cfg *config.JWTConfig, resolver PrincipalResolver, token string) (*auth.Claims, *domain.Principal, error) {
	claims, err := auth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, nil, err
	}
	if claims.UserID == domain.GuestUser {
		return nil, nil, auth.ErrInvalidToken
	}
	return claims, resolver.Principal(claims.UserID, claims.Roles), nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": domain.Unauthenticated().Message,
	})
}

// GetUserID returns the authenticated user ID (must be used after AuthRequired).
func GetUserID(c *gin.Context) string {
	return c.GetString(keyUserID)
}

func GetClaims(c *gin.Context) *auth.Claims {
	v, _ := c.Get(keyClaims)
	claims, _ := v.(*auth.Claims)
	return claims
}

func GetPrincipal(c *gin.Context) *domain.Principal {
	v, _ := c.Get(keyPrincipal)
	p, _ := v.(*domain.Principal)
	return p
}

// RequestContext collects the caller, session, source address and request
// id for the service layer.
func RequestContext(c *gin.Context) domain.RequestContext {
	rc := domain.RequestContext{
		Principal: GetPrincipal(c),
		SourceIP:  c.ClientIP(),
		RequestID: GetRequestID(c),
	}
	if claims := GetClaims(c); claims != nil {
		rc.SessionID = claims.SessionID()
	}
	return rc
}
