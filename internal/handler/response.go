package handler

import (
	"net/http"

	"geolog/internal/domain"

	"github.com/gin-gonic/gin"
)

func statusFor(k domain.Kind) int {
	switch k {
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindInvalidCoordinate, domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindInsufficientPermission:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders err as {success:false, message}. Internal causes are
// never shown; the service has already reported them.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(domain.KindOf(err)), gin.H{
		"success": false,
		"message": domain.PublicMessage(err),
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}
