package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"geolog/internal/domain"

	"github.com/gin-gonic/gin"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{domain.Unauthenticated(), http.StatusUnauthorized, "Authentication required"},
		{domain.InvalidCoordinate("Latitude must be a number"), http.StatusBadRequest, "Latitude must be a number"},
		{domain.InvalidArgument("Invalid to_date"), http.StatusBadRequest, "Invalid to_date"},
		{domain.InsufficientPermission(), http.StatusForbidden, "Insufficient permissions"},
		{domain.NotFound("No location found"), http.StatusNotFound, "No location found"},
		{domain.Internal("Failed to save location", errors.New("dial tcp: refused")), http.StatusInternalServerError, "Failed to save location"},
		{errors.New("raw driver error"), http.StatusInternalServerError, "Something went wrong"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tt.err)
		if w.Code != tt.status {
			t.Errorf("%v: status %d, want %d", tt.err, w.Code, tt.status)
		}
		body := w.Body.String()
		if !strings.Contains(body, `"success":false`) || !strings.Contains(body, tt.message) {
			t.Errorf("%v: body %s", tt.err, body)
		}
		if strings.Contains(body, "refused") || strings.Contains(body, "driver") {
			t.Errorf("internal cause leaked: %s", body)
		}
	}
}
