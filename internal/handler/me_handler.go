package handler

import (
	"net/http"

	"geolog/internal/middleware"
	"geolog/internal/service"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	svc *service.ProfileService
}

func NewMeHandler(svc *service.ProfileService) *MeHandler {
	return &MeHandler{svc: svc}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	info, err := h.svc.CurrentUser(c.Request.Context(), middleware.RequestContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *MeHandler) GetEmployee(c *gin.Context) {
	emp, err := h.svc.Employee(c.Request.Context(), middleware.RequestContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emp)
}
