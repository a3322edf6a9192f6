package handler

import (
	"net/http"

	"geolog/internal/middleware"
	"geolog/internal/service"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	svc *service.LocationService
}

func NewLocationHandler(svc *service.LocationService) *LocationHandler {
	return &LocationHandler{svc: svc}
}

// SaveLocation stores one report for the caller.
func (h *LocationHandler) SaveLocation(c *gin.Context) {
	var raw service.RawReport
	if err := c.ShouldBindJSON(&raw); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	loc, err := h.svc.Submit(c.Request.Context(), middleware.RequestContext(c), raw)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Location saved successfully",
		"data":    loc,
	})
}

// GetLocations lists the latest location per user, or one user's locations.
func (h *LocationHandler) GetLocations(c *gin.Context) {
	items, canViewAll, err := h.svc.List(c.Request.Context(), middleware.RequestContext(c), c.Query("user"), c.Query("limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"data":         items,
		"can_view_all": canViewAll,
	})
}

func (h *LocationHandler) GetHistory(c *gin.Context) {
	items, err := h.svc.History(c.Request.Context(), middleware.RequestContext(c), service.HistoryQuery{
		UserID:   c.Query("user_id"),
		FromDate: c.Query("from_date"),
		ToDate:   c.Query("to_date"),
		Limit:    c.Query("limit"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

func (h *LocationHandler) GetUsers(c *gin.Context) {
	users, err := h.svc.TrackableUsers(c.Request.Context(), middleware.RequestContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": users})
}

// GetLastLocation returns the caller's latest location, 404 when there is none yet.
func (h *LocationHandler) GetLastLocation(c *gin.Context) {
	loc, err := h.svc.Last(c.Request.Context(), middleware.RequestContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": loc})
}
