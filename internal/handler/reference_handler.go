package handler

import (
	"net/http"

	"farmops/internal/middleware"
	"farmops/internal/service"
	"farmops/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReferenceHandler struct {
	referenceService service.ReferenceService
}

func NewReferenceHandler(referenceService service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

func (h *ReferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/cost-centers", middleware.RequireRole("admin", "manager", "staff"), h.ListCostCenters)
	router.GET("/api/campaigns", middleware.RequireRole("admin", "manager", "staff"), h.ListCampaigns)
	router.GET("/api/machinery", middleware.RequireRole("admin", "manager", "staff"), h.ListMachinery)
}

// ListCostCenters returns all cost centers
func (h *ReferenceHandler) ListCostCenters(c *gin.Context) {
	ccs, err := h.referenceService.ListCostCenters(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, ccs))
}

// ListCampaigns returns all campaigns, newest first
func (h *ReferenceHandler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.referenceService.ListCampaigns(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, campaigns))
}

// ListMachinery returns the machinery catalogue
func (h *ReferenceHandler) ListMachinery(c *gin.Context) {
	machinery, err := h.referenceService.ListMachinery(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, machinery))
}
