package handler

import (
	"net/http"

	"farmops/internal/middleware"
	"farmops/internal/service"
	"farmops/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/api/audit-logs")
	{
		logs.GET("", middleware.RequireRole("admin", "manager"), h.ListAuditLogs)
	}
}

// ListAuditLogs returns the audit trail, newest first
// @Summary      List audit logs
// @Description  Returns a paginated audit trail of every recorded state change, newest first
// @Tags         audit
// @Produce      json
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   logs,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}
