package handler

import (
	"net/http"

	"farmops/internal/middleware"
	"farmops/internal/repository"
	"farmops/internal/service"
	"farmops/pkg/pagination"
	"farmops/pkg/response"

	"github.com/gin-gonic/gin"
)

type WorkHandler struct {
	workService  service.WorkService
	auditService service.AuditService
}

func NewWorkHandler(workService service.WorkService, auditService service.AuditService) *WorkHandler {
	return &WorkHandler{workService: workService, auditService: auditService}
}

func (h *WorkHandler) RegisterRoutes(router *gin.RouterGroup) {
	works := router.Group("/api/works")
	{
		works.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListWorks)
		works.POST("", middleware.RequireRole("admin", "manager", "staff"), h.CreateWork)
		works.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetWork)
		works.PUT("/:id", middleware.RequireRole("admin", "manager", "staff"), h.UpdateWork)
		works.PUT("/:id/submit", middleware.RequireRole("admin", "manager", "staff"), h.SubmitWork)
		works.PUT("/:id/approve", middleware.RequireRole("admin", "manager"), h.ApproveWork)
		works.PUT("/:id/reject", middleware.RequireRole("admin", "manager"), h.RejectWork)
		works.PUT("/:id/close", middleware.RequireRole("admin", "manager"), h.CloseWork)
		works.PUT("/:id/cancel", middleware.RequireRole("admin", "manager"), h.CancelWork)
		works.GET("/:id/audit", middleware.RequireRole("admin", "manager"), h.GetWorkTrail)
	}
}

// ListWorks returns works, optionally filtered by status and kind
// @Summary      List works
// @Description  Returns a paginated list of works, optionally filtered by status and kind
// @Tags         works
// @Produce      json
// @Param        status  query  string  false  "Work status"
// @Param        kind    query  string  false  "Work kind"
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /api/works [get]
func (h *WorkHandler) ListWorks(c *gin.Context) {
	params := pagination.Parse(c)

	filter := repository.WorkFilter{
		Status: c.Query("status"),
		Kind:   c.Query("kind"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	works, total, err := h.workService.ListWorks(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   works,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// CreateWork creates a new work in DRAFT
// @Summary      Create work
// @Description  Creates a new agricultural or livestock work in DRAFT status
// @Tags         works
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateWorkRequest  true  "Work"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/works [post]
func (h *WorkHandler) CreateWork(c *gin.Context) {
	var req service.CreateWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	work, err := h.workService.CreateWork(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, work))
}

// GetWork returns one work with its line items and derived costs
func (h *WorkHandler) GetWork(c *gin.Context) {
	work, err := h.workService.GetWork(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, work))
}

// UpdateWork replaces the content of a DRAFT work
// @Summary      Update work
// @Description  Replaces the header fields and line collections of a DRAFT work
// @Tags         works
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Work ID"
// @Param        payload  body      service.UpdateWorkRequest  true  "Work"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/works/{id} [put]
func (h *WorkHandler) UpdateWork(c *gin.Context) {
	var req service.UpdateWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	work, err := h.workService.UpdateWork(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, work))
}

// SubmitWork moves a DRAFT work to PENDING_APPROVAL
func (h *WorkHandler) SubmitWork(c *gin.Context) {
	work, err := h.workService.SubmitWork(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, work))
}

// ApproveWork approves a pending work and deducts input stock
// @Summary      Approve work
// @Description  Approves a PENDING_APPROVAL work, deducting stock for every input line atomically
// @Tags         works
// @Produce      json
// @Param        id  path  string  true  "Work ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response  "Insufficient stock or invalid status"
// @Router       /api/works/{id}/approve [put]
func (h *WorkHandler) ApproveWork(c *gin.Context) {
	work, err := h.workService.ApproveWork(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, work))
}

// RejectWork returns a pending work to DRAFT with a reason
func (h *WorkHandler) RejectWork(c *gin.Context) {
	var req service.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "reason is required"))
		return
	}

	work, err := h.workService.RejectWork(c.Request.Context(), currentUserID(c), c.Param("id"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, work))
}

// CloseWork moves an APPROVED work to CLOSED
func (h *WorkHandler) CloseWork(c *gin.Context) {
	work, err := h.workService.CloseWork(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, work))
}

// CancelWork cancels a work, reversing stock deductions if it was approved
// @Summary      Cancel work
// @Description  Cancels a work with a mandatory reason; approved or closed works get a compensating stock entry per input line
// @Tags         works
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Work ID"
// @Param        payload  body      service.ReasonRequest  true  "Reason"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/works/{id}/cancel [put]
func (h *WorkHandler) CancelWork(c *gin.Context) {
	var req service.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "reason is required"))
		return
	}

	work, err := h.workService.CancelWork(c.Request.Context(), currentUserID(c), c.Param("id"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, work))
}

// GetWorkTrail returns the full audit trail for one work, oldest first
func (h *WorkHandler) GetWorkTrail(c *gin.Context) {
	trail, err := h.auditService.GetWorkTrail(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, trail))
}
