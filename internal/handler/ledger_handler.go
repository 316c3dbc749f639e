package handler

import (
	"net/http"

	"farmops/internal/middleware"
	"farmops/internal/service"
	"farmops/pkg/pagination"
	"farmops/pkg/response"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService service.LedgerService
}

func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	inputs := router.Group("/api/inputs")
	{
		inputs.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListInputs)
		inputs.POST("", middleware.RequireRole("admin", "manager"), h.CreateInput)
		inputs.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetInput)
		inputs.POST("/:id/movements", middleware.RequireRole("admin", "manager"), h.PostMovement)
		inputs.GET("/:id/movements", middleware.RequireRole("admin", "manager", "staff"), h.GetKardex)
		inputs.POST("/:id/recompute", middleware.RequireRole("admin"), h.RecomputeStock)
	}
}

// ListInputs returns the input catalogue with cached balances
// @Summary      List inputs
// @Description  Returns a paginated input catalogue, optionally filtered by a search term
// @Tags         inputs
// @Produce      json
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Page size"
// @Param        search  query  string  false  "Match against code or name"
// @Success      200  {object}  response.Response
// @Router       /api/inputs [get]
func (h *LedgerHandler) ListInputs(c *gin.Context) {
	params := pagination.Parse(c)

	inputs, total, err := h.ledgerService.GetInputs(c.Request.Context(), params.Page, params.Limit, c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   inputs,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// CreateInput registers a new input, posting opening stock as an ENTRY
// @Summary      Create input
// @Description  Registers a new input; a positive opening stock is recorded as an ENTRY movement
// @Tags         inputs
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateInputRequest  true  "Input"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/inputs [post]
func (h *LedgerHandler) CreateInput(c *gin.Context) {
	var req service.CreateInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	input, err := h.ledgerService.CreateInput(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, input))
}

// GetInput returns one input with its current balance
func (h *LedgerHandler) GetInput(c *gin.Context) {
	input, err := h.ledgerService.GetInput(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, input))
}

// PostMovement records a manual stock movement against an input
// @Summary      Post stock movement
// @Description  Appends a manual ENTRY, EXIT, ADJUSTMENT, or TRANSFER movement and refreshes the balance
// @Tags         inputs
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Input ID"
// @Param        payload  body      service.PostMovementRequest  true  "Movement"
// @Success      201  {object}  response.Response
// @Failure      409  {object}  response.Response  "Insufficient stock"
// @Router       /api/inputs/{id}/movements [post]
func (h *LedgerHandler) PostMovement(c *gin.Context) {
	var req service.PostMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	movement, err := h.ledgerService.PostMovement(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, movement))
}

// GetKardex returns the paginated movement history for an input
func (h *LedgerHandler) GetKardex(c *gin.Context) {
	params := pagination.Parse(c)

	movements, total, err := h.ledgerService.Kardex(c.Request.Context(), c.Param("id"), params.Page, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   movements,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// RecomputeStock replays the movement history and rewrites the cached balance
// @Summary      Recompute stock
// @Description  Replays the input's full movement history and rewrites the cached balance
// @Tags         inputs
// @Produce      json
// @Param        id  path  string  true  "Input ID"
// @Success      200  {object}  response.Response
// @Router       /api/inputs/{id}/recompute [post]
func (h *LedgerHandler) RecomputeStock(c *gin.Context) {
	balance, err := h.ledgerService.Recompute(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"input_id":      c.Param("id"),
		"current_stock": balance,
	}))
}
