package handler

import (
	"github.com/gin-gonic/gin"

	reconapp "github.com/fincontrol/backend/internal/application/reconciliation"
)

// ReconciliationHandler handles bank statement item API endpoints
type ReconciliationHandler struct {
	BaseHandler
	matches *reconapp.MatchService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(matches *reconapp.MatchService) *ReconciliationHandler {
	return &ReconciliationHandler{matches: matches}
}

// RegisterRoutes registers reconciliation routes
func (h *ReconciliationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/bank-items")
	{
		items.GET("", h.List)
		items.POST("", h.Create)
		items.POST("/:id/match", h.Match)
		items.DELETE("", h.Clear)
	}
}

// List returns bank statement items with filtering
func (h *ReconciliationHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var filter reconapp.BankItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, total, err := h.matches.ListBankItems(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Create records an imported statement line as pending
func (h *ReconciliationHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req reconapp.CreateBankItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.matches.CreateBankItem(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Match reconciles a bank item with a ledger transaction. Both sides are
// updated atomically.
func (h *ReconciliationHandler) Match(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bank item ID")
		return
	}

	var req reconapp.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.matches.Match(c.Request.Context(), tenantID, id, req.TransactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Clear deletes every bank statement item for the tenant
func (h *ReconciliationHandler) Clear(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	if err := h.matches.Clear(c.Request.Context(), tenantID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
