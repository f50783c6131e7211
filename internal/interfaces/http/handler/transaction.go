package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/fincontrol/backend/internal/application/ledger"
)

// TransactionHandler handles ledger transaction API endpoints, including
// installment plans, payment confirmation and group rescheduling
type TransactionHandler struct {
	BaseHandler
	transactions *ledgerapp.TransactionService
	payments     *ledgerapp.PaymentService
	grouping     *ledgerapp.GroupingService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(
	transactions *ledgerapp.TransactionService,
	payments *ledgerapp.PaymentService,
	grouping *ledgerapp.GroupingService,
) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		payments:     payments,
		grouping:     grouping,
	}
}

// RegisterRoutes registers transaction routes
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.List)
		transactions.POST("", h.Create)
		transactions.POST("/installments", h.CreateInstallmentPlan)
		transactions.GET("/groups", h.ListGroups)
		transactions.POST("/groups/reschedule", h.BatchReschedule)
		transactions.GET("/:id", h.Get)
		transactions.PUT("/:id/terms", h.EditTerms)
		transactions.POST("/:id/confirm-payment", h.ConfirmPayment)
		transactions.POST("/:id/cancel-payment", h.CancelPayment)
		transactions.POST("/:id/cancel", h.Cancel)
		transactions.DELETE("/:id", h.Delete)
	}
}

// TransactionListQuery holds list filter query parameters. Dates are
// YYYY-MM-DD; IDs are UUID strings.
type TransactionListQuery struct {
	Search           string `form:"search"`
	Type             string `form:"type"`
	Status           string `form:"status"`
	CategoryID       string `form:"category_id"`
	CustomerID       string `form:"customer_id"`
	SupplierID       string `form:"supplier_id"`
	InstallmentGroup string `form:"installment_group"`
	Reconciled       *bool  `form:"reconciled"`
	FromDate         string `form:"from_date"`
	ToDate           string `form:"to_date"`
	Page             int    `form:"page" binding:"omitempty,min=1"`
	PageSize         int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (q TransactionListQuery) toFilter() (ledgerapp.TransactionListFilter, error) {
	filter := ledgerapp.TransactionListFilter{
		Search:           q.Search,
		Type:             q.Type,
		Status:           q.Status,
		InstallmentGroup: q.InstallmentGroup,
		Reconciled:       q.Reconciled,
		Page:             q.Page,
		PageSize:         q.PageSize,
	}

	var err error
	if filter.CategoryID, err = parseUUIDParam(q.CategoryID); err != nil {
		return filter, err
	}
	if filter.CustomerID, err = parseUUIDParam(q.CustomerID); err != nil {
		return filter, err
	}
	if filter.SupplierID, err = parseUUIDParam(q.SupplierID); err != nil {
		return filter, err
	}
	if filter.DueDateFrom, err = parseDateParam(q.FromDate); err != nil {
		return filter, err
	}
	if filter.DueDateTo, err = parseDateParam(q.ToDate); err != nil {
		return filter, err
	}
	return filter, nil
}

func parseUUIDParam(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// List returns a paginated, filtered list of transactions
func (h *TransactionHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var query TransactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transactions, total, err := h.transactions.ListTransactions(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, transactions, total, filter.Page, filter.PageSize)
}

// Create creates a single pending transaction
func (h *TransactionHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req ledgerapp.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.transactions.CreateTransaction(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// CreateInstallmentPlan splits one sale or purchase into N monthly
// installments sharing a group key
func (h *TransactionHandler) CreateInstallmentPlan(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req ledgerapp.CreateInstallmentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	plan, err := h.transactions.CreateInstallmentPlan(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, plan)
}

// ListGroups returns the tenant's transactions partitioned into
// installment groups
func (h *TransactionHandler) ListGroups(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var query TransactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	groups, err := h.grouping.ListGroups(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, groups)
}

// BatchReschedule moves every installment of a group onto a new monthly
// schedule
func (h *TransactionHandler) BatchReschedule(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req ledgerapp.BatchRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.transactions.BatchRescheduleDueDates(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Get returns a transaction by ID
func (h *TransactionHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	tx, err := h.transactions.GetTransactionByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// EditTerms changes a transaction's amount and due date
func (h *TransactionHandler) EditTerms(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req ledgerapp.EditTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.transactions.EditTerms(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// ConfirmPayment records a payment against a transaction
func (h *TransactionHandler) ConfirmPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req ledgerapp.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.payments.ConfirmPayment(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// CancelPayment reverts a recorded payment, resetting the transaction to
// pending
func (h *TransactionHandler) CancelPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	tx, err := h.payments.CancelPayment(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// Cancel marks the transaction record itself as cancelled
func (h *TransactionHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	tx, err := h.transactions.CancelTransaction(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// Delete deletes a transaction unless it is reconciled
func (h *TransactionHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.transactions.DeleteTransaction(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
