package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/fincontrol/backend/internal/application/report"
)

// ReportHandler handles reporting API endpoints
type ReportHandler struct {
	BaseHandler
	dre *reportapp.DREService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(dre *reportapp.DREService) *ReportHandler {
	return &ReportHandler{dre: dre}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/dre", h.GetDRE)
	}
}

// DREQuery bounds the reporting period; dates are YYYY-MM-DD
type DREQuery struct {
	FromDate string `form:"from_date"`
	ToDate   string `form:"to_date"`
}

// GetDRE computes the income statement rollup for the period
func (h *ReportHandler) GetDRE(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var query DREQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var filter reportapp.DREFilter
	if filter.FromDate, err = parseDateParam(query.FromDate); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.ToDate, err = parseDateParam(query.ToDate); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	statement, err := h.dre.GetDRE(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statement)
}
