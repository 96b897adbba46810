package controllers

import (
	"net/http"
	"strconv"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

const defaultExpiringDays = 30

type ReportController struct {
	ReportSvc  *services.ReportService
	InvoiceSvc *services.InvoiceService
}

func NewReportController(reports *services.ReportService, invoices *services.InvoiceService) *ReportController {
	return &ReportController{ReportSvc: reports, InvoiceSvc: invoices}
}

type dateRangePayload struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type generateReportPayload struct {
	ReportType string `json:"report_type" binding:"required"`
	dateRangePayload
}

// dateRange validates the bound dates, answering 400 when they are not a range.
func (p dateRangePayload) dateRange(c *gin.Context) (services.DateRange, bool) {
	r, err := services.ParseDateRange(p.StartDate, p.EndDate)
	if err != nil {
		respondError(c, err)
		return services.DateRange{}, false
	}
	return r, true
}

func (rc *ReportController) RevenueStats(c *gin.Context) {
	var payload dateRangePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	r, ok := payload.dateRange(c)
	if !ok {
		return
	}
	stats, err := rc.ReportSvc.RevenueStats(c.Request.Context(), ownerID(c), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (rc *ReportController) GenerateReport(c *gin.Context) {
	var payload generateReportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	r, ok := payload.dateRange(c)
	if !ok {
		return
	}
	report, err := rc.ReportSvc.GenerateReport(c.Request.Context(), ownerID(c), payload.ReportType, r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// CreateMonthlyInvoices POST /api/v1/reports/create-monthly-invoices
func (rc *ReportController) CreateMonthlyInvoices(c *gin.Context) {
	n, err := rc.InvoiceSvc.CreateMonthlyBatch(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"created": n,
		"message": strconv.Itoa(n) + " invoices created",
	})
}

// ExpiringContracts GET /api/v1/reports/expiring-contracts?days=30
func (rc *ReportController) ExpiringContracts(c *gin.Context) {
	days := defaultExpiringDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid days")
			return
		}
		days = n
	}
	contracts, err := rc.ReportSvc.ExpiringContracts(c.Request.Context(), ownerID(c), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (rc *ReportController) SystemOverview(c *gin.Context) {
	overview, err := rc.ReportSvc.SystemOverview(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (rc *ReportController) PendingInvoices(c *gin.Context) {
	summary, err := rc.ReportSvc.PendingInvoices(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (rc *ReportController) SearchRooms(c *gin.Context) {
	var q services.RoomSearch
	if err := c.ShouldBindJSON(&q); err != nil {
		badRequest(c, err)
		return
	}
	rooms, err := rc.ReportSvc.SearchRooms(c.Request.Context(), ownerID(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}
