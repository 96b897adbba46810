package controllers

import (
	"net/http"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type InvoiceController struct {
	InvoiceSvc *services.InvoiceService
}

func NewInvoiceController(svc *services.InvoiceService) *InvoiceController {
	return &InvoiceController{InvoiceSvc: svc}
}

func (ic *InvoiceController) Create(c *gin.Context) {
	var in services.InvoiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	inv, err := ic.InvoiceSvc.Create(c.Request.Context(), ownerID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (ic *InvoiceController) List(c *gin.Context) {
	p := utils.ParsePagination(c)
	invoices, err := ic.InvoiceSvc.List(c.Request.Context(), ownerID(c), p.Skip, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (ic *InvoiceController) ListPending(c *gin.Context) {
	p := utils.ParsePagination(c)
	invoices, err := ic.InvoiceSvc.ListPending(c.Request.Context(), ownerID(c), p.Skip, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (ic *InvoiceController) ListByRentedRoom(c *gin.Context) {
	rrID, ok := paramID(c, "rr_id")
	if !ok {
		return
	}
	invoices, err := ic.InvoiceSvc.ListByRentedRoom(c.Request.Context(), ownerID(c), rrID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (ic *InvoiceController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	inv, err := ic.InvoiceSvc.Get(c.Request.Context(), ownerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (ic *InvoiceController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.InvoiceUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	inv, err := ic.InvoiceSvc.Update(c.Request.Context(), ownerID(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (ic *InvoiceController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ic.InvoiceSvc.Delete(c.Request.Context(), ownerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "invoice deleted successfully")
}

// Pay POST /api/v1/invoices/:id/pay. Paying twice returns the invoice unchanged.
func (ic *InvoiceController) Pay(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	inv, err := ic.InvoiceSvc.MarkPaid(c.Request.Context(), ownerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}
