package controllers

import (
	"net/http"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type HouseController struct {
	HouseSvc *services.HouseService
}

func NewHouseController(svc *services.HouseService) *HouseController {
	return &HouseController{HouseSvc: svc}
}

func (hc *HouseController) Create(c *gin.Context) {
	var in services.HouseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	house, err := hc.HouseSvc.Create(c.Request.Context(), ownerID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, house)
}

func (hc *HouseController) List(c *gin.Context) {
	p := utils.ParsePagination(c)
	houses, err := hc.HouseSvc.List(c.Request.Context(), ownerID(c), p.Skip, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, houses)
}

func (hc *HouseController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	house, err := hc.HouseSvc.Get(c.Request.Context(), ownerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, house)
}

func (hc *HouseController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.HouseUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	house, err := hc.HouseSvc.Update(c.Request.Context(), ownerID(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, house)
}

func (hc *HouseController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := hc.HouseSvc.Delete(c.Request.Context(), ownerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "house deleted successfully")
}

// ListByOwner GET /api/v1/houses/owner/:owner_id (admin)
func (hc *HouseController) ListByOwner(c *gin.Context) {
	id, ok := paramID(c, "owner_id")
	if !ok {
		return
	}
	p := utils.ParsePagination(c)
	houses, err := hc.HouseSvc.ListByOwner(c.Request.Context(), id, p.Skip, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, houses)
}

// ListAll GET /api/v1/houses/admin/all (admin)
func (hc *HouseController) ListAll(c *gin.Context) {
	p := utils.ParsePagination(c)
	houses, err := hc.HouseSvc.ListAll(c.Request.Context(), p.Skip, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, houses)
}
