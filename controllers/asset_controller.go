package controllers

import (
	"net/http"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type AssetController struct {
	AssetSvc *services.AssetService
}

func NewAssetController(svc *services.AssetService) *AssetController {
	return &AssetController{AssetSvc: svc}
}

func (ac *AssetController) Create(c *gin.Context) {
	var in services.AssetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	asset, err := ac.AssetSvc.Create(c.Request.Context(), ownerID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

func (ac *AssetController) ListByRoom(c *gin.Context) {
	roomID, ok := paramID(c, "room_id")
	if !ok {
		return
	}
	assets, err := ac.AssetSvc.ListByRoom(c.Request.Context(), ownerID(c), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

func (ac *AssetController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	asset, err := ac.AssetSvc.Get(c.Request.Context(), ownerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (ac *AssetController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.AssetUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	asset, err := ac.AssetSvc.Update(c.Request.Context(), ownerID(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (ac *AssetController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ac.AssetSvc.Delete(c.Request.Context(), ownerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "asset deleted successfully")
}
