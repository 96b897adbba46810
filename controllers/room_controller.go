package controllers

import (
	"net/http"
	"strconv"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

func (rc *RoomController) Create(c *gin.Context) {
	var in services.RoomInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	room, err := rc.RoomSvc.Create(c.Request.Context(), ownerID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (rc *RoomController) List(c *gin.Context) {
	p := utils.ParsePagination(c)
	rooms, err := rc.RoomSvc.List(c.Request.Context(), ownerID(c), p.Skip, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// ListAvailable GET /api/v1/rooms/available?house_id=
func (rc *RoomController) ListAvailable(c *gin.Context) {
	var houseID uint64
	if raw := c.Query("house_id"); raw != "" {
		var err error
		if houseID, err = strconv.ParseUint(raw, 10, 64); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid house_id")
			return
		}
	}
	p := utils.ParsePagination(c)
	rooms, err := rc.RoomSvc.ListAvailable(c.Request.Context(), ownerID(c), uint(houseID), p.Skip, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (rc *RoomController) ListByHouse(c *gin.Context) {
	houseID, ok := paramID(c, "house_id")
	if !ok {
		return
	}
	p := utils.ParsePagination(c)
	rooms, err := rc.RoomSvc.ListByHouse(c.Request.Context(), ownerID(c), houseID, p.Skip, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (rc *RoomController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	room, err := rc.RoomSvc.Get(c.Request.Context(), ownerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.RoomUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	room, err := rc.RoomSvc.Update(c.Request.Context(), ownerID(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := rc.RoomSvc.Delete(c.Request.Context(), ownerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "room deleted successfully")
}
