package controllers

import (
	"net/http"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type RentedRoomController struct {
	RentalSvc *services.RentalService
}

func NewRentedRoomController(svc *services.RentalService) *RentedRoomController {
	return &RentedRoomController{RentalSvc: svc}
}

// Create POST /api/v1/rented-rooms
// 404 when the room is not the caller's, 409 when it is already rented.
func (rc *RentedRoomController) Create(c *gin.Context) {
	var in services.RentalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	rr, err := rc.RentalSvc.Create(c.Request.Context(), ownerID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rr)
}

func (rc *RentedRoomController) ListActive(c *gin.Context) {
	p := utils.ParsePagination(c)
	rentals, err := rc.RentalSvc.ListActive(c.Request.Context(), ownerID(c), p.Skip, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rentals)
}

func (rc *RentedRoomController) ListByRoom(c *gin.Context) {
	roomID, ok := paramID(c, "room_id")
	if !ok {
		return
	}
	rentals, err := rc.RentalSvc.ListByRoom(c.Request.Context(), ownerID(c), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rentals)
}

func (rc *RentedRoomController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rr, err := rc.RentalSvc.Get(c.Request.Context(), ownerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rr)
}

func (rc *RentedRoomController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.RentalUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	rr, err := rc.RentalSvc.Update(c.Request.Context(), ownerID(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rr)
}

// Terminate POST /api/v1/rented-rooms/:id/terminate
func (rc *RentedRoomController) Terminate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := rc.RentalSvc.Terminate(c.Request.Context(), ownerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "rental terminated successfully")
}
