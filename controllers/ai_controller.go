package controllers

import (
	"net/http"

	"rental-backend/services"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	AssistantSvc *services.AssistantService
}

func NewAIController(svc *services.AssistantService) *AIController {
	return &AIController{AssistantSvc: svc}
}

func (ac *AIController) Chat(c *gin.Context) {
	var in services.ChatInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	res, err := ac.AssistantSvc.Chat(c.Request.Context(), ownerID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ac *AIController) RecommendRooms(c *gin.Context) {
	var in services.RecommendInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	res, err := ac.AssistantSvc.RecommendRooms(c.Request.Context(), ownerID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ac *AIController) RevenueReport(c *gin.Context) {
	var payload dateRangePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	r, ok := payload.dateRange(c)
	if !ok {
		return
	}
	res, err := ac.AssistantSvc.RevenueReport(c.Request.Context(), ownerID(c), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
