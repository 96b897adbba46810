package controllers

import (
	"net/http"
	"strings"

	"rental-backend/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthSvc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{AuthSvc: svc}
}

// loginPayload accepts JSON or form bodies. username is an alias for email.
type loginPayload struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (p loginPayload) identity() string {
	if email := strings.TrimSpace(p.Email); email != "" {
		return email
	}
	return strings.TrimSpace(p.Username)
}

// Login POST /api/v1/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBind(&payload); err != nil {
		badRequest(c, err)
		return
	}
	res, err := ac.AuthSvc.Login(c.Request.Context(), payload.identity(), payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AdminLogin POST /api/v1/auth/admin/login
func (ac *AuthController) AdminLogin(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBind(&payload); err != nil {
		badRequest(c, err)
		return
	}
	res, err := ac.AuthSvc.AdminLogin(c.Request.Context(), payload.identity(), payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
