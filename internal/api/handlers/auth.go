package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/go-subtrack-backend/internal/model"
	"github.com/subtrackhq/go-subtrack-backend/internal/service"
)

type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	var response model.ResponseApi

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ApiMessage = "Invalid request: " + err.Error()
		c.JSON(http.StatusBadRequest, response)
		return
	}

	token, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.ApiMessage = "Username or password is incorrect"
		c.JSON(http.StatusUnauthorized, response)
		return
	}

	response.ApiMessage = "Login Successful"
	response.Data = model.LoginResponse{Token: token}
	c.JSON(http.StatusOK, response)
}
