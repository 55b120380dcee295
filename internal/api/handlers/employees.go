package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/go-subtrack-backend/internal/model"
	"github.com/subtrackhq/go-subtrack-backend/internal/service"
)

type EmployeeHandler struct {
	Dir *service.EmployeeService
}

func NewEmployeeHandler(dir *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{Dir: dir}
}

func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	list, err := h.Dir.GetAllEmployees(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	emp, err := h.Dir.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, emp)
}

func (h *EmployeeHandler) UpsertEmployee(c *gin.Context) {
	var emp model.Employee
	if err := c.ShouldBindJSON(&emp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Dir.UpsertEmployee(c.Request.Context(), emp); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emp)
}
