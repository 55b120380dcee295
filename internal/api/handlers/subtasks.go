package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/go-subtrack-backend/internal/model"
	"github.com/subtrackhq/go-subtrack-backend/internal/service"
	"github.com/subtrackhq/go-subtrack-backend/internal/utils"
)

type SubtaskHandler struct {
	Svc *service.SubtaskService
	Agg *service.AggregationService
}

func NewSubtaskHandler(svc *service.SubtaskService, agg *service.AggregationService) *SubtaskHandler {
	return &SubtaskHandler{Svc: svc, Agg: agg}
}

func (h *SubtaskHandler) Create(c *gin.Context) {
	var in service.CreateSubtaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *SubtaskHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *SubtaskHandler) Get(c *gin.Context) {
	st, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SubtaskHandler) Patch(c *gin.Context) {
	var patch model.FieldPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.Svc.Patch(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SubtaskHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type completeStageRequest struct {
	CompletedBy string     `json:"completed_by" binding:"required"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (h *SubtaskHandler) CompleteStage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stage index"})
		return
	}
	var req completeStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	at := time.Now()
	if req.CompletedAt != nil {
		at = *req.CompletedAt
	}
	st, err := h.Svc.CompleteStage(c.Request.Context(), c.Param("id"), index, req.CompletedBy, at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type timeLogRequest struct {
	UserID string     `json:"user_id" binding:"required"`
	At     *time.Time `json:"at"`
}

func (h *SubtaskHandler) StartTimeLog(c *gin.Context) {
	var req timeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	at := time.Now()
	if req.At != nil {
		at = *req.At
	}
	st, err := h.Svc.StartTimeLog(c.Request.Context(), c.Param("id"), req.UserID, at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SubtaskHandler) StopTimeLog(c *gin.Context) {
	var req timeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	at := time.Now()
	if req.At != nil {
		at = *req.At
	}
	st, err := h.Svc.StopTimeLog(c.Request.Context(), c.Param("id"), req.UserID, at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SubtaskHandler) Summary(c *gin.Context) {
	filter, err := parseTimeFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.ConvertSubtaskToSummary(st, filter, time.Now()))
}

type bulkUpdateRequest struct {
	IDs   []string        `json:"ids" binding:"required"`
	Patch model.BulkPatch `json:"patch"`
}

func (h *SubtaskHandler) BulkUpdate(c *gin.Context) {
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Svc.BulkUpdate(c.Request.Context(), req.IDs, req.Patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated", "count": len(req.IDs)})
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func (h *SubtaskHandler) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Svc.BulkDelete(c.Request.Context(), req.IDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted", "count": len(req.IDs)})
}

// Active lists only subtasks with a time log inside the filter window.
func (h *SubtaskHandler) Active(c *gin.Context) {
	filter, err := parseTimeFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	now := time.Now()
	list, err := h.Agg.ListWithActivity(c.Request.Context(), filter, now)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.ConvertSubtasksToSummaries(list, filter, now))
}
