package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/go-subtrack-backend/internal/model"
	"github.com/subtrackhq/go-subtrack-backend/internal/service"
)

type DashboardHandler struct {
	Agg *service.AggregationService
}

func NewDashboardHandler(agg *service.AggregationService) *DashboardHandler {
	return &DashboardHandler{Agg: agg}
}

// Rollup serves GET /rollup?group_by=project|employee|department&filter=...
func (h *DashboardHandler) Rollup(c *gin.Context) {
	groupBy, err := model.ParseGroupBy(c.DefaultQuery("group_by", string(model.GroupByProject)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter, err := parseTimeFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rollups, err := h.Agg.Rollup(c.Request.Context(), filter, groupBy, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group_by": groupBy, "groups": rollups})
}
