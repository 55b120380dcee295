package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/go-subtrack-backend/internal/model"
)

// respondError maps core errors onto HTTP statuses: validation 400, not-found
// 404, conflict 409, lock contention 423 (caller retries).
func respondError(c *gin.Context, err error) {
	var nf *model.NotFoundError
	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error(), "missing_ids": nf.IDs})
	case errors.Is(err, model.ErrSubtaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrAlreadyOpenEntry),
		errors.Is(err, model.ErrNoOpenEntry):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrLockNotAcquired):
		c.JSON(http.StatusLocked, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidStageIndex),
		errors.Is(err, model.ErrNonMonotonicTime),
		errors.Is(err, model.ErrNoChangesRequested),
		errors.Is(err, model.ErrEmptyEmployeeID),
		errors.Is(err, model.ErrInvalidPriority),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, model.ErrMissingField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// parseTimeFilter reads filter=all|today|week|month|custom plus from/to
// (YYYY-MM-DD, required for custom) from the query string.
func parseTimeFilter(c *gin.Context) (model.TimeFilter, error) {
	kind, err := model.ParseFilterKind(c.Query("filter"))
	if err != nil {
		return model.TimeFilter{}, err
	}
	if kind != model.FilterCustom {
		return model.TimeFilter{Kind: kind}, nil
	}
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		return model.TimeFilter{}, err
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		return model.TimeFilter{}, err
	}
	return model.Custom(from, to), nil
}
