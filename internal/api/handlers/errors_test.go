package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/go-subtrack-backend/internal/model"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", model.ErrSubtaskNotFound, http.StatusNotFound},
		{"bulk not found", &model.NotFoundError{IDs: []string{"a", "b"}}, http.StatusNotFound},
		{"no open entry", model.ErrNoOpenEntry, http.StatusConflict},
		{"lock contention", model.ErrLockNotAcquired, http.StatusLocked},
		{"bad stage index", model.ErrInvalidStageIndex, http.StatusBadRequest},
		{"empty patch", model.ErrNoChangesRequested, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tt.err)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestParseTimeFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(query string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/rollup?"+query, nil)
		return c
	}

	f, err := parseTimeFilter(newCtx(""))
	if err != nil || f.Kind != model.FilterAllTime {
		t.Fatalf("empty query = %v/%v, want all-time filter", f.Kind, err)
	}

	f, err = parseTimeFilter(newCtx("filter=custom&from=2025-03-01&to=2025-03-05"))
	if err != nil {
		t.Fatalf("custom filter: %v", err)
	}
	if !f.From.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("from = %v", f.From)
	}

	if _, err := parseTimeFilter(newCtx("filter=custom&from=2025-03-01")); err == nil {
		t.Fatal("custom without to must fail")
	}
	if _, err := parseTimeFilter(newCtx("filter=fortnight")); err == nil {
		t.Fatal("unknown filter kind must fail")
	}
}
