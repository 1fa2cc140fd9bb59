package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/classdesk/scheduler/internal/model"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{model.ErrStudentNotFound, http.StatusNotFound},
		{model.ErrSlotNotFound, http.StatusNotFound},
		{model.ErrCapacityExceeded, http.StatusConflict},
		{model.ErrDuplicateReservation, http.StatusConflict},
		{model.ErrQuotaExceeded, http.StatusBadRequest},
		{model.ErrInvalidToken, http.StatusBadRequest},
		{model.ErrTokenAlreadyUsed, http.StatusBadRequest},
		{model.ErrTokenExpired, http.StatusBadRequest},
		{model.ErrPlanMismatch, http.StatusBadRequest},
		{model.ErrStudentInactive, http.StatusBadRequest},
		{model.ErrValidation, http.StatusBadRequest},
		{model.ErrForbidden, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := statusForError(tc.err); got != tc.want {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.want, got)
		}
	}
}

func TestFreeDayGroupedRequiresAdmin(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = newHTTPErrorHandler(zap.NewNop())

	h := &Handler{}
	e.GET("/schedule/free-day", h.GetFreeDayGrouped)

	req := httptest.NewRequest(http.MethodGet, "/schedule/free-day?date=2026-09-07", nil)
	req.Header.Set("X-User-Id", "42")
	req.Header.Set("X-User-Role", "STUDENT")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin viewer must get 403, got %d", rec.Code)
	}
}

func TestStatusForWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("plan week: %w", model.ErrQuotaExceeded)
	if got := statusForError(wrapped); got != http.StatusBadRequest {
		t.Errorf("wrapped sentinel must still map, got %d", got)
	}

	deeply := fmt.Errorf("handler: %w", fmt.Errorf("service: %w", model.ErrSlotNotFound))
	if got := statusForError(deeply); got != http.StatusNotFound {
		t.Errorf("deeply wrapped sentinel must still map, got %d", got)
	}
}
