package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"todo-api/internal/domain/model"
)

type stubHealthUseCase model.HealthResponse

func (s stubHealthUseCase) CheckHealth(context.Context) model.HealthResponse {
	return model.HealthResponse(s)
}

func TestCheckHealthStatusCode(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		status     model.HealthStatus
		wantStatus int
	}{
		"up":      {status: model.StatusUp, wantStatus: http.StatusOK},
		"unknown": {status: model.StatusUnknown, wantStatus: http.StatusOK},
		"down":    {status: model.StatusDown, wantStatus: http.StatusServiceUnavailable},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			e := echo.New()
			NewHealthController(e.Group("/api"), stubHealthUseCase{Status: tc.status}).InitHealthRoutes()

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
