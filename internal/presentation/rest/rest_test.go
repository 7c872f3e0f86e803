package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faiyaz92/pay-roll-sub001/internal/application/dto"
	"github.com/faiyaz92/pay-roll-sub001/internal/application/usecase"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type mockScheduleExporter struct {
	executeFunc func(ctx context.Context, loanID string) ([]byte, error)
}

func (m *mockScheduleExporter) Execute(ctx context.Context, loanID string) ([]byte, error) {
	return m.executeFunc(ctx, loanID)
}

type mockProjectionExporter struct {
	executeFunc func(ctx context.Context, req dto.ProjectFinancialsRequest) ([]byte, error)
}

func (m *mockProjectionExporter) Execute(ctx context.Context, req dto.ProjectFinancialsRequest) ([]byte, error) {
	return m.executeFunc(ctx, req)
}

func serve(t *testing.T, register func(*http.ServeMux), target string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	register(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth_Readiness(t *testing.T) {
	healthy := NewHealthHandler("fleet-finance", map[string]Check{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return nil },
	}, discard)
	rec := serve(t, healthy.RegisterRoutes, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)

	failing := NewHealthHandler("fleet-finance", map[string]Check{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("dial tcp: connection refused") },
	}, discard)
	rec = serve(t, failing.RegisterRoutes, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, "ok", body.Checks["postgres"])
	assert.Contains(t, body.Checks["redis"], "connection refused")

	rec = serve(t, failing.RegisterRoutes, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExport_Schedule(t *testing.T) {
	h := NewExportHandler(&mockScheduleExporter{
		executeFunc: func(_ context.Context, loanID string) ([]byte, error) {
			if loanID == "missing" {
				return nil, fmt.Errorf("find loan: %w", model.ErrNotFound)
			}
			return []byte("PK-workbook"), nil
		},
	}, nil, discard)

	rec := serve(t, h.RegisterRoutes, "/v1/loans/loan-1/schedule.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "schedule-loan-1.xlsx")
	assert.Equal(t, "PK-workbook", rec.Body.String())

	rec = serve(t, h.RegisterRoutes, "/v1/loans/missing/schedule.xlsx")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExport_ProjectionQuery(t *testing.T) {
	var got dto.ProjectFinancialsRequest
	h := NewExportHandler(nil, &mockProjectionExporter{
		executeFunc: func(_ context.Context, req dto.ProjectFinancialsRequest) ([]byte, error) {
			got = req
			return []byte("xlsx"), nil
		},
	}, discard)

	rec := serve(t, h.RegisterRoutes, "/v1/vehicles/vehicle-001/projection.xlsx?years=3&increased_emi=20000&use_net_cash_flow=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "vehicle-001", got.VehicleID)
	assert.Equal(t, 3, got.Years)
	assert.True(t, got.UseNetCashFlowForEMI)
	require.NotNil(t, got.IncreasedEMI)
	assert.Equal(t, "20000", got.IncreasedEMI.String())
	assert.Nil(t, got.AssumedMonthlyEarnings)

	rec = serve(t, h.RegisterRoutes, "/v1/vehicles/vehicle-001/projection.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, got.Years)

	rec = serve(t, h.RegisterRoutes, "/v1/vehicles/vehicle-001/projection.xlsx?years=many")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, httpStatus(model.ErrNonConvergent))
	assert.Equal(t, http.StatusConflict, httpStatus(usecase.ErrActiveLoanExists))
	assert.Equal(t, http.StatusConflict, httpStatus(model.ErrConcurrentModification))
	assert.Equal(t, http.StatusInternalServerError, httpStatus(errors.New("boom")))
}
