package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/faiyaz92/pay-roll-sub001/internal/application/dto"
	"github.com/faiyaz92/pay-roll-sub001/internal/application/usecase"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type scheduleExporter interface {
	Execute(ctx context.Context, loanID string) ([]byte, error)
}

type projectionExporter interface {
	Execute(ctx context.Context, req dto.ProjectFinancialsRequest) ([]byte, error)
}

// ExportHandler serves loan schedules and projections as Excel downloads.
type ExportHandler struct {
	schedule   scheduleExporter
	projection projectionExporter
	logger     *slog.Logger
}

func NewExportHandler(schedule scheduleExporter, projection projectionExporter, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{schedule: schedule, projection: projection, logger: logger}
}

func (h *ExportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/loans/{id}/schedule.xlsx", h.exportSchedule)
	mux.HandleFunc("GET /v1/vehicles/{id}/projection.xlsx", h.exportProjection)
}

func (h *ExportHandler) exportSchedule(w http.ResponseWriter, r *http.Request) {
	loanID := r.PathValue("id")
	b, err := h.schedule.Execute(r.Context(), loanID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeWorkbook(w, "schedule-"+loanID+".xlsx", b)
}

// exportProjection accepts the projection overrides as query parameters:
// years, earnings, expenses, increased_emi and use_net_cash_flow.
func (h *ExportHandler) exportProjection(w http.ResponseWriter, r *http.Request) {
	req, err := projectionRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	b, err := h.projection.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeWorkbook(w, "projection-"+req.VehicleID+".xlsx", b)
}

func projectionRequest(r *http.Request) (dto.ProjectFinancialsRequest, error) {
	q := r.URL.Query()
	req := dto.ProjectFinancialsRequest{VehicleID: r.PathValue("id"), Years: 5}

	if v := q.Get("years"); v != "" {
		years, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: years must be an integer", model.ErrInvalidInput)
		}
		req.Years = years
	}
	if v := q.Get("use_net_cash_flow"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("%w: use_net_cash_flow must be a boolean", model.ErrInvalidInput)
		}
		req.UseNetCashFlowForEMI = b
	}

	var err error
	if req.AssumedMonthlyEarnings, err = optionalDecimal(q.Get("earnings"), "earnings"); err != nil {
		return req, err
	}
	if req.AssumedMonthlyExpenses, err = optionalDecimal(q.Get("expenses"), "expenses"); err != nil {
		return req, err
	}
	if req.IncreasedEMI, err = optionalDecimal(q.Get("increased_emi"), "increased_emi"); err != nil {
		return req, err
	}
	return req, nil
}

func optionalDecimal(v, name string) (*decimal.Decimal, error) {
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", model.ErrInvalidInput, name)
	}
	return &d, nil
}

func writeWorkbook(w http.ResponseWriter, filename string, b []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *ExportHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := httpStatus(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "export failed", "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, code, map[string]string{"error": msg})
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrNonConvergent),
		errors.Is(err, model.ErrLoanClosed),
		errors.Is(err, usecase.ErrQuoteExpired),
		errors.Is(err, usecase.ErrQuoteStale):
		return http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrActiveLoanExists),
		errors.Is(err, model.ErrConcurrentModification):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
