package usecase

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationScope = "github.com/faiyaz92/pay-roll-sub001/internal/application/usecase"

var tracer = otel.Tracer(instrumentationScope)

// instruments are resolved against the global meter provider, which
// forwards to the Prometheus-backed provider once it is installed.
type instruments struct {
	schedulesGenerated   metric.Int64Counter
	installmentsPaid     metric.Int64Counter
	prepaymentsPreviewed metric.Int64Counter
	prepaymentsConfirmed metric.Int64Counter
	projectionsRun       metric.Int64Counter
	activitiesRecorded   metric.Int64Counter
}

var telemetry = newInstruments(otel.Meter(instrumentationScope))

func newInstruments(m metric.Meter) instruments {
	counter := func(name, desc string) metric.Int64Counter {
		c, err := m.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			otel.Handle(err)
			c, _ = noop.NewMeterProvider().Meter(instrumentationScope).Int64Counter(name)
		}
		return c
	}
	return instruments{
		schedulesGenerated:   counter("fleet_finance_schedules_generated", "Amortization schedules generated or rebuilt."),
		installmentsPaid:     counter("fleet_finance_installments_paid", "Installments recorded as paid."),
		prepaymentsPreviewed: counter("fleet_finance_prepayments_previewed", "Prepayment quotes issued."),
		prepaymentsConfirmed: counter("fleet_finance_prepayments_confirmed", "Prepayments confirmed and applied."),
		projectionsRun:       counter("fleet_finance_projections_run", "Multi-year projections computed."),
		activitiesRecorded:   counter("fleet_finance_activities_recorded", "Earning and expense entries recorded."),
	}
}

// fail records err on the span and returns it unchanged.
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
