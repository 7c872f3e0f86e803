package usecase_test

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/faiyaz92/pay-roll-sub001/internal/domain/event"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/port"
)

// ---------------------------------------------------------------------------
// Mock repositories
// ---------------------------------------------------------------------------

type mockLoanRepository struct {
	saveFunc            func(ctx context.Context, loan model.Loan) error
	findByIDFunc        func(ctx context.Context, id string) (model.Loan, error)
	findByVehicleIDFunc func(ctx context.Context, vehicleID string) (model.Loan, error)
	totalsFunc          func(ctx context.Context, vehicleID string) (model.LoanTotals, error)
	savedLoans          []model.Loan
}

func (m *mockLoanRepository) Save(ctx context.Context, loan model.Loan) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, loan)
	}
	m.savedLoans = append(m.savedLoans, loan)
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id string) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Loan{}, model.ErrNotFound
}

func (m *mockLoanRepository) FindByVehicleID(ctx context.Context, vehicleID string) (model.Loan, error) {
	if m.findByVehicleIDFunc != nil {
		return m.findByVehicleIDFunc(ctx, vehicleID)
	}
	return model.Loan{}, model.ErrNotFound
}

// TotalsByVehicleID defaults to the totals of the loan FindByVehicleID
// returns, which is what a vehicle with a single loan stores.
func (m *mockLoanRepository) TotalsByVehicleID(ctx context.Context, vehicleID string) (model.LoanTotals, error) {
	if m.totalsFunc != nil {
		return m.totalsFunc(ctx, vehicleID)
	}
	loan, err := m.FindByVehicleID(ctx, vehicleID)
	if errors.Is(err, model.ErrNotFound) {
		return model.LoanTotals{}, nil
	}
	if err != nil {
		return model.LoanTotals{}, err
	}
	return model.LoanTotals{EMIPaid: loan.EMIPaidToDate(), Prepaid: loan.TotalPrepaid(), Count: 1}, nil
}

type mockPrepaymentHistory struct {
	records []port.PrepaymentRecord
	err     error
}

func (m *mockPrepaymentHistory) ListByLoanID(_ context.Context, _ string) ([]port.PrepaymentRecord, error) {
	return m.records, m.err
}

type mockFinancialsRepository struct {
	findFunc        func(ctx context.Context, vehicleID string) (model.VehicleFinancials, error)
	saveFunc        func(ctx context.Context, f model.VehicleFinancials) error
	appendFunc      func(ctx context.Context, a model.Activity) error
	totals          model.LedgerTotals
	activities      []model.Activity
	savedFinancials []model.VehicleFinancials
	appended        []model.Activity
}

func (m *mockFinancialsRepository) SaveFinancials(ctx context.Context, f model.VehicleFinancials) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, f)
	}
	m.savedFinancials = append(m.savedFinancials, f)
	return nil
}

func (m *mockFinancialsRepository) FindFinancials(ctx context.Context, vehicleID string) (model.VehicleFinancials, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, vehicleID)
	}
	return model.VehicleFinancials{}, model.ErrNotFound
}

func (m *mockFinancialsRepository) AppendActivity(ctx context.Context, a model.Activity) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, a)
	}
	m.appended = append(m.appended, a)
	return nil
}

func (m *mockFinancialsRepository) LedgerTotals(_ context.Context, _ string) (model.LedgerTotals, error) {
	return m.totals, nil
}

func (m *mockFinancialsRepository) ActivitiesSince(_ context.Context, _ string, since time.Time) ([]model.Activity, error) {
	var out []model.Activity
	for _, a := range m.activities {
		if !a.OccurredAt.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Mock quote store
// ---------------------------------------------------------------------------

type mockQuoteStore struct {
	putFunc func(ctx context.Context, q port.PrepaymentQuote) error
	quotes  map[string]port.PrepaymentQuote
}

func newMockQuoteStore() *mockQuoteStore {
	return &mockQuoteStore{quotes: map[string]port.PrepaymentQuote{}}
}

func (m *mockQuoteStore) Put(ctx context.Context, q port.PrepaymentQuote) error {
	if m.putFunc != nil {
		return m.putFunc(ctx, q)
	}
	m.quotes[q.ID] = q
	return nil
}

func (m *mockQuoteStore) Get(_ context.Context, id string) (port.PrepaymentQuote, error) {
	q, ok := m.quotes[id]
	if !ok {
		return port.PrepaymentQuote{}, model.ErrNotFound
	}
	return q, nil
}

func (m *mockQuoteStore) Delete(_ context.Context, id string) error {
	delete(m.quotes, id)
	return nil
}

// ---------------------------------------------------------------------------
// Mock event publisher
// ---------------------------------------------------------------------------

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

// ---------------------------------------------------------------------------
// Mock renderer and clock
// ---------------------------------------------------------------------------

type mockRenderer struct {
	scheduleLoans []model.Loan
	projections   []model.ProjectionSnapshot
}

func (m *mockRenderer) RenderSchedule(loan model.Loan) ([]byte, error) {
	m.scheduleLoans = append(m.scheduleLoans, loan)
	return []byte("schedule"), nil
}

func (m *mockRenderer) RenderProjection(_ string, _ model.FinancialState, s model.ProjectionSnapshot) ([]byte, error) {
	m.projections = append(m.projections, s)
	return []byte("projection"), nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var testNow = time.Date(2024, time.March, 18, 10, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func activeLoan() model.Loan {
	loan, err := model.NewLoan("vehicle-001", model.LoanTerms{
		FirstInstallmentDate: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		Principal:            d("500000"),
		AnnualRatePercent:    d("8.5"),
		EMI:                  d("11000"),
		TenureMonths:         60,
	}, 5, 2, testNow.AddDate(0, -3, 0))
	if err != nil {
		panic(err)
	}
	return loan.ClearEvents()
}

func vehicleFinancials() model.VehicleFinancials {
	return model.ReconstructVehicleFinancials(
		"vehicle-001", d("150000"), d("650000"), d("12"),
		time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC),
		testNow, testNow,
	)
}
