package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
)

var raw = excelize.Options{RawCellValue: true}

func open(t *testing.T, b []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestRenderSchedule(t *testing.T) {
	loan, err := model.NewLoan("vehicle-001", model.LoanTerms{
		Principal:            decimal.NewFromInt(500000),
		AnnualRatePercent:    decimal.RequireFromString("8.5"),
		EMI:                  decimal.NewFromInt(11000),
		TenureMonths:         60,
		FirstInstallmentDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, 1, 1, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	b, err := NewWorkbookRenderer().RenderSchedule(loan)
	require.NoError(t, err)
	f := open(t, b)

	assert.Equal(t, []string{SheetSummary, SheetSchedule}, f.GetSheetList())

	rows, err := f.GetRows(SheetSchedule, raw)
	require.NoError(t, err)
	require.Len(t, rows, 57)
	assert.Equal(t, []string{"Month", "Due date", "Installment", "Interest", "Principal", "Outstanding", "Paid", "Paid at"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "2024-01-01", rows[1][1])
	assert.Equal(t, "3541.67", rows[1][3])
	assert.Equal(t, "7458.33", rows[1][4])
	assert.Equal(t, "true", rows[1][6])
	assert.Equal(t, "2028-08-01", rows[56][1])

	id, err := f.GetCellValue(SheetSummary, "B1")
	require.NoError(t, err)
	assert.Equal(t, loan.ID(), id)
	emi, err := f.GetCellValue(SheetSummary, "B7", raw)
	require.NoError(t, err)
	assert.Equal(t, "11000", emi)
}

func TestRenderProjection(t *testing.T) {
	breakEven := 7
	snap := model.ProjectionSnapshot{
		Years:               2,
		TotalReturn:         decimal.NewFromInt(41250),
		ROIPercent:          decimal.RequireFromString("27.5"),
		BreakEvenMonths:     &breakEven,
		LoanClearanceMonths: nil,
		Yearly: []model.YearSummary{
			{Year: 1, Earnings: decimal.NewFromInt(360000), AssetValue: decimal.NewFromInt(900000)},
			{Year: 2, Earnings: decimal.NewFromInt(720000), AssetValue: decimal.NewFromInt(810000)},
		},
	}
	state := model.FinancialState{InitialInvestment: decimal.NewFromInt(150000)}

	b, err := NewWorkbookRenderer().RenderProjection("vehicle-009", state, snap)
	require.NoError(t, err)
	f := open(t, b)

	assert.Equal(t, []string{SheetSummary, SheetYearly}, f.GetSheetList())

	summary, err := f.GetRows(SheetSummary, raw)
	require.NoError(t, err)
	values := map[string]string{}
	for _, r := range summary {
		if len(r) == 2 {
			values[r[0]] = r[1]
		}
	}
	assert.Equal(t, "vehicle-009", values["Vehicle ID"])
	assert.Equal(t, "27.5", values["ROI %"])
	assert.Equal(t, "7", values["Break-even (months)"])
	assert.Equal(t, "not within horizon", values["Loan clearance (months)"])

	yearly, err := f.GetRows(SheetYearly, raw)
	require.NoError(t, err)
	require.Len(t, yearly, 3)
	assert.Equal(t, "2", yearly[2][0])
	assert.Equal(t, "810000", yearly[2][3])
}
