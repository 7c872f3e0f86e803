// Package export renders loan schedules and projections as Excel workbooks.
package export

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
)

const (
	dateLayout = "2006-01-02"

	SheetSummary  = "Summary"
	SheetSchedule = "Schedule"
	SheetYearly   = "Yearly"
)

// WorkbookRenderer implements port.WorkbookRenderer with excelize.
type WorkbookRenderer struct{}

func NewWorkbookRenderer() *WorkbookRenderer { return &WorkbookRenderer{} }

// RenderSchedule writes a Summary sheet with the loan terms and a Schedule
// sheet with one row per installment.
func (WorkbookRenderer) RenderSchedule(loan model.Loan) ([]byte, error) {
	wb, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	defer wb.close()

	terms := loan.Terms()
	schedule := loan.Schedule()
	if err := wb.keyValues(SheetSummary, [][2]any{
		{"Loan ID", loan.ID()},
		{"Vehicle ID", loan.VehicleID()},
		{"Status", loan.Status().String()},
		{"Original principal", money(loan.OriginalPrincipal())},
		{"Principal", money(terms.Principal)},
		{"Annual rate %", money(terms.AnnualRatePercent)},
		{"EMI", money(terms.EMI)},
		{"Tenure (months)", terms.TenureMonths},
		{"Installments", schedule.Len()},
		{"Outstanding balance", money(loan.OutstandingBalance())},
		{"Total interest", money(schedule.TotalInterest())},
		{"Total prepaid", money(loan.TotalPrepaid())},
		{"EMI paid to date", money(loan.EMIPaidToDate())},
	}); err != nil {
		return nil, err
	}

	rows := make([][]any, 0, schedule.Len())
	for _, e := range schedule.Entries() {
		paidAt := ""
		if e.PaidAt != nil {
			paidAt = e.PaidAt.Format(dateLayout)
		}
		rows = append(rows, []any{
			e.Month, e.DueDate.Format(dateLayout),
			money(e.Installment()), money(e.Interest), money(e.Principal), money(e.OutstandingAfter),
			strconv.FormatBool(e.IsPaid), paidAt,
		})
	}
	if err := wb.table(SheetSchedule,
		[]string{"Month", "Due date", "Installment", "Interest", "Principal", "Outstanding", "Paid", "Paid at"},
		rows, 2, 5); err != nil {
		return nil, err
	}
	return wb.bytes()
}

// RenderProjection writes the current position and projected totals to a
// Summary sheet and the year-end positions to a Yearly sheet.
func (WorkbookRenderer) RenderProjection(vehicleID string, state model.FinancialState, snap model.ProjectionSnapshot) ([]byte, error) {
	wb, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	defer wb.close()

	if err := wb.keyValues(SheetSummary, [][2]any{
		{"Vehicle ID", vehicleID},
		{"Years", snap.Years},
		{"Current earnings", money(state.CumulativeEarnings)},
		{"Current operating expenses", money(state.CumulativeOperatingExpenses)},
		{"Current EMI paid", money(state.CumulativeEMIPaid)},
		{"Current outstanding loan", money(state.OutstandingLoan)},
		{"Current asset value", money(state.CurrentAssetValue)},
		{"Monthly earnings", money(snap.MonthlyEarnings)},
		{"Monthly expenses", money(snap.MonthlyExpenses)},
		{"EMI payment", money(snap.EMIPayment)},
		{"Projected earnings", money(snap.ProjectedEarnings)},
		{"Projected total expenses", money(snap.ProjectedTotalExpenses)},
		{"Projected EMI paid", money(snap.ProjectedEMIPaid)},
		{"Projected asset value", money(snap.ProjectedAssetValue)},
		{"Projected outstanding loan", money(snap.ProjectedOutstandingLoan)},
		{"Total return", money(snap.TotalReturn)},
		{"Fixed investment", money(snap.FixedInvestment)},
		{"ROI %", money(snap.ROIPercent)},
		{"Profit / loss", money(snap.ProfitLoss)},
		{"Break-even (months)", months(snap.BreakEvenMonths)},
		{"Loan clearance (months)", months(snap.LoanClearanceMonths)},
	}); err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(snap.Yearly))
	for _, y := range snap.Yearly {
		rows = append(rows, []any{
			y.Year, money(y.Earnings), money(y.TotalExpenses),
			money(y.AssetValue), money(y.OutstandingLoan), money(y.TotalReturn),
		})
	}
	if err := wb.table(SheetYearly,
		[]string{"Year", "Earnings", "Total expenses", "Asset value", "Outstanding loan", "Total return"},
		rows, 1, 6); err != nil {
		return nil, err
	}
	return wb.bytes()
}

type workbook struct {
	file        *excelize.File
	headerStyle int
	moneyStyle  int
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	// Built-in format 4 is "#,##0.00".
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("money style: %w", err)
	}
	return &workbook{file: f, headerStyle: header, moneyStyle: amount}, nil
}

func (w *workbook) keyValues(sheet string, pairs [][2]any) error {
	if err := w.file.SetColWidth(sheet, "A", "A", 30); err != nil {
		return err
	}
	if err := w.file.SetColWidth(sheet, "B", "B", 40); err != nil {
		return err
	}
	for i, kv := range pairs {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		row := []any{kv[0], kv[1]}
		if err := w.file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
		if _, ok := kv[1].(float64); ok {
			valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
			if err := w.file.SetCellStyle(sheet, valueCell, valueCell, w.moneyStyle); err != nil {
				return err
			}
		}
	}
	return nil
}

// table writes a header row and data rows; columns firstMoney..lastMoney
// (1-based) get the money format.
func (w *workbook) table(sheet string, header []string, rows [][]any, firstMoney, lastMoney int) error {
	if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := w.file.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := w.file.SetCellStyle(sheet, "A1", lastHeader, w.headerStyle); err != nil {
		return err
	}
	if err := w.file.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := w.file.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	if len(rows) > 0 {
		from, _ := excelize.CoordinatesToCellName(firstMoney, 2)
		to, _ := excelize.CoordinatesToCellName(lastMoney, len(rows)+1)
		if err := w.file.SetCellStyle(sheet, from, to, w.moneyStyle); err != nil {
			return err
		}
	}

	first, _ := excelize.ColumnNumberToName(1)
	last, _ := excelize.ColumnNumberToName(len(header))
	return w.file.SetColWidth(sheet, first, last, 16)
}

func (w *workbook) bytes() ([]byte, error) {
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *workbook) close() { _ = w.file.Close() }

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func months(m *int) any {
	if m == nil {
		return "not within horizon"
	}
	return *m
}
