package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AmortizationSchedule is an immutable, ordered sequence of installments.
// Every transformation returns a new schedule; the stored value is swapped
// atomically by the persistence layer.
type AmortizationSchedule struct {
	entries []AmortizationEntry
}

// NewAmortizationSchedule rebuilds a schedule from persisted entries, which
// must be ordered by month starting at 1.
func NewAmortizationSchedule(entries []AmortizationEntry) (AmortizationSchedule, error) {
	for i, e := range entries {
		if e.Month != i+1 {
			return AmortizationSchedule{}, fmt.Errorf("%w: schedule entry %d has month %d", ErrInvalidInput, i, e.Month)
		}
	}
	return AmortizationSchedule{entries: copyEntries(entries)}, nil
}

// Entries returns a copy of the installments.
func (s AmortizationSchedule) Entries() []AmortizationEntry {
	return copyEntries(s.entries)
}

// Len returns the number of installments.
func (s AmortizationSchedule) Len() int { return len(s.entries) }

// IsEmpty reports whether the schedule has no installments.
func (s AmortizationSchedule) IsEmpty() bool { return len(s.entries) == 0 }

// Entry returns the installment for a 1-based month.
func (s AmortizationSchedule) Entry(month int) (AmortizationEntry, bool) {
	if month < 1 || month > len(s.entries) {
		return AmortizationEntry{}, false
	}
	return s.entries[month-1], true
}

// TotalInterest sums the interest component of every installment.
func (s AmortizationSchedule) TotalInterest() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.entries {
		total = total.Add(e.Interest)
	}
	return total
}

// TotalPrincipal sums the principal component of every installment.
func (s AmortizationSchedule) TotalPrincipal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.entries {
		total = total.Add(e.Principal)
	}
	return total
}

// PaidCount returns the number of installments marked paid.
func (s AmortizationSchedule) PaidCount() int {
	n := 0
	for _, e := range s.entries {
		if e.IsPaid {
			n++
		}
	}
	return n
}

// PaidInstallments sums the installment amounts already paid.
func (s AmortizationSchedule) PaidInstallments() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.entries {
		if e.IsPaid {
			total = total.Add(e.Installment())
		}
	}
	return total
}

// NextUnpaid returns the earliest unpaid installment.
func (s AmortizationSchedule) NextUnpaid() (AmortizationEntry, bool) {
	for _, e := range s.entries {
		if !e.IsPaid {
			return e, true
		}
	}
	return AmortizationEntry{}, false
}

// OutstandingAfterPaid returns the balance after the last paid installment,
// or opening when nothing has been paid yet.
func (s AmortizationSchedule) OutstandingAfterPaid(opening decimal.Decimal) decimal.Decimal {
	out := opening
	for _, e := range s.entries {
		if !e.IsPaid {
			break
		}
		out = e.OutstandingAfter
	}
	return out
}

// Overdue returns unpaid installments whose due date falls before the start
// of the day containing now.
func (s AmortizationSchedule) Overdue(now time.Time) []AmortizationEntry {
	today := startOfDay(now)
	var overdue []AmortizationEntry
	for _, e := range s.entries {
		if !e.IsPaid && e.DueDate.Before(today) {
			overdue = append(overdue, e)
		}
	}
	return overdue
}

// MarkPaid returns a copy of the schedule with the given month paid at
// paidAt. Installments are settled in order: only the earliest unpaid month
// can be marked.
func (s AmortizationSchedule) MarkPaid(month int, paidAt time.Time) (AmortizationSchedule, error) {
	entry, ok := s.Entry(month)
	if !ok {
		return s, fmt.Errorf("%w: installment %d does not exist", ErrInvalidInput, month)
	}
	if entry.IsPaid {
		return s, fmt.Errorf("%w: installment %d is already paid", ErrInvalidInput, month)
	}
	if next, _ := s.NextUnpaid(); next.Month != month {
		return s, fmt.Errorf("%w: installment %d must be paid before %d", ErrInvalidInput, next.Month, month)
	}

	next := AmortizationSchedule{entries: copyEntries(s.entries)}
	at := paidAt
	next.entries[month-1].IsPaid = true
	next.entries[month-1].PaidAt = &at
	return next, nil
}

func copyEntries(in []AmortizationEntry) []AmortizationEntry {
	if in == nil {
		return nil
	}
	out := make([]AmortizationEntry, len(in))
	copy(out, in)
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
