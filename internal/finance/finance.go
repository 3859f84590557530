// Package finance computes read-only totals over the appointment and expense
// ledgers. Sums are taken in decimal so the result does not depend on the
// order of the collection.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/harentsoaR/dentaldash-api/internal/models"
)

func TotalIncome(appts []models.Appointment) decimal.Decimal {
	total := decimal.Zero
	for _, a := range appts {
		total = total.Add(decimal.NewFromFloat(a.PaymentDone))
	}
	return total
}

func TotalDue(appts []models.Appointment) decimal.Decimal {
	total := decimal.Zero
	for _, a := range appts {
		total = total.Add(decimal.NewFromFloat(a.PaymentDue))
	}
	return total
}

// ExpensesByCategory has an entry for every known category, zero when unused.
// Unknown categories are kept under their own key.
func ExpensesByCategory(expenses []models.Expense) map[models.ExpenseCategory]decimal.Decimal {
	out := make(map[models.ExpenseCategory]decimal.Decimal, len(models.ExpenseCategories))
	for _, c := range models.ExpenseCategories {
		out[c] = decimal.Zero
	}
	for _, e := range expenses {
		sum, ok := out[e.Category]
		if !ok {
			sum = decimal.Zero
		}
		out[e.Category] = sum.Add(decimal.NewFromFloat(e.Amount))
	}
	return out
}

func TotalExpenses(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	return total
}

type Summary struct {
	Income      decimal.Decimal                            `json:"income"`
	Due         decimal.Decimal                            `json:"due"`
	Expenses    decimal.Decimal                            `json:"expenses"`
	ByCategory  map[models.ExpenseCategory]decimal.Decimal `json:"byCategory"`
	Net         decimal.Decimal                            `json:"net"`
	Outstanding int                                        `json:"outstanding"` // appointments not marked paid
	Count       int                                        `json:"appointments"`
}

// Summarize is what the dashboard and finance views show.
func Summarize(appts []models.Appointment, expenses []models.Expense) Summary {
	s := Summary{
		Income:     TotalIncome(appts).Round(2),
		Due:        TotalDue(appts).Round(2),
		Expenses:   TotalExpenses(expenses).Round(2),
		ByCategory: ExpensesByCategory(expenses),
		Count:      len(appts),
	}
	for c, v := range s.ByCategory {
		s.ByCategory[c] = v.Round(2)
	}
	s.Net = s.Income.Sub(s.Expenses)
	for _, a := range appts {
		if !a.IsPaid {
			s.Outstanding++
		}
	}
	return s
}
