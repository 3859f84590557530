package models

import "time"

type ExpenseCategory string

const (
	ExpenseLab      ExpenseCategory = "Lab"
	ExpenseSupplies ExpenseCategory = "Supplies"
	ExpenseBill     ExpenseCategory = "Bill"
	ExpenseOther    ExpenseCategory = "Other"
)

// ExpenseCategories lists every category in display order.
var ExpenseCategories = []ExpenseCategory{ExpenseLab, ExpenseSupplies, ExpenseBill, ExpenseOther}

func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseLab, ExpenseSupplies, ExpenseBill, ExpenseOther:
		return true
	}
	return false
}

type Expense struct {
	ID          string          `bson:"_id" json:"id"`
	Date        time.Time       `bson:"date" json:"date"`
	Category    ExpenseCategory `bson:"category" json:"category"`
	Description string          `bson:"description" json:"description"`
	Amount      float64         `bson:"amount" json:"amount"`
}
