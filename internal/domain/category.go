package domain

import "strings"

// IncomeCategory is the label every income transaction is filed under
const IncomeCategory = "Income"

// ExpenseCategories maps category keys to display labels
var ExpenseCategories = map[string]string{
	"groceries":      "Groceries",
	"rent":           "Rent",
	"utilities":      "Bills",
	"transportation": "Transportation",
	"entertainment":  "Entertainment",
	"dining":         "Dining",
	"health":         "Health",
	"insurance":      "Insurance",
	"savings":        "Savings",
	"clothing":       "Clothing",
	"personal":       "Personal",
	"others":         "Others",
}

// IsExpenseCategory reports whether key names a known expense category
func IsExpenseCategory(key string) bool {
	_, ok := ExpenseCategories[key]
	return ok
}

// CategoryLabel returns the human label a transaction is shown under
func CategoryLabel(t Transaction) string {
	if t.Type == Income {
		return IncomeCategory
	}
	if label, ok := ExpenseCategories[strings.ToLower(t.Category)]; ok {
		return label
	}
	return ""
}
