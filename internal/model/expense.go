package model

import "time"

// ExpenseCategory is one of the six fixed spending buckets.
type ExpenseCategory string

const (
	CategoryFood          ExpenseCategory = "food"
	CategoryTransport     ExpenseCategory = "transport"
	CategorySubscriptions ExpenseCategory = "subscriptions"
	CategoryFun           ExpenseCategory = "fun"
	CategoryLearning      ExpenseCategory = "learning"
	CategoryMisc          ExpenseCategory = "misc"
)

// ExpenseCategories lists every valid category in display order.
var ExpenseCategories = []ExpenseCategory{
	CategoryFood,
	CategoryTransport,
	CategorySubscriptions,
	CategoryFun,
	CategoryLearning,
	CategoryMisc,
}

// ValidExpenseCategory reports whether c is a known category.
func ValidExpenseCategory(c ExpenseCategory) bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Expense is a single logged spend. Amount is always positive.
type Expense struct {
	ID        string `gorm:"primaryKey"`
	Amount    float64
	Category  ExpenseCategory `gorm:"index"`
	Date      string          `gorm:"index"` // YYYY-MM-DD
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
