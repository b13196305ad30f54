package model

import "time"

// BudgetPeriod is the recurrence of a budget.
type BudgetPeriod string

// Known budget periods.
const (
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodWeekly  BudgetPeriod = "weekly"
)

// Valid reports whether p is a known budget period.
func (p BudgetPeriod) Valid() bool {
	return p == PeriodMonthly || p == PeriodWeekly
}

// Budget is a per-category spending limit. A budget is unique per
// (user, category, period, start date); that tuple acts as the upsert key.
// Spent and Remaining are derived from the transaction store, never stored.
type Budget struct {
	StartDate time.Time    `json:"startDate"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	Category  string       `json:"category"`
	Period    BudgetPeriod `json:"period"`
	Amount    float64      `json:"amount"`
	Spent     float64      `json:"spent"`
	Remaining float64      `json:"remaining"`
}

// PeriodRange returns the half-open interval [start, end) that scopes the
// budget's spent calculation, anchored at ref. Monthly budgets span the
// calendar month; weekly budgets span Sunday through the following Sunday.
func PeriodRange(period BudgetPeriod, ref time.Time) (start, end time.Time) {
	if period == PeriodWeekly {
		start = time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
		start = start.AddDate(0, 0, -int(ref.Weekday()))
		return start, start.AddDate(0, 0, 7)
	}
	start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return start, start.AddDate(0, 1, 0)
}
