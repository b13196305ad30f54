package model

import "time"

// Everything in this file is derived: recomputed per request from the
// current transaction snapshot and never persisted.

// Totals sums transaction amounts by type. Balance is always exactly
// Income minus Expense.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// MonthlyTotal is one (year, month, type) bucket of a monthly rollup.
type MonthlyTotal struct {
	Type  TransactionType `json:"type"`
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total float64         `json:"total"`
}

// CategoryTotal is one (category, type) bucket of a category breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Type     TransactionType `json:"type"`
	Total    float64         `json:"total"`
}

// DailyTotal is one (year, month, day, type) bucket of a daily trend window.
type DailyTotal struct {
	Type  TransactionType `json:"type"`
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Day   int             `json:"day"`
	Total float64         `json:"total"`
}

// TrendDirection labels the sign of a prediction's slope.
type TrendDirection string

// Trend labels.
const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// Prediction is a per-category next-month expense forecast.
type Prediction struct {
	Trend     TrendDirection `json:"trend"`
	Predicted float64        `json:"predicted"`
	Average   float64        `json:"average"`
}

// AnomalyType names the detector that flagged an anomaly.
type AnomalyType string

// Anomaly types.
const (
	AnomalyHighAmount        AnomalyType = "high_amount"
	AnomalyHighDailySpending AnomalyType = "high_daily_spending"
)

// Severity grades an anomaly or suggestion.
type Severity string

// Severity levels.
const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank orders severities for sorting, highest first.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Anomaly is a flagged outlier transaction or day.
type Anomaly struct {
	Date        time.Time   `json:"date"`
	Type        AnomalyType `json:"type"`
	Category    string      `json:"category,omitempty"`
	Description string      `json:"description,omitempty"`
	Severity    Severity    `json:"severity"`
	Amount      float64     `json:"amount"`
	Threshold   float64     `json:"threshold"`
}

// SuggestionType names the rule that produced a suggestion.
type SuggestionType string

// Suggestion types.
const (
	SuggestReduceSpending SuggestionType = "reduce_spending"
	SuggestBudgetReview   SuggestionType = "budget_review"
)

// Suggestion is a derived savings recommendation.
type Suggestion struct {
	Type             SuggestionType `json:"type"`
	Category         string         `json:"category,omitempty"`
	Message          string         `json:"message"`
	Priority         Severity       `json:"priority"`
	PotentialSavings float64        `json:"potentialSavings,omitempty"`
}

// OverspendInsight compares the current month's spend in a category with
// the average of recent complete months.
type OverspendInsight struct {
	Category string  `json:"category"`
	Message  string  `json:"message"`
	Current  float64 `json:"current"`
	Average  float64 `json:"average"`
}
