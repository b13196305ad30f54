package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/calloway/mintleaf/internal/model"
)

const (
	insightsTopN    = 5
	overspendRatio  = 1.1
	overspendMonths = 3
)

// Insights bundles the combined insights payload.
type Insights struct {
	Predictions map[string]model.Prediction `json:"predictions"`
	Anomalies   []model.Anomaly             `json:"anomalies"`
	Suggestions []model.Suggestion          `json:"suggestions"`
}

// CombinedInsights runs all three engines over the default windows and
// returns predictions plus the top five anomalies and suggestions.
func (e *Engine) CombinedInsights(ctx context.Context, userID string) (*Insights, error) {
	predictions, err := e.PredictExpenses(ctx, userID, DefaultPredictionMonths)
	if err != nil {
		return nil, err
	}
	anomalies, err := e.DetectAnomalies(ctx, userID, DefaultAnomalyDays)
	if err != nil {
		return nil, err
	}
	suggestions, err := e.SavingSuggestions(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(anomalies) > insightsTopN {
		anomalies = anomalies[:insightsTopN]
	}
	if len(suggestions) > insightsTopN {
		suggestions = suggestions[:insightsTopN]
	}
	if anomalies == nil {
		anomalies = []model.Anomaly{}
	}
	if suggestions == nil {
		suggestions = []model.Suggestion{}
	}

	return &Insights{
		Predictions: predictions,
		Anomalies:   anomalies,
		Suggestions: suggestions,
	}, nil
}

// OverspendInsights compares the current month's spend per category against
// the average of up to the last three complete months, flagging categories
// running more than 10% above their usual.
func (e *Engine) OverspendInsights(ctx context.Context, userID string) ([]model.OverspendInsight, error) {
	now := e.now()
	currentStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	windowStart := currentStart.AddDate(0, -overspendMonths, 0)

	txns, err := e.expensesSince(ctx, userID, windowStart, now)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})

	currentKey := monthKey(currentStart)

	type record struct {
		months  map[string]float64
		order   []string
		current float64
	}
	byCategory := make(map[string]*record)
	var categories []string

	for _, txn := range txns {
		category := txn.CategoryOrFallback()
		rec, ok := byCategory[category]
		if !ok {
			rec = &record{months: make(map[string]float64)}
			byCategory[category] = rec
			categories = append(categories, category)
		}
		key := monthKey(txn.Date)
		if _, seen := rec.months[key]; !seen {
			rec.order = append(rec.order, key)
		}
		rec.months[key] += txn.Amount
	}

	var insights []model.OverspendInsight
	for _, category := range categories {
		rec := byCategory[category]

		var past []float64
		for _, key := range rec.order {
			if key == currentKey {
				continue
			}
			past = append(past, rec.months[key])
		}
		if len(past) > overspendMonths {
			past = past[len(past)-overspendMonths:]
		}
		if len(past) == 0 {
			continue
		}

		avg := mean(past)
		current := rec.months[currentKey]
		if avg <= 0 || current <= avg*overspendRatio {
			continue
		}

		percent := int(math.Round((current - avg) / avg * 100))
		insights = append(insights, model.OverspendInsight{
			Category: category,
			Message:  fmt.Sprintf("You are spending %d%% above your usual on %s.", percent, category),
			Current:  current,
			Average:  avg,
		})
	}
	return insights, nil
}

func monthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}
