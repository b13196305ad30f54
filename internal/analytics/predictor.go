package analytics

import (
	"context"
	"sort"

	"github.com/calloway/mintleaf/internal/model"
)

// PredictExpenses forecasts next-period spend per category from the
// trailing months of expense history. Categories with fewer than two
// monthly buckets are omitted entirely.
func (e *Engine) PredictExpenses(ctx context.Context, userID string, months int) (map[string]model.Prediction, error) {
	if months <= 0 {
		months = DefaultPredictionMonths
	}

	now := e.now()
	txns, err := e.expensesSince(ctx, userID, now.AddDate(0, -months, 0), now)
	if err != nil {
		return nil, err
	}

	// Oldest first so month buckets appear in chronological order.
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})

	series := bucketByMonth(txns)

	predictions := make(map[string]model.Prediction)
	for category, sums := range series {
		if len(sums) < 2 {
			continue
		}

		avg := mean(sums)
		slope := olsSlope(sums)

		trend := model.TrendStable
		switch {
		case slope > 0:
			trend = model.TrendIncreasing
		case slope < 0:
			trend = model.TrendDecreasing
		}

		predicted := avg + slope
		if predicted < 0 {
			predicted = 0
		}

		predictions[category] = model.Prediction{
			Predicted: predicted,
			Average:   avg,
			Trend:     trend,
		}
	}

	return predictions, nil
}

// bucketByMonth sums expense amounts into per-category monthly series. The
// month index runs over months that actually contain transactions, in order
// of first appearance; months with no spending are simply absent from the
// series rather than contributing a zero.
func bucketByMonth(txns []model.Transaction) map[string][]float64 {
	type key struct {
		category string
		month    string
	}
	sums := make(map[key]float64)
	monthOrder := make(map[string][]string)

	for _, txn := range txns {
		category := txn.CategoryOrFallback()
		month := monthKey(txn.Date)
		k := key{category: category, month: month}
		if _, seen := sums[k]; !seen {
			monthOrder[category] = append(monthOrder[category], month)
		}
		sums[k] += txn.Amount
	}

	series := make(map[string][]float64, len(monthOrder))
	for category, months := range monthOrder {
		values := make([]float64, 0, len(months))
		for _, month := range months {
			values = append(values, sums[key{category: category, month: month}])
		}
		series[category] = values
	}
	return series
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// olsSlope computes the ordinary-least-squares slope of values against their
// index 0..n-1.
func olsSlope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	return (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
}
