package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/calloway/mintleaf/internal/model"
)

const (
	minCategorySamples   = 3
	iqrMultiplier        = 1.5
	dailyMeanMultiplier  = 3.0
	highSeverityMultiple = 2.0
)

// DetectAnomalies flags outlier spending over a rolling window of days,
// newest first. Two independent detectors run: per-category amount outliers
// against an IQR threshold, and daily aggregate outliers against a multiple
// of the mean daily spend. Categories or days with too few data points are
// silently skipped.
func (e *Engine) DetectAnomalies(ctx context.Context, userID string, days int) ([]model.Anomaly, error) {
	if days <= 0 {
		days = DefaultAnomalyDays
	}

	now := e.now()
	txns, err := e.expensesSince(ctx, userID, now.AddDate(0, 0, -days), now)
	if err != nil {
		return nil, err
	}

	// Newest first; anomaly order within a tie follows detection order.
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date)
	})

	anomalies := categoryOutliers(txns)
	anomalies = append(anomalies, dailyOutliers(txns)...)

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].Date.After(anomalies[j].Date)
	})
	return anomalies, nil
}

// categoryOutliers flags transactions whose amount exceeds the category's
// IQR threshold. Needs at least three transactions per category.
func categoryOutliers(txns []model.Transaction) []model.Anomaly {
	amounts := make(map[string][]float64)
	var order []string
	for _, txn := range txns {
		category := txn.CategoryOrFallback()
		if _, seen := amounts[category]; !seen {
			order = append(order, category)
		}
		amounts[category] = append(amounts[category], txn.Amount)
	}

	var anomalies []model.Anomaly
	for _, category := range order {
		values := amounts[category]
		if len(values) < minCategorySamples {
			continue
		}

		threshold := iqrThreshold(values)
		for _, txn := range txns {
			if txn.CategoryOrFallback() != category || txn.Amount <= threshold {
				continue
			}
			anomalies = append(anomalies, model.Anomaly{
				Type:        model.AnomalyHighAmount,
				Category:    category,
				Amount:      txn.Amount,
				Description: txn.Description,
				Date:        txn.Date,
				Threshold:   threshold,
				Severity:    severityFor(txn.Amount, threshold),
			})
		}
	}
	return anomalies
}

// dailyOutliers flags calendar days whose total spend exceeds a multiple of
// the window's mean daily spend.
func dailyOutliers(txns []model.Transaction) []model.Anomaly {
	spending := make(map[string]float64)
	var order []string
	for _, txn := range txns {
		day := txn.Date.Format("2006-01-02")
		if _, seen := spending[day]; !seen {
			order = append(order, day)
		}
		spending[day] += txn.Amount
	}
	if len(spending) == 0 {
		return nil
	}

	total := 0.0
	for _, amount := range spending {
		total += amount
	}
	threshold := dailyMeanMultiplier * total / float64(len(spending))

	var anomalies []model.Anomaly
	for _, day := range order {
		amount := spending[day]
		if amount <= threshold {
			continue
		}
		date, err := time.ParseInLocation("2006-01-02", day, time.UTC)
		if err != nil {
			continue
		}
		anomalies = append(anomalies, model.Anomaly{
			Type:      model.AnomalyHighDailySpending,
			Amount:    amount,
			Date:      date,
			Threshold: threshold,
			Severity:  severityFor(amount, threshold),
		})
	}
	return anomalies
}

// iqrThreshold computes Q3 + 1.5*IQR over the values, with quartiles taken
// at floor(0.25n) and floor(0.75n) of the sorted series.
func iqrThreshold(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	q1 := sorted[int(math.Floor(float64(n)*0.25))]
	q3 := sorted[int(math.Floor(float64(n)*0.75))]
	return q3 + iqrMultiplier*(q3-q1)
}

func severityFor(amount, threshold float64) model.Severity {
	if amount > threshold*highSeverityMultiple {
		return model.SeverityHigh
	}
	return model.SeverityMedium
}
