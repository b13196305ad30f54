package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/calloway/mintleaf/internal/model"
)

const (
	reduceSpendingRatio = 1.2
	budgetReviewRatio   = 1.1
	highPrioritySavings = 100.0
)

// SavingSuggestions derives savings recommendations from the expense
// predictions: one reduce_spending suggestion per sharply increasing
// category, plus a single budget_review suggestion when overall predicted
// spend outpaces the overall average. Sorted by priority, ties keeping
// insertion order.
func (e *Engine) SavingSuggestions(ctx context.Context, userID string) ([]model.Suggestion, error) {
	predictions, err := e.PredictExpenses(ctx, userID, DefaultPredictionMonths)
	if err != nil {
		return nil, err
	}
	return suggestionsFrom(predictions), nil
}

func suggestionsFrom(predictions map[string]model.Prediction) []model.Suggestion {
	var suggestions []model.Suggestion

	categories := make([]string, 0, len(predictions))
	for category := range predictions {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var totalPredicted, totalAverage float64
	for _, category := range categories {
		p := predictions[category]
		totalPredicted += p.Predicted
		totalAverage += p.Average

		if p.Trend != model.TrendIncreasing || p.Predicted <= p.Average*reduceSpendingRatio {
			continue
		}

		savings := p.Predicted - p.Average
		priority := model.SeverityMedium
		if savings > highPrioritySavings {
			priority = model.SeverityHigh
		}
		suggestions = append(suggestions, model.Suggestion{
			Type:             model.SuggestReduceSpending,
			Category:         category,
			Message:          fmt.Sprintf("Consider reducing %s spending. You could save $%.2f next month.", category, savings),
			PotentialSavings: savings,
			Priority:         priority,
		})
	}

	if totalPredicted > totalAverage*budgetReviewRatio {
		suggestions = append(suggestions, model.Suggestion{
			Type:     model.SuggestBudgetReview,
			Message:  "Your spending is trending upward. Consider reviewing your budget.",
			Priority: model.SeverityMedium,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Priority.Rank() > suggestions[j].Priority.Rank()
	})
	return suggestions
}
