package analytics

import (
	"context"
	"strings"
)

// Categorize maps a free-text description to a category label. Keyword
// matches win outright; otherwise the user's transaction history is scored
// by token-set similarity and the best-scoring historical category is
// returned when it clears the threshold. Falls back to "Other".
func (e *Engine) Categorize(ctx context.Context, userID, description string) (string, error) {
	if description == "" {
		return fallbackCategory, nil
	}

	lower := strings.ToLower(description)

	// Table order is the tie-break: first configured category wins.
	for _, entry := range e.keywords {
		for _, keyword := range entry.Keywords {
			if strings.Contains(lower, keyword) {
				return entry.Category, nil
			}
		}
	}

	history, err := e.store.RecentDescribedTransactions(ctx, userID, historyLimit)
	if err != nil {
		return "", err
	}
	if len(history) == 0 {
		return fallbackCategory, nil
	}

	// Accumulate similarity per historical category; first-seen order
	// breaks score ties deterministically.
	scores := make(map[string]float64)
	var order []string
	for _, txn := range history {
		if txn.Description == "" {
			continue
		}
		category := txn.CategoryOrFallback()
		if _, seen := scores[category]; !seen {
			order = append(order, category)
		}
		scores[category] += jaccard(lower, strings.ToLower(txn.Description))
	}

	best := ""
	bestScore := 0.0
	for _, category := range order {
		if scores[category] > bestScore {
			best = category
			bestScore = scores[category]
		}
	}

	if best == "" || bestScore <= similarityThreshold {
		return fallbackCategory, nil
	}
	return best, nil
}

// jaccard computes token-set similarity between two texts: the size of the
// intersection of their whitespace-split word sets divided by the size of
// the union. Symmetric by construction.
func jaccard(a, b string) float64 {
	wordsA := tokenSet(a)
	wordsB := tokenSet(b)
	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for word := range wordsA {
		if _, ok := wordsB[word]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(text) {
		set[word] = struct{}{}
	}
	return set
}
