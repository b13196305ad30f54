// Package analytics implements the derived-insight engines: description
// categorization, expense prediction, anomaly detection, and savings
// suggestions. Every engine is a pure computation over a freshly fetched
// snapshot of the user's transactions; insufficient data degrades to empty
// or default output, never to an error.
package analytics

// CategoryKeywords maps one category to the lowercase trigger words that
// select it.
type CategoryKeywords struct {
	Category string
	Keywords []string
}

// KeywordTable is an ordered list of (category, keywords) pairs. Order is
// significant: when a description matches several categories, the first
// configured category wins.
type KeywordTable []CategoryKeywords

// DefaultKeywordTable returns the built-in categorization table. Loaded once
// at process start and treated as immutable afterwards.
func DefaultKeywordTable() KeywordTable {
	return KeywordTable{
		{Category: "Food", Keywords: []string{
			"restaurant", "food", "dining", "cafe", "pizza", "burger", "coffee",
			"lunch", "dinner", "breakfast", "grocery", "supermarket", "market",
		}},
		{Category: "Transport", Keywords: []string{
			"uber", "lyft", "taxi", "gas", "fuel", "parking", "metro", "bus",
			"train", "flight", "airline", "car", "vehicle",
		}},
		{Category: "Shopping", Keywords: []string{
			"amazon", "store", "shop", "mall", "clothing", "shoes",
			"electronics", "online", "purchase", "buy",
		}},
		{Category: "Entertainment", Keywords: []string{
			"movie", "cinema", "netflix", "spotify", "game", "concert",
			"theater", "entertainment", "fun",
		}},
		{Category: "Bills", Keywords: []string{
			"electric", "water", "internet", "phone", "rent", "mortgage",
			"insurance", "utility", "bill",
		}},
		{Category: "Healthcare", Keywords: []string{
			"doctor", "hospital", "pharmacy", "medicine", "medical", "health",
			"clinic", "dental",
		}},
		{Category: "Education", Keywords: []string{
			"school", "university", "course", "book", "education", "tuition",
			"learning", "training",
		}},
	}
}
