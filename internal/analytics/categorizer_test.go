package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calloway/mintleaf/internal/model"
)

func TestCategorize_Keywords(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{name: "food keyword", description: "Pizza delivery downtown", want: "Food"},
		{name: "transport keyword", description: "UBER trip", want: "Transport"},
		{name: "shopping keyword", description: "Amazon order #1234", want: "Shopping"},
		{name: "entertainment keyword", description: "netflix subscription", want: "Entertainment"},
		{name: "bills keyword", description: "monthly electric payment", want: "Bills"},
		{name: "healthcare keyword", description: "CVS Pharmacy", want: "Healthcare"},
		{name: "education keyword", description: "spring tuition installment", want: "Education"},
		{name: "case insensitive", description: "COFFEE SHOP", want: "Food"},
		{name: "table order breaks overlap", description: "coffee for the car trip", want: "Food"},
		{name: "no match no history", description: "zzqx transfer", want: "Other"},
		{name: "empty description", description: "", want: "Other"},
	}

	engine := testEngine(&fakeSource{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Categorize(context.Background(), "user-1", tt.description)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategorize_HistoryFallback(t *testing.T) {
	history := []model.Transaction{
		{Description: "veggies box delivery", Category: "Groceries"},
		{Description: "quarterly hoa dues", Category: "Housing"},
	}
	engine := testEngine(&fakeSource{history: history})

	// "weekly veggies box" vs "veggies box delivery": 2 shared tokens of
	// 4 total is 0.5, above the 0.3 threshold.
	got, err := engine.Categorize(context.Background(), "user-1", "weekly veggies box")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got)
}

func TestCategorize_HistoryBelowThreshold(t *testing.T) {
	history := []model.Transaction{
		{Description: "alpha beta gamma delta epsilon", Category: "Misc"},
	}
	engine := testEngine(&fakeSource{history: history})

	got, err := engine.Categorize(context.Background(), "user-1", "zzqx transfer")
	require.NoError(t, err)
	assert.Equal(t, "Other", got)
}

func TestJaccard(t *testing.T) {
	assert.InDelta(t, 0.5, jaccard("weekly veggies box", "veggies box delivery"), 1e-9)
	assert.Equal(t, jaccard("a b c", "b c d"), jaccard("b c d", "a b c"), "similarity must be symmetric")
	assert.Equal(t, 1.0, jaccard("same words", "same words"))
	assert.Equal(t, 0.0, jaccard("", ""))
	assert.Equal(t, 0.0, jaccard("only left", ""))
}
