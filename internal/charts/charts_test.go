package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calloway/mintleaf/internal/model"
)

// PNG files start with an eight-byte signature.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestMonthlyOverview(t *testing.T) {
	r := NewRenderer()

	t.Run("no data", func(t *testing.T) {
		png, err := r.MonthlyOverview(nil)
		require.NoError(t, err)
		assert.Nil(t, png)
	})

	t.Run("single month pads to a line", func(t *testing.T) {
		png, err := r.MonthlyOverview([]model.MonthlyTotal{
			{Year: 2025, Month: 6, Type: model.TypeExpense, Total: 120},
		})
		require.NoError(t, err)
		require.NotEmpty(t, png)
		assert.Equal(t, pngHeader, png[:8])
	})

	t.Run("multiple months", func(t *testing.T) {
		png, err := r.MonthlyOverview([]model.MonthlyTotal{
			{Year: 2025, Month: 5, Type: model.TypeIncome, Total: 3000},
			{Year: 2025, Month: 5, Type: model.TypeExpense, Total: 900},
			{Year: 2025, Month: 6, Type: model.TypeIncome, Total: 3000},
			{Year: 2025, Month: 6, Type: model.TypeExpense, Total: 1100},
		})
		require.NoError(t, err)
		require.NotEmpty(t, png)
		assert.Equal(t, pngHeader, png[:8])
	})
}

func TestCategoryBreakdown(t *testing.T) {
	r := NewRenderer()

	t.Run("no expenses", func(t *testing.T) {
		png, err := r.CategoryBreakdown([]model.CategoryTotal{
			{Category: "Salary", Type: model.TypeIncome, Total: 3000},
		})
		require.NoError(t, err)
		assert.Nil(t, png)
	})

	t.Run("drops tiny slices", func(t *testing.T) {
		png, err := r.CategoryBreakdown([]model.CategoryTotal{
			{Category: "Food", Type: model.TypeExpense, Total: 995},
			{Category: "Misc", Type: model.TypeExpense, Total: 5},
		})
		require.NoError(t, err)
		require.NotEmpty(t, png)
		assert.Equal(t, pngHeader, png[:8])
	})
}
