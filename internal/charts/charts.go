// Package charts renders PNG summaries of aggregated transaction data.
package charts

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/calloway/mintleaf/internal/model"
)

// Renderer draws charts from aggregate rollups.
type Renderer struct{}

// NewRenderer creates a chart renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// MonthlyOverview renders income and expense lines across the monthly
// rollup. Returns nil bytes when there is nothing to plot.
func (r *Renderer) MonthlyOverview(totals []model.MonthlyTotal) ([]byte, error) {
	if len(totals) == 0 {
		return nil, nil
	}

	type bucket struct {
		income  float64
		expense float64
	}
	months := make(map[time.Time]*bucket)
	for _, t := range totals {
		key := time.Date(t.Year, time.Month(t.Month), 1, 0, 0, 0, 0, time.UTC)
		b, ok := months[key]
		if !ok {
			b = &bucket{}
			months[key] = b
		}
		switch t.Type {
		case model.TypeIncome:
			b.income += t.Total
		case model.TypeExpense:
			b.expense += t.Total
		}
	}

	xValues := make([]time.Time, 0, len(months))
	for key := range months {
		xValues = append(xValues, key)
	}
	sort.Slice(xValues, func(i, j int) bool { return xValues[i].Before(xValues[j]) })

	// TimeSeries needs at least two points to draw a line.
	if len(xValues) == 1 {
		xValues = append(xValues, xValues[0].AddDate(0, 1, 0))
		months[xValues[1]] = &bucket{}
	}

	incomeValues := make([]float64, len(xValues))
	expenseValues := make([]float64, len(xValues))
	for i, key := range xValues {
		incomeValues[i] = months[key].income
		expenseValues[i] = months[key].expense
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2006"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("$%.0f", v.(float64))
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Income",
				XValues: xValues,
				YValues: incomeValues,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Expenses",
				XValues: xValues,
				YValues: expenseValues,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render monthly overview: %w", err)
	}
	return buffer.Bytes(), nil
}

// CategoryBreakdown renders a pie chart of expense categories. Slices
// below one percent of the total are dropped to keep labels readable.
func (r *Renderer) CategoryBreakdown(totals []model.CategoryTotal) ([]byte, error) {
	var total float64
	for _, t := range totals {
		if t.Type == model.TypeExpense {
			total += t.Total
		}
	}
	if total <= 0 {
		return nil, nil
	}

	values := make([]chart.Value, 0, len(totals))
	for _, t := range totals {
		if t.Type != model.TypeExpense {
			continue
		}
		percentage := (t.Total / total) * 100
		if percentage <= 1.0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: $%.2f (%.1f%%)", t.Category, t.Total, percentage),
			Value: t.Total,
		})
	}
	if len(values) == 0 {
		return nil, nil
	}

	pie := chart.PieChart{
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category breakdown: %w", err)
	}
	return buffer.Bytes(), nil
}
