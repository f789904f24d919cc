package report

import (
	"errors"
	"io"

	"budget-tracker/internal/analytics"

	"github.com/wcharczuk/go-chart/v2"
)

// ErrNoData is returned when there is nothing to chart.
var ErrNoData = errors.New("no expense data to chart")

// Chart dimensions in pixels.
const (
	ChartWidth  = 512
	ChartHeight = 512
)

// WritePieChart renders expense totals per category as a PNG.
// Categories with a zero total are left out.
func WritePieChart(w io.Writer, totals []analytics.CategoryTotal) error {
	values := make([]chart.Value, 0, len(totals))
	for _, t := range totals {
		if t.Amount <= 0 {
			continue
		}
		values = append(values, chart.Value{Value: t.Amount, Label: t.Category})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Width:  ChartWidth,
		Height: ChartHeight,
		Values: values,
	}
	return pie.Render(chart.PNG, w)
}
