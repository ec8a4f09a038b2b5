package portfolio

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/zenithfin/zenith/internal/models"
)

var typeColors = map[models.InstrumentType]string{
	models.InstrumentStock:      "2563eb", // blue-600
	models.InstrumentETF:        "16a34a", // green-600
	models.InstrumentMutualFund: "d97706", // amber-600
}

// RenderAllocationChart renders the current-value split by instrument type
// as a PNG donut. Returns raw PNG bytes.
func RenderAllocationChart(holdings []models.Holding) ([]byte, error) {
	totals := map[models.InstrumentType]float64{}
	var total float64
	for _, h := range holdings {
		v := h.CurrentValue()
		totals[h.Type] += v
		total += v
	}
	if total <= 0 {
		return nil, fmt.Errorf("no holdings with positive value to chart")
	}

	var values []chart.Value
	for _, t := range []models.InstrumentType{models.InstrumentStock, models.InstrumentETF, models.InstrumentMutualFund} {
		v := totals[t]
		if v <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: v,
			Label: fmt.Sprintf("%s %.1f%%", t, v/total*100),
			Style: chart.Style{
				FillColor: drawing.ColorFromHex(typeColors[t]),
			},
		})
	}

	graph := chart.DonutChart{
		Title:  "Portfolio Allocation",
		Width:  600,
		Height: 400,
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
