package charts

import (
	"github.com/samber/lo"

	"f1duel/pkg/model"
)

func lapSeries(laps model.Laps) ([]float64, []float64) {
	timed := lo.Filter(laps, func(l model.Lap, _ int) bool { return l.HasTime })
	x := lo.Map(timed, func(l model.Lap, _ int) float64 { return float64(l.LapNumber) })
	y := lo.Map(timed, func(l model.Lap, _ int) float64 { return l.Seconds() })
	return x, y
}

// LapChart plots lap time against lap number for two drivers.
func LapChart(laps1, laps2 model.Laps, d1, d2 string) Figure {
	x1, y1 := lapSeries(laps1)
	x2, y2 := lapSeries(laps2)
	return Figure{
		Data: []Trace{
			{Type: "scatter", Mode: "lines+markers", Name: d1, X: x1, Y: y1},
			{Type: "scatter", Mode: "lines+markers", Name: d2, X: x2, Y: y2},
		},
		Layout: darkLayout("Lap Time Comparison", "Lap Number", "Lap Time (seconds)"),
	}
}
