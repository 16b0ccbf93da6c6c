package charts

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"f1duel/pkg/model"
)

var ErrNotEnoughLaps = errors.New("not enough timed laps to chart")

const (
	pngWidth  = 1024
	pngHeight = 512
)

func lineStyle(hex string) chart.Style {
	col := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    3,
	}
}

// LapChartPNG renders the lap time comparison as a PNG image. Each driver
// needs at least two timed laps.
func LapChartPNG(w io.Writer, laps1, laps2 model.Laps, d1, d2 string) error {
	x1, y1 := lapSeries(laps1)
	x2, y2 := lapSeries(laps2)
	if len(x1) < 2 || len(x2) < 2 {
		return errors.Wrapf(ErrNotEnoughLaps, "%s and %s", d1, d2)
	}

	ch := chart.Chart{
		Title:      "Lap Time Comparison: " + d1 + " vs " + d2,
		Width:      pngWidth,
		Height:     pngHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Lap Number"},
		YAxis:      chart.YAxis{Name: "Lap Time (seconds)"},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: d1, XValues: x1, YValues: y1, Style: lineStyle(colorDriver1)},
			chart.ContinuousSeries{Name: d2, XValues: x2, YValues: y2, Style: lineStyle(colorDriver2)},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return errors.Wrap(err, "rendering lap chart")
	}
	return nil
}
