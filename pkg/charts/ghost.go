package charts

import (
	"context"
	"math"
	"strconv"

	"github.com/pkg/errors"

	"f1duel/pkg/model"
)

var ErrNoTelemetry = errors.New("lap has no telemetry")

const (
	ghostFrameDuration = 100
	ghostSpeedMargin   = 20
)

// TelemetrySource returns the car samples of a lap.
type TelemetrySource interface {
	LapTelemetry(ctx context.Context, s *model.Session, l model.Lap) (model.Telemetry, error)
}

// FastestLapTelemetry returns the telemetry of a driver's fastest lap.
func FastestLapTelemetry(ctx context.Context, src TelemetrySource, s *model.Session, code string) (model.Telemetry, error) {
	fastest, err := s.Laps.PickDriver(code).PickFastest()
	if err != nil {
		return nil, errors.Wrapf(err, "fastest lap of %s", code)
	}
	tel, err := src.LapTelemetry(ctx, s, fastest)
	if err != nil {
		return nil, err
	}
	if len(tel) == 0 {
		return nil, errors.Wrapf(ErrNoTelemetry, "%s lap %d", code, fastest.LapNumber)
	}
	return tel, nil
}

// GhostLap loads both drivers' fastest lap telemetry and builds the ghost
// animation.
func GhostLap(ctx context.Context, src TelemetrySource, s *model.Session, d1, d2 string) (Figure, error) {
	tel1, err := FastestLapTelemetry(ctx, src, s, d1)
	if err != nil {
		return Figure{}, err
	}
	tel2, err := FastestLapTelemetry(ctx, src, s, d2)
	if err != nil {
		return Figure{}, err
	}
	return GhostLapAnimation(tel1, tel2, d1, d2)
}

func ghostPoint(code, color string, distance, speed float64) Trace {
	return Trace{
		Type:         "scatter",
		Mode:         "markers+text",
		Name:         code,
		X:            []float64{distance},
		Y:            []float64{speed},
		Text:         []string{code},
		TextPosition: "top center",
		Marker:       &Marker{Size: 14, Color: color, Line: &Line{Color: "white", Width: 2}},
	}
}

// GhostLapAnimation animates both drivers' speed, one frame per sample
// index. Both traces are cut to the shorter length and sample i of one lap is
// shown next to sample i of the other; the distance axis follows tel1.
func GhostLapAnimation(tel1, tel2 model.Telemetry, d1, d2 string) (Figure, error) {
	tel1, tel2 = model.Truncate(tel1, tel2)
	if len(tel1) == 0 {
		return Figure{}, errors.Wrapf(ErrNoTelemetry, "%s vs %s", d1, d2)
	}

	frames := make([]Frame, 0, len(tel1))
	for i := range tel1 {
		distance := tel1[i].Distance
		frames = append(frames, Frame{
			Name: strconv.Itoa(i),
			Data: []Trace{
				ghostPoint(d1, colorDriver1, distance, tel1[i].Speed),
				ghostPoint(d2, colorDriver2, distance, tel2[i].Speed),
			},
			Traces: []int{0, 1},
		})
	}

	layout := darkLayout(
		"Ghost Lap Speed Animation: "+d1+" vs "+d2,
		"Distance (m)",
		"Speed (km/h)",
	)
	layout.XAxis.Range = []float64{0, tel1.MaxDistance()}
	layout.YAxis.Range = []float64{0, math.Max(tel1.MaxSpeed(), tel2.MaxSpeed()) + ghostSpeedMargin}
	layout.Transition = &Transition{Duration: 30}
	animationControls(&layout, frames, "Frame=", ghostFrameDuration)

	return Figure{
		Data:   frames[0].Data,
		Layout: layout,
		Frames: frames,
	}, nil
}
