package charts

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"f1duel/pkg/model"
)

var ErrNoCommonLaps = errors.New("drivers have no lap in common")

const deltaFrameDuration = 300

type DeltaRow struct {
	LapNumber int
	// Delta is driver 1 lap time minus driver 2 lap time, in seconds.
	Delta     float64
	Faster    string
	Compound1 model.Compound
	Compound2 model.Compound
}

// Hover lists both drivers' tyres of the lap.
func (r DeltaRow) Hover(d1, d2 string) string {
	return fmt.Sprintf("Lap %d<br>%s Tyre: %s<br>%s Tyre: %s", r.LapNumber, d1, r.Compound1, d2, r.Compound2)
}

// JoinLaps pairs the laps both drivers completed, in the order of laps1.
// A negative delta makes d1 the faster driver, anything else d2.
func JoinLaps(laps1, laps2 model.Laps, d1, d2 string) []DeltaRow {
	byNumber := map[int]model.Lap{}
	for _, l := range laps2 {
		if _, ok := byNumber[l.LapNumber]; !ok {
			byNumber[l.LapNumber] = l
		}
	}
	rows := []DeltaRow{}
	for _, l1 := range laps1 {
		l2, ok := byNumber[l1.LapNumber]
		if !ok {
			continue
		}
		delta := l1.Seconds() - l2.Seconds()
		faster := d2
		if delta < 0 {
			faster = d1
		}
		rows = append(rows, DeltaRow{
			LapNumber: l1.LapNumber,
			Delta:     delta,
			Faster:    faster,
			Compound1: l1.Compound,
			Compound2: l2.Compound,
		})
	}
	return rows
}

func deltaMarker(r DeltaRow, d1, d2 string) Trace {
	color := colorDriver2
	if r.Faster == d1 {
		color = colorDriver1
	}
	return Trace{
		Type:         "scatter",
		Mode:         "markers+text",
		X:            []float64{float64(r.LapNumber)},
		Y:            []float64{r.Delta},
		Marker:       &Marker{Size: 18, Color: color},
		Text:         []string{r.Faster},
		TextPosition: "top center",
		HoverText:    []string{r.Hover(d1, d2)},
		ShowLegend:   boolPtr(false),
	}
}

// LapDeltaAnimation draws the per lap delta as a gray line (trace 0) and
// animates a marker (trace 1) over it, one frame per common lap.
func LapDeltaAnimation(laps1, laps2 model.Laps, d1, d2 string) (Figure, error) {
	rows := JoinLaps(laps1, laps2, d1, d2)
	if len(rows) == 0 {
		return Figure{}, errors.Wrapf(ErrNoCommonLaps, "%s and %s", d1, d2)
	}

	line := Trace{
		Type:       "scatter",
		Mode:       "lines+markers",
		Name:       "Delta",
		Line:       &Line{Color: "gray", Width: 2},
		ShowLegend: boolPtr(false),
	}
	frames := make([]Frame, 0, len(rows))
	for _, r := range rows {
		line.X = append(line.X, float64(r.LapNumber))
		line.Y = append(line.Y, r.Delta)
		frames = append(frames, Frame{
			Name:   strconv.Itoa(r.LapNumber),
			Data:   []Trace{deltaMarker(r, d1, d2)},
			Traces: []int{1},
		})
	}

	layout := darkLayout(
		fmt.Sprintf("Lap Time Delta Animation: %s vs %s", d1, d2),
		"LapNumber",
		fmt.Sprintf("%s - %s Lap Time (s)", d1, d2),
	)
	animationControls(&layout, frames, "LapNumber=", deltaFrameDuration)
	layout.Transition = &Transition{Duration: deltaFrameDuration}

	return Figure{
		Data:   []Trace{line, frames[0].Data[0]},
		Layout: layout,
		Frames: frames,
	}, nil
}
