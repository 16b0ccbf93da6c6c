// Package summary derives the comparison statistics shown for a session and
// a pair of drivers.
package summary

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"f1duel/pkg/model"
)

var ErrNoLaps = errors.New("no timed laps")

type DriverStats struct {
	Code string
	// AvgLapTime is the mean lap time in seconds.
	AvgLapTime float64
	Fastest    model.Lap
}

func (d DriverStats) AvgLapTimeText() string {
	return fmt.Sprintf("%.3f s", d.AvgLapTime)
}

func (d DriverStats) FastestLapText() string {
	return fmt.Sprintf("%.3f s (Lap %d)", d.Fastest.Seconds(), d.Fastest.LapNumber)
}

func (d DriverStats) TyreText() string {
	return fmt.Sprintf("%s %s", TyreEmoji(string(d.Fastest.Compound)), d.Fastest.Compound)
}

type BattleSummary struct {
	Driver1      DriverStats
	Driver2      DriverStats
	FasterDriver string
	// AvgGap is the absolute difference of the mean lap times in seconds.
	AvgGap float64
}

func (b BattleSummary) AvgGapText() string {
	return fmt.Sprintf("%.3f s/lap", b.AvgGap)
}

func driverStats(laps model.Laps, code string) (DriverStats, error) {
	mean, err := laps.MeanLapTime()
	if err != nil {
		return DriverStats{}, errors.Wrapf(ErrNoLaps, "driver %s", code)
	}
	fastest, err := laps.PickFastest()
	if err != nil {
		return DriverStats{}, errors.Wrapf(ErrNoLaps, "driver %s", code)
	}
	return DriverStats{Code: code, AvgLapTime: mean.Seconds(), Fastest: fastest}, nil
}

// Summarize compares two drivers' quick laps. The driver with the strictly
// lower mean lap time is the faster one; d1 wins ties.
func Summarize(laps1, laps2 model.Laps, d1, d2 string) (BattleSummary, error) {
	s1, err := driverStats(laps1, d1)
	if err != nil {
		return BattleSummary{}, err
	}
	s2, err := driverStats(laps2, d2)
	if err != nil {
		return BattleSummary{}, err
	}

	faster := d1
	if s2.AvgLapTime < s1.AvgLapTime {
		faster = d2
	}
	return BattleSummary{
		Driver1:      s1,
		Driver2:      s2,
		FasterDriver: faster,
		AvgGap:       math.Abs(s1.AvgLapTime - s2.AvgLapTime),
	}, nil
}
