package model

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// QuickLapThreshold is the factor of the fastest lap below which a lap is
// considered representative.
const QuickLapThreshold = 1.07

var ErrNoValidLap = errors.New("no valid lap found")

type Lap struct {
	Driver       string
	DriverNumber int
	LapNumber    int
	LapTime      time.Duration
	HasTime      bool
	Compound     Compound
	DateStart    time.Time
	PitOutLap    bool
}

func (l Lap) Seconds() float64 {
	return l.LapTime.Seconds()
}

// End is the moment the lap was completed.
func (l Lap) End() time.Time {
	return l.DateStart.Add(l.LapTime)
}

type Laps []Lap

// PickDriver selects the laps of one driver.
func (ls Laps) PickDriver(code string) Laps {
	return lo.Filter(ls, func(l Lap, _ int) bool {
		return strings.EqualFold(l.Driver, code)
	})
}

// PickQuickLaps keeps the laps faster than QuickLapThreshold times the fastest
// lap of the set. Laps without a time are dropped.
func (ls Laps) PickQuickLaps() Laps {
	fastest, err := ls.PickFastest()
	if err != nil {
		return Laps{}
	}
	limit := time.Duration(float64(fastest.LapTime) * QuickLapThreshold)
	return lo.Filter(ls, func(l Lap, _ int) bool {
		return l.HasTime && l.LapTime < limit
	})
}

// PickFastest returns the lap with the minimum lap time. The first of equal
// laps wins.
func (ls Laps) PickFastest() (Lap, error) {
	timed := ls.timed()
	if len(timed) == 0 {
		return Lap{}, ErrNoValidLap
	}
	return lo.MinBy(timed, func(a, b Lap) bool {
		return a.LapTime < b.LapTime
	}), nil
}

// MeanLapTime is the average lap time of the laps with a time.
func (ls Laps) MeanLapTime() (time.Duration, error) {
	timed := ls.timed()
	if len(timed) == 0 {
		return 0, ErrNoValidLap
	}
	sum := lo.SumBy(timed, func(l Lap) time.Duration { return l.LapTime })
	return sum / time.Duration(len(timed)), nil
}

func (ls Laps) LapNumbers() []int {
	return lo.Map(ls, func(l Lap, _ int) int { return l.LapNumber })
}

func (ls Laps) timed() Laps {
	return lo.Filter(ls, func(l Lap, _ int) bool { return l.HasTime })
}
