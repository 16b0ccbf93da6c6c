package model

import "time"

type CarSample struct {
	Date  time.Time
	Speed float64 // km/h
}

type TelemetrySample struct {
	Date     time.Time
	Distance float64 // m from the start of the lap
	Speed    float64 // km/h
}

type Telemetry []TelemetrySample

// NewTelemetry integrates the distance travelled from the speed of consecutive
// samples. The first sample is at 0 m.
func NewTelemetry(samples []CarSample) Telemetry {
	t := make(Telemetry, len(samples))
	distance := 0.0
	for i, s := range samples {
		if i > 0 {
			dt := s.Date.Sub(samples[i-1].Date).Seconds()
			if dt > 0 {
				distance += s.Speed / 3.6 * dt
			}
		}
		t[i] = TelemetrySample{Date: s.Date, Distance: distance, Speed: s.Speed}
	}
	return t
}

func (t Telemetry) MaxSpeed() float64 {
	ret := 0.0
	for _, s := range t {
		if s.Speed > ret {
			ret = s.Speed
		}
	}
	return ret
}

func (t Telemetry) MaxDistance() float64 {
	ret := 0.0
	for _, s := range t {
		if s.Distance > ret {
			ret = s.Distance
		}
	}
	return ret
}

type Location struct {
	Date time.Time
	X    float64
	Y    float64
}

// Truncate cuts both sequences to the length of the shorter one. Sample i of
// a stays paired with sample i of b.
func Truncate[T any](a, b []T) ([]T, []T) {
	n := min(len(a), len(b))
	return a[:n], b[:n]
}
