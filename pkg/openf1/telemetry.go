package openf1

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"f1duel/pkg/model"
)

const dateFilterLayout = "2006-01-02T15:04:05.000"

func lapWindow(s *model.Session, l model.Lap) ([]string, error) {
	if !l.HasTime || l.DateStart.IsZero() {
		return nil, errors.Wrapf(ErrNoLapWindow, "%s lap %d", l.Driver, l.LapNumber)
	}
	return []string{
		fmt.Sprintf("session_key=%d", s.Key),
		fmt.Sprintf("driver_number=%d", l.DriverNumber),
		"date>=" + l.DateStart.UTC().Format(dateFilterLayout),
		"date<=" + l.End().UTC().Format(dateFilterLayout),
	}, nil
}

// LapTelemetry returns the car samples recorded during a lap with the distance
// travelled since the start of the lap.
func (c *Client) LapTelemetry(ctx context.Context, s *model.Session, l model.Lap) (model.Telemetry, error) {
	params, err := lapWindow(s, l)
	if err != nil {
		return nil, err
	}
	rows, err := fetch[carData](ctx, c, "car_data", params...)
	if err != nil {
		return nil, errors.Wrapf(err, "telemetry of %s lap %d", l.Driver, l.LapNumber)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return model.NewTelemetry(lo.Map(rows, func(r carData, _ int) model.CarSample {
		return model.CarSample{Date: r.Date, Speed: r.Speed}
	})), nil
}

// LapLocations returns the positions of the car during a lap.
func (c *Client) LapLocations(ctx context.Context, s *model.Session, l model.Lap) ([]model.Location, error) {
	params, err := lapWindow(s, l)
	if err != nil {
		return nil, err
	}
	rows, err := fetch[location](ctx, c, "location", params...)
	if err != nil {
		return nil, errors.Wrapf(err, "locations of %s lap %d", l.Driver, l.LapNumber)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return lo.Map(rows, func(r location, _ int) model.Location {
		return model.Location{Date: r.Date, X: r.X, Y: r.Y}
	}), nil
}
