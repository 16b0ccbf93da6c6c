package dashboard

import (
	"context"
	"encoding/json"
	"html/template"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"f1duel/pkg/charts"
	"f1duel/pkg/drivers"
	"f1duel/pkg/model"
	"f1duel/pkg/panels"
	"f1duel/pkg/report"
	"f1duel/pkg/summary"
	"f1duel/pkg/webserver"
)

// Source loads sessions and lap telemetry from the timing-data provider.
type Source interface {
	LoadSession(ctx context.Context, year int, raceName, sessionType string) (*model.Session, error)
	LapTelemetry(ctx context.Context, s *model.Session, l model.Lap) (model.Telemetry, error)
}

// Result holds the parts of the report built so far. When Err is set the
// parts after the failing step are empty.
type Result struct {
	Query   webserver.DuelQuery
	Session *model.Session
	Drivers []string
	D1      drivers.Info
	D2      drivers.Info

	RacePanel   template.HTML
	PodiumPanel template.HTML
	LapChart    template.JS
	BattlePanel template.HTML
	DeltaChart  template.JS
	GhostChart  template.JS

	Err error
}

// Others is the driver list offered for the second driver.
func (r Result) Others() []string {
	return lo.Without(r.Drivers, r.D1.Code)
}

// SelectDrivers applies the selector defaults: d1 falls back to the first
// driver, d2 to the first driver other than d1.
func SelectDrivers(codes []string, d1, d2 string) (string, string) {
	if !lo.Contains(codes, d1) {
		d1 = lo.FirstOrEmpty(codes)
	}
	others := lo.Without(codes, d1)
	if !lo.Contains(others, d2) {
		d2 = lo.FirstOrEmpty(others)
	}
	return d1, d2
}

func figureJS(f charts.Figure) (template.JS, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return "", errors.Wrap(err, "encoding figure")
	}
	return template.JS(b), nil
}

// Run executes the report steps in display order and stops at the first
// failure.
func Run(ctx context.Context, src Source, q webserver.DuelQuery) Result {
	res := Result{Query: q}
	if err := run(ctx, src, &res); err != nil {
		res.Err = err
	}
	return res
}

func run(ctx context.Context, src Source, res *Result) error {
	q := res.Query
	s, err := src.LoadSession(ctx, q.Year, q.Race, q.Session)
	if err != nil {
		return err
	}
	res.Session = s

	rs, err := summary.BuildRaceSummary(s)
	if err != nil {
		return err
	}
	if res.RacePanel, err = panels.RaceSummary(rs); err != nil {
		return err
	}
	if res.PodiumPanel, err = panels.Podium(s.Podium(3)); err != nil {
		return err
	}

	res.Drivers = s.DriverCodes()
	d1, d2 := SelectDrivers(res.Drivers, q.D1, q.D2)
	if d1 == "" || d2 == "" {
		return errors.New("session needs two drivers with laps")
	}
	res.Query.D1, res.Query.D2 = d1, d2
	res.D1 = drivers.Resolve(s, d1)
	res.D2 = drivers.Resolve(s, d2)

	laps1 := report.DriverLaps(s, d1)
	laps2 := report.DriverLaps(s, d2)
	if res.LapChart, err = figureJS(charts.LapChart(laps1, laps2, d1, d2)); err != nil {
		return err
	}

	battle, err := summary.Summarize(laps1, laps2, d1, d2)
	if err != nil {
		return err
	}
	if res.BattlePanel, err = panels.Battle(battle, res.D1, res.D2); err != nil {
		return err
	}

	delta, err := charts.LapDeltaAnimation(laps1, laps2, d1, d2)
	if err != nil {
		return err
	}
	if res.DeltaChart, err = figureJS(delta); err != nil {
		return err
	}

	ghost, err := charts.GhostLap(ctx, src, s, d1, d2)
	if err != nil {
		return err
	}
	res.GhostChart, err = figureJS(ghost)
	return err
}
