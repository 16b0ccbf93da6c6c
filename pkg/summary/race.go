package summary

import (
	"fmt"

	"github.com/pkg/errors"

	"f1duel/pkg/model"
)

const (
	DateLayout   = "02 Jan 2006"
	NotAvailable = "N/A"
)

var ErrNoResults = errors.New("session has no classification")

type RaceSummary struct {
	Track            string
	Date             string
	Winner           string
	Team             string
	FastestLapDriver string
	FastestLapTime   string
	FastestLapTyre   string
}

// BuildRaceSummary extracts the event, the winner and the fastest lap of the
// session. The fastest lap fields are NotAvailable when no lap has a time.
func BuildRaceSummary(s *model.Session) (RaceSummary, error) {
	if len(s.Results) == 0 {
		return RaceSummary{}, ErrNoResults
	}
	winner := s.Results[0]
	rs := RaceSummary{
		Track:  s.Event.EventName,
		Date:   s.Event.EventDate.Format(DateLayout),
		Winner: winner.FullName,
		Team:   winner.TeamName,
	}

	fl, err := s.Laps.PickFastest()
	if err != nil {
		rs.FastestLapDriver = NotAvailable
		rs.FastestLapTime = NotAvailable
		rs.FastestLapTyre = NotAvailable
		return rs, nil
	}
	rs.FastestLapDriver = fl.Driver
	rs.FastestLapTime = fmt.Sprintf("%.3fs", fl.Seconds())
	rs.FastestLapTyre = string(fl.Compound)
	return rs, nil
}
