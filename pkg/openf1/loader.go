package openf1

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"f1duel/log"
	"f1duel/pkg/model"
)

// Meetings lists the meetings of a season in date order.
func (c *Client) Meetings(ctx context.Context, year int) ([]model.Event, error) {
	ms, err := c.meetings(ctx, year)
	if err != nil {
		return nil, err
	}
	return lo.Map(ms, func(m meeting, _ int) model.Event { return toEvent(m, m.DateStart) }), nil
}

func (c *Client) meetings(ctx context.Context, year int) ([]meeting, error) {
	ms, err := fetch[meeting](ctx, c, "meetings", fmt.Sprintf("year=%d", year))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].DateStart.Before(ms[j].DateStart) })
	return ms, nil
}

// findMeeting matches raceName against the meeting name, country, location
// and circuit. The first meeting of the season wins.
func findMeeting(ms []meeting, raceName string) (meeting, bool) {
	needle := strings.ToLower(strings.TrimSpace(raceName))
	if needle == "" {
		return meeting{}, false
	}
	return lo.Find(ms, func(m meeting) bool {
		for _, s := range []string{m.MeetingName, m.CountryName, m.Location, m.CircuitShortName} {
			if strings.Contains(strings.ToLower(s), needle) {
				return true
			}
		}
		return false
	})
}

// toEvent keeps date in the local time of the circuit, so night races fall on
// the day they are held.
func toEvent(m meeting, date time.Time) model.Event {
	if loc, ok := parseGMTOffset(m.GMTOffset); ok {
		date = date.In(loc)
	}
	return model.Event{
		EventName:    m.MeetingName,
		Country:      m.CountryName,
		Location:     m.Location,
		CircuitShort: m.CircuitShortName,
		EventDate:    date,
	}
}

// parseGMTOffset reads offsets like "-08:00:00" or "03:00:00".
func parseGMTOffset(s string) (*time.Location, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	name := "GMT" + s
	sign := 1
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return nil, false
	}
	seconds := sign * (t.Hour()*3600 + t.Minute()*60 + t.Second())
	return time.FixedZone(name, seconds), true
}

// LoadSession resolves a session from season, race name and session type and
// loads its drivers, laps, tyre stints and classification.
func (c *Client) LoadSession(ctx context.Context, year int, raceName, sessionType string) (*model.Session, error) {
	s, err := c.loadSession(ctx, year, raceName, sessionType)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %d %s %s", year, raceName, sessionType)
	}
	return s, nil
}

func (c *Client) loadSession(ctx context.Context, year int, raceName, sessionType string) (*model.Session, error) {
	ms, err := c.meetings(ctx, year)
	if err != nil {
		return nil, err
	}
	m, ok := findMeeting(ms, raceName)
	if !ok {
		return nil, errors.Wrapf(ErrRaceNotFound, "%q", raceName)
	}

	sessions, err := fetch[session](ctx, c, "sessions", fmt.Sprintf("meeting_key=%d", m.MeetingKey))
	if err != nil {
		return nil, err
	}
	ses, ok := lo.Find(sessions, func(s session) bool { return strings.EqualFold(s.SessionName, sessionType) })
	if !ok {
		return nil, errors.Wrapf(ErrSessionNotFound, "%q at %s", sessionType, m.MeetingName)
	}
	eventDate := m.DateStart
	if race, ok := lo.Find(sessions, func(s session) bool { return s.SessionName == model.SessionRace }); ok {
		eventDate = race.DateStart
	}

	key := fmt.Sprintf("session_key=%d", ses.SessionKey)
	drivers, err := fetch[driver](ctx, c, "drivers", key)
	if err != nil {
		return nil, err
	}
	results, err := fetch[result](ctx, c, "session_result", key)
	if err != nil {
		return nil, err
	}
	laps, err := fetch[lap](ctx, c, "laps", key)
	if err != nil {
		return nil, err
	}
	stints, err := fetch[stint](ctx, c, "stints", key)
	if err != nil {
		return nil, err
	}

	out := &model.Session{
		Key:   ses.SessionKey,
		Year:  year,
		Name:  ses.SessionName,
		Event: toEvent(m, eventDate),
	}
	out.Drivers = lo.Map(drivers, func(d driver, _ int) model.Driver {
		return model.Driver{
			Number:       d.DriverNumber,
			Abbreviation: d.NameAcronym,
			FullName:     d.FullName,
			TeamName:     d.TeamName,
			TeamColour:   d.TeamColour,
			CountryCode:  d.CountryCode,
		}
	})
	byNumber := lo.KeyBy(out.Drivers, func(d model.Driver) int { return d.Number })
	out.Results = buildResults(results, byNumber)
	out.Laps = buildLaps(laps, stints, byNumber, out.Results)

	c.logger.Info("session loaded",
		log.Int("session", out.Key),
		log.String("event", m.MeetingName),
		log.String("name", out.Name),
		log.Int("drivers", len(out.Drivers)),
		log.Int("laps", len(out.Laps)))
	return out, nil
}

// buildResults orders the classification by position. Unclassified rows go
// last in driver number order.
func buildResults(rows []result, drivers map[int]model.Driver) []model.Result {
	sort.SliceStable(rows, func(i, j int) bool {
		pi, pj := rows[i].Position, rows[j].Position
		switch {
		case pi == nil && pj == nil:
			return rows[i].DriverNumber < rows[j].DriverNumber
		case pi == nil:
			return false
		case pj == nil:
			return true
		}
		return *pi < *pj
	})
	return lo.Map(rows, func(r result, _ int) model.Result {
		d := drivers[r.DriverNumber]
		return model.Result{
			Position:     lo.FromPtr(r.Position),
			DriverNumber: r.DriverNumber,
			Abbreviation: d.Abbreviation,
			FullName:     d.FullName,
			TeamName:     d.TeamName,
		}
	})
}

// compoundFor returns the compound of the stint covering lapNumber.
func compoundFor(stints []stint, driverNumber, lapNumber int) model.Compound {
	s, ok := lo.Find(stints, func(s stint) bool {
		return s.DriverNumber == driverNumber && s.LapStart <= lapNumber && lapNumber <= s.LapEnd
	})
	if !ok {
		return model.CompoundUnknown
	}
	return model.ParseCompound(s.Compound)
}

// buildLaps converts the lap rows and sorts them by classification order, then
// lap number. Laps of drivers missing from the entry list are dropped.
func buildLaps(rows []lap, stints []stint, drivers map[int]model.Driver, results []model.Result) model.Laps {
	order := map[int]int{}
	for i, r := range results {
		order[r.DriverNumber] = i
	}
	rank := func(number int) int {
		if i, ok := order[number]; ok {
			return i
		}
		return len(results) + number
	}

	laps := model.Laps{}
	for _, r := range rows {
		d, ok := drivers[r.DriverNumber]
		if !ok {
			continue
		}
		l := model.Lap{
			Driver:       d.Abbreviation,
			DriverNumber: r.DriverNumber,
			LapNumber:    r.LapNumber,
			Compound:     compoundFor(stints, r.DriverNumber, r.LapNumber),
			PitOutLap:    r.IsPitOutLap,
		}
		if r.LapDuration != nil && *r.LapDuration > 0 {
			l.HasTime = true
			l.LapTime = time.Duration(*r.LapDuration * float64(time.Second))
		}
		if r.DateStart != nil {
			l.DateStart = *r.DateStart
		}
		laps = append(laps, l)
	}
	sort.SliceStable(laps, func(i, j int) bool {
		ri, rj := rank(laps[i].DriverNumber), rank(laps[j].DriverNumber)
		if ri != rj {
			return ri < rj
		}
		return laps[i].LapNumber < laps[j].LapNumber
	})
	return laps
}
