package webserver

import (
	"net/url"
	"strconv"
	"strings"

	"f1duel/pkg/model"
)

// DuelQuery is the selection shared by the dashboard and ghost map URLs.
type DuelQuery struct {
	Year    int
	Race    string
	Session string
	D1      string
	D2      string
}

// ParseDuelQuery reads a selection from URL values. Missing values fall back
// to defaultYear and the Race session.
func ParseDuelQuery(v url.Values, defaultYear int) DuelQuery {
	q := DuelQuery{
		Year:    defaultYear,
		Race:    strings.TrimSpace(v.Get("race")),
		Session: strings.TrimSpace(v.Get("session")),
		D1:      strings.ToUpper(strings.TrimSpace(v.Get("d1"))),
		D2:      strings.ToUpper(strings.TrimSpace(v.Get("d2"))),
	}
	if y, err := strconv.Atoi(v.Get("year")); err == nil {
		q.Year = y
	}
	if q.Session == "" {
		q.Session = model.SessionRace
	}
	return q
}

func (q DuelQuery) Values() url.Values {
	v := url.Values{}
	v.Set("year", strconv.Itoa(q.Year))
	v.Set("race", q.Race)
	v.Set("session", q.Session)
	if q.D1 != "" {
		v.Set("d1", q.D1)
	}
	if q.D2 != "" {
		v.Set("d2", q.D2)
	}
	return v
}

// Encode returns the selection as a query string.
func (q DuelQuery) Encode() string {
	return q.Values().Encode()
}
