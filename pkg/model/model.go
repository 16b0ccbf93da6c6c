package model

import (
	"strings"
	"time"
)

type Compound string

const (
	CompoundSoft         Compound = "SOFT"
	CompoundMedium       Compound = "MEDIUM"
	CompoundHard         Compound = "HARD"
	CompoundIntermediate Compound = "INTERMEDIATE"
	CompoundWet          Compound = "WET"
	CompoundUnknown      Compound = "UNKNOWN"
)

// ParseCompound maps a provider compound name to one of the known compounds.
func ParseCompound(s string) Compound {
	switch c := Compound(strings.ToUpper(strings.TrimSpace(s))); c {
	case CompoundSoft, CompoundMedium, CompoundHard, CompoundIntermediate, CompoundWet:
		return c
	}
	return CompoundUnknown
}

const (
	SessionRace       = "Race"
	SessionQualifying = "Qualifying"
	SessionPractice1  = "Practice 1"
	SessionPractice2  = "Practice 2"
	SessionPractice3  = "Practice 3"
	SessionSprint     = "Sprint"
	SessionSprintQual = "Sprint Qualifying"
)

// SessionTypes are the session types offered in the selectors.
var SessionTypes = []string{SessionRace, SessionQualifying, SessionPractice1, SessionPractice2}

type Event struct {
	EventName    string
	Country      string
	Location     string
	CircuitShort string
	EventDate    time.Time
}

type Driver struct {
	Number       int
	Abbreviation string
	FullName     string
	TeamName     string
	TeamColour   string
	CountryCode  string
}

// Result is one row of the classification.
type Result struct {
	Position     int
	DriverNumber int
	Abbreviation string
	FullName     string
	TeamName     string
}

type Session struct {
	Key     int
	Year    int
	Name    string
	Event   Event
	Drivers []Driver
	Results []Result
	Laps    Laps
}

// GetDriver returns the driver identified by its three letter code.
func (s *Session) GetDriver(code string) (Driver, bool) {
	for _, d := range s.Drivers {
		if strings.EqualFold(d.Abbreviation, code) {
			return d, true
		}
	}
	return Driver{}, false
}

// DriverCodes returns the codes of the drivers in the lap table in order of
// appearance.
func (s *Session) DriverCodes() []string {
	seen := map[string]bool{}
	codes := []string{}
	for _, l := range s.Laps {
		if !seen[l.Driver] {
			seen[l.Driver] = true
			codes = append(codes, l.Driver)
		}
	}
	return codes
}

// Podium returns the first n rows of the classification.
func (s *Session) Podium(n int) []Result {
	if len(s.Results) < n {
		return s.Results
	}
	return s.Results[:n]
}

// DuelShared is published when a driver comparison is shared with subscribers.
type DuelShared struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
