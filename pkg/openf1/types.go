package openf1

import "time"

type meeting struct {
	MeetingKey       int       `json:"meeting_key"`
	MeetingName      string    `json:"meeting_name"`
	CountryName      string    `json:"country_name"`
	Location         string    `json:"location"`
	CircuitShortName string    `json:"circuit_short_name"`
	DateStart        time.Time `json:"date_start"`
	GMTOffset        string    `json:"gmt_offset"`
	Year             int       `json:"year"`
}

type session struct {
	SessionKey  int       `json:"session_key"`
	SessionName string    `json:"session_name"`
	SessionType string    `json:"session_type"`
	MeetingKey  int       `json:"meeting_key"`
	DateStart   time.Time `json:"date_start"`
}

type driver struct {
	DriverNumber int    `json:"driver_number"`
	NameAcronym  string `json:"name_acronym"`
	FullName     string `json:"full_name"`
	TeamName     string `json:"team_name"`
	TeamColour   string `json:"team_colour"`
	CountryCode  string `json:"country_code"`
}

type lap struct {
	DriverNumber int        `json:"driver_number"`
	LapNumber    int        `json:"lap_number"`
	LapDuration  *float64   `json:"lap_duration"`
	DateStart    *time.Time `json:"date_start"`
	IsPitOutLap  bool       `json:"is_pit_out_lap"`
}

type stint struct {
	DriverNumber int    `json:"driver_number"`
	StintNumber  int    `json:"stint_number"`
	Compound     string `json:"compound"`
	LapStart     int    `json:"lap_start"`
	LapEnd       int    `json:"lap_end"`
}

type result struct {
	Position     *int `json:"position"`
	DriverNumber int  `json:"driver_number"`
}

type carData struct {
	Date  time.Time `json:"date"`
	Speed float64   `json:"speed"`
}

type location struct {
	Date time.Time `json:"date"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
}
