// Package drivers resolves display metadata (team color, flag) for drivers.
package drivers

import "f1duel/pkg/model"

const (
	DefaultColor = "#aaa"
	DefaultFlag  = ""
)

var teamColors = map[string]string{
	"Red Bull Racing": "#1E41FF",
	"Ferrari":         "#DC0000",
	"Mercedes":        "#00D2BE",
	"McLaren":         "#FF8700",
	"Aston Martin":    "#006F62",
	"Alpine":          "#0090FF",
	"Williams":        "#005AFF",
	"Kick Sauber":     "#52E252",
	"RB":              "#6692FF",
	"Haas F1 Team":    "#B6BABD",
}

var countryFlags = map[string]string{
	"VER": "🇳🇱",
	"LEC": "🇲🇨",
	"HAM": "🇬🇧",
	"NOR": "🇬🇧",
	"SAI": "🇪🇸",
	"PER": "🇲🇽",
	"ALO": "🇪🇸",
	"PIA": "🇦🇺",
	"RUS": "🇬🇧",
	"ALB": "🇹🇭",
	"HUL": "🇩🇪",
	"STR": "🇨🇦",
	"ZHO": "🇨🇳",
	"TSU": "🇯🇵",
	"RIC": "🇦🇺",
	"OCO": "🇫🇷",
	"GAS": "🇫🇷",
	"BOT": "🇫🇮",
	"SAR": "🇺🇸",
	"MAG": "🇩🇰",
}

// TeamColor returns the display color of a team, DefaultColor when unknown.
func TeamColor(team string) string {
	if c, ok := teamColors[team]; ok {
		return c
	}
	return DefaultColor
}

// Flag returns the flag glyph of a driver code, DefaultFlag when unknown.
func Flag(code string) string {
	if f, ok := countryFlags[code]; ok {
		return f
	}
	return DefaultFlag
}

type Info struct {
	Code  string
	Name  string
	Team  string
	Color string
	Flag  string
}

// Resolve looks a driver up in the session entry list. Unknown codes still
// resolve, with empty name and team and the default color.
func Resolve(s *model.Session, code string) Info {
	d, _ := s.GetDriver(code)
	return Info{
		Code:  code,
		Name:  d.FullName,
		Team:  d.TeamName,
		Color: TeamColor(d.TeamName),
		Flag:  Flag(code),
	}
}
