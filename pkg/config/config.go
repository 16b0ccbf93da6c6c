package config

import "time"

// this holds the resolved configuration values from CLI
var (
	OpenF1URL       string        // base URL of the timing-data provider
	HTTPTimeout     time.Duration // timeout for a single provider request
	DB              string        // path to the sqlite database (cache + subscribers)
	CacheExpiration time.Duration // 0 keeps cached responses forever
	Addr            string        // listen address of the web dashboard
	ResourcesDir    string        // directory for generated track maps
	TelegramToken   string        // enables the Telegram bot when set
	FirstSeason     int           // oldest season offered in the selector
	LastSeason      int           // most recent season offered in the selector
	LogLevel        string        // zap log level
	LogFormat       string        // text vs json
)

const (
	DefaultOpenF1URL = "https://api.openf1.org/v1"
	DefaultDB        = "./f1duel.db"
	DefaultAddr      = ":8080"
	DefaultResources = "./resources"
)

// Seasons lists the selectable seasons, most recent first.
func Seasons() []int {
	if LastSeason < FirstSeason {
		return nil
	}
	ret := make([]int, 0, LastSeason-FirstSeason+1)
	for y := LastSeason; y >= FirstSeason; y-- {
		ret = append(ret, y)
	}
	return ret
}
