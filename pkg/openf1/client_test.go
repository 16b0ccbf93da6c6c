package openf1

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1duel/pkg/cache"
	"f1duel/pkg/model"
)

var fixtures = map[string]string{
	"/meetings?year=2024": `[
		{"meeting_key":1236,"meeting_name":"Spanish Grand Prix","country_name":"Spain","location":"Barcelona","circuit_short_name":"Catalunya","date_start":"2024-06-21T11:30:00+00:00","year":2024},
		{"meeting_key":1229,"meeting_name":"Bahrain Grand Prix","country_name":"Bahrain","location":"Sakhir","circuit_short_name":"Sakhir","date_start":"2024-02-29T11:30:00+00:00","year":2024}
	]`,
	"/meetings?year=2023": `[
		{"meeting_key":1222,"meeting_name":"Las Vegas Grand Prix","country_name":"United States","location":"Las Vegas","circuit_short_name":"Las Vegas","date_start":"2023-11-17T04:30:00+00:00","gmt_offset":"-08:00:00","year":2023}
	]`,
	"/sessions?meeting_key=1222": `[
		{"session_key":9221,"session_name":"Race","session_type":"Race","meeting_key":1222,"date_start":"2023-11-19T06:00:00+00:00"}
	]`,
	"/sessions?meeting_key=1236": `[
		{"session_key":9544,"session_name":"Practice 1","session_type":"Practice","meeting_key":1236,"date_start":"2024-06-21T11:30:00+00:00"},
		{"session_key":9549,"session_name":"Qualifying","session_type":"Qualifying","meeting_key":1236,"date_start":"2024-06-22T14:00:00+00:00"},
		{"session_key":9550,"session_name":"Race","session_type":"Race","meeting_key":1236,"date_start":"2024-06-23T13:00:00+00:00"}
	]`,
	"/drivers?session_key=9550": `[
		{"driver_number":1,"name_acronym":"VER","full_name":"Max VERSTAPPEN","team_name":"Red Bull Racing","team_colour":"3671C6","country_code":"NED"},
		{"driver_number":4,"name_acronym":"NOR","full_name":"Lando NORRIS","team_name":"McLaren","team_colour":"FF8000","country_code":"GBR"},
		{"driver_number":44,"name_acronym":"HAM","full_name":"Lewis HAMILTON","team_name":"Mercedes","team_colour":"27F4D2","country_code":"GBR"}
	]`,
	"/session_result?session_key=9550": `[
		{"position":2,"driver_number":4},
		{"position":null,"driver_number":44},
		{"position":1,"driver_number":1}
	]`,
	"/laps?session_key=9550": `[
		{"driver_number":4,"lap_number":2,"lap_duration":81.5,"date_start":"2024-06-23T13:05:00+00:00","is_pit_out_lap":false},
		{"driver_number":1,"lap_number":2,"lap_duration":81.2,"date_start":"2024-06-23T13:04:58+00:00","is_pit_out_lap":false},
		{"driver_number":1,"lap_number":1,"lap_duration":null,"date_start":null,"is_pit_out_lap":false},
		{"driver_number":44,"lap_number":1,"lap_duration":90.1,"date_start":"2024-06-23T13:03:30+00:00","is_pit_out_lap":false},
		{"driver_number":99,"lap_number":1,"lap_duration":95.0,"date_start":"2024-06-23T13:03:30+00:00","is_pit_out_lap":false}
	]`,
	"/stints?session_key=9550": `[
		{"driver_number":1,"stint_number":1,"compound":"MEDIUM","lap_start":1,"lap_end":20},
		{"driver_number":4,"stint_number":1,"compound":"soft","lap_start":1,"lap_end":2}
	]`,
	"/car_data?session_key=9550&driver_number=1&date>=2024-06-23T13:04:58.000&date<=2024-06-23T13:06:19.200": `[
		{"date":"2024-06-23T13:04:59+00:00","speed":180},
		{"date":"2024-06-23T13:04:58+00:00","speed":200},
		{"date":"2024-06-23T13:05:00+00:00","speed":360}
	]`,
	"/location?session_key=9550&driver_number=1&date>=2024-06-23T13:04:58.000&date<=2024-06-23T13:06:19.200": `[
		{"date":"2024-06-23T13:04:59+00:00","x":10,"y":20},
		{"date":"2024-06-23T13:04:58+00:00","x":0,"y":0}
	]`,
}

type fixtureServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

func newFixtureServer(t *testing.T) *fixtureServer {
	t.Helper()
	fs := &fixtureServer{hits: map[string]int{}}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}
		fs.mu.Lock()
		fs.hits[key]++
		fs.mu.Unlock()
		body, ok := fixtures[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"detail":"No results found."}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fixtureServer) hitCount(key string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hits[key]
}

func TestLoadSession(t *testing.T) {
	fs := newFixtureServer(t)
	c := NewClient(fs.URL, 5*time.Second, nil)

	s, err := c.LoadSession(context.Background(), 2024, "spain", "race")
	require.NoError(t, err)

	assert.Equal(t, 9550, s.Key)
	assert.Equal(t, "Race", s.Name)
	assert.Equal(t, "Spanish Grand Prix", s.Event.EventName)
	assert.Equal(t, time.Date(2024, 6, 23, 13, 0, 0, 0, time.UTC), s.Event.EventDate.UTC())

	require.Len(t, s.Results, 3)
	assert.Equal(t, "VER", s.Results[0].Abbreviation)
	assert.Equal(t, "Red Bull Racing", s.Results[0].TeamName)
	assert.Equal(t, "NOR", s.Results[1].Abbreviation)
	assert.Equal(t, "HAM", s.Results[2].Abbreviation)
	assert.Equal(t, 0, s.Results[2].Position)

	assert.Equal(t, []string{"VER", "NOR", "HAM"}, s.DriverCodes())
	ver := s.Laps.PickDriver("VER")
	require.Len(t, ver, 2)
	assert.Equal(t, []int{1, 2}, ver.LapNumbers())
	assert.False(t, ver[0].HasTime)
	assert.Equal(t, 81200*time.Millisecond, ver[1].LapTime)
	assert.Equal(t, model.CompoundMedium, ver[1].Compound)
	assert.Equal(t, model.CompoundSoft, s.Laps.PickDriver("NOR")[0].Compound)
	assert.Equal(t, model.CompoundUnknown, s.Laps.PickDriver("HAM")[0].Compound)

	d, ok := s.GetDriver("NOR")
	require.True(t, ok)
	assert.Equal(t, "Lando NORRIS", d.FullName)
	assert.Equal(t, "McLaren", d.TeamName)
}

func TestLoadSessionMatchesCircuit(t *testing.T) {
	fs := newFixtureServer(t)
	c := NewClient(fs.URL, 5*time.Second, nil)

	s, err := c.LoadSession(context.Background(), 2024, "Catalunya", "Qualifying")
	require.NoError(t, err)
	assert.Equal(t, 9549, s.Key)
	assert.Empty(t, s.Laps)
	assert.Equal(t, time.Date(2024, 6, 23, 13, 0, 0, 0, time.UTC), s.Event.EventDate.UTC())
}

func TestLoadSessionRaceNotFound(t *testing.T) {
	fs := newFixtureServer(t)
	c := NewClient(fs.URL, 5*time.Second, nil)

	_, err := c.LoadSession(context.Background(), 2024, "Atlantis", "Race")
	assert.True(t, errors.Is(err, ErrRaceNotFound))
	assert.Contains(t, err.Error(), "Atlantis")
}

func TestLoadSessionSessionNotFound(t *testing.T) {
	fs := newFixtureServer(t)
	c := NewClient(fs.URL, 5*time.Second, nil)

	_, err := c.LoadSession(context.Background(), 2024, "Spain", "Sprint")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, 5*time.Second, nil)

	_, err := c.LoadSession(context.Background(), 2024, "Spain", "Race")
	assert.True(t, errors.Is(err, ErrStatus))
	assert.Contains(t, err.Error(), "500")
}

func TestCacheAvoidsRefetch(t *testing.T) {
	fs := newFixtureServer(t)
	store, err := cache.NewManager(filepath.Join(t.TempDir(), "cache.db"), 0)
	require.NoError(t, err)
	defer store.Close()
	c := NewClient(fs.URL, 5*time.Second, store)

	first, err := c.LoadSession(context.Background(), 2024, "Spain", "Race")
	require.NoError(t, err)
	second, err := c.LoadSession(context.Background(), 2024, "Spain", "Race")
	require.NoError(t, err)

	assert.Equal(t, first.Laps, second.Laps)
	assert.Equal(t, 1, fs.hitCount("/meetings?year=2024"))
	assert.Equal(t, 1, fs.hitCount("/laps?session_key=9550"))
}

func TestLapTelemetry(t *testing.T) {
	fs := newFixtureServer(t)
	c := NewClient(fs.URL, 5*time.Second, nil)
	s, err := c.LoadSession(context.Background(), 2024, "Spain", "Race")
	require.NoError(t, err)

	fastest, err := s.Laps.PickDriver("VER").PickFastest()
	require.NoError(t, err)
	tel, err := c.LapTelemetry(context.Background(), s, fastest)
	require.NoError(t, err)

	require.Len(t, tel, 3)
	assert.Equal(t, 200.0, tel[0].Speed)
	assert.Equal(t, 0.0, tel[0].Distance)
	assert.InDelta(t, 50.0, tel[1].Distance, 1e-9)
	assert.InDelta(t, 150.0, tel[2].Distance, 1e-9)

	locs, err := c.LapLocations(context.Background(), s, fastest)
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, 10.0, locs[1].X)
}

func TestLapTelemetryWithoutWindow(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", time.Second, nil)
	_, err := c.LapTelemetry(context.Background(), &model.Session{Key: 1}, model.Lap{Driver: "VER", LapNumber: 1})
	assert.True(t, errors.Is(err, ErrNoLapWindow))
}

func TestMeetingsInDateOrder(t *testing.T) {
	fs := newFixtureServer(t)
	c := NewClient(fs.URL, 5*time.Second, nil)
	events, err := c.Meetings(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Bahrain Grand Prix", events[0].EventName)
}

func TestEventDateIsLocal(t *testing.T) {
	fs := newFixtureServer(t)
	c := NewClient(fs.URL, 5*time.Second, nil)

	s, err := c.LoadSession(context.Background(), 2023, "Vegas", "Race")
	require.NoError(t, err)
	assert.Equal(t, "18 Nov 2023", s.Event.EventDate.Format("02 Jan 2006"))
	assert.Equal(t, 22, s.Event.EventDate.Hour())
	assert.Equal(t, time.Date(2023, 11, 19, 6, 0, 0, 0, time.UTC), s.Event.EventDate.UTC())
}

func TestParseGMTOffset(t *testing.T) {
	tests := []struct {
		offset  string
		seconds int
		ok      bool
	}{
		{"-08:00:00", -8 * 3600, true},
		{"+05:30:00", 5*3600 + 30*60, true},
		{"03:00:00", 3 * 3600, true},
		{"", 0, false},
		{"UTC", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.offset, func(t *testing.T) {
			loc, ok := parseGMTOffset(tt.offset)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			_, seconds := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
			assert.Equal(t, tt.seconds, seconds)
		})
	}
}
