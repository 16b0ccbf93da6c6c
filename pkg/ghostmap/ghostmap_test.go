package ghostmap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1duel/pkg/layout"
	"f1duel/pkg/model"
	"f1duel/pkg/openf1"
	"f1duel/pkg/resources"
)

func locations(n int, offset float64) []model.Location {
	locs := make([]model.Location, n)
	for i := range locs {
		locs[i] = model.Location{X: float64(i) * 10, Y: float64(i%3)*5 + offset}
	}
	return locs
}

func TestFramesTruncateAndAlign(t *testing.T) {
	md, err := layout.NewMetadata([]layout.Point{{X: 0, Y: 0}, {X: 100, Y: 100}}, layout.SizeSVG)
	require.NoError(t, err)
	loc1 := locations(12, 0)
	loc2 := locations(10, 1)

	frames := Frames(md, loc1, loc2, "VER", "LEC")
	require.Len(t, frames, 10)
	for i, f := range frames {
		assert.Equal(t, i, f.Index)
		require.Len(t, f.Cars, 2)
		x1, y1 := md.Project(loc1[i].X, loc1[i].Y)
		x2, y2 := md.Project(loc2[i].X, loc2[i].Y)
		assert.Equal(t, CarPosition{Driver: "VER", X: x1, Y: y1, Color: colorDriver1}, f.Cars[0])
		assert.Equal(t, CarPosition{Driver: "LEC", X: x2, Y: y2, Color: colorDriver2}, f.Cars[1])
	}
}

type fakeSource struct {
	session *model.Session
	locs    map[int][]model.Location
}

func (f fakeSource) LoadSession(_ context.Context, _ int, race, _ string) (*model.Session, error) {
	if race != "Spain" {
		return nil, openf1.ErrRaceNotFound
	}
	return f.session, nil
}

func (f fakeSource) LapLocations(_ context.Context, _ *model.Session, l model.Lap) ([]model.Location, error) {
	return f.locs[l.DriverNumber], nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	src := fakeSource{
		session: &model.Session{Key: 9550, Laps: model.Laps{
			{Driver: "VER", DriverNumber: 1, LapNumber: 5, LapTime: 80 * time.Second, HasTime: true},
			{Driver: "LEC", DriverNumber: 16, LapNumber: 7, LapTime: 81 * time.Second, HasTime: true},
		}},
		locs: map[int][]model.Location{1: locations(4, 0), 16: locations(3, 2)},
	}
	res, err := resources.NewBuilder(t.TempDir(), src)
	require.NoError(t, err)

	r := mux.NewRouter()
	gm := NewGhostMap(r, src, res)
	gm.interval = time.Millisecond
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestGhostMapPage(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ghostmap?year=2024&race=Spain&session=Race&d1=VER&d2=LEC")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(b)
	assert.Contains(t, body, "Ghost map: VER vs LEC")
	assert.Contains(t, body, "/resources/track_")
	assert.Contains(t, body, "/ghostmap/ws?")
}

func TestGhostMapPageError(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ghostmap?year=2024&race=Atlantis&d1=VER&d2=LEC")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGhostMapWebsocketStreamsFrames(t *testing.T) {
	srv := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ghostmap/ws?year=2024&race=Spain&session=Race&d1=VER&d2=LEC"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("start")))

	frames := []Frame{}
	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), err.Error())
			break
		}
		var f Frame
		require.NoError(t, json.Unmarshal(msg, &f))
		frames = append(frames, f)
	}
	require.Len(t, frames, 3)
	assert.Equal(t, 2, frames[2].Index)
	assert.Equal(t, "VER", frames[0].Cars[0].Driver)
	assert.Equal(t, "LEC", frames[0].Cars[1].Driver)
}
