// Package ghostmap replays two drivers' fastest laps on the circuit map over a
// websocket.
package ghostmap

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"f1duel/log"
	"f1duel/pkg/config"
	"f1duel/pkg/layout"
	"f1duel/pkg/model"
	"f1duel/pkg/resources"
	"f1duel/pkg/webserver"
)

const (
	colorDriver1 = "#1f77b4"
	colorDriver2 = "#ff7f0e"
)

var upgrader = websocket.Upgrader{} // use default options

// Source loads sessions and lap positions.
type Source interface {
	LoadSession(ctx context.Context, year int, raceName, sessionType string) (*model.Session, error)
	LapLocations(ctx context.Context, s *model.Session, l model.Lap) ([]model.Location, error)
}

type CarPosition struct {
	Driver string  `json:"dri"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Color  string  `json:"color"`
}

// Frame holds both cars at one sample index.
type Frame struct {
	Index int           `json:"i"`
	Cars  []CarPosition `json:"cars"`
}

// Frames projects two laps' positions on the map. Both laps are cut to the
// shorter one and sample i of one lap is paired with sample i of the other.
func Frames(md layout.Metadata, loc1, loc2 []model.Location, d1, d2 string) []Frame {
	loc1, loc2 = model.Truncate(loc1, loc2)
	frames := make([]Frame, len(loc1))
	for i := range loc1 {
		x1, y1 := md.Project(loc1[i].X, loc1[i].Y)
		x2, y2 := md.Project(loc2[i].X, loc2[i].Y)
		frames[i] = Frame{
			Index: i,
			Cars: []CarPosition{
				{Driver: d1, X: x1, Y: y1, Color: colorDriver1},
				{Driver: d2, X: x2, Y: y2, Color: colorDriver2},
			},
		}
	}
	return frames
}

type GhostMap struct {
	src      Source
	res      *resources.Builder
	interval time.Duration
	logger   *log.Logger
}

func NewGhostMap(r *mux.Router, src Source, res *resources.Builder) *GhostMap {
	gm := &GhostMap{
		src:      src,
		res:      res,
		interval: 100 * time.Millisecond,
		logger:   log.Default().Named("ghostmap"),
	}
	gm.addHandlers(r)
	return gm
}

func (gm *GhostMap) addHandlers(r *mux.Router) {
	r.HandleFunc("/ghostmap/ws", gm.websocketHandler())
	r.HandleFunc("/ghostmap", gm.ghostmapHandler()).Methods(http.MethodGet)
}

type replay struct {
	track  resources.Resource
	md     layout.Metadata
	frames []Frame
}

// load builds the track map from driver 1's fastest lap and the replay frames
// of both fastest laps.
func (gm *GhostMap) load(ctx context.Context, q webserver.DuelQuery) (replay, error) {
	var rp replay
	if q.D1 == "" || q.D2 == "" {
		return rp, errors.New("two drivers are needed")
	}
	s, err := gm.src.LoadSession(ctx, q.Year, q.Race, q.Session)
	if err != nil {
		return rp, err
	}
	lap1, err := s.Laps.PickDriver(q.D1).PickFastest()
	if err != nil {
		return rp, errors.Wrapf(err, "fastest lap of %s", q.D1)
	}
	lap2, err := s.Laps.PickDriver(q.D2).PickFastest()
	if err != nil {
		return rp, errors.Wrapf(err, "fastest lap of %s", q.D2)
	}

	rp.track, err = gm.res.TrackSVG(ctx, s, lap1)
	if err != nil {
		return rp, err
	}
	rp.md, err = layout.ReadSvgMetadata(rp.track.FilePath())
	if err != nil {
		return rp, err
	}

	loc1, err := gm.src.LapLocations(ctx, s, lap1)
	if err != nil {
		return rp, err
	}
	loc2, err := gm.src.LapLocations(ctx, s, lap2)
	if err != nil {
		return rp, err
	}
	rp.frames = Frames(rp.md, loc1, loc2, q.D1, q.D2)
	return rp, nil
}

func (gm *GhostMap) websocketHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		q := webserver.ParseDuelQuery(r.URL.Query(), config.LastSeason)
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			gm.logger.Warn("upgrade", log.ErrorField(err))
			return
		}
		defer c.Close()
		mt, message, err := c.ReadMessage()
		if err != nil {
			gm.logger.Warn("read", log.ErrorField(err))
			return
		}
		gm.logger.Debug("recv", log.String("message", string(message)), log.Int("type", mt))

		rp, err := gm.load(r.Context(), q)
		if err != nil {
			gm.logger.Error("loading replay", log.ErrorField(err))
			_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error()))
			return
		}

		t := time.NewTicker(gm.interval)
		defer t.Stop()
		for i := 0; i < len(rp.frames); {
			select {
			case <-t.C:
				bytes, err := json.Marshal(rp.frames[i])
				if err != nil {
					gm.logger.Error("marshal", log.ErrorField(err))
					return
				}
				if err := c.WriteMessage(websocket.TextMessage, bytes); err != nil {
					gm.logger.Debug("write", log.ErrorField(err))
					return
				}
				i++
			case <-r.Context().Done():
				gm.logger.Debug("websocket closed")
				return
			}
		}
		_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replay finished"))
	}
}

type pageData struct {
	Title        string
	WebSocketURL string
	TrackURL     string
	Width        int
	Height       int
	Frames       int
}

func (gm *GhostMap) ghostmapHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		q := webserver.ParseDuelQuery(r.URL.Query(), config.LastSeason)
		rp, err := gm.load(r.Context(), q)
		if err != nil {
			gm.logger.Warn("ghost map unavailable", log.ErrorField(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = homeTemplate.Execute(w, pageData{Title: "⚠️ Error loading session: " + err.Error()})
			return
		}
		scheme := "ws://"
		if r.TLS != nil {
			scheme = "wss://"
		}
		e := pageData{
			Title:        "Ghost map: " + q.D1 + " vs " + q.D2,
			WebSocketURL: scheme + r.Host + "/ghostmap/ws?" + q.Encode(),
			TrackURL:     "/resources/" + rp.track.FileName(),
			Width:        int(rp.md.Width),
			Height:       int(rp.md.Height),
			Frames:       len(rp.frames),
		}
		if err := homeTemplate.Execute(w, e); err != nil {
			gm.logger.Error("rendering ghost map", log.ErrorField(err))
		}
	}
}

var homeTemplate = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>f1Duel ghost map</title>
  <style>body { background: #111; color: #eee; font-family: monospace; }</style>
</head>
<body>
  <h3>{{ .Title }}</h3>
{{ if .TrackURL }}
  <div id="frame">0 / {{ .Frames }}</div>
  <!-- SVG container -->
  <svg id="svgContainer" width="{{ .Width }}" height="{{ .Height }}" xmlns="http://www.w3.org/2000/svg"></svg>

  <script>
    const trackUrl = {{ .TrackURL }};
    const wsUrl = {{ .WebSocketURL }};
    const total = {{ .Frames }};

    const svgContainer = document.getElementById('svgContainer');
    const frameLabel = document.getElementById('frame');
    const cars = new Map();

    function buildCar(id) {
      const carElement = document.createElementNS('http://www.w3.org/2000/svg', 'g');
      const circleElement = document.createElementNS('http://www.w3.org/2000/svg', 'circle');
      const textElement = document.createElementNS('http://www.w3.org/2000/svg', 'text');

      textElement.setAttribute('text-anchor', 'middle');
      textElement.setAttribute('dy', '-1.2em');
      textElement.setAttribute('font-size', '16px');
      textElement.setAttribute('fill', '#eee');
      textElement.textContent = id;
      circleElement.setAttribute('r', 9);
      circleElement.setAttribute('stroke', '#ffffff');
      circleElement.setAttribute('stroke-width', '2px');
      carElement.appendChild(circleElement);
      carElement.appendChild(textElement);
      svgContainer.appendChild(carElement);

      return {circle: circleElement, text: textElement};
    }

    function drawCar(carElements, x, y, color) {
      carElements.text.setAttribute('x', x);
      carElements.text.setAttribute('y', y);
      carElements.circle.setAttribute('cx', x);
      carElements.circle.setAttribute('cy', y);
      carElements.circle.setAttribute('fill', color);
    }

    function connect() {
      const socket = new WebSocket(wsUrl);
      socket.addEventListener('open', () => socket.send("start"));
      socket.addEventListener('message', (event) => {
        const frame = JSON.parse(event.data);
        frameLabel.textContent = (frame.i + 1) + ' / ' + total;
        for (const car of frame.cars) {
          if (!cars.has(car.dri)) {
            cars.set(car.dri, buildCar(car.dri));
          }
          drawCar(cars.get(car.dri), car.x, car.y, car.color);
        }
      });
      socket.addEventListener('close', (event) => console.log('WebSocket connection closed:', event.reason));
      socket.addEventListener('error', (event) => console.error('WebSocket connection error:', event));
    }

    async function downloadAndDisplaySVG(url) {
      const response = await fetch(url);
      if (!response.ok) {
        console.error('Failed to fetch SVG: ' + response.statusText);
        return;
      }
      svgContainer.innerHTML = await response.text();
      connect();
    }

    downloadAndDisplaySVG(trackUrl);
  </script>
{{ end }}
</body>
</html>
`))
