// Package dashboard serves the web page comparing two drivers of a session.
package dashboard

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"f1duel/log"
	"f1duel/pkg/charts"
	"f1duel/pkg/config"
	"f1duel/pkg/model"
	"f1duel/pkg/pubsub"
	"f1duel/pkg/report"
	"f1duel/pkg/webserver"
)

const warningPrefix = "⚠️ Error loading session: "

type Dashboard struct {
	src    Source
	ps     *pubsub.PubSub[model.DuelShared]
	logger *log.Logger
}

// NewDashboard registers the dashboard routes on r. Sharing is offered only
// when ps is not nil.
func NewDashboard(r *mux.Router, src Source, ps *pubsub.PubSub[model.DuelShared]) *Dashboard {
	d := &Dashboard{
		src:    src,
		ps:     ps,
		logger: log.Default().Named("dashboard"),
	}
	d.addHandlers(r)
	return d
}

func (d *Dashboard) addHandlers(r *mux.Router) {
	r.HandleFunc("/", d.pageHandler()).Methods(http.MethodGet)
	r.HandleFunc("/duel", d.pageHandler()).Methods(http.MethodGet)
	r.HandleFunc("/duel/lapchart.png", d.lapChartHandler()).Methods(http.MethodGet)
	r.HandleFunc("/duel/share", d.shareHandler()).Methods(http.MethodPost)
}

type pageData struct {
	Seasons  []int
	Sessions []string
	Result   Result
	Loaded   bool
	Warning  string
	Links    links
	CanShare bool
	Shared   bool
}

type links struct {
	LapChartPNG string
	GhostMap    string
	Share       string
}

func newLinks(q webserver.DuelQuery) links {
	query := q.Encode()
	return links{
		LapChartPNG: "/duel/lapchart.png?" + query,
		GhostMap:    "/ghostmap?" + query,
		Share:       "/duel/share?" + query,
	}
}

func (d *Dashboard) pageHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		q := webserver.ParseDuelQuery(r.URL.Query(), config.LastSeason)
		data := pageData{
			Seasons:  config.Seasons(),
			Sessions: model.SessionTypes,
			Result:   Result{Query: q},
			CanShare: d.ps != nil,
			Shared:   r.URL.Query().Get("shared") != "",
		}
		if q.Race != "" {
			data.Loaded = true
			data.Result = Run(r.Context(), d.src, q)
			data.Links = newLinks(data.Result.Query)
			if data.Result.Err != nil {
				d.logger.Warn("error loading session", log.String("race", q.Race), log.ErrorField(data.Result.Err))
				data.Warning = warningPrefix + data.Result.Err.Error()
			}
		}

		var b bytes.Buffer
		if err := pageTemplate.Execute(&b, data); err != nil {
			d.logger.Error("rendering dashboard", log.ErrorField(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(b.Bytes())
	}
}

// loadDuel loads the session and both drivers' summaries of a query.
func (d *Dashboard) loadDuel(r *http.Request) (*report.Duel, error) {
	q := webserver.ParseDuelQuery(r.URL.Query(), config.LastSeason)
	if q.Race == "" || q.D1 == "" || q.D2 == "" {
		return nil, errors.New("race and two drivers are needed")
	}
	s, err := d.src.LoadSession(r.Context(), q.Year, q.Race, q.Session)
	if err != nil {
		return nil, err
	}
	return report.NewDuel(s, q.D1, q.D2)
}

func (d *Dashboard) lapChartHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		duel, err := d.loadDuel(r)
		if err != nil {
			http.Error(w, warningPrefix+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		var b bytes.Buffer
		if err := charts.LapChartPNG(&b, duel.Laps1, duel.Laps2, duel.D1.Code, duel.D2.Code); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(b.Bytes())
	}
}

func (d *Dashboard) shareHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ps == nil {
			http.Error(w, "sharing is disabled", http.StatusServiceUnavailable)
			return
		}
		duel, err := d.loadDuel(r)
		if err != nil {
			http.Error(w, warningPrefix+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		n := d.ps.Publish(r.Context(), pubsub.TopicDuelShared, duel.Shared())
		d.logger.Info("duel shared", log.String("title", duel.Title()), log.Int("listeners", n))

		v := r.URL.Query()
		v.Set("shared", "1")
		http.Redirect(w, r, "/duel?"+v.Encode(), http.StatusSeeOther)
	}
}

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>🏎️ F1 Driver Battle Dashboard</title>
  <script src="https://cdn.plot.ly/plotly-2.27.0.min.js"></script>
  <style>
    body { background: #0e1117; color: #eee; font-family: sans-serif; margin: 0; display: flex; }
    aside { width: 260px; padding: 20px; background: #1c1f26; min-height: 100vh; }
    aside label { display: block; margin-top: 12px; }
    aside select, aside input { width: 100%; }
    main { flex: 1; padding: 20px; }
    .warning { background: #3d2b00; border: 1px solid #a67c00; border-radius: 6px; padding: 12px; }
    .chart { width: 100%; height: 520px; margin-top: 20px; }
  </style>
</head>
<body>
<aside>
  <form method="get" action="/duel">
    <label>📅 Select Season
      <select name="year">
        {{- range .Seasons }}
        <option value="{{ . }}"{{ if eq . $.Result.Query.Year }} selected{{ end }}>{{ . }}</option>
        {{- end }}
      </select>
    </label>
    <label>🏁 Enter Race Name
      <input type="text" name="race" value="{{ .Result.Query.Race }}" placeholder="Monaco">
    </label>
    <label>🕒 Session Type
      <select name="session">
        {{- range .Sessions }}
        <option{{ if eq . $.Result.Query.Session }} selected{{ end }}>{{ . }}</option>
        {{- end }}
      </select>
    </label>
    {{- if .Result.Drivers }}
    <label>Driver 1
      <select name="d1">
        {{- range .Result.Drivers }}
        <option{{ if eq . $.Result.D1.Code }} selected{{ end }}>{{ . }}</option>
        {{- end }}
      </select>
    </label>
    <label>Driver 2
      <select name="d2">
        {{- range .Result.Others }}
        <option{{ if eq . $.Result.D2.Code }} selected{{ end }}>{{ . }}</option>
        {{- end }}
      </select>
    </label>
    {{- end }}
    <p><button type="submit">Compare</button></p>
  </form>
</aside>
<main>
  <h1>🏎️ F1 Driver Battle Dashboard</h1>
  {{- if .Shared }}
  <p>📣 Shared with subscribers</p>
  {{- end }}
  {{- if .Result.RacePanel }}
  {{ .Result.RacePanel }}
  {{- end }}
  {{- if .Result.PodiumPanel }}
  {{ .Result.PodiumPanel }}
  {{- end }}
  {{- if .Result.LapChart }}
  <h2>📈 Lap Time Comparison</h2>
  <div id="lapchart" class="chart"></div>
  <p><a href="{{ .Links.LapChartPNG }}">PNG</a></p>
  {{- end }}
  {{- if .Result.BattlePanel }}
  {{ .Result.BattlePanel }}
  {{- end }}
  {{- if .Result.DeltaChart }}
  <h2>🎞️ Lap Delta Animation</h2>
  <div id="deltachart" class="chart"></div>
  {{- end }}
  {{- if .Result.GhostChart }}
  <h2>👻 Ghost Lap</h2>
  <div id="ghostchart" class="chart"></div>
  <p><a href="{{ .Links.GhostMap }}">🗺️ Ghost map</a></p>
  {{- if .CanShare }}
  <form method="post" action="{{ .Links.Share }}"><button type="submit">📣 Share with subscribers</button></form>
  {{- end }}
  {{- end }}
  {{- if .Warning }}
  <div class="warning">{{ .Warning }}</div>
  {{- else if not .Loaded }}
  <p>Select a season, a race and a session to compare two drivers.</p>
  {{- end }}
</main>
<script>
  function plot(id, fig) {
    Plotly.newPlot(id, fig.data, fig.layout).then(function () {
      if (fig.frames) {
        Plotly.addFrames(id, fig.frames);
      }
    });
  }
  {{- if .Result.LapChart }}
  plot('lapchart', {{ .Result.LapChart }});
  {{- end }}
  {{- if .Result.DeltaChart }}
  plot('deltachart', {{ .Result.DeltaChart }});
  {{- end }}
  {{- if .Result.GhostChart }}
  plot('ghostchart', {{ .Result.GhostChart }});
  {{- end }}
</script>
</body>
</html>
`))
