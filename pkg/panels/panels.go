// Package panels renders the summary blocks of the dashboard as HTML.
package panels

import (
	"bytes"
	"html/template"

	"github.com/pkg/errors"

	"f1duel/pkg/drivers"
	"f1duel/pkg/model"
	"f1duel/pkg/summary"
)

var ErrShortPodium = errors.New("podium needs three classified drivers")

var tmpl = template.Must(template.New("panels").Parse(`
{{define "podium"}}
<div style='background: linear-gradient(to bottom right, #1e1e1e, #2a2a2a); border: 2px solid #444; border-radius: 12px; padding: 20px; margin-top: 15px; color: #eee; font-family: monospace; text-align: center; max-width: 400px; margin-left: auto; margin-right: auto;'>
	<div style='font-size: 22px; font-weight: bold; color: gold;'>
		🥇 {{.P1.Code}} {{.P1.Flag}}
		<div style='font-size: 14px; color: #ccc;'>{{.P1.Team}}</div>
	</div>
	<div style='display: flex; justify-content: space-between; margin-top: 20px;'>
		<div style='width: 45%; text-align: center; font-size: 18px; color: silver;'>
			🥈 {{.P2.Code}} {{.P2.Flag}}
			<div style='font-size: 13px; color: #bbb;'>{{.P2.Team}}</div>
		</div>
		<div style='width: 45%; text-align: center; font-size: 18px; color: #cd7f32;'>
			🥉 {{.P3.Code}} {{.P3.Flag}}
			<div style='font-size: 13px; color: #bbb;'>{{.P3.Team}}</div>
		</div>
	</div>
</div>
{{end}}

{{define "race"}}
<div style='border:2px solid #666; border-radius:10px; padding:20px; background-color:#111; font-size:16px; color:#eee'>
	<h3>📋 Race Summary</h3>
	🏟️ <b>Track:</b> {{.Track}}<br>
	📅 <b>Date:</b> {{.Date}}<br>
	🏆 <b>Winner:</b> {{.Winner}} ({{.Team}})<br>
	🏎️ <b style='color:#d0aaff;'>Fastest Lap:</b>
	<span style='color:#d0aaff; font-weight:bold;'>{{.FastestLapDriver}}</span>
	<span style='color:#fff;'>– {{.FastestLapTime}} on {{.FastestLapTyre}}</span><br>
	🎖️ <b>Podium:</b>
</div>
{{end}}

{{define "battle"}}
<div style='border:2px solid #888; border-radius:10px; padding:20px; background-color:#111; font-size:17px'>
	<h3 style='text-align:center;'>
		{{.D1.Flag}} <span style="color:{{.D1.Color}}">{{.D1.Code}}</span> ({{.D1.Team}}) vs {{.D2.Flag}} <span style="color:{{.D2.Color}}">{{.D2.Code}}</span> ({{.D2.Team}})
	</h3>
	🕑 <b>{{.D1.Code}} Avg Lap Time:</b> {{.S.Driver1.AvgLapTimeText}}<br>
	🕑 <b>{{.D2.Code}} Avg Lap Time:</b> {{.S.Driver2.AvgLapTimeText}}<br>
	<br>
	💨 <b>{{.D1.Code}} Fastest Lap:</b> {{.S.Driver1.FastestLapText}} on 🛞 {{.S.Driver1.TyreText}}<br>
	💨 <b>{{.D2.Code}} Fastest Lap:</b> {{.S.Driver2.FastestLapText}} on 🛞 {{.S.Driver2.TyreText}}<br>
	<br>
	🚀 <b>Faster Driver:</b> <span style="color:#0f0">{{.S.FasterDriver}}</span><br>
	⏱️ <b>Average Gap:</b> {{.S.AvgGapText}}
</div>
{{end}}
`))

type podiumEntry struct {
	Code string
	Flag string
	Team string
}

func render(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "rendering %s panel", name)
	}
	return template.HTML(buf.String()), nil
}

// Podium renders the first three rows of a classification.
func Podium(results []model.Result) (template.HTML, error) {
	if len(results) < 3 {
		return "", ErrShortPodium
	}
	entry := func(r model.Result) podiumEntry {
		return podiumEntry{Code: r.Abbreviation, Flag: drivers.Flag(r.Abbreviation), Team: r.TeamName}
	}
	return render("podium", struct{ P1, P2, P3 podiumEntry }{
		entry(results[0]), entry(results[1]), entry(results[2]),
	})
}

func RaceSummary(rs summary.RaceSummary) (template.HTML, error) {
	return render("race", rs)
}

// Battle renders the head to head block of two drivers.
func Battle(s summary.BattleSummary, d1, d2 drivers.Info) (template.HTML, error) {
	return render("battle", struct {
		S      summary.BattleSummary
		D1, D2 drivers.Info
	}{s, d1, d2})
}
