// Package report renders session and duel statistics as text tables for the
// terminal and for Telegram.
package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"

	"f1duel/pkg/charts"
	"f1duel/pkg/drivers"
	"f1duel/pkg/helper"
	"f1duel/pkg/model"
	"f1duel/pkg/summary"
)

const (
	tablePos    = "POS"
	tableDriver = "PIL"
	tableName   = "NAME"
	tableTeam   = "TEAM"
	tableLap    = "LAP"
	tableDelta  = "DELTA"
)

// Duel gathers everything the text surfaces show about two drivers.
type Duel struct {
	Race   summary.RaceSummary
	Podium []model.Result
	Battle summary.BattleSummary
	D1     drivers.Info
	D2     drivers.Info
	Laps1  model.Laps
	Laps2  model.Laps
}

// DriverLaps returns the representative laps of a driver in the session.
func DriverLaps(s *model.Session, code string) model.Laps {
	return s.Laps.PickDriver(code).PickQuickLaps()
}

// NewDuel computes the summaries of a loaded session for drivers d1 and d2.
func NewDuel(s *model.Session, d1, d2 string) (*Duel, error) {
	rs, err := summary.BuildRaceSummary(s)
	if err != nil {
		return nil, err
	}
	laps1 := DriverLaps(s, d1)
	laps2 := DriverLaps(s, d2)
	battle, err := summary.Summarize(laps1, laps2, d1, d2)
	if err != nil {
		return nil, errors.Wrapf(err, "comparing %s and %s", d1, d2)
	}
	return &Duel{
		Race:   rs,
		Podium: s.Podium(3),
		Battle: battle,
		D1:     drivers.Resolve(s, d1),
		D2:     drivers.Resolve(s, d2),
		Laps1:  laps1,
		Laps2:  laps2,
	}, nil
}

func newWriter(b *bytes.Buffer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(b)
	t.SetStyle(table.StyleRounded)
	// footers carry values, keep their case
	t.Style().Format.Footer = text.FormatDefault
	return t
}

func RaceTable(rs summary.RaceSummary) string {
	var b bytes.Buffer
	t := newWriter(&b)
	t.AppendRows([]table.Row{
		{"Track", rs.Track},
		{"Date", rs.Date},
		{"Winner", rs.Winner},
		{"Team", rs.Team},
		{"Fastest Lap", fmt.Sprintf("%s %s", rs.FastestLapDriver, rs.FastestLapTime)},
		{"Tyre", rs.FastestLapTyre},
	})
	t.Render()
	return b.String()
}

func PodiumTable(results []model.Result) string {
	var b bytes.Buffer
	t := newWriter(&b)
	t.AppendHeader(table.Row{tablePos, tableDriver, tableName, tableTeam})
	for _, r := range results {
		t.AppendRow(table.Row{positionText(r.Position), r.Abbreviation, r.FullName, r.TeamName})
	}
	t.Render()
	return b.String()
}

func positionText(p int) string {
	if p <= 0 {
		return "-"
	}
	return strconv.Itoa(p)
}

// BattleTable puts both drivers side by side with the verdict in the footer.
func BattleTable(bs summary.BattleSummary) string {
	var b bytes.Buffer
	t := newWriter(&b)
	t.AppendHeader(table.Row{"", bs.Driver1.Code, bs.Driver2.Code})
	t.AppendRows([]table.Row{
		{"Avg Lap", bs.Driver1.AvgLapTimeText(), bs.Driver2.AvgLapTimeText()},
		{"Fastest", bs.Driver1.FastestLapText(), bs.Driver2.FastestLapText()},
		{"Tyre", bs.Driver1.TyreText(), bs.Driver2.TyreText()},
	})
	t.AppendFooter(table.Row{"Faster", bs.FasterDriver, bs.AvgGapText()})
	t.Render()
	return b.String()
}

// LapsTable lists the laps both drivers completed with the delta of each lap.
func LapsTable(laps1, laps2 model.Laps, d1, d2 string) string {
	byNumber := map[int]model.Lap{}
	for _, l := range laps1 {
		byNumber[l.LapNumber] = l
	}
	bySecond := map[int]model.Lap{}
	for _, l := range laps2 {
		bySecond[l.LapNumber] = l
	}

	var b bytes.Buffer
	t := newWriter(&b)
	t.AppendHeader(table.Row{tableLap, d1, d2, tableDelta})
	for _, row := range charts.JoinLaps(laps1, laps2, d1, d2) {
		t.AppendRow(table.Row{
			row.LapNumber,
			helper.LapTime(byNumber[row.LapNumber].LapTime),
			helper.LapTime(bySecond[row.LapNumber].LapTime),
			helper.Gap(row.Delta),
		})
	}
	t.Render()
	return b.String()
}

// CodeBlock wraps a rendered table in a MarkdownV2 code block headed by title.
func CodeBlock(title, rendered string) string {
	return fmt.Sprintf("```\n%s\n\n%s```", title, rendered)
}

// Text is the plain text version of a duel used for notifications.
func (d *Duel) Text() string {
	return fmt.Sprintf("%s %s\n\n%s\n%s", d.Race.Track, d.Race.Date, BattleTable(d.Battle), LapsTable(d.Laps1, d.Laps2, d.D1.Code, d.D2.Code))
}

// Title names the duel, e.g. "VER vs LEC".
func (d *Duel) Title() string {
	return fmt.Sprintf("%s vs %s", d.D1.Code, d.D2.Code)
}

// Shared is the message published when the duel is shared.
func (d *Duel) Shared() model.DuelShared {
	return model.DuelShared{Title: d.Title(), Body: d.Text()}
}
