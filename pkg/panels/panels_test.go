package panels

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1duel/pkg/drivers"
	"f1duel/pkg/model"
	"f1duel/pkg/summary"
)

var podium = []model.Result{
	{Position: 1, Abbreviation: "VER", TeamName: "Red Bull Racing"},
	{Position: 2, Abbreviation: "NOR", TeamName: "McLaren"},
	{Position: 3, Abbreviation: "DOO", TeamName: "Alpine"},
	{Position: 4, Abbreviation: "LEC", TeamName: "Ferrari"},
}

func TestPodium(t *testing.T) {
	html, err := Podium(podium)
	require.NoError(t, err)
	out := string(html)

	assert.Contains(t, out, "🥇 VER 🇳🇱")
	assert.Contains(t, out, "🥈 NOR 🇬🇧")
	assert.Contains(t, out, "🥉 DOO \n")
	assert.Contains(t, out, "color: gold;")
	assert.Contains(t, out, "color: silver;")
	assert.Contains(t, out, "color: #cd7f32;")
	assert.Contains(t, out, "Red Bull Racing")
	assert.NotContains(t, out, "LEC")
	assert.Less(t, strings.Index(out, "VER"), strings.Index(out, "NOR"))
	assert.Less(t, strings.Index(out, "NOR"), strings.Index(out, "DOO"))
}

func TestPodiumShort(t *testing.T) {
	_, err := Podium(podium[:2])
	assert.ErrorIs(t, err, ErrShortPodium)
}

func TestRaceSummaryPanel(t *testing.T) {
	html, err := RaceSummary(summary.RaceSummary{
		Track:            "Monaco Grand Prix",
		Date:             "26 May 2024",
		Winner:           "Charles LECLERC",
		Team:             "Ferrari",
		FastestLapDriver: "N/A",
		FastestLapTime:   "N/A",
		FastestLapTyre:   "N/A",
	})
	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, "<b>Track:</b> Monaco Grand Prix")
	assert.Contains(t, out, "<b>Date:</b> 26 May 2024")
	assert.Contains(t, out, "Charles LECLERC (Ferrari)")
	assert.Contains(t, out, "– N/A on N/A")
}

func TestBattlePanel(t *testing.T) {
	lap := func(n int, s float64, c model.Compound) model.Lap {
		return model.Lap{LapNumber: n, LapTime: time.Duration(s * float64(time.Second)), HasTime: true, Compound: c}
	}
	s, err := summary.Summarize(
		model.Laps{lap(1, 80, model.CompoundSoft), lap(2, 81, model.CompoundSoft)},
		model.Laps{lap(1, 81, model.CompoundHard), lap(2, 82, model.CompoundHard)},
		"VER", "HAM")
	require.NoError(t, err)

	html, err := Battle(s,
		drivers.Info{Code: "VER", Team: "Red Bull Racing", Color: "#1E41FF", Flag: "🇳🇱"},
		drivers.Info{Code: "HAM", Team: "Mercedes", Color: "#00D2BE", Flag: "🇬🇧"})
	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, `<span style="color:#1E41FF">VER</span> (Red Bull Racing)`)
	assert.Contains(t, out, "<b>VER Avg Lap Time:</b> 80.500 s")
	assert.Contains(t, out, "<b>HAM Fastest Lap:</b> 81.000 s (Lap 1) on 🛞 ⚪ HARD")
	assert.Contains(t, out, `<span style="color:#0f0">VER</span>`)
	assert.Contains(t, out, "1.000 s/lap")
}
