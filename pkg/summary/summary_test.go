package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1duel/pkg/model"
)

func laps(driver string, compound model.Compound, seconds ...float64) model.Laps {
	ls := model.Laps{}
	for i, s := range seconds {
		ls = append(ls, model.Lap{
			Driver:    driver,
			LapNumber: i + 1,
			LapTime:   time.Duration(s * float64(time.Second)),
			HasTime:   true,
			Compound:  compound,
		})
	}
	return ls
}

func TestSummarizeScenario(t *testing.T) {
	a := laps("A", model.CompoundSoft, 89, 90, 91, 90.5, 89.5)
	b := laps("B", model.CompoundMedium, 90, 91, 92, 91.5, 90.5)

	s, err := Summarize(a, b, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, "A", s.FasterDriver)
	assert.Equal(t, "1.000 s/lap", s.AvgGapText())
	assert.Equal(t, "90.000 s", s.Driver1.AvgLapTimeText())
	assert.Equal(t, "91.000 s", s.Driver2.AvgLapTimeText())
	assert.Equal(t, "89.000 s (Lap 1)", s.Driver1.FastestLapText())
	assert.Equal(t, "90.000 s (Lap 1)", s.Driver2.FastestLapText())
	assert.Equal(t, "🔴 SOFT", s.Driver1.TyreText())
	assert.Equal(t, "🟡 MEDIUM", s.Driver2.TyreText())
}

func TestSummarizeGapIsSymmetric(t *testing.T) {
	a := laps("A", model.CompoundSoft, 90.1, 90.3)
	b := laps("B", model.CompoundSoft, 89.7, 91.4)

	ab, err := Summarize(a, b, "A", "B")
	require.NoError(t, err)
	ba, err := Summarize(b, a, "B", "A")
	require.NoError(t, err)

	assert.Equal(t, ab.AvgGapText(), ba.AvgGapText())
	assert.Equal(t, ab.FasterDriver, ba.FasterDriver)
	assert.Equal(t, "A", ab.FasterDriver)
}

func TestSummarizeTieGoesToDriver1(t *testing.T) {
	a := laps("A", model.CompoundSoft, 90, 92)
	b := laps("B", model.CompoundSoft, 91, 91)

	s, err := Summarize(a, b, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, "A", s.FasterDriver)
	assert.Equal(t, "0.000 s/lap", s.AvgGapText())

	s, err = Summarize(b, a, "B", "A")
	require.NoError(t, err)
	assert.Equal(t, "B", s.FasterDriver)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(model.Laps{}, laps("B", model.CompoundSoft, 90), "A", "B")
	assert.ErrorIs(t, err, ErrNoLaps)

	_, err = Summarize(laps("A", model.CompoundSoft, 90), model.Laps{}, "A", "B")
	assert.ErrorIs(t, err, ErrNoLaps)
}

func TestTyreEmoji(t *testing.T) {
	assert.Equal(t, "🔴", TyreEmoji("soft"))
	assert.Equal(t, "🟡", TyreEmoji("Medium"))
	assert.Equal(t, "⚪", TyreEmoji("HARD"))
	assert.Equal(t, "🟢", TyreEmoji("intermediate"))
	assert.Equal(t, "🔵", TyreEmoji("wet"))
	for _, c := range []string{"", "UNKNOWN", "HYPERSOFT", "TEST_UNKNOWN"} {
		assert.Equal(t, "❔", TyreEmoji(c), c)
	}
}

func raceSession() *model.Session {
	return &model.Session{
		Event: model.Event{
			EventName: "Spanish Grand Prix",
			EventDate: time.Date(2024, 6, 23, 13, 0, 0, 0, time.UTC),
		},
		Results: []model.Result{
			{Position: 1, Abbreviation: "VER", FullName: "Max VERSTAPPEN", TeamName: "Red Bull Racing"},
			{Position: 2, Abbreviation: "NOR", FullName: "Lando NORRIS", TeamName: "McLaren"},
		},
		Laps: append(laps("VER", model.CompoundMedium, 81.5, 80.9), laps("NOR", model.CompoundSoft, 80.967)...),
	}
}

func TestBuildRaceSummary(t *testing.T) {
	rs, err := BuildRaceSummary(raceSession())
	require.NoError(t, err)
	assert.Equal(t, RaceSummary{
		Track:            "Spanish Grand Prix",
		Date:             "23 Jun 2024",
		Winner:           "Max VERSTAPPEN",
		Team:             "Red Bull Racing",
		FastestLapDriver: "VER",
		FastestLapTime:   "80.900s",
		FastestLapTyre:   "MEDIUM",
	}, rs)
}

func TestBuildRaceSummaryFastestLapFallback(t *testing.T) {
	s := raceSession()
	s.Laps = model.Laps{{Driver: "VER", LapNumber: 1}}

	rs, err := BuildRaceSummary(s)
	require.NoError(t, err)
	assert.Equal(t, "Max VERSTAPPEN", rs.Winner)
	assert.Equal(t, "N/A", rs.FastestLapDriver)
	assert.Equal(t, "N/A", rs.FastestLapTime)
	assert.Equal(t, "N/A", rs.FastestLapTyre)
}

func TestBuildRaceSummaryNoResults(t *testing.T) {
	s := raceSession()
	s.Results = nil
	_, err := BuildRaceSummary(s)
	assert.ErrorIs(t, err, ErrNoResults)
}
