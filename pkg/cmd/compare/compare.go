package compare

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"f1duel/pkg/cmd/provider"
	"f1duel/pkg/model"
	"f1duel/pkg/report"
)

type compareConfig struct {
	year    int
	race    string
	session string
}

func NewCompareCmd() *cobra.Command {
	cfg := compareConfig{}
	cmd := &cobra.Command{
		Use:   "compare D1 D2",
		Short: "prints the comparison of two drivers of a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], args[1])
		},
	}
	cmd.Flags().IntVar(&cfg.year,
		"year",
		time.Now().Year(),
		"season of the session")
	cmd.Flags().StringVar(&cfg.race,
		"race",
		"",
		"race name, country or circuit")
	cmd.Flags().StringVar(&cfg.session,
		"session",
		model.SessionRace,
		"session type (Race, Qualifying, Practice 1, ...)")
	_ = cmd.MarkFlagRequired("race")
	return cmd
}

func runCompare(ctx context.Context, w io.Writer, cfg compareConfig, d1, d2 string) error {
	client, cm, err := provider.Open()
	if err != nil {
		return err
	}
	defer cm.Close()

	s, err := client.LoadSession(ctx, cfg.year, cfg.race, cfg.session)
	if err != nil {
		return err
	}
	duel, err := report.NewDuel(s, strings.ToUpper(d1), strings.ToUpper(d2))
	if err != nil {
		return err
	}
	printDuel(w, s, duel)
	return nil
}

func printDuel(w io.Writer, s *model.Session, d *report.Duel) {
	fmt.Fprintf(w, "%s %d %s\n", s.Event.EventName, s.Year, s.Name)
	fmt.Fprint(w, report.RaceTable(d.Race))
	fmt.Fprintln(w, "\nPodium")
	fmt.Fprint(w, report.PodiumTable(d.Podium))
	fmt.Fprintf(w, "\n%s\n", d.Title())
	fmt.Fprint(w, report.BattleTable(d.Battle))
	fmt.Fprintln(w, "\nLap by lap")
	fmt.Fprint(w, report.LapsTable(d.Laps1, d.Laps2, d.D1.Code, d.D2.Code))
}
