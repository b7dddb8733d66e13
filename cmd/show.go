package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-xg/internal/parser"
	"github.com/pable/go-hockey-xg/internal/report"
	"github.com/pable/go-hockey-xg/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <season>",
	Short: "Show a stored season's summary and breakdowns",
	Long:  "Show a stored season by label (20152016) or first year (2015): summary, last build, and shot-type and strength breakdowns.",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

// seasonYear accepts a season label or its first year.
func seasonYear(arg string) (int, error) {
	if len(arg) == 4 {
		y, err := strconv.Atoi(arg)
		if err != nil {
			return 0, fmt.Errorf("invalid season %q", arg)
		}
		return y, nil
	}
	return parser.SeasonYear(arg)
}

func runShow(cmd *cobra.Command, args []string) error {
	year, err := seasonYear(args[0])
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return showSeason(os.Stdout, db, year)
}

func showSeason(w io.Writer, db *storage.DB, year int) error {
	s, err := db.GetSeason(year)
	if err != nil {
		return fmt.Errorf("get season: %w", err)
	}
	run, err := db.LatestRun(year)
	if err != nil {
		return fmt.Errorf("get last run: %w", err)
	}
	types, err := db.ShotTypeBreakdown(year)
	if err != nil {
		return fmt.Errorf("shot type breakdown: %w", err)
	}
	strengths, err := db.StrengthBreakdown(year)
	if err != nil {
		return fmt.Errorf("strength breakdown: %w", err)
	}

	report.PrintSeasonSummary(w, *s, run)
	report.PrintBreakdown(w, "SHOT TYPE", types)
	fmt.Fprintln(w)
	report.PrintBreakdown(w, "STRENGTH", strengths)
	return nil
}
