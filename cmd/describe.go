package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-xg/internal/report"
	"github.com/pable/go-hockey-xg/internal/storage"
)

var describeCmd = &cobra.Command{
	Use:   "describe [season...]",
	Short: "Per-feature summary statistics",
	Long:  "Print count, missing, mean, std, min and max of every numeric feature over the given seasons (all stored seasons by default).",
	RunE:  runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	years := make([]int, 0, len(args))
	for _, a := range args {
		y, err := seasonYear(a)
		if err != nil {
			return err
		}
		years = append(years, y)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return describeSeasons(os.Stdout, db, years)
}

func describeSeasons(w io.Writer, db *storage.DB, years []int) error {
	rows, err := db.GetShotRows(years...)
	if err != nil {
		return fmt.Errorf("load shot rows: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "No shot rows stored for the selected seasons.")
		return nil
	}
	fmt.Fprintf(w, "\n%d shot rows\n\n", len(rows))
	report.PrintDescribe(w, report.Describe(rows))
	return nil
}
