package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-xg/internal/storage"
)

var dropForce bool

// dropCmd deletes one stored season, or the whole database file.
var dropCmd = &cobra.Command{
	Use:   "drop [season]",
	Short: "Delete a stored season or the whole database",
	Long: `With a season argument, delete that season's shot rows and summary.
Without one, permanently delete the SQLite database: stored seasons, player
info and run history are lost. Rebuild seasons afterwards with 'hockeyxg build'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropSeason(args[0])
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropSeason(arg string) error {
	year, err := seasonYear(arg)
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteSeason(year); err != nil {
		if errors.Is(err, storage.ErrSeasonNotFound) {
			fmt.Fprintf(os.Stdout, "Season %s is not stored, nothing to drop.\n", arg)
			return nil
		}
		return fmt.Errorf("delete season: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted season %s.\n", arg)
	return nil
}
