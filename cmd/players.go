package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-xg/internal/log"
	"github.com/pable/go-hockey-xg/internal/nhle"
	"github.com/pable/go-hockey-xg/internal/parser"
)

var playersAll bool

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Manage shooter handedness info",
	Long: `Player info (shoots/catches and position) drives the isStrongSide feature.
Fetch it from the NHL player API for stored shooters, or import it from a CSV
file with player_ID and shootsCatches columns. Rebuild seasons afterwards with
'hockeyxg build --force' to refresh isStrongSide.`,
}

var playersFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch info for stored shooters from the NHL player API",
	Args:  cobra.NoArgs,
	RunE:  runPlayersFetch,
}

var playersImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import player info from a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayersImport,
}

func init() {
	playersFetchCmd.Flags().BoolVar(&playersAll, "all", false, "refetch every stored shooter, not only those missing info")
	playersCmd.AddCommand(playersFetchCmd)
	playersCmd.AddCommand(playersImportCmd)
}

func runPlayersFetch(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var ids []int64
	if playersAll {
		ids, err = db.Shooters()
	} else {
		ids, err = db.ShootersMissingInfo()
	}
	if err != nil {
		return fmt.Errorf("list shooters: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(os.Stdout, "All stored shooters already have player info.")
		return nil
	}
	fmt.Fprintf(os.Stderr, "Fetching %d players from %s...\n", len(ids), cfg.PlayerAPIURL)

	client := nhle.NewClient(cfg.PlayerAPIURL, cfg.PlayerAPITimeout)
	infos, failures, err := client.FetchPlayers(cmd.Context(), ids, cfg.Workers)
	if len(infos) > 0 {
		if upErr := db.UpsertPlayers(infos); upErr != nil {
			return fmt.Errorf("store players: %w", upErr)
		}
	}
	if err != nil {
		return err
	}
	for _, f := range failures {
		log.Warnw("player lookup failed", "player", f.ID, "error", f.Err)
	}
	fmt.Fprintf(os.Stdout, "Stored %d players (%d failed).\n", len(infos), len(failures))
	return nil
}

func runPlayersImport(_ *cobra.Command, args []string) error {
	infos, err := parser.ParsePlayersFile(args[0])
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.UpsertPlayers(infos); err != nil {
		return fmt.Errorf("store players: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Imported %d players from %s.\n", len(infos), args[0])
	return nil
}
