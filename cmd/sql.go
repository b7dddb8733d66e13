package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-xg/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the shot database",
	Long: `Run an arbitrary SQL query against the shot database and print results as a table.

Schema overview:
  seasons(season, label, source_hash, source_path, games, events, built_at)
  shots(season, seq, game_id, date, is_playoffs, is_empty_net, is_penalty_shot,
    is_strong_side, event, x, y, team, opp_team, strength, is_home, game_time,
    period_time, distance, angle, shot_type, goal_diff, last_event,
    last_event_distance, last_event_zone, last_event_angle, last_event_speed,
    time_since_last_event, rebound, rebound_ang_diff, rebound_dist_diff,
    rebound_speed, fastbreak, fastbreak_distance, fastbreak_speed, goalie,
    shooter, p1_for..p6_for, p1_against..p6_against, away_players,
    home_players, outcome)
  players(player_id, shoots_catches, position, updated_at)
  runs(id, season, started_at, duration_ms, row_count, skipped)

season is the first year (2015 for 20152016). Undefined features are NULL.
Example: hockeyxg sql "SELECT shot_type, AVG(outcome) FROM shots GROUP BY 1"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return printQuery(os.Stdout, db, query)
}

// printQuery runs query and renders its result set.
func printQuery(w io.Writer, db *storage.DB, query string) error {
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return nil
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
	return nil
}
