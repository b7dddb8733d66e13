package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-xg/internal/extractor"
	"github.com/pable/go-hockey-xg/internal/log"
	"github.com/pable/go-hockey-xg/internal/metrics"
	"github.com/pable/go-hockey-xg/internal/model"
	"github.com/pable/go-hockey-xg/internal/parser"
	"github.com/pable/go-hockey-xg/internal/report"
	"github.com/pable/go-hockey-xg/internal/storage"
)

var buildForce bool

var buildCmd = &cobra.Command{
	Use:   "build [season-or-file...]",
	Short: "Build and store the shot feature table for seasons",
	Long: `Parse each season's play-by-play file, extract one feature row per shot
attempt and store the rows, replacing any earlier build of that season.

Arguments are season labels (e.g. 20152016), resolved through input_dir and
input_pattern, or paths to play-by-play files. With no arguments the
configured seasons are built. A season whose source file is unchanged since
its last build is skipped unless --force is given.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVarP(&buildForce, "force", "f", false, "rebuild even if the source file is unchanged")
}

func runBuild(cmd *cobra.Command, args []string) error {
	targets := args
	if len(targets) == 0 {
		targets = cfg.Seasons
	}
	if len(targets) == 0 {
		return errors.New("no seasons given and none configured")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	players, err := db.LoadPlayerIndex()
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	if len(players) == 0 {
		log.Warnw("no player info stored; isStrongSide will be undefined", "hint", "run 'hockeyxg players fetch' after a first build")
	}

	for _, target := range targets {
		if err := buildOne(cmd, db, players, target); err != nil {
			return err
		}
	}
	return nil
}

// resolveSource maps a build argument to a file path and season label.
func resolveSource(target string) (path, label string, err error) {
	if st, statErr := os.Stat(target); statErr == nil && !st.IsDir() {
		l, ok := parser.LabelFromPath(target)
		if !ok {
			return "", "", fmt.Errorf("no season label in file name %q", target)
		}
		return target, l, nil
	}
	path, err = cfg.InputPath(target)
	if err != nil {
		return "", "", err
	}
	return path, target, nil
}

func buildOne(cmd *cobra.Command, db *storage.DB, players model.PlayerIndex, target string) error {
	path, label, err := resolveSource(target)
	if err != nil {
		return err
	}
	start := time.Now()

	year, err := parser.SeasonYear(label)
	if err != nil {
		return err
	}
	if !buildForce {
		hash, err := parser.SourceHash(path)
		if err != nil {
			return err
		}
		stored, ok, err := db.SeasonHash(year)
		if err != nil {
			return fmt.Errorf("check season %s: %w", label, err)
		}
		if ok && stored == hash {
			fmt.Fprintf(os.Stdout, "Season %s unchanged since last build, skipping (use --force to rebuild).\n", label)
			return nil
		}
	}

	log.Infow("parsing season", "season", label, "path", path)
	season, err := parser.ParseSeason(path, label, parser.Options{TeamAliases: cfg.TeamAliases})
	if err != nil {
		return fmt.Errorf("parse season %s: %w", label, err)
	}

	tally := metrics.NewTally(metricsMgr)
	x := extractor.New(players,
		extractor.WithWorkers(cfg.Workers),
		extractor.WithRecorder(tally),
		extractor.WithLogger(log.Logger()),
	)
	rows, err := x.ExtractSeason(cmd.Context(), season)
	if err != nil {
		return err
	}

	summary := model.SeasonSummary{
		Season:     season.Year,
		Label:      season.Label,
		SourceHash: season.SourceHash,
		SourcePath: season.SourcePath,
		Games:      len(season.Games),
		Events:     season.EventCount(),
		BuiltAt:    time.Now(),
	}
	if err := db.ReplaceSeason(summary, rows); err != nil {
		return fmt.Errorf("store season %s: %w", label, err)
	}

	run := model.BuildRun{
		Season:    season.Year,
		StartedAt: start,
		Duration:  time.Since(start),
		Rows:      tally.Shots(),
		Skipped:   tally.Skipped(),
	}
	if run.ID, err = db.InsertRun(run); err != nil {
		return err
	}
	log.Infow("season stored", "season", label, "rows", len(rows), "run", run.ID)

	stored, err := db.GetSeason(season.Year)
	if err != nil {
		return err
	}
	report.PrintSeasonSummary(os.Stdout, *stored, &run)
	return nil
}
