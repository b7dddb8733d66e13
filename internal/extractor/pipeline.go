package extractor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-hockey-xg/internal/model"
)

// ExtractSeason extracts every game of a season on a bounded worker pool.
// Each worker owns one game's events and cursor. The merged rows are sorted
// by game id, then game time, keeping event order within a game.
func (x *Extractor) ExtractSeason(ctx context.Context, season *model.Season) ([]model.ShotRow, error) {
	if season == nil {
		return nil, fmt.Errorf("nil Season")
	}
	start := time.Now()

	perGame := make([][]model.ShotRow, len(season.Games))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.workers)
	for i := range season.Games {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perGame[i] = x.ExtractGame(season.Games[i])
			x.logger.Debug("game extracted",
				zap.Int64("game_id", season.Games[i].ID),
				zap.Int("rows", len(perGame[i])))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extract season %d: %w", season.Year, err)
	}

	total := 0
	for _, rows := range perGame {
		total += len(rows)
	}
	out := make([]model.ShotRow, 0, total)
	for _, rows := range perGame {
		out = append(out, rows...)
	}
	SortRows(out)

	elapsed := time.Since(start)
	x.rec.SeasonDuration(season.Year, elapsed.Seconds())
	x.logger.Info("season extracted",
		zap.Int("season", season.Year),
		zap.Int("games", len(season.Games)),
		zap.Int("rows", len(out)),
		zap.Duration("elapsed", elapsed))
	return out, nil
}

// SortRows orders rows by game id, then elapsed game time. The sort is
// stable so simultaneous events keep their source order.
func SortRows(rows []model.ShotRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].GameID != rows[j].GameID {
			return rows[i].GameID < rows[j].GameID
		}
		return rows[i].GameTime < rows[j].GameTime
	})
}
