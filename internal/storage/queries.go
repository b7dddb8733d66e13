package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-hockey-xg/internal/model"
)

const timeLayout = time.RFC3339

// SeasonHash returns the source hash a season was last built from.
func (db *DB) SeasonHash(season int) (string, bool, error) {
	var hash string
	err := db.conn.QueryRow("SELECT source_hash FROM seasons WHERE season = ?", season).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return hash, true, nil
}

// ReplaceSeason stores a season's metadata and feature rows in one
// transaction, replacing anything previously stored for that season.
func (db *DB) ReplaceSeason(summary model.SeasonSummary, rows []model.ShotRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM shots WHERE season = ?", summary.Season); err != nil {
		return fmt.Errorf("delete shots: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM seasons WHERE season = ?", summary.Season); err != nil {
		return fmt.Errorf("delete season: %w", err)
	}

	builtAt := summary.BuiltAt
	if builtAt.IsZero() {
		builtAt = time.Now()
	}
	_, err = tx.Exec(`
		INSERT INTO seasons(season, label, source_hash, source_path, games, events, built_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		summary.Season, summary.Label, summary.SourceHash, summary.SourcePath,
		summary.Games, summary.Events, builtAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert season: %w", err)
	}

	if err := insertShotRows(tx, summary.Season, rows); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteSeason removes a season and its rows. It reports ErrSeasonNotFound
// when nothing was stored.
func (db *DB) DeleteSeason(season int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM shots WHERE season = ?", season); err != nil {
		return fmt.Errorf("delete shots: %w", err)
	}
	res, err := tx.Exec("DELETE FROM seasons WHERE season = ?", season)
	if err != nil {
		return fmt.Errorf("delete season: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("season %d: %w", season, ErrSeasonNotFound)
	}
	return tx.Commit()
}

const seasonSummaryQuery = `
	SELECT s.season, s.label, s.source_hash, s.source_path, s.games, s.events, s.built_at,
	       COUNT(sh.seq), COALESCE(SUM(sh.outcome), 0)
	FROM seasons s
	LEFT JOIN shots sh ON sh.season = s.season`

// ListSeasons returns all stored seasons ordered by season.
func (db *DB) ListSeasons() ([]model.SeasonSummary, error) {
	rows, err := db.conn.Query(seasonSummaryQuery + `
		GROUP BY s.season
		ORDER BY s.season`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeasonSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSeason returns one stored season or ErrSeasonNotFound.
func (db *DB) GetSeason(season int) (*model.SeasonSummary, error) {
	row := db.conn.QueryRow(seasonSummaryQuery+`
		WHERE s.season = ?
		GROUP BY s.season`, season)
	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("season %d: %w", season, ErrSeasonNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(sc scanner) (model.SeasonSummary, error) {
	var s model.SeasonSummary
	var builtAt string
	if err := sc.Scan(&s.Season, &s.Label, &s.SourceHash, &s.SourcePath,
		&s.Games, &s.Events, &builtAt, &s.Shots, &s.Goals); err != nil {
		return s, err
	}
	t, err := time.Parse(timeLayout, builtAt)
	if err != nil {
		return s, fmt.Errorf("parse built_at %q: %w", builtAt, err)
	}
	s.BuiltAt = t
	return s, nil
}

// UpsertPlayers inserts or refreshes player info in a transaction.
func (db *DB) UpsertPlayers(players []model.PlayerInfo) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO players(player_id, shoots_catches, position, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			shoots_catches = excluded.shoots_catches,
			position = excluded.position,
			updated_at = excluded.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(timeLayout)
	for _, p := range players {
		if _, err := stmt.Exec(p.ID, string(p.Handedness), p.Position, now); err != nil {
			return fmt.Errorf("upsert player %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// LoadPlayerIndex returns every stored player keyed by id.
func (db *DB) LoadPlayerIndex() (model.PlayerIndex, error) {
	rows, err := db.conn.Query("SELECT player_id, shoots_catches, position FROM players")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	idx := make(model.PlayerIndex)
	for rows.Next() {
		var p model.PlayerInfo
		var hand string
		if err := rows.Scan(&p.ID, &hand, &p.Position); err != nil {
			return nil, err
		}
		p.Handedness = model.ParseHandedness(hand)
		idx[p.ID] = p
	}
	return idx, rows.Err()
}

// Shooters returns every distinct stored shooter id in ascending order.
func (db *DB) Shooters() ([]int64, error) {
	return db.ids(`SELECT DISTINCT shooter FROM shots WHERE shooter IS NOT NULL ORDER BY shooter`)
}

// ShootersMissingInfo returns the distinct stored shooter ids with no row in
// players, in ascending order.
func (db *DB) ShootersMissingInfo() ([]int64, error) {
	return db.ids(`
		SELECT DISTINCT sh.shooter
		FROM shots sh
		LEFT JOIN players p ON p.player_id = sh.shooter
		WHERE sh.shooter IS NOT NULL AND p.player_id IS NULL
		ORDER BY sh.shooter`)
}

func (db *DB) ids(query string) ([]int64, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// InsertRun records a build run, assigning an id when run.ID is empty.
func (db *DB) InsertRun(run model.BuildRun) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := db.conn.Exec(`
		INSERT INTO runs(id, season, started_at, duration_ms, row_count, skipped)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Season, run.StartedAt.UTC().Format(timeLayout),
		run.Duration.Milliseconds(), run.Rows, run.Skipped,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return run.ID, nil
}

// LatestRun returns the most recent build run of a season, or nil.
func (db *DB) LatestRun(season int) (*model.BuildRun, error) {
	var r model.BuildRun
	var startedAt string
	var ms int64
	err := db.conn.QueryRow(`
		SELECT id, season, started_at, duration_ms, row_count, skipped
		FROM runs WHERE season = ?
		ORDER BY started_at DESC LIMIT 1`, season).
		Scan(&r.ID, &r.Season, &startedAt, &ms, &r.Rows, &r.Skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if r.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at %q: %w", startedAt, err)
	}
	r.Duration = time.Duration(ms) * time.Millisecond
	return &r, nil
}

// QueryRaw runs an arbitrary query and returns column names and every row
// rendered as strings. NULL is rendered as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			switch v := v.(type) {
			case nil:
				rec[i] = "NULL"
			case []byte:
				rec[i] = string(v)
			default:
				rec[i] = fmt.Sprint(v)
			}
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}
