package storage

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pable/go-hockey-xg/internal/model"
)

// shotColumns mirrors model.ShotColumns in storage naming.
var shotColumns = []string{
	"game_id", "date", "season", "is_playoffs", "is_empty_net", "is_penalty_shot", "is_strong_side",
	"event", "x", "y", "team", "opp_team", "strength", "is_home", "game_time", "period_time",
	"distance", "angle", "shot_type", "goal_diff",
	"last_event", "last_event_distance", "last_event_zone", "last_event_angle", "last_event_speed", "time_since_last_event",
	"rebound", "rebound_ang_diff", "rebound_dist_diff", "rebound_speed",
	"fastbreak", "fastbreak_distance", "fastbreak_speed",
	"goalie", "shooter",
	"p1_for", "p2_for", "p3_for", "p4_for", "p5_for", "p6_for",
	"p1_against", "p2_against", "p3_against", "p4_against", "p5_against", "p6_against",
	"away_players", "home_players", "outcome",
}

const dateLayout = "2006-01-02"

func insertShotRows(tx *sql.Tx, season int, rows []model.ShotRow) error {
	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO shots(season, seq, %s) VALUES (%s)",
		strings.Join(shotColumns, ", "), placeholders(len(shotColumns)+2)))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, 0, len(shotColumns)+2)
	for i, r := range rows {
		args = args[:0]
		args = append(args,
			season, i,
			r.GameID, r.Date.Format(dateLayout), r.Season,
			boolInt(r.IsPlayoffs), boolInt(r.IsEmptyNet), boolInt(r.IsPenaltyShot), nullFlag(r.IsStrongSide),
			string(r.Event), nullFloat(r.X), nullFloat(r.Y), r.Team, r.OppTeam, nullString(r.Strength),
			boolInt(r.IsHome), nullFloat(r.GameTime), nullFloat(r.PeriodTime),
			nullFloat(r.Distance), nullFloat(r.Angle), nullString(r.ShotType), r.GoalDiff,
			nullString(string(r.LastEvent)), nullFloat(r.LastEventDistance), nullString(string(r.LastEventZone)),
			nullFloat(r.LastEventAngle), nullFloat(r.LastEventSpeed), nullFloat(r.TimeSinceLastEvent),
			nullFlag(r.Rebound), nullFloat(r.ReboundAngDiff), nullFloat(r.ReboundDistDiff), nullFloat(r.ReboundSpeed),
			nullFlag(r.Fastbreak), nullFloat(r.FastbreakDistance), nullFloat(r.FastbreakSpeed),
			nullID(r.Goalie), nullID(r.Shooter),
		)
		for _, id := range r.For {
			args = append(args, nullID(id))
		}
		for _, id := range r.Against {
			args = append(args, nullID(id))
		}
		args = append(args, r.AwayPlayers, r.HomePlayers, r.Outcome)

		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert shot %d of game %d: %w", i, r.GameID, err)
		}
	}
	return nil
}

// GetShotRows returns the stored rows of the given seasons in build order,
// oldest season first. No seasons means every season.
func (db *DB) GetShotRows(seasons ...int) ([]model.ShotRow, error) {
	query := fmt.Sprintf("SELECT %s FROM shots", strings.Join(shotColumns, ", "))
	var args []any
	if len(seasons) > 0 {
		query += fmt.Sprintf(" WHERE season IN (%s)", placeholders(len(seasons)))
		for _, s := range seasons {
			args = append(args, s)
		}
	}
	query += " ORDER BY season, seq"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ShotRow
	for rows.Next() {
		r, err := scanShotRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanShotRow(sc scanner) (model.ShotRow, error) {
	var (
		r                                  model.ShotRow
		date, event, team, opp             string
		isPlayoffs, isEmptyNet, isPenalty  int
		isHome                             int
		strongSide, rebound, fastbreak     sql.NullInt64
		strength, shotType, lastEv, lastZn sql.NullString
		goalie, shooter                    sql.NullInt64
		forIDs, againstIDs                 [model.SkatersPerSide]sql.NullInt64
		floats                             [15]sql.NullFloat64
	)
	dest := []any{
		&r.GameID, &date, &r.Season, &isPlayoffs, &isEmptyNet, &isPenalty, &strongSide,
		&event, &floats[0], &floats[1], &team, &opp, &strength, &isHome, &floats[2], &floats[3],
		&floats[4], &floats[5], &shotType, &r.GoalDiff,
		&lastEv, &floats[6], &lastZn, &floats[7], &floats[8], &floats[9],
		&rebound, &floats[10], &floats[11], &floats[12],
		&fastbreak, &floats[13], &floats[14],
		&goalie, &shooter,
	}
	for i := range forIDs {
		dest = append(dest, &forIDs[i])
	}
	for i := range againstIDs {
		dest = append(dest, &againstIDs[i])
	}
	dest = append(dest, &r.AwayPlayers, &r.HomePlayers, &r.Outcome)
	if err := sc.Scan(dest...); err != nil {
		return r, err
	}

	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return r, fmt.Errorf("parse date %q: %w", date, err)
	}
	r.Date = d
	r.IsPlayoffs, r.IsEmptyNet, r.IsPenaltyShot, r.IsHome = isPlayoffs != 0, isEmptyNet != 0, isPenalty != 0, isHome != 0
	r.IsStrongSide, r.Rebound, r.Fastbreak = flagOf(strongSide), flagOf(rebound), flagOf(fastbreak)
	r.Event, r.Team, r.OppTeam = model.EventType(event), team, opp
	r.Strength, r.ShotType = strength.String, shotType.String
	r.LastEvent, r.LastEventZone = model.EventType(lastEv.String), model.Zone(lastZn.String)
	r.Goalie, r.Shooter = goalie.Int64, shooter.Int64
	for i := range forIDs {
		r.For[i], r.Against[i] = forIDs[i].Int64, againstIDs[i].Int64
	}

	f := func(i int) float64 {
		if !floats[i].Valid {
			return math.NaN()
		}
		return floats[i].Float64
	}
	r.X, r.Y, r.GameTime, r.PeriodTime = f(0), f(1), f(2), f(3)
	r.Distance, r.Angle = f(4), f(5)
	r.LastEventDistance, r.LastEventAngle, r.LastEventSpeed, r.TimeSinceLastEvent = f(6), f(7), f(8), f(9)
	r.ReboundAngDiff, r.ReboundDistDiff, r.ReboundSpeed = f(10), f(11), f(12)
	r.FastbreakDistance, r.FastbreakSpeed = f(13), f(14)
	return r, nil
}

// ShotTypeBreakdown counts shots and goals per shot type for a season.
func (db *DB) ShotTypeBreakdown(season int) ([]model.Breakdown, error) {
	return db.breakdown("COALESCE(shot_type, '')", season)
}

// StrengthBreakdown counts shots and goals per relative strength for a season.
func (db *DB) StrengthBreakdown(season int) ([]model.Breakdown, error) {
	return db.breakdown("COALESCE(strength, '')", season)
}

// breakdown groups by expr, which must be a trusted column expression.
func (db *DB) breakdown(expr string, season int) ([]model.Breakdown, error) {
	rows, err := db.conn.Query(fmt.Sprintf(`
		SELECT %s AS k, COUNT(1), COALESCE(SUM(outcome), 0)
		FROM shots
		WHERE season = ?
		GROUP BY k
		ORDER BY COUNT(1) DESC, k`, expr), season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Breakdown
	for rows.Next() {
		var b model.Breakdown
		if err := rows.Scan(&b.Key, &b.Shots, &b.Goals); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullFloat(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func nullFlag(f model.Flag) any {
	if !f.Known() {
		return nil
	}
	return int(f)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func flagOf(v sql.NullInt64) model.Flag {
	if !v.Valid {
		return model.FlagUnknown
	}
	return model.Flag(v.Int64)
}
