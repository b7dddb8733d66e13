// Package extractor derives per-shot feature rows from ordered play-by-play
// events. Each game is walked once, front to back, with a cursor that keeps
// the previous event in memory; games share no state.
package extractor

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/pable/go-hockey-xg/internal/metrics"
	"github.com/pable/go-hockey-xg/internal/model"
	"github.com/pable/go-hockey-xg/internal/rink"
)

const (
	// periodSeconds is the length of a regulation period. It is also the
	// time-since-last-event reported when the previous event is in another
	// period, since real elapsed time across a stoppage is not meaningful.
	periodSeconds = 1200.0

	// Regular-season periods beyond this are shootout rounds.
	lastPlayedPeriod = 4

	// penaltyShotMarker is searched for in the free-text description. It is
	// a heuristic inherited from the scraped data, not a structured field.
	penaltyShotMarker = "Penalty Shot"
)

// Extractor turns games into shot feature rows.
type Extractor struct {
	players model.PlayerLookup
	rec     metrics.Recorder
	logger  *zap.Logger
	workers int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRecorder routes pipeline counters to rec.
func WithRecorder(rec metrics.Recorder) Option {
	return func(x *Extractor) { x.rec = rec }
}

// WithLogger sets the logger used for progress output.
func WithLogger(l *zap.Logger) Option {
	return func(x *Extractor) { x.logger = l }
}

// WithWorkers bounds the number of games extracted concurrently.
func WithWorkers(n int) Option {
	return func(x *Extractor) {
		if n > 0 {
			x.workers = n
		}
	}
}

// New returns an Extractor. players may be nil, in which case every
// shooter's handedness is unknown.
func New(players model.PlayerLookup, opts ...Option) *Extractor {
	if players == nil {
		players = model.PlayerIndex(nil)
	}
	x := &Extractor{
		players: players,
		rec:     metrics.Nop{},
		logger:  zap.NewNop(),
		workers: 1,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// ExtractGame walks one game's events and returns a row for every shot
// attempt that is not a shootout attempt, in event order.
func (x *Extractor) ExtractGame(g model.Game) []model.ShotRow {
	var rows []model.ShotRow
	season := 0
	if len(g.Events) > 0 {
		season = g.Events[0].Season
	}
	cur := newCursor(g.Events)
	for {
		ev, ok := cur.advance()
		if !ok {
			break
		}
		if !ev.Type.IsShotAttempt() {
			continue
		}
		if IsShootoutAttempt(ev) {
			x.rec.EventSkipped(ev.Season, metrics.ReasonShootout)
			continue
		}
		row := x.shotRow(ev, cur.immediate(), cur.previous())
		rows = append(rows, row)
		x.rec.ShotEmitted(ev.Season, row.Outcome == 1)
	}
	x.rec.GameProcessed(season)
	return rows
}

// IsShootoutAttempt reports whether ev is a regular-season shootout attempt.
// Playoff games have no shootout, so their late periods are overtime.
func IsShootoutAttempt(ev *model.Event) bool {
	return ev.Period > lastPlayedPeriod && !ev.IsPlayoffs
}

// IsPenaltyShot applies the description heuristic.
func IsPenaltyShot(description string) bool {
	return strings.Contains(description, penaltyShotMarker)
}

// GameTime converts a period-local time into elapsed game seconds.
func GameTime(period int, seconds float64) float64 {
	return seconds + float64(period-1)*periodSeconds
}

// TimeSinceLastEvent is the absolute gap to prev within a period, or a full
// period when prev belongs to another period.
func TimeSinceLastEvent(cur, prev *model.Event) float64 {
	if cur.Period != prev.Period {
		return periodSeconds
	}
	return math.Abs(cur.Seconds - prev.Seconds)
}

// StrongSide reports whether a shot from zone-standardized lateral position y
// is on the shooter's forehand side: y >= 0 for right-handed shooters and
// y <= 0 for left-handed ones.
func StrongSide(hand model.Handedness, y float64) model.Flag {
	if math.IsNaN(y) {
		return model.FlagUnknown
	}
	switch hand {
	case model.HandRight:
		return model.FlagOf(y >= 0)
	case model.HandLeft:
		return model.FlagOf(y <= 0)
	default:
		return model.FlagUnknown
	}
}

// LastEventGeometry relates the previous event to the current shot using RAW
// rink coordinates for both, unlike the shot's own distance and angle which
// use zone-standardized coordinates. The mixed frames are part of the output
// contract; do not standardize here.
func LastEventGeometry(cur, prev *model.Event, elapsed float64) (dist, angle, speed float64) {
	dist = rink.Distance(cur.X, cur.Y, prev.X, prev.Y)
	angle = rink.Angle(prev.X, prev.Y, cur.X, cur.Y)
	return dist, angle, speedOver(dist, elapsed)
}

func (x *Extractor) shotRow(ev, immediate, prev *model.Event) model.ShotRow {
	isHome := ev.Team == ev.HomeTeam
	isAway := !isHome && ev.Team == ev.AwayTeam

	row := model.ShotRow{
		GameID:        ev.GameID,
		Date:          ev.Date,
		Season:        ev.Season,
		IsPlayoffs:    ev.IsPlayoffs,
		IsPenaltyShot: IsPenaltyShot(ev.Description),
		Event:         ev.Type,
		Team:          ev.Team,
		Strength:      RelativeStrength(ev.Strength, ev.Team, ev.HomeTeam),
		IsHome:        isHome,
		GameTime:      GameTime(ev.Period, ev.Seconds),
		PeriodTime:    ev.Seconds,
		ShotType:      ev.ShotType,
		Shooter:       ev.ShooterID,
		AwayPlayers:   ev.AwayPlayers,
		HomePlayers:   ev.HomePlayers,
	}
	if ev.Type == model.EventGoal {
		row.Outcome = 1
	}

	switch {
	case isHome:
		row.IsEmptyNet = !ev.HasGoalie(false)
	case isAway:
		row.IsEmptyNet = !ev.HasGoalie(true)
	}

	if isHome {
		row.OppTeam = ev.AwayTeam
		row.GoalDiff = ev.HomeScore - ev.AwayScore
		row.Goalie = ev.AwayGoalieID
		row.For, row.Against = ev.HomeSkaters, ev.AwaySkaters
	} else {
		row.OppTeam = ev.HomeTeam
		row.GoalDiff = ev.AwayScore - ev.HomeScore
		row.Goalie = ev.HomeGoalieID
		row.For, row.Against = ev.AwaySkaters, ev.HomeSkaters
	}

	row.X, row.Y = rink.StandardizeZone(ev.X, ev.Y, ev.Zone)
	row.Distance = rink.DistanceToNet(row.X, row.Y)
	row.Angle = rink.AngleToNet(row.X, row.Y)

	hand := model.HandUnknown
	if info, ok := x.players.Player(ev.ShooterID); ok {
		hand = info.Handedness
	}
	row.IsStrongSide = StrongSide(hand, row.Y)

	x.applyPrevious(&row, ev, immediate, prev)
	return row
}

// applyPrevious fills the last-event, rebound and fastbreak fields. Anything
// that needs a previous event it does not have stays undefined.
func (x *Extractor) applyPrevious(row *model.ShotRow, ev, immediate, prev *model.Event) {
	nan := math.NaN()
	row.LastEventDistance, row.LastEventAngle, row.LastEventSpeed = nan, nan, nan
	row.TimeSinceLastEvent = nan
	setDetectors(row, unknownRebound(), unknownFastbreak())

	if immediate == nil {
		return
	}
	// The reported type is the immediate predecessor's, DELPEN included.
	row.LastEvent = immediate.Type
	if prev == nil {
		return
	}

	elapsed := TimeSinceLastEvent(ev, prev)
	row.TimeSinceLastEvent = elapsed
	row.LastEventZone = RelativeZone(ev.Team, prev.Team, prev.Zone)
	row.LastEventDistance, row.LastEventAngle, row.LastEventSpeed = LastEventGeometry(ev, prev, elapsed)

	// prev differs from immediate when a DELPEN was stepped over; it can then
	// sit in an earlier period even though immediate does not.
	if immediate.Period != ev.Period || prev.Period != ev.Period {
		return
	}

	px, py := rink.StandardizeZone(prev.X, prev.Y, prev.Zone)
	rb := DetectRebound(
		Moment{Team: ev.Team, Seconds: ev.Seconds, X: row.X, Y: row.Y},
		row.Angle,
		row.LastEvent,
		Moment{Team: prev.Team, Seconds: prev.Seconds, X: px, Y: py},
	)
	fb := DetectFastbreak(
		Moment{Team: ev.Team, Seconds: ev.Seconds, X: ev.X, Y: ev.Y},
		Moment{Team: prev.Team, Seconds: prev.Seconds, X: prev.X, Y: prev.Y},
		prev.Zone,
	)
	setDetectors(row, rb, fb)
}

func setDetectors(row *model.ShotRow, rb Rebound, fb Fastbreak) {
	row.Rebound = rb.Flag
	row.ReboundAngDiff, row.ReboundDistDiff, row.ReboundSpeed = rb.AngleDiff, rb.DistDiff, rb.Speed
	row.Fastbreak = fb.Flag
	row.FastbreakDistance, row.FastbreakSpeed = fb.Distance, fb.Speed
}
