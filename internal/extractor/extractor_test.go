package extractor

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/pable/go-hockey-xg/internal/model"
	"github.com/pable/go-hockey-xg/internal/rink"
)

const (
	teamX = "TOR"
	teamY = "OTT"
)

var gameDate = time.Date(2015, 10, 7, 0, 0, 0, 0, time.UTC)

// ev builds a regular-season event in game 201520001 with TeamX at home.
func ev(typ model.EventType, team string, period int, secs, x, y float64, zone model.Zone) model.Event {
	return model.Event{
		GameID:       201520001,
		GameNumber:   20001,
		Season:       2015,
		Period:       period,
		Seconds:      secs,
		Date:         gameDate,
		Type:         typ,
		Team:         team,
		HomeTeam:     teamX,
		AwayTeam:     teamY,
		X:            x,
		Y:            y,
		Zone:         zone,
		Strength:     "5x5",
		HomeGoalieID: 8470000,
		AwayGoalieID: 8471000,
		HomePlayers:  6,
		AwayPlayers:  6,
	}
}

func extractOne(t *testing.T, x *Extractor, events ...model.Event) []model.ShotRow {
	t.Helper()
	return x.ExtractGame(model.Game{ID: events[0].GameID, Events: events})
}

// TestRebound_Scenario: A (SHOT, X, 10s) then B (SHOT, X, 12s) → B is a rebound of A.
func TestRebound_Scenario(t *testing.T) {
	a := ev(model.EventShot, teamX, 1, 10, 60, 10, model.ZoneOff)
	b := ev(model.EventShot, teamX, 1, 12, 70, 5, model.ZoneOff)
	rows := extractOne(t, New(nil), a, b)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	r := rows[1]
	if r.Rebound != model.FlagYes {
		t.Fatalf("expected B to be a rebound, got %v", r.Rebound)
	}
	wantDist := rink.Distance(70, 5, 60, 10)
	if math.Abs(r.ReboundDistDiff-wantDist) > 1e-9 {
		t.Errorf("ReboundDistDiff = %v, want %v", r.ReboundDistDiff, wantDist)
	}
	if math.Abs(r.ReboundSpeed-wantDist/2) > 1e-9 {
		t.Errorf("ReboundSpeed = %v, want %v", r.ReboundSpeed, wantDist/2)
	}
	wantAng := math.Abs(rink.AngleToNet(70, 5) - rink.AngleToNet(60, 10))
	if math.Abs(r.ReboundAngDiff-wantAng) > 1e-9 {
		t.Errorf("ReboundAngDiff = %v, want %v", r.ReboundAngDiff, wantAng)
	}
	if r.LastEvent != model.EventShot || r.TimeSinceLastEvent != 2 {
		t.Errorf("last event %s after %vs, want SHOT after 2s", r.LastEvent, r.TimeSinceLastEvent)
	}
	if r.LastEventZone != model.ZoneOff {
		t.Errorf("LastEventZone = %q, want Off", r.LastEventZone)
	}

	// A is the first event of the game: nothing to compare against.
	first := rows[0]
	if first.Rebound != model.FlagUnknown || first.Fastbreak != model.FlagUnknown {
		t.Errorf("first shot: expected unknown detectors, got %v/%v", first.Rebound, first.Fastbreak)
	}
	if first.LastEvent != "" || !math.IsNaN(first.TimeSinceLastEvent) || !math.IsNaN(first.LastEventDistance) {
		t.Errorf("first shot: expected undefined last-event fields, got %+v", first)
	}
}

// TestFastbreak_OpponentDefensiveZoneFaceoff: C (FAC, Y, 50s, Def) then D (SHOT, X, 52s).
// C's zone as seen by X is Off, so D is not a fastbreak.
func TestRebound_UndefinedTime(t *testing.T) {
	a := ev(model.EventShot, teamX, 1, 10, 60, 10, model.ZoneOff)
	b := ev(model.EventShot, teamX, 1, math.NaN(), 70, 5, model.ZoneOff)
	rows := extractOne(t, New(nil), a, b)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	r := rows[1]
	if r.Rebound != model.FlagUnknown || r.Fastbreak != model.FlagUnknown {
		t.Errorf("rebound/fastbreak = %v/%v, want unknown", r.Rebound, r.Fastbreak)
	}
	if !math.IsNaN(r.ReboundSpeed) {
		t.Errorf("ReboundSpeed = %v, want NaN", r.ReboundSpeed)
	}
}

func TestFastbreak_OpponentDefensiveZoneFaceoff(t *testing.T) {
	c := ev(model.EventFaceoff, teamY, 1, 50, -69, 22, model.ZoneDef)
	d := ev(model.EventShot, teamX, 1, 52, -60, 10, model.ZoneOff)
	rows := extractOne(t, New(nil), c, d)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.LastEventZone != model.ZoneOff {
		t.Errorf("LastEventZone = %q, want Off", r.LastEventZone)
	}
	if r.Fastbreak != model.FlagNo {
		t.Errorf("expected no fastbreak, got %v", r.Fastbreak)
	}
	if !math.IsNaN(r.FastbreakDistance) || !math.IsNaN(r.FastbreakSpeed) {
		t.Errorf("expected undefined fastbreak fields, got %v/%v", r.FastbreakDistance, r.FastbreakSpeed)
	}
	if r.Rebound != model.FlagNo {
		t.Errorf("expected no rebound after a faceoff, got %v", r.Rebound)
	}
}

func TestFastbreak_AfterOwnDefensiveZoneTakeaway(t *testing.T) {
	take := ev(model.EventTake, teamX, 2, 300, -70, 10, model.ZoneDef)
	shot := ev(model.EventShot, teamX, 2, 304, 50, 0, model.ZoneOff)
	rows := extractOne(t, New(nil), take, shot)
	r := rows[0]
	if r.Fastbreak != model.FlagYes {
		t.Fatalf("expected fastbreak, got %v", r.Fastbreak)
	}
	wantDist := rink.Distance(50, 0, -70, 10)
	if math.Abs(r.FastbreakDistance-wantDist) > 1e-9 || math.Abs(r.FastbreakSpeed-wantDist/4) > 1e-9 {
		t.Errorf("fastbreak distance/speed = %v/%v, want %v/%v", r.FastbreakDistance, r.FastbreakSpeed, wantDist, wantDist/4)
	}
}

func TestShootoutExclusion(t *testing.T) {
	shot := ev(model.EventGoal, teamX, 5, 0, 80, 0, model.ZoneOff)
	if rows := extractOne(t, New(nil), shot); len(rows) != 0 {
		t.Errorf("regular season period 5: expected no rows, got %d", len(rows))
	}

	shot.IsPlayoffs = true
	shot.GameNumber = 30111
	rows := extractOne(t, New(nil), shot)
	if len(rows) != 1 {
		t.Fatalf("playoff period 5: expected 1 row, got %d", len(rows))
	}
	if rows[0].GameTime != 4*1200 {
		t.Errorf("GameTime = %v, want %v", rows[0].GameTime, 4*1200)
	}
}

func TestEmptyNet(t *testing.T) {
	shot := ev(model.EventGoal, teamX, 3, 1180, 20, 0, model.ZoneNeu)
	shot.AwayGoalieID = 0
	rows := extractOne(t, New(nil), shot)
	if !rows[0].IsEmptyNet {
		t.Error("home shot with no away goalie: expected empty net")
	}

	// The shooting team's own goalie being pulled does not matter.
	shot = ev(model.EventGoal, teamX, 3, 1180, 20, 0, model.ZoneNeu)
	shot.HomeGoalieID = 0
	rows = extractOne(t, New(nil), shot)
	if rows[0].IsEmptyNet {
		t.Error("home shot with away goalie present: expected no empty net")
	}

	// A goalie recorded by name only still counts.
	shot = ev(model.EventShot, teamY, 3, 1180, 20, 0, model.ZoneNeu)
	shot.HomeGoalieID = 0
	shot.HomeGoalieName = "FREDERIK ANDERSEN"
	rows = extractOne(t, New(nil), shot)
	if rows[0].IsEmptyNet {
		t.Error("goalie recorded by name: expected no empty net")
	}
}

func TestDelayedPenaltyIsSteppedOver(t *testing.T) {
	first := ev(model.EventShot, teamX, 1, 100, 60, 10, model.ZoneOff)
	delpen := ev(model.EventDelPen, teamY, 1, 101, math.NaN(), math.NaN(), "")
	shot := ev(model.EventShot, teamX, 1, 102, 70, 5, model.ZoneOff)
	rows := extractOne(t, New(nil), first, delpen, shot)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	r := rows[1]
	if r.LastEvent != model.EventDelPen {
		t.Errorf("LastEvent = %s, want DELPEN", r.LastEvent)
	}
	// Geometry and timing come from the shot before the delayed penalty.
	if r.TimeSinceLastEvent != 2 {
		t.Errorf("TimeSinceLastEvent = %v, want 2", r.TimeSinceLastEvent)
	}
	if want := rink.Distance(70, 5, 60, 10); math.Abs(r.LastEventDistance-want) > 1e-9 {
		t.Errorf("LastEventDistance = %v, want %v", r.LastEventDistance, want)
	}
	if r.LastEventZone != model.ZoneOff {
		t.Errorf("LastEventZone = %q, want Off", r.LastEventZone)
	}
	// The reported previous type is DELPEN, which is never a rebound source.
	if r.Rebound != model.FlagNo {
		t.Errorf("Rebound = %v, want no", r.Rebound)
	}
}

func TestDelayedPenaltyAtGameStart(t *testing.T) {
	delpen := ev(model.EventDelPen, teamY, 1, 5, math.NaN(), math.NaN(), "")
	shot := ev(model.EventShot, teamX, 1, 8, 70, 5, model.ZoneOff)
	rows := extractOne(t, New(nil), delpen, shot)
	r := rows[0]
	if r.LastEvent != model.EventDelPen {
		t.Errorf("LastEvent = %s, want DELPEN", r.LastEvent)
	}
	if !math.IsNaN(r.TimeSinceLastEvent) || r.Rebound != model.FlagUnknown {
		t.Errorf("expected undefined previous context, got time %v rebound %v", r.TimeSinceLastEvent, r.Rebound)
	}
}

func TestPeriodBoundary(t *testing.T) {
	end := ev("PEND", "", 1, 1200, math.NaN(), math.NaN(), "")
	start := ev("PSTR", "", 2, 0, math.NaN(), math.NaN(), "")
	shot := ev(model.EventShot, teamX, 2, 2, 70, 5, model.ZoneOff)

	// Previous event in the prior period: full-period gap, detectors undefined.
	rows := extractOne(t, New(nil), end, shot)
	r := rows[0]
	if r.TimeSinceLastEvent != 1200 {
		t.Errorf("TimeSinceLastEvent = %v, want 1200", r.TimeSinceLastEvent)
	}
	if r.Rebound != model.FlagUnknown || r.Fastbreak != model.FlagUnknown {
		t.Errorf("expected unknown detectors across periods, got %v/%v", r.Rebound, r.Fastbreak)
	}
	if !math.IsNaN(r.ReboundSpeed) || !math.IsNaN(r.FastbreakSpeed) {
		t.Error("expected NaN detector fields across periods")
	}

	// Same period, previous event has no team: zone becomes None, no fastbreak.
	rows = extractOne(t, New(nil), end, start, shot)
	r = rows[0]
	if r.TimeSinceLastEvent != 2 {
		t.Errorf("TimeSinceLastEvent = %v, want 2", r.TimeSinceLastEvent)
	}
	if r.LastEventZone != model.ZoneNone {
		t.Errorf("LastEventZone = %q, want None", r.LastEventZone)
	}
	if r.Rebound != model.FlagNo || r.Fastbreak != model.FlagNo {
		t.Errorf("expected derived no/no, got %v/%v", r.Rebound, r.Fastbreak)
	}
	if r.GameTime != 1202 {
		t.Errorf("GameTime = %v, want 1202", r.GameTime)
	}
}

func TestLastEventGeometryUsesRawCoordinates(t *testing.T) {
	// Both events are recorded at negative x; zone standardization would
	// mirror the shot but the last-event features must not.
	hit := ev(model.EventHit, teamX, 1, 30, -80, 20, model.ZoneOff)
	shot := ev(model.EventShot, teamX, 1, 34, -60, -10, model.ZoneOff)
	rows := extractOne(t, New(nil), hit, shot)
	r := rows[0]
	if r.X != 60 || r.Y != 10 {
		t.Errorf("standardized shot = (%v, %v), want (60, 10)", r.X, r.Y)
	}
	if want := rink.Distance(-60, -10, -80, 20); math.Abs(r.LastEventDistance-want) > 1e-9 {
		t.Errorf("LastEventDistance = %v, want %v", r.LastEventDistance, want)
	}
	if want := rink.Angle(-80, 20, -60, -10); math.Abs(r.LastEventAngle-want) > 1e-9 {
		t.Errorf("LastEventAngle = %v, want %v", r.LastEventAngle, want)
	}
	if want := rink.Distance(-60, -10, -80, 20) / 4; math.Abs(r.LastEventSpeed-want) > 1e-9 {
		t.Errorf("LastEventSpeed = %v, want %v", r.LastEventSpeed, want)
	}
	if want := rink.DistanceToNet(60, 10); math.Abs(r.Distance-want) > 1e-9 {
		t.Errorf("Distance = %v, want %v", r.Distance, want)
	}
}

func TestStrongSideAndContext(t *testing.T) {
	players := model.PlayerIndex{
		8478000: {ID: 8478000, Handedness: model.HandRight, Position: "C"},
		8479000: {ID: 8479000, Handedness: model.HandLeft, Position: "D"},
	}
	right := ev(model.EventShot, teamY, 2, 100, -70, -8, model.ZoneOff)
	right.ShooterID = 8478000
	right.Strength = "5x4"
	right.HomeScore, right.AwayScore = 2, 1
	right.HomeSkaters = [6]int64{1, 2, 3, 4, 5, 6}
	right.AwaySkaters = [6]int64{11, 12, 13, 14, 15, 16}
	right.Description = "OTT #9 Penalty Shot, Wrist, Off. Zone"

	left := ev(model.EventGoal, teamX, 2, 140, 70, 8, model.ZoneOff)
	left.ShooterID = 8479000

	unknown := ev(model.EventMiss, teamX, 2, 170, 70, 8, model.ZoneOff)
	unknown.ShooterID = 8470001

	rows := extractOne(t, New(players), right, left, unknown)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	r := rows[0]
	// Standardized y = 8 for a right-handed shooter.
	if r.IsStrongSide != model.FlagYes {
		t.Errorf("right-handed at y=8: strong side = %v, want yes", r.IsStrongSide)
	}
	if r.Strength != "4v5" || r.OppTeam != teamX || r.IsHome {
		t.Errorf("context = %s/%s/home=%v, want 4v5/%s/false", r.Strength, r.OppTeam, r.IsHome, teamX)
	}
	if r.GoalDiff != -1 {
		t.Errorf("GoalDiff = %d, want -1", r.GoalDiff)
	}
	if r.Goalie != 8470000 {
		t.Errorf("Goalie = %d, want the home goalie 8470000", r.Goalie)
	}
	if r.For[5] != 16 || r.Against[5] != 6 {
		t.Errorf("sixth skaters = %d/%d, want 16/6", r.For[5], r.Against[5])
	}
	if !r.IsPenaltyShot {
		t.Error("expected penalty shot from description")
	}

	if rows[1].IsStrongSide != model.FlagNo {
		t.Errorf("left-handed at y=8: strong side = %v, want no", rows[1].IsStrongSide)
	}
	if rows[1].Outcome != 1 || rows[0].Outcome != 0 {
		t.Errorf("outcomes = %d/%d, want 0/1", rows[0].Outcome, rows[1].Outcome)
	}
	if rows[2].IsStrongSide != model.FlagUnknown {
		t.Errorf("unknown shooter: strong side = %v, want unknown", rows[2].IsStrongSide)
	}
}

func TestStrongSide(t *testing.T) {
	cases := []struct {
		hand model.Handedness
		y    float64
		want model.Flag
	}{
		{model.HandRight, 0, model.FlagYes},
		{model.HandRight, -1, model.FlagNo},
		{model.HandLeft, 0, model.FlagYes},
		{model.HandLeft, 3, model.FlagNo},
		{model.HandUnknown, 3, model.FlagUnknown},
		{model.HandLeft, math.NaN(), model.FlagUnknown},
	}
	for _, c := range cases {
		if got := StrongSide(c.hand, c.y); got != c.want {
			t.Errorf("StrongSide(%q, %v) = %v, want %v", c.hand, c.y, got, c.want)
		}
	}
}

type countingRecorder struct {
	shots, goals, skipped, games int
}

func (c *countingRecorder) ShotEmitted(_ int, goal bool) {
	c.shots++
	if goal {
		c.goals++
	}
}
func (c *countingRecorder) EventSkipped(int, string)    { c.skipped++ }
func (c *countingRecorder) GameProcessed(int)           { c.games++ }
func (c *countingRecorder) SeasonDuration(int, float64) {}

func TestExtractSeason_OrderAndIsolation(t *testing.T) {
	mk := func(gameID int64, evs ...model.Event) model.Game {
		for i := range evs {
			evs[i].GameID = gameID
		}
		return model.Game{ID: gameID, Events: evs}
	}
	// Game 2's first shot would be a rebound of game 1's last shot if
	// lookback leaked across games.
	g1 := mk(201520002,
		ev(model.EventShot, teamX, 1, 10, 60, 10, model.ZoneOff),
		ev(model.EventGoal, teamX, 1, 500, 80, 0, model.ZoneOff),
		ev(model.EventShot, teamX, 3, 1199, 60, 10, model.ZoneOff),
	)
	g2 := mk(201520001,
		ev(model.EventShot, teamX, 1, 1, 70, 5, model.ZoneOff),
		ev(model.EventGoal, teamY, 5, 0, 80, 0, model.ZoneOff),
	)
	season := &model.Season{Label: "20152016", Year: 2015, Games: []model.Game{g1, g2}}

	rec := &countingRecorder{}
	x := New(nil, WithWorkers(4), WithRecorder(rec))
	rows, err := x.ExtractSeason(context.Background(), season)
	if err != nil {
		t.Fatalf("ExtractSeason: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].GameID != 201520001 || rows[1].GameID != 201520002 {
		t.Errorf("rows not sorted by game id: %d, %d", rows[0].GameID, rows[1].GameID)
	}
	if rows[0].Rebound != model.FlagUnknown {
		t.Errorf("first shot of a game leaked lookback from another game: rebound %v", rows[0].Rebound)
	}
	for i := 2; i < len(rows); i++ {
		if rows[i].GameTime < rows[i-1].GameTime {
			t.Errorf("rows out of time order within game at %d", i)
		}
	}
	if rec.shots != 4 || rec.goals != 1 || rec.skipped != 1 || rec.games != 2 {
		t.Errorf("recorder = %+v, want 4 shots, 1 goal, 1 skipped, 2 games", *rec)
	}
}

func TestExtractSeason_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	season := &model.Season{Year: 2015, Games: []model.Game{{ID: 1, Events: []model.Event{
		ev(model.EventShot, teamX, 1, 10, 60, 10, model.ZoneOff),
	}}}}
	if _, err := New(nil).ExtractSeason(ctx, season); err == nil {
		t.Error("expected an error from a cancelled context")
	}
}
