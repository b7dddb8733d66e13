package extractor

import (
	"math"

	"github.com/pable/go-hockey-xg/internal/model"
	"github.com/pable/go-hockey-xg/internal/rink"
)

// Detector windows, in seconds.
const (
	reboundWindow          = 3.0
	fastbreakDefZoneWindow = 5.0
	fastbreakNeuZoneWindow = 3.0
)

// Moment is an event's team, period-local time and location as seen by a
// detector. Which coordinate frame X/Y are in is up to the caller.
type Moment struct {
	Team    string
	Seconds float64
	X, Y    float64
}

// Rebound is the rebound detector output. Floats are NaN unless Flag is yes.
type Rebound struct {
	Flag      model.Flag
	AngleDiff float64
	DistDiff  float64
	Speed     float64
}

// Fastbreak is the fastbreak detector output. Floats are NaN unless Flag is yes.
type Fastbreak struct {
	Flag     model.Flag
	Distance float64
	Speed    float64
}

func unknownRebound() Rebound {
	nan := math.NaN()
	return Rebound{Flag: model.FlagUnknown, AngleDiff: nan, DistDiff: nan, Speed: nan}
}

func unknownFastbreak() Fastbreak {
	nan := math.NaN()
	return Fastbreak{Flag: model.FlagUnknown, Distance: nan, Speed: nan}
}

// DetectRebound flags a shot taken within 3s of a SHOT by the same team.
// An undefined time on either side leaves the result unknown.
// cur and prev must be zone-standardized; angle is cur's angle to the net.
func DetectRebound(cur Moment, angle float64, prevType model.EventType, prev Moment) Rebound {
	dt := math.Abs(prev.Seconds - cur.Seconds)
	if math.IsNaN(dt) {
		return unknownRebound()
	}
	if prevType != model.EventShot || dt > reboundWindow || prev.Team != cur.Team {
		nan := math.NaN()
		return Rebound{Flag: model.FlagNo, AngleDiff: nan, DistDiff: nan, Speed: nan}
	}
	dist := rink.Distance(cur.X, cur.Y, prev.X, prev.Y)
	return Rebound{
		Flag:      model.FlagYes,
		AngleDiff: math.Abs(angle - rink.AngleToNet(prev.X, prev.Y)),
		DistDiff:  dist,
		Speed:     speedOver(dist, dt),
	}
}

// DetectFastbreak flags a shot taken within 5s of an event in the shooting
// team's defensive zone, or within 3s of one in the neutral zone. cur and
// prev carry raw coordinates; prevZone is the previous event's recorded zone
// and is resolved relative to cur.Team here.
func DetectFastbreak(cur, prev Moment, prevZone model.Zone) Fastbreak {
	dt := math.Abs(prev.Seconds - cur.Seconds)
	if math.IsNaN(dt) {
		return unknownFastbreak()
	}
	zone := RelativeZone(cur.Team, prev.Team, prevZone)
	hit := (zone == model.ZoneDef && dt <= fastbreakDefZoneWindow) ||
		(zone == model.ZoneNeu && dt <= fastbreakNeuZoneWindow)
	if !hit {
		nan := math.NaN()
		return Fastbreak{Flag: model.FlagNo, Distance: nan, Speed: nan}
	}
	dist := rink.Distance(cur.X, cur.Y, prev.X, prev.Y)
	return Fastbreak{Flag: model.FlagYes, Distance: dist, Speed: speedOver(dist, dt)}
}

// speedOver divides dist by dt, returning dist itself when dt is 0.
func speedOver(dist, dt float64) float64 {
	if dt == 0 {
		return dist
	}
	return dist / dt
}
