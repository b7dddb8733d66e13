// Package rink holds coordinate standardization and rink geometry.
//
// Rink coordinates are in feet with the origin at centre ice; the attacked
// net sits at (NetX, NetY) once coordinates are standardized.
package rink

import (
	"math"

	"github.com/pable/go-hockey-xg/internal/model"
)

// Net location in standardized coordinates.
const (
	NetX = 89.0
	NetY = 0.0
)

// StandardizeAbsolute flips both coordinates when x < 0 so the offense
// always attacks toward positive x.
func StandardizeAbsolute(x, y float64) (float64, float64) {
	if x < 0 {
		return -x, -y
	}
	return x, y
}

// StandardizeZone standardizes using the recorded zone label rather than the
// sign of x alone. A Def-zone event with positive x is mirrored, a Neu-zone
// event is left alone and anything else with negative x is mirrored. x and y
// always flip together.
func StandardizeZone(x, y float64, zone model.Zone) (float64, float64) {
	if zoneFlips(x, zone) {
		return -x, -y
	}
	return x, y
}

// StandardizeZoneX is the x component of StandardizeZone.
func StandardizeZoneX(x float64, zone model.Zone) float64 {
	if zoneFlips(x, zone) {
		return -x
	}
	return x
}

// StandardizeZoneY is the y component of StandardizeZone. It needs x because
// the flip decision is made on x.
func StandardizeZoneY(x, y float64, zone model.Zone) float64 {
	if zoneFlips(x, zone) {
		return -y
	}
	return y
}

func zoneFlips(x float64, zone model.Zone) bool {
	switch zone {
	case model.ZoneDef:
		return x > 0
	case model.ZoneNeu:
		return false
	default:
		return x < 0
	}
}

// Distance is the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// Angle returns degrees(atan(dy/dx)) for the vector from point 1 to point 2.
// A zero x difference yields 0, so vertical vectors collapse to 0°.
func Angle(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	if dx == 0 {
		return 0
	}
	return math.Atan((y2-y1)/dx) * 180 / math.Pi
}

// DistanceToNet is the distance from (x, y) to the attacked net.
func DistanceToNet(x, y float64) float64 {
	return Distance(x, y, NetX, NetY)
}

// AngleToNet is the angle from (x, y) to the attacked net.
func AngleToNet(x, y float64) float64 {
	return Angle(x, y, NetX, NetY)
}
