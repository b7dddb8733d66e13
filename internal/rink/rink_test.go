package rink

import (
	"math"
	"testing"

	"github.com/pable/go-hockey-xg/internal/model"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func TestStandardizeAbsolute_IdentityForPositiveX(t *testing.T) {
	for _, p := range [][2]float64{{0, 0}, {0, -12}, {45, 30}, {89, -4}, {99.5, 41}} {
		x, y := StandardizeAbsolute(p[0], p[1])
		if x != p[0] || y != p[1] {
			t.Errorf("StandardizeAbsolute(%v, %v) = (%v, %v), want identity", p[0], p[1], x, y)
		}
	}
}

func TestStandardizeAbsolute_FlipsNegativeX(t *testing.T) {
	x, y := StandardizeAbsolute(-60, 10)
	if x != 60 || y != -10 {
		t.Errorf("got (%v, %v), want (60, -10)", x, y)
	}
}

func TestStandardizeAbsolute_FixedPoint(t *testing.T) {
	for _, p := range [][2]float64{{-60, 10}, {-1, -1}, {30, 5}, {-89, 0}} {
		x1, y1 := StandardizeAbsolute(p[0], p[1])
		x2, y2 := StandardizeAbsolute(x1, y1)
		if x1 != x2 || y1 != y2 {
			t.Errorf("reapplying to (%v, %v) moved (%v, %v) to (%v, %v)", p[0], p[1], x1, y1, x2, y2)
		}
	}
}

func TestStandardizeZone(t *testing.T) {
	cases := []struct {
		name       string
		x, y       float64
		zone       model.Zone
		wantX, wnY float64
	}{
		{"def positive x mirrored", 70, 12, model.ZoneDef, -70, -12},
		{"def negative x kept", -70, 12, model.ZoneDef, -70, 12},
		{"neu untouched", -20, 8, model.ZoneNeu, -20, 8},
		{"neu positive untouched", 20, 8, model.ZoneNeu, 20, 8},
		{"off negative x mirrored", -75, -20, model.ZoneOff, 75, 20},
		{"off positive kept", 75, -20, model.ZoneOff, 75, -20},
		{"none label behaves like off", -30, 3, model.ZoneNone, 30, -3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			x, y := StandardizeZone(c.x, c.y, c.zone)
			if x != c.wantX || y != c.wnY {
				t.Errorf("StandardizeZone = (%v, %v), want (%v, %v)", x, y, c.wantX, c.wnY)
			}
			if sx := StandardizeZoneX(c.x, c.zone); sx != c.wantX {
				t.Errorf("StandardizeZoneX = %v, want %v", sx, c.wantX)
			}
			if sy := StandardizeZoneY(c.x, c.y, c.zone); sy != c.wnY {
				t.Errorf("StandardizeZoneY = %v, want %v", sy, c.wnY)
			}
		})
	}
}

func TestStandardize_NaNPassesThrough(t *testing.T) {
	x, y := StandardizeZone(math.NaN(), math.NaN(), model.ZoneOff)
	if !math.IsNaN(x) || !math.IsNaN(y) {
		t.Errorf("expected NaN to pass through, got (%v, %v)", x, y)
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(0, 0, 3, 4); !approx(d, 5) {
		t.Errorf("Distance = %v, want 5", d)
	}
	if d := DistanceToNet(89, 0); d != 0 {
		t.Errorf("DistanceToNet at the net = %v, want 0", d)
	}
}

func TestAngle(t *testing.T) {
	if a := Angle(0, 0, 10, 10); !approx(a, 45) {
		t.Errorf("Angle = %v, want 45", a)
	}
	if a := Angle(0, 0, 10, -10); !approx(a, -45) {
		t.Errorf("Angle = %v, want -45", a)
	}
	// Vector pointing backwards still reports the atan angle, not atan2.
	if a := Angle(10, 0, 0, 10); !approx(a, -45) {
		t.Errorf("Angle = %v, want -45", a)
	}
	if a := Angle(5, 0, 5, 30); a != 0 {
		t.Errorf("vertical vector angle = %v, want 0", a)
	}
	if a := AngleToNet(89, 20); a != 0 {
		t.Errorf("AngleToNet on the goal line = %v, want 0", a)
	}
}
