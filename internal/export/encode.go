package export

import (
	"strconv"
	"strings"

	"github.com/pable/go-hockey-xg/internal/model"
)

// Integer codes for categorical columns, as consumed by model training.
var (
	ShotTypeCodes = map[string]int64{
		"WRIST SHOT":  1,
		"SNAP SHOT":   2,
		"SLAP SHOT":   3,
		"BACKHAND":    4,
		"TIP-IN":      5,
		"WRAP-AROUND": 6,
		"DEFLECTED":   7,
	}

	LastEventCodes = map[model.EventType]int64{
		"HIT":    1,
		"GIVE":   2,
		"SHOT":   3,
		"TAKE":   4,
		"FAC":    5,
		"MISS":   6,
		"CHL":    7,
		"BLOCK":  8,
		"GOAL":   9,
		"PENL":   10,
		"PSTR":   11,
		"STOP":   12,
		"EISTR":  13,
		"GEND":   14,
		"PEND":   15,
		"DELPEN": 16,
	}

	ZoneCodes = map[model.Zone]int64{
		model.ZoneNone: 0,
		model.ZoneOff:  1,
		model.ZoneDef:  2,
		model.ZoneNeu:  3,
	}

	specialStrengthCodes = map[string]int64{
		"3v3": 1,
		"4v4": 2,
		"6v5": 3,
		"4v3": 4,
		"3v4": 5,
		"6v4": 6,
	}
)

// EncodeStrength turns a relative strength "FvA" into F minus A.
func EncodeStrength(s string) (int64, bool) {
	f, a, ok := strings.Cut(s, "v")
	if !ok {
		return 0, false
	}
	nf, err1 := strconv.ParseInt(f, 10, 64)
	na, err2 := strconv.ParseInt(a, 10, 64)
	if err1 != nil || err2 != nil {
		return 0, false
	}
	return nf - na, true
}

// SpecialStrength flags the uncommon strengths that a plain skater
// difference cannot tell apart (3v3 and 4v4 both encode as 0). Every other
// strength is 0.
func SpecialStrength(s string) int64 {
	return specialStrengthCodes[s]
}
