package extractor

import (
	"strings"

	"github.com/pable/go-hockey-xg/internal/model"
)

// RelativeZone re-expresses the previous event's recorded zone from the
// current team's point of view. Zones of the current team's own events are
// returned unchanged; an opponent's Off and Def swap, Neu stays Neu and any
// other label becomes None.
func RelativeZone(currentTeam, lastTeam string, lastZone model.Zone) model.Zone {
	if currentTeam == lastTeam {
		return lastZone
	}
	switch lastZone {
	case model.ZoneNeu:
		return model.ZoneNeu
	case model.ZoneOff:
		return model.ZoneDef
	case model.ZoneDef:
		return model.ZoneOff
	default:
		return model.ZoneNone
	}
}

// RelativeStrength reorders a home-v-away strength string ("5x4" or "5v4")
// so the first count belongs to the acting team. The result always uses "v".
// An unparseable strength yields "".
func RelativeStrength(strength, actingTeam, homeTeam string) string {
	home, away, ok := splitStrength(strength)
	if !ok {
		return ""
	}
	if actingTeam == homeTeam {
		return home + "v" + away
	}
	return away + "v" + home
}

func splitStrength(s string) (home, away string, ok bool) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if i <= 0 || i+1 >= len(s) {
		return "", "", false
	}
	home, away = s[:i], s[i+1:]
	if strings.IndexFunc(away, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return "", "", false
	}
	return home, away, true
}
