package model

import (
	"math"
	"time"
)

// EventType is the play-by-play event code (SHOT, GOAL, FAC, ...).
// Codes the extractor does not care about are kept verbatim.
type EventType string

const (
	EventShot    EventType = "SHOT"
	EventGoal    EventType = "GOAL"
	EventMiss    EventType = "MISS"
	EventHit     EventType = "HIT"
	EventGive    EventType = "GIVE"
	EventTake    EventType = "TAKE"
	EventFaceoff EventType = "FAC"
	EventBlock   EventType = "BLOCK"
	EventPenalty EventType = "PENL"
	EventDelPen  EventType = "DELPEN"
	EventStop    EventType = "STOP"
)

// IsShotAttempt reports whether the event is a SHOT, GOAL or MISS.
func (e EventType) IsShotAttempt() bool {
	return e == EventShot || e == EventGoal || e == EventMiss
}

// Zone is the recorded zone label, relative to the event's own team.
type Zone string

const (
	ZoneOff  Zone = "Off"
	ZoneDef  Zone = "Def"
	ZoneNeu  Zone = "Neu"
	ZoneNone Zone = "None"
)

// Handedness is a shooter's stick hand as reported by the player lookup.
type Handedness string

const (
	HandUnknown Handedness = ""
	HandLeft    Handedness = "L"
	HandRight   Handedness = "R"
)

// ParseHandedness maps a shootsCatches value to a Handedness.
func ParseHandedness(s string) Handedness {
	switch s {
	case "L", "l":
		return HandLeft
	case "R", "r":
		return HandRight
	default:
		return HandUnknown
	}
}

// Flag is a tri-state indicator. FlagUnknown marks a value that could not
// be derived (missing context), which is distinct from a derived "no".
type Flag int8

const (
	FlagUnknown Flag = -1
	FlagNo      Flag = 0
	FlagYes     Flag = 1
)

// FlagOf converts a bool into FlagYes/FlagNo.
func FlagOf(b bool) Flag {
	if b {
		return FlagYes
	}
	return FlagNo
}

// Known reports whether the flag carries a derived value.
func (f Flag) Known() bool { return f == FlagNo || f == FlagYes }

func (f Flag) String() string {
	switch f {
	case FlagYes:
		return "1"
	case FlagNo:
		return "0"
	default:
		return ""
	}
}

// Undefined is the marker for float features that could not be derived.
func Undefined() float64 { return math.NaN() }

// IsUndefined reports whether v is the undefined marker.
func IsUndefined(v float64) bool { return math.IsNaN(v) }

// SkatersPerSide is the number of on-ice player slots recorded per team.
const SkatersPerSide = 6

// ---- Raw events emitted by the parser ----

// Event is one play-by-play row. Coordinates are NaN when not recorded;
// player and goalie ids are 0 when not recorded.
type Event struct {
	GameID     int64 // season year prefixed to the in-file game number
	GameNumber int   // in-file game number (>= 30000 for playoffs)
	Season     int
	IsPlayoffs bool

	Period  int
	Seconds float64 // elapsed seconds in period
	Date    time.Time

	Type        EventType
	Description string
	ShotType    string // WRIST SHOT, SNAP SHOT, ...

	Team, HomeTeam, AwayTeam string

	X, Y     float64
	Zone     Zone
	Strength string // "AxB", A = home skaters, B = away skaters

	ShooterID   int64 // p1_ID
	HomeSkaters [SkatersPerSide]int64
	AwaySkaters [SkatersPerSide]int64

	HomeGoalieID, AwayGoalieID     int64
	HomeGoalieName, AwayGoalieName string

	HomePlayers, AwayPlayers int
	HomeScore, AwayScore     int
}

// HasGoalie reports whether the given side has a goalie recorded.
func (e *Event) HasGoalie(home bool) bool {
	if home {
		return e.HomeGoalieID != 0 || e.HomeGoalieName != ""
	}
	return e.AwayGoalieID != 0 || e.AwayGoalieName != ""
}

// Game is one game's events in source order.
type Game struct {
	ID     int64
	Events []Event
}

// Season is a parsed play-by-play file.
type Season struct {
	Label      string // source identifier, e.g. "20102011"
	Year       int    // first year of the season, e.g. 2010
	SourceHash string // sha256 of the source file
	SourcePath string
	Games      []Game
}

// EventCount returns the number of events across all games.
func (s *Season) EventCount() int {
	n := 0
	for _, g := range s.Games {
		n += len(g.Events)
	}
	return n
}

// ---- Player info collaborator ----

// PlayerInfo holds biographical data fetched outside the extractor.
type PlayerInfo struct {
	ID         int64
	Handedness Handedness
	Position   string
}

// PlayerLookup resolves a shooter id to player info.
type PlayerLookup interface {
	Player(id int64) (PlayerInfo, bool)
}

// PlayerIndex is an immutable-by-convention id → info map.
type PlayerIndex map[int64]PlayerInfo

// Player implements PlayerLookup.
func (p PlayerIndex) Player(id int64) (PlayerInfo, bool) {
	info, ok := p[id]
	return info, ok
}

// ---- Derived features ----

// ShotRow is one feature row per qualifying shot attempt. Float fields use
// NaN as the undefined marker; flags use FlagUnknown.
type ShotRow struct {
	GameID        int64
	Date          time.Time
	Season        int
	IsPlayoffs    bool
	IsEmptyNet    bool
	IsPenaltyShot bool
	IsStrongSide  Flag

	Event      EventType
	X, Y       float64 // zone-standardized
	Team       string
	OppTeam    string
	Strength   string // relative to the shooting team
	IsHome     bool
	GameTime   float64
	PeriodTime float64
	Distance   float64
	Angle      float64
	ShotType   string
	GoalDiff   int

	LastEvent          EventType
	LastEventDistance  float64
	LastEventZone      Zone
	LastEventAngle     float64
	LastEventSpeed     float64
	TimeSinceLastEvent float64

	Rebound         Flag
	ReboundAngDiff  float64
	ReboundDistDiff float64
	ReboundSpeed    float64

	Fastbreak         Flag
	FastbreakDistance float64
	FastbreakSpeed    float64

	Goalie      int64
	Shooter     int64
	For         [SkatersPerSide]int64
	Against     [SkatersPerSide]int64
	AwayPlayers int
	HomePlayers int

	Outcome int // 1 if GOAL
}

// ShotColumns is the stable output column order of the feature table.
// Goalie is the goalie the shot was taken against, not the shooting team's.
var ShotColumns = []string{
	"GameID", "Date", "Season", "isPlayoffs", "isEmptyNet", "isPenaltyShot", "isStrongSide",
	"Event", "x", "y", "Team", "oppTeam", "Strength", "isHome", "GameTime", "PeriodTime",
	"Distance", "Angle", "ShotType", "GoalDiff",
	"LastEvent", "LastEventDistance", "LastEventZone", "LastEventAngle", "LastEventSpeed", "TimeSinceLastEvent",
	"rebound", "reboundAngDiff", "reboundDistDiff", "reboundSpeed",
	"fastbreak", "fastbreakDistance", "fastbreakSpeed",
	"goalie", "shooter",
	"P1For", "P2For", "P3For", "P4For", "P5For", "P6For",
	"P1Against", "P2Against", "P3Against", "P4Against", "P5Against", "P6Against",
	"AwayPlayers", "HomePlayers", "Outcome",
}

// SeasonSummary is a lightweight record for list/show commands.
type SeasonSummary struct {
	Season     int
	Label      string
	SourceHash string
	SourcePath string
	Games      int
	Events     int
	Shots      int
	Goals      int
	BuiltAt    time.Time
}

// GoalRate returns goals per shot attempt in percent.
func (s *SeasonSummary) GoalRate() float64 {
	if s.Shots == 0 {
		return 0
	}
	return float64(s.Goals) / float64(s.Shots) * 100
}

// Breakdown is a shot and goal count for one value of a grouping column.
type Breakdown struct {
	Key   string
	Shots int
	Goals int
}

// GoalRate returns goals per shot in percent.
func (b Breakdown) GoalRate() float64 {
	if b.Shots == 0 {
		return 0
	}
	return float64(b.Goals) / float64(b.Shots) * 100
}

// BuildRun records one invocation of the build pipeline.
type BuildRun struct {
	ID        string
	Season    int
	StartedAt time.Time
	Duration  time.Duration
	Rows      int
	Skipped   int
}
