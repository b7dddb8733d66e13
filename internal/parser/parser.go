// Package parser reads scraped play-by-play CSV files into games of events.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pable/go-hockey-xg/internal/model"
)

// Column names in the scraped play-by-play files.
const (
	colGameID       = "Game_Id"
	colDate         = "Date"
	colPeriod       = "Period"
	colEvent        = "Event"
	colDescription  = "Description"
	colSeconds      = "Seconds_Elapsed"
	colStrength     = "Strength"
	colZone         = "Ev_Zone"
	colType         = "Type"
	colTeam         = "Ev_Team"
	colAwayTeam     = "Away_Team"
	colHomeTeam     = "Home_Team"
	colShooter      = "p1_ID"
	colAwayPlayers  = "Away_Players"
	colHomePlayers  = "Home_Players"
	colAwayScore    = "Away_Score"
	colHomeScore    = "Home_Score"
	colAwayGoalie   = "Away_Goalie"
	colAwayGoalieID = "Away_Goalie_Id"
	colHomeGoalie   = "Home_Goalie"
	colHomeGoalieID = "Home_Goalie_Id"
	colX            = "xC"
	colY            = "yC"
)

var requiredColumns = []string{
	colGameID, colDate, colPeriod, colEvent, colSeconds,
	colTeam, colAwayTeam, colHomeTeam,
}

// timingColumns must be non-blank on every row: game time and the
// previous-event features are derived from them.
var timingColumns = []string{colGameID, colPeriod, colSeconds}

// playoffGameNumber is the first in-file game number of the playoffs.
const playoffGameNumber = 30000

const dateLayout = "2006-01-02"

var labelPattern = regexp.MustCompile(`(\d{4})(\d{4})`)

// Options controls parsing.
type Options struct {
	// TeamAliases rewrites team codes, e.g. PHX → ARI, so a relocated
	// franchise keeps one code across seasons.
	TeamAliases map[string]string
}

// LabelFromPath finds the season identifier (e.g. "20152016") in a file name.
func LabelFromPath(path string) (string, bool) {
	m := labelPattern.FindString(filepath.Base(path))
	return m, m != ""
}

// SeasonYear returns the first year of a season identifier: "20152016" → 2015.
func SeasonYear(label string) (int, error) {
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, fmt.Errorf("season label %q: want YYYYYYYY", label)
	}
	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	if second != first+1 {
		return 0, fmt.Errorf("season label %q: years are not consecutive", label)
	}
	return first, nil
}

// ParseSeason parses the play-by-play file at path. label identifies the
// season; when empty it is taken from the file name.
func ParseSeason(path, label string, opts Options) (*model.Season, error) {
	if label == "" {
		var ok bool
		if label, ok = LabelFromPath(path); !ok {
			return nil, fmt.Errorf("no season label in file name %q", filepath.Base(path))
		}
	}
	src, hash, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	season, err := Parse(src, filepath.Base(path), label, opts)
	if err != nil {
		return nil, err
	}
	season.SourceHash = hash
	season.SourcePath = path
	return season, nil
}

// Parse reads play-by-play CSV from r. name is used in error messages.
// Events are grouped by game in order of first appearance and keep their
// source order within a game.
func Parse(r io.Reader, name, label string, opts Options) (*model.Season, error) {
	year, err := SeasonYear(label)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &InputError{File: name, Line: 1, Err: errors.New("empty file")}
		}
		return nil, &InputError{File: name, Line: 1, Err: err}
	}
	cols, err := indexHeader(header, requiredColumns)
	if err != nil {
		return nil, &InputError{File: name, Line: 1, Err: err}
	}

	season := &model.Season{Label: label, Year: year}
	gameIndex := make(map[int64]int)
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &InputError{File: name, Line: line, Err: err}
		}
		row := rowReader{rec: rec, cols: cols, file: name, line: line}
		ev := row.event(year, opts.TeamAliases)
		if row.err != nil {
			return nil, row.err
		}
		i, ok := gameIndex[ev.GameID]
		if !ok {
			i = len(season.Games)
			gameIndex[ev.GameID] = i
			season.Games = append(season.Games, model.Game{ID: ev.GameID})
		}
		season.Games[i].Events = append(season.Games[i].Events, ev)
	}
	return season, nil
}

func indexHeader(header, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return cols, nil
}

// rowReader pulls typed values out of one record. The first conversion
// failure is kept in err and later calls become no-ops.
type rowReader struct {
	rec  []string
	cols map[string]int
	file string
	line int
	err  error
}

func (r *rowReader) str(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r *rowReader) fail(col string, err error) {
	if r.err == nil {
		r.err = &InputError{File: r.file, Line: r.line, Column: col, Err: err}
	}
}

// integer parses a whole number. Blank yields 0. Values written as floats
// by the scraper ("8471234.0") are accepted when integral.
func (r *rowReader) integer(col string) int64 {
	s := r.str(col)
	if s == "" || r.err != nil {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		r.fail(col, fmt.Errorf("not an integer: %q", s))
		return 0
	}
	return int64(f)
}

// float parses a decimal. Blank yields NaN.
func (r *rowReader) float(col string) float64 {
	s := r.str(col)
	if s == "" || r.err != nil {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.fail(col, fmt.Errorf("not a number: %q", s))
		return math.NaN()
	}
	return f
}

func (r *rowReader) date(col string) time.Time {
	s := r.str(col)
	if r.err != nil {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		r.fail(col, fmt.Errorf("bad date %q", s))
	}
	return t
}

func (r *rowReader) team(col string, aliases map[string]string) string {
	t := r.str(col)
	if a, ok := aliases[t]; ok {
		return a
	}
	return t
}

func (r *rowReader) event(year int, aliases map[string]string) model.Event {
	num := r.integer(colGameID)
	for _, col := range timingColumns {
		if r.err == nil && r.str(col) == "" {
			r.fail(col, fmt.Errorf("empty %s", col))
		}
	}
	ev := model.Event{
		GameNumber:     int(num),
		Season:         year,
		IsPlayoffs:     num >= playoffGameNumber,
		Date:           r.date(colDate),
		Period:         int(r.integer(colPeriod)),
		Seconds:        r.float(colSeconds),
		Type:           model.EventType(r.str(colEvent)),
		Description:    r.str(colDescription),
		ShotType:       r.str(colType),
		Team:           r.team(colTeam, aliases),
		HomeTeam:       r.team(colHomeTeam, aliases),
		AwayTeam:       r.team(colAwayTeam, aliases),
		X:              r.float(colX),
		Y:              r.float(colY),
		Zone:           model.Zone(r.str(colZone)),
		Strength:       r.str(colStrength),
		ShooterID:      r.integer(colShooter),
		HomeGoalieID:   r.integer(colHomeGoalieID),
		AwayGoalieID:   r.integer(colAwayGoalieID),
		HomeGoalieName: r.str(colHomeGoalie),
		AwayGoalieName: r.str(colAwayGoalie),
		HomePlayers:    int(r.integer(colHomePlayers)),
		AwayPlayers:    int(r.integer(colAwayPlayers)),
		HomeScore:      int(r.integer(colHomeScore)),
		AwayScore:      int(r.integer(colAwayScore)),
	}
	for i := 0; i < model.SkatersPerSide; i++ {
		ev.HomeSkaters[i] = r.integer(fmt.Sprintf("homePlayer%d_id", i+1))
		ev.AwaySkaters[i] = r.integer(fmt.Sprintf("awayPlayer%d_id", i+1))
	}
	if r.err == nil {
		id, err := strconv.ParseInt(strconv.Itoa(year)+strconv.FormatInt(num, 10), 10, 64)
		if err != nil {
			r.fail(colGameID, fmt.Errorf("manufacture game id: %w", err))
		}
		ev.GameID = id
	}
	return ev
}
