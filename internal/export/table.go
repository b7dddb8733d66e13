// Package export renders shot feature rows as CSV, Parquet, MessagePack or
// JSON. Rows are first laid out as a typed Table so every format shares one
// column order and one notion of an undefined value (nil).
package export

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pable/go-hockey-xg/internal/model"
)

// Kind is a column's value type. Cells hold int64, float64, string or nil.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
)

// Column is a named, typed output column.
type Column struct {
	Name string
	Kind Kind
}

// Table is a column-ordered set of rows. A nil cell is undefined.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// BuildTable lays rows out in the standard column order. With encode set,
// ShotType, LastEvent, LastEventZone and Strength become integer codes and a
// specialStrength column follows Strength.
func BuildTable(rows []model.ShotRow, encode bool) *Table {
	t := &Table{Columns: columns(encode), Rows: make([][]any, 0, len(rows))}
	for i := range rows {
		t.Rows = append(t.Rows, cells(&rows[i], encode))
	}
	return t
}

func columns(encode bool) []Column {
	cols := make([]Column, 0, len(model.ShotColumns)+1)
	for _, name := range model.ShotColumns {
		kind := KindInt
		switch name {
		case "Date", "Event", "Team", "oppTeam":
			kind = KindString
		case "Strength", "ShotType", "LastEvent", "LastEventZone":
			if !encode {
				kind = KindString
			}
		case "x", "y", "GameTime", "PeriodTime", "Distance", "Angle",
			"LastEventDistance", "LastEventAngle", "LastEventSpeed", "TimeSinceLastEvent",
			"reboundAngDiff", "reboundDistDiff", "reboundSpeed",
			"fastbreakDistance", "fastbreakSpeed":
			kind = KindFloat
		}
		cols = append(cols, Column{Name: name, Kind: kind})
		if encode && name == "Strength" {
			cols = append(cols, Column{Name: "specialStrength", Kind: KindInt})
		}
	}
	return cols
}

func cells(r *model.ShotRow, encode bool) []any {
	c := make([]any, 0, len(model.ShotColumns)+1)
	c = append(c,
		r.GameID, r.Date.Format("2006-01-02"), int64(r.Season),
		boolCell(r.IsPlayoffs), boolCell(r.IsEmptyNet), boolCell(r.IsPenaltyShot), flagCell(r.IsStrongSide),
		string(r.Event), floatCell(r.X), floatCell(r.Y), r.Team, r.OppTeam,
	)
	if encode {
		if v, ok := EncodeStrength(r.Strength); ok {
			c = append(c, v)
		} else {
			c = append(c, nil)
		}
		c = append(c, SpecialStrength(r.Strength))
	} else {
		c = append(c, stringCell(r.Strength))
	}
	c = append(c,
		boolCell(r.IsHome), floatCell(r.GameTime), floatCell(r.PeriodTime),
		floatCell(r.Distance), floatCell(r.Angle),
	)
	if encode {
		c = append(c, codeCell(ShotTypeCodes, r.ShotType))
	} else {
		c = append(c, stringCell(r.ShotType))
	}
	c = append(c, int64(r.GoalDiff))
	if encode {
		c = append(c, codeCell(LastEventCodes, r.LastEvent))
	} else {
		c = append(c, stringCell(string(r.LastEvent)))
	}
	c = append(c, floatCell(r.LastEventDistance))
	if encode {
		c = append(c, codeCell(ZoneCodes, r.LastEventZone))
	} else {
		c = append(c, stringCell(string(r.LastEventZone)))
	}
	c = append(c,
		floatCell(r.LastEventAngle), floatCell(r.LastEventSpeed), floatCell(r.TimeSinceLastEvent),
		flagCell(r.Rebound), floatCell(r.ReboundAngDiff), floatCell(r.ReboundDistDiff), floatCell(r.ReboundSpeed),
		flagCell(r.Fastbreak), floatCell(r.FastbreakDistance), floatCell(r.FastbreakSpeed),
		idCell(r.Goalie), idCell(r.Shooter),
	)
	for _, id := range r.For {
		c = append(c, idCell(id))
	}
	for _, id := range r.Against {
		c = append(c, idCell(id))
	}
	return append(c, int64(r.AwayPlayers), int64(r.HomePlayers), int64(r.Outcome))
}

func boolCell(b bool) any {
	if b {
		return int64(1)
	}
	return int64(0)
}

func flagCell(f model.Flag) any {
	if !f.Known() {
		return nil
	}
	return int64(f)
}

func floatCell(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func stringCell(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func idCell(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func codeCell[K comparable](codes map[K]int64, k K) any {
	if v, ok := codes[k]; ok {
		return v
	}
	return nil
}

// formatCell renders a cell for text output; nil is "".
func formatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
