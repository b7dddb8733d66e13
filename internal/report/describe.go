package report

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pable/go-hockey-xg/internal/model"
)

// FeatureStats summarizes one numeric feature column. Undefined values are
// counted in Missing and left out of the moments.
type FeatureStats struct {
	Name    string
	Count   int
	Missing int
	Mean    float64
	Std     float64
	Min     float64
	Max     float64
}

type feature struct {
	name string
	get  func(*model.ShotRow) float64
}

func flagValue(f model.Flag) float64 {
	if !f.Known() {
		return math.NaN()
	}
	return float64(f)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

var features = []feature{
	{"isEmptyNet", func(r *model.ShotRow) float64 { return boolValue(r.IsEmptyNet) }},
	{"isPenaltyShot", func(r *model.ShotRow) float64 { return boolValue(r.IsPenaltyShot) }},
	{"isStrongSide", func(r *model.ShotRow) float64 { return flagValue(r.IsStrongSide) }},
	{"x", func(r *model.ShotRow) float64 { return r.X }},
	{"y", func(r *model.ShotRow) float64 { return r.Y }},
	{"isHome", func(r *model.ShotRow) float64 { return boolValue(r.IsHome) }},
	{"GameTime", func(r *model.ShotRow) float64 { return r.GameTime }},
	{"PeriodTime", func(r *model.ShotRow) float64 { return r.PeriodTime }},
	{"Distance", func(r *model.ShotRow) float64 { return r.Distance }},
	{"Angle", func(r *model.ShotRow) float64 { return r.Angle }},
	{"GoalDiff", func(r *model.ShotRow) float64 { return float64(r.GoalDiff) }},
	{"LastEventDistance", func(r *model.ShotRow) float64 { return r.LastEventDistance }},
	{"LastEventAngle", func(r *model.ShotRow) float64 { return r.LastEventAngle }},
	{"LastEventSpeed", func(r *model.ShotRow) float64 { return r.LastEventSpeed }},
	{"TimeSinceLastEvent", func(r *model.ShotRow) float64 { return r.TimeSinceLastEvent }},
	{"rebound", func(r *model.ShotRow) float64 { return flagValue(r.Rebound) }},
	{"reboundAngDiff", func(r *model.ShotRow) float64 { return r.ReboundAngDiff }},
	{"reboundDistDiff", func(r *model.ShotRow) float64 { return r.ReboundDistDiff }},
	{"reboundSpeed", func(r *model.ShotRow) float64 { return r.ReboundSpeed }},
	{"fastbreak", func(r *model.ShotRow) float64 { return flagValue(r.Fastbreak) }},
	{"fastbreakDistance", func(r *model.ShotRow) float64 { return r.FastbreakDistance }},
	{"fastbreakSpeed", func(r *model.ShotRow) float64 { return r.FastbreakSpeed }},
	{"AwayPlayers", func(r *model.ShotRow) float64 { return float64(r.AwayPlayers) }},
	{"HomePlayers", func(r *model.ShotRow) float64 { return float64(r.HomePlayers) }},
	{"Outcome", func(r *model.ShotRow) float64 { return float64(r.Outcome) }},
}

// Describe computes per-feature statistics over rows. Features with no
// defined values report NaN moments.
func Describe(rows []model.ShotRow) []FeatureStats {
	out := make([]FeatureStats, 0, len(features))
	vals := make([]float64, 0, len(rows))
	for _, f := range features {
		vals = vals[:0]
		for i := range rows {
			if v := f.get(&rows[i]); !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		fs := FeatureStats{
			Name:    f.name,
			Count:   len(vals),
			Missing: len(rows) - len(vals),
			Mean:    math.NaN(),
			Std:     math.NaN(),
			Min:     math.NaN(),
			Max:     math.NaN(),
		}
		if len(vals) > 0 {
			fs.Mean = stat.Mean(vals, nil)
			fs.Min, fs.Max = floats.Min(vals), floats.Max(vals)
		}
		if len(vals) > 1 {
			fs.Std = stat.StdDev(vals, nil)
		}
		out = append(out, fs)
	}
	return out
}

// PrintDescribe prints the Describe table.
func PrintDescribe(w io.Writer, stats []FeatureStats) {
	table := newTable(w)
	table.Header("FEATURE", "COUNT", "MISSING", "MEAN", "STD", "MIN", "MAX")
	for _, s := range stats {
		table.Append(
			s.Name,
			count(s.Count),
			count(s.Missing),
			fmtStat(s.Mean),
			fmtStat(s.Std),
			fmtStat(s.Min),
			fmtStat(s.Max),
		)
	}
	table.Render()
}

func fmtStat(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%.3f", v)
}
