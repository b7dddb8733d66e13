package report

import (
	"fmt"
	"io"
	"math"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pable/go-hockey-xg/internal/model"
)

// printer renders counts with thousands separators.
var printer = message.NewPrinter(language.English)

func count(n int) string {
	return printer.Sprintf("%d", n)
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintSeasonSummary prints a one-line header for a stored season, followed
// by its latest build run when known.
func PrintSeasonSummary(w io.Writer, s model.SeasonSummary, run *model.BuildRun) {
	hash := s.SourceHash
	if len(hash) > 12 {
		hash = hash[:12]
	}
	fmt.Fprintf(w, "\nSeason: %s  |  Games: %s  |  Events: %s  |  Shots: %s  |  Goals: %s (%.1f%%)  |  Hash: %s\n",
		s.Label, count(s.Games), count(s.Events), count(s.Shots), count(s.Goals), s.GoalRate(), hash)
	if run != nil {
		fmt.Fprintf(w, "Last build: %s  |  %s  |  %s rows, %s shootout attempts skipped\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"), run.Duration.Round(1e6), count(run.Rows), count(run.Skipped))
	}
	fmt.Fprintln(w)
}

// PrintSeasonList prints one row per stored season.
func PrintSeasonList(w io.Writer, seasons []model.SeasonSummary) {
	table := newTable(w)
	table.Header("SEASON", "LABEL", "GAMES", "EVENTS", "SHOTS", "GOALS", "GOAL%", "BUILT", "HASH")
	for _, s := range seasons {
		hash := s.SourceHash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		table.Append(
			fmt.Sprintf("%d", s.Season),
			s.Label,
			count(s.Games),
			count(s.Events),
			count(s.Shots),
			count(s.Goals),
			fmt.Sprintf("%.1f%%", s.GoalRate()),
			s.BuiltAt.Local().Format("2006-01-02 15:04"),
			hash,
		)
	}
	table.Render()
}

// PrintBreakdown prints shot and goal counts per key with a 95% Wilson
// interval on the goal rate. keyName heads the first column.
func PrintBreakdown(w io.Writer, keyName string, rows []model.Breakdown) {
	table := newTable(w)
	table.Header(keyName, "SHOTS", "GOALS", "GOAL%", "95% CI", "SAMPLE")
	for _, b := range rows {
		key := b.Key
		if key == "" {
			key = "—"
		}
		lo, hi := wilsonCI(b.Goals, b.Shots)
		table.Append(
			key,
			count(b.Shots),
			count(b.Goals),
			fmt.Sprintf("%.1f%%", b.GoalRate()),
			fmt.Sprintf("%.1f–%.1f%%", lo*100, hi*100),
			sampleFlag(b.Shots),
		)
	}
	table.Render()
}

func sampleFlag(n int) string {
	switch {
	case n >= 500:
		return "OK"
	case n >= 100:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// wilsonCI computes the 95% Wilson score confidence interval for a proportion.
// Returns (lo, hi) as fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}
