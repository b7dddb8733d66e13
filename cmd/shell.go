package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-xg/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("hockeyxg shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("hockeyxg")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		args := strings.Fields(rest)

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: show <season>")
				continue
			}
			shellShow(db, args[0])
		case "describe":
			shellDescribe(db, args)
		case "sql":
			if strings.TrimSpace(rest) == "" {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			if err := printQuery(os.Stdout, db, rest); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return scanner.Err()
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored seasons"},
		{"show <season>", "summary and breakdowns for a season"},
		{"describe [season...]", "per-feature statistics"},
		{"sql <query>", "run a raw SQL query"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-24s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	seasons, err := db.ListSeasons()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(seasons) == 0 {
		cMuted.Println("No seasons stored yet.")
		return
	}
	cHeader.Fprintf(os.Stdout, "%-10s  %6s  %9s  %8s  %7s  %s\n",
		"SEASON", "GAMES", "EVENTS", "SHOTS", "GOAL%", "BUILT")
	cMuted.Fprintf(os.Stdout, "%-10s  %6s  %9s  %8s  %7s  %s\n",
		"──────────", "──────", "─────────", "────────", "───────", "────────────────")
	for _, s := range seasons {
		fmt.Fprintf(os.Stdout, "%-10s  %6d  %9d  %8d  %6.2f%%  %s\n",
			s.Label, s.Games, s.Events, s.Shots, s.GoalRate(), s.BuiltAt.Local().Format("2006-01-02 15:04"))
	}
}

func shellShow(db *storage.DB, arg string) {
	year, err := seasonYear(arg)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if err := showSeason(os.Stdout, db, year); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func shellDescribe(db *storage.DB, args []string) {
	years := make([]int, 0, len(args))
	for _, a := range args {
		y, err := seasonYear(a)
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		years = append(years, y)
	}
	if err := describeSeasons(os.Stdout, db, years); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}
