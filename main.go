// Package main is the entry point for the hockeyxg CLI, which turns season
// play-by-play files into a per-shot expected-goals feature table.
package main

import "github.com/pable/go-hockey-xg/cmd"

func main() {
	cmd.Execute()
}
