package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pable/go-hockey-xg/internal/model"
)

// Column names in a player info file.
const (
	colPlayerID      = "player_ID"
	colShootsCatches = "shootsCatches"
	colPosition      = "position"
)

var playerColumns = []string{colPlayerID, colShootsCatches}

// ParsePlayersFile reads a player info CSV (player_ID, shootsCatches and an
// optional position column).
func ParsePlayersFile(path string) ([]model.PlayerInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open players file: %w", err)
	}
	defer f.Close()
	return ParsePlayers(f, path)
}

// ParsePlayers reads player info rows from r. Rows without an id are skipped
// and a later row for the same id replaces an earlier one.
func ParsePlayers(r io.Reader, name string) ([]model.PlayerInfo, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &InputError{File: name, Line: 1, Err: errors.New("empty file")}
		}
		return nil, &InputError{File: name, Line: 1, Err: err}
	}
	cols, err := indexHeader(header, playerColumns)
	if err != nil {
		return nil, &InputError{File: name, Line: 1, Err: err}
	}

	var out []model.PlayerInfo
	seen := make(map[int64]int)
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &InputError{File: name, Line: line, Err: err}
		}
		row := rowReader{rec: rec, cols: cols, file: name, line: line}
		id := row.integer(colPlayerID)
		if row.err != nil {
			return nil, row.err
		}
		if id == 0 {
			continue
		}
		p := model.PlayerInfo{
			ID:         id,
			Handedness: model.ParseHandedness(row.str(colShootsCatches)),
			Position:   row.str(colPosition),
		}
		if i, ok := seen[id]; ok {
			out[i] = p
			continue
		}
		seen[id] = len(out)
		out = append(out, p)
	}
	return out, nil
}
