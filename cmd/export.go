package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-xg/internal/export"
	"github.com/pable/go-hockey-xg/internal/log"
)

var (
	exportSeasons []string
	exportFormat  string
	exportEncode  bool
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the shot feature table",
	Long: `Write the stored shot rows of the selected seasons (all stored seasons by
default) as CSV, JSON, MessagePack or Parquet.

Rows are ordered by season, then game, then event order. Undefined values
are written as empty cells (CSV) or nulls. With --encode the categorical
columns are replaced by the integer codes used for model fitting and
Strength becomes the skater difference, with a specialStrength column.

The goalie column holds the id of the goalie the shot was taken against.

Example:
  hockeyxg export --season 20152016 --season 20162017 --out shots.csv
  hockeyxg export --format parquet --encode --out shots.parquet`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringArrayVar(&exportSeasons, "season", nil, "season to export (repeatable, default all)")
	f.StringVar(&exportFormat, "format", "csv", "output format: csv, json, msgpack, parquet")
	f.BoolVar(&exportEncode, "encode", false, "write categorical columns as integer codes")
	f.StringVarP(&exportOut, "out", "o", "", "output file path (default: stdout)")
}

func runExport(_ *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	years := make([]int, 0, len(exportSeasons))
	for _, s := range exportSeasons {
		y, err := seasonYear(s)
		if err != nil {
			return err
		}
		years = append(years, y)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.GetShotRows(years...)
	if err != nil {
		return fmt.Errorf("load shot rows: %w", err)
	}
	if len(rows) == 0 {
		return errors.New("no shot rows stored for the selected seasons")
	}
	table := export.BuildTable(rows, exportEncode)

	if exportOut == "" {
		if format == export.FormatParquet {
			return fmt.Errorf("%w: use --out", export.ErrNeedsFile)
		}
		w := bufio.NewWriter(os.Stdout)
		if err := export.Write(w, table, format); err != nil {
			return err
		}
		return w.Flush()
	}

	if err := export.WriteFile(exportOut, table, format); err != nil {
		return err
	}
	log.Infow("export written", "path", exportOut, "format", exportFormat, "rows", len(rows))
	fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(rows), exportOut)
	return nil
}
