package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"
)

// Format is an output format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatMsgpack Format = "msgpack"
	FormatJSON    Format = "json"
)

// ErrNeedsFile is returned when a format cannot be streamed to a writer.
var ErrNeedsFile = errors.New("format requires an output file")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatParquet, FormatMsgpack, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv, parquet, msgpack or json)", s)
	}
}

// Extension returns the conventional file extension.
func (f Format) Extension() string {
	if f == FormatMsgpack {
		return ".msgpack"
	}
	return "." + string(f)
}

// document is the JSON and MessagePack layout: the column names once, then
// each row as an array in the same order.
type document struct {
	Columns []string `json:"columns" msgpack:"columns"`
	Rows    [][]any  `json:"rows" msgpack:"rows"`
}

// Write streams t to w. Parquet needs a seekable file; use WriteFile.
func Write(w io.Writer, t *Table, f Format) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, t)
	case FormatJSON:
		enc := json.NewEncoder(w)
		return enc.Encode(document{Columns: t.Names(), Rows: t.Rows})
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		return enc.Encode(document{Columns: t.Names(), Rows: t.Rows})
	case FormatParquet:
		return ErrNeedsFile
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// WriteFile writes t to path in format f.
func WriteFile(path string, t *Table, f Format) error {
	if f == FormatParquet {
		return writeParquet(path, t)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(out)
	if err := Write(bw, t, f); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return out.Close()
}

func writeCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return err
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			rec[i] = formatCell(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// parquetSchema describes every column as OPTIONAL so nil cells become nulls.
func parquetSchema(t *Table) []string {
	md := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		switch c.Kind {
		case KindInt:
			md[i] = fmt.Sprintf("name=%s, type=INT64, repetitiontype=OPTIONAL", c.Name)
		case KindFloat:
			md[i] = fmt.Sprintf("name=%s, type=DOUBLE, repetitiontype=OPTIONAL", c.Name)
		default:
			md[i] = fmt.Sprintf("name=%s, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL", c.Name)
		}
	}
	return md
}

func writeParquet(path string, t *Table) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewCSVWriter(parquetSchema(t), fw, 4)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	for _, row := range t.Rows {
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}
