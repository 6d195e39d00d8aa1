// Package output — stage and processed tier CSV.
package output

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gaurav-prasanna/pagasapipe/core"
)

// WriteCSV writes t to path with a header row, even when t has no rows.
func WriteCSV(path string, t core.Table) error {
	data, err := MarshalCSV(t)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// MarshalCSV renders t as CSV with a header row.
func MarshalCSV(t core.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("writing CSV rows: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadCSV reads a CSV file written by WriteCSV. The first record is the header.
func ReadCSV(path string) (core.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Table{}, fmt.Errorf("opening CSV file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return core.Table{}, fmt.Errorf("reading %s: missing header", path)
	}
	if err != nil {
		return core.Table{}, fmt.Errorf("reading %s: %w", path, err)
	}

	t := core.NewTable(header...)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return core.Table{}, fmt.Errorf("reading %s: %w", path, err)
		}
		t.Append(rec...)
	}
	return t, nil
}
