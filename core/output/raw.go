// Package output — raw tier JSON.
// Single-record topics are written as a dict of scalars, multi-row topics as
// a dict of lists. Key order follows the table's column order.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gaurav-prasanna/pagasapipe/core"
)

const rawIndent = "    "

// WriteRaw serializes t to path, replacing any previous file.
func WriteRaw(path string, t core.Table) error {
	data, err := MarshalRaw(t)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// MarshalRaw renders t as indented JSON with its column order preserved.
func MarshalRaw(t core.Table) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for c, col := range t.Columns {
		if c > 0 {
			compact.WriteByte(',')
		}
		key, err := marshalText(col)
		if err != nil {
			return nil, err
		}
		compact.Write(key)
		compact.WriteByte(':')

		if t.Single {
			value := ""
			if len(t.Rows) > 0 {
				value = t.Rows[0][c]
			}
			v, err := marshalText(value)
			if err != nil {
				return nil, err
			}
			compact.Write(v)
			continue
		}

		compact.WriteByte('[')
		for r, row := range t.Rows {
			if r > 0 {
				compact.WriteByte(',')
			}
			v, err := marshalText(row[c])
			if err != nil {
				return nil, err
			}
			compact.Write(v)
		}
		compact.WriteByte(']')
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", rawIndent); err != nil {
		return nil, fmt.Errorf("indenting raw JSON: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func marshalText(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encoding %q: %w", s, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ReadRawAsTable reads a raw topic file back into a table. It accepts a dict
// of scalars (one row), a dict of lists (one row per index, short lists padded
// with "") and a list of flat objects. Numbers and booleans become text and
// null becomes "".
func ReadRawAsTable(path string) (core.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Table{}, fmt.Errorf("opening raw file: %w", err)
	}
	defer f.Close()

	t, err := DecodeRaw(f)
	if err != nil {
		return core.Table{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// DecodeRaw decodes raw JSON from r. See ReadRawAsTable.
func DecodeRaw(r io.Reader) (core.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return core.Table{}, fmt.Errorf("decoding raw JSON: %w", err)
	}
	switch tok {
	case json.Delim('{'):
		return decodeColumns(dec)
	case json.Delim('['):
		return decodeRecords(dec)
	default:
		return core.Table{}, fmt.Errorf("decoding raw JSON: unexpected %v at top level", tok)
	}
}

// decodeColumns reads a dict of scalars or lists; the opening brace is consumed.
func decodeColumns(dec *json.Decoder) (core.Table, error) {
	var columns []string
	var values [][]string
	single := true

	for dec.More() {
		key, err := decodeKey(dec)
		if err != nil {
			return core.Table{}, err
		}
		tok, err := dec.Token()
		if err != nil {
			return core.Table{}, fmt.Errorf("decoding %q: %w", key, err)
		}

		var col []string
		if tok == json.Delim('[') {
			single = false
			col = []string{}
			for dec.More() {
				v, err := decodeScalar(dec)
				if err != nil {
					return core.Table{}, fmt.Errorf("decoding %q: %w", key, err)
				}
				col = append(col, v)
			}
			if _, err := dec.Token(); err != nil {
				return core.Table{}, fmt.Errorf("decoding %q: %w", key, err)
			}
		} else {
			v, err := scalarText(tok)
			if err != nil {
				return core.Table{}, fmt.Errorf("decoding %q: %w", key, err)
			}
			col = []string{v}
		}
		columns = append(columns, key)
		values = append(values, col)
	}
	if _, err := dec.Token(); err != nil {
		return core.Table{}, fmt.Errorf("decoding raw JSON: %w", err)
	}

	t := core.NewTable(columns...)
	t.Single = single
	n := 0
	for _, col := range values {
		n = max(n, len(col))
	}
	if single && len(columns) > 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		row := make([]string, len(columns))
		for c, col := range values {
			if i < len(col) {
				row[c] = col[i]
			}
		}
		t.Append(row...)
	}
	return t, nil
}

// decodeRecords reads a list of flat objects; the opening bracket is consumed.
func decodeRecords(dec *json.Decoder) (core.Table, error) {
	var columns []string
	index := map[string]int{}
	var records []map[string]string

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return core.Table{}, fmt.Errorf("decoding record: %w", err)
		}
		if tok != json.Delim('{') {
			return core.Table{}, fmt.Errorf("decoding record: expected object, got %v", tok)
		}
		rec := map[string]string{}
		for dec.More() {
			key, err := decodeKey(dec)
			if err != nil {
				return core.Table{}, err
			}
			v, err := decodeScalar(dec)
			if err != nil {
				return core.Table{}, fmt.Errorf("decoding %q: %w", key, err)
			}
			if _, ok := index[key]; !ok {
				index[key] = len(columns)
				columns = append(columns, key)
			}
			rec[key] = v
		}
		if _, err := dec.Token(); err != nil {
			return core.Table{}, fmt.Errorf("decoding record: %w", err)
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return core.Table{}, fmt.Errorf("decoding raw JSON: %w", err)
	}

	t := core.NewTable(columns...)
	for _, rec := range records {
		row := make([]string, len(columns))
		for k, v := range rec {
			row[index[k]] = v
		}
		t.Append(row...)
	}
	return t, nil
}

func decodeKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("decoding key: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("decoding key: unexpected %v", tok)
	}
	return key, nil
}

func decodeScalar(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	return scalarText(tok)
}

var errNested = errors.New("nested values are not supported")

func scalarText(tok json.Token) (string, error) {
	switch v := tok.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case json.Delim:
		return "", errNested
	default:
		return strings.TrimSpace(fmt.Sprint(v)), nil
	}
}
