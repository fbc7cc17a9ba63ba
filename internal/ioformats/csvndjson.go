
package ioformats

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"speech-scraper/internal/models"
)

// ReadIDs reads document identifiers from path. A .csv file needs a "pid"
// header column. Any other file holds one identifier per line, either bare
// or as a JSON object with a string or numeric "pid" field.
func ReadIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ids []string
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		ids, err = readCSV(f)
	} else {
		ids, err = readLines(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s: no document ids found", path)
	}
	return ids, nil
}

func readCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty csv")
	}
	if err != nil {
		return nil, err
	}
	col := slices.IndexFunc(header, func(h string) bool {
		return strings.EqualFold(strings.TrimSpace(h), "pid")
	})
	if col < 0 {
		return nil, errors.New("csv has no 'pid' header column")
	}

	var ids []string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return ids, nil
		}
		if err != nil {
			return nil, err
		}
		if col < len(row) {
			if id := strings.TrimSpace(row[col]); id != "" {
				ids = append(ids, id)
			}
		}
	}
}

func readLines(r io.Reader) ([]string, error) {
	var ids []string
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "{"):
			id, err := objectID(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			ids = append(ids, id)
		default:
			ids = append(ids, line)
		}
	}
	return ids, sc.Err()
}

// objectID extracts the "pid" field of an NDJSON line.
func objectID(line string) (string, error) {
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return "", fmt.Errorf("invalid json object: %w", err)
	}
	switch v := obj["pid"].(type) {
	case string:
		if v = strings.TrimSpace(v); v != "" {
			return v, nil
		}
	case json.Number:
		return v.String(), nil
	case nil:
		return "", errors.New("object has no \"pid\" field")
	}
	return "", fmt.Errorf("unusable \"pid\" value %v", obj["pid"])
}

// RecordWriter writes one JSON object per line and flushes after each, so
// partial output survives an interrupted run.
type RecordWriter struct {
	w   *bufio.Writer
	buf bytes.Buffer
	enc *json.Encoder
}

func NewRecordWriter(w io.Writer) *RecordWriter {
	rw := &RecordWriter{w: bufio.NewWriter(w)}
	rw.enc = json.NewEncoder(&rw.buf)
	rw.enc.SetEscapeHTML(false)
	return rw
}

func (rw *RecordWriter) Write(record models.SpeechRecord) error {
	rw.buf.Reset()
	if err := rw.enc.Encode(record); err != nil {
		return err
	}
	if _, err := rw.w.Write(unescapeSeparators(rw.buf.Bytes())); err != nil {
		return err
	}
	return rw.w.Flush()
}

// unescapeSeparators turns the \u2028 and \u2029 escapes encoding/json
// always emits back into literal characters.
func unescapeSeparators(line []byte) []byte {
	if !bytes.Contains(line, []byte(`\u202`)) {
		return line
	}
	out := make([]byte, 0, len(line))
	for i := 0; i < len(line); i++ {
		if line[i] != '\\' || i+1 == len(line) {
			out = append(out, line[i])
			continue
		}
		if esc := line[i+1:]; len(esc) >= 5 && (bytes.HasPrefix(esc, []byte("u2028")) || bytes.HasPrefix(esc, []byte("u2029"))) {
			if esc[4] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		out = append(out, line[i], line[i+1])
		i++
	}
	return out
}
