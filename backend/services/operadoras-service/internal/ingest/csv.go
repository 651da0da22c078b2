package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrMissingColumns is returned when a file lacks the columns needed to read it.
var ErrMissingColumns = errors.New("ingest: required columns not found")

// textReader returns data as UTF-8. ANS files are published in Latin-1; valid UTF-8
// input is passed through.
func textReader(data []byte) io.Reader {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return bytes.NewReader(data)
	}
	return charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(data))
}

// sniffDelimiter picks ';' or ',' from the header line.
func sniffDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	if bytes.Count(header, []byte(",")) > bytes.Count(header, []byte(";")) {
		return ','
	}
	return ';'
}

func newCSVReader(data []byte) *csv.Reader {
	r := csv.NewReader(textReader(data))
	r.Comma = sniffDelimiter(data)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r
}

// readHeader returns the upper-cased, trimmed column names.
func readHeader(r *csv.Reader) ([]string, error) {
	rec, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrMissingColumns
		}
		return nil, err
	}
	cols := make([]string, len(rec))
	for i, c := range rec {
		cols[i] = strings.ToUpper(strings.TrimSpace(c))
	}
	return cols, nil
}

// findColumn returns the index of the first column containing any of the markers,
// trying the markers in order.
func findColumn(cols []string, markers ...string) int {
	for _, m := range markers {
		for i, c := range cols {
			if strings.Contains(c, m) {
				return i
			}
		}
	}
	return -1
}

// exactColumn returns the index of the first column named exactly like one of names.
func exactColumn(cols []string, names ...string) int {
	for _, n := range names {
		for i, c := range cols {
			if c == n {
				return i
			}
		}
	}
	return -1
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseValor reads a decimal written either as 1234.56 or in the Brazilian form 1.234,56.
func parseValor(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
