package ingest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"
)

var trimestrePattern = regexp.MustCompile(`(?i)([1-4])T(\d{4})`)

// Periodo is one calendar quarter.
type Periodo struct {
	Ano       int
	Trimestre int
}

func (p Periodo) String() string { return fmt.Sprintf("%dT%d", p.Trimestre, p.Ano) }

// PeriodoFrom reads the quarter from the first name shaped like 3T2024.
func PeriodoFrom(names ...string) (Periodo, bool) {
	for _, name := range names {
		m := trimestrePattern.FindStringSubmatch(path.Base(name))
		if m == nil {
			continue
		}
		tri, _ := strconv.Atoi(m[1])
		ano, _ := strconv.Atoi(m[2])
		return Periodo{Ano: ano, Trimestre: tri}, true
	}
	return Periodo{}, false
}

// Lancamento is one positive expense line of an accounting file. ID holds the digits of
// the operator identifier found in the file, a registro ANS or a CNPJ.
type Lancamento struct {
	ID        string
	Descricao string
	Periodo   Periodo
	Valor     float64
}

// File is a CSV or TXT member of a downloaded archive.
type File struct {
	Name string
	Data []byte
}

// ExtractCSV returns the .csv and .txt members of a zip archive.
func ExtractCSV(data []byte) ([]File, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("ingest: open zip: %w", err)
	}

	var files []File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(f.Name))
		if ext != ".csv" && ext != ".txt" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("ingest: open %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(io.LimitReader(rc, maxDownloadBytes))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("ingest: read %s: %w", f.Name, err)
		}
		files = append(files, File{Name: f.Name, Data: content})
	}
	return files, nil
}

// ParseResult reports what ParseDespesas read.
type ParseResult struct {
	Lancamentos []Lancamento
	Ignoradas   int
}

// ParseDespesas reads an accounting file and keeps the lines with a positive value.
// Unreadable lines are counted and skipped; missing identifier or value columns fail
// with ErrMissingColumns.
func ParseDespesas(data []byte, periodo Periodo) (ParseResult, error) {
	r := newCSVReader(data)
	cols, err := readHeader(r)
	if err != nil {
		return ParseResult{}, err
	}

	colID := findColumn(cols, "CNPJ", "REG_ANS", "ID_OPERADORA")
	colDesc := findColumn(cols, "DESC", "RAZAO", "NOME", "CONTA")
	colValor := findColumn(cols, "VL_SALDO_FINAL", "VALOR", "VL_SALDO", "VL_EVENTO")
	if colID < 0 || colValor < 0 {
		return ParseResult{}, fmt.Errorf("%w: %v", ErrMissingColumns, cols)
	}

	var res ParseResult
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Ignoradas++
			continue
		}

		id := digits(field(rec, colID))
		valor, ok := parseValor(field(rec, colValor))
		if id == "" || !ok || valor <= 0 {
			res.Ignoradas++
			continue
		}

		desc := field(rec, colDesc)
		if colDesc < 0 {
			desc = "DESPESA"
		} else if desc == "" {
			desc = "SEM DESCRICAO"
		}
		res.Lancamentos = append(res.Lancamentos, Lancamento{
			ID:        id,
			Descricao: desc,
			Periodo:   periodo,
			Valor:     valor,
		})
	}
	return res, nil
}
