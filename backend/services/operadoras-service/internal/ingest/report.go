package ingest

import (
	"encoding/csv"
	"io"
	"strconv"

	"painelans/backend/services/operadoras-service/internal/models"
)

// WriteAgregados writes the aggregates as a ';'-separated CSV with a header row.
func WriteAgregados(w io.Writer, agregados []models.AgregadoOperadora) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write([]string{"RazaoSocial", "UF", "TotalDespesas", "MediaTrimestral", "DesvioPadrao"}); err != nil {
		return err
	}
	for _, a := range agregados {
		rec := []string{
			a.RazaoSocial,
			a.UF,
			strconv.FormatFloat(a.TotalDespesas, 'f', 2, 64),
			strconv.FormatFloat(a.MediaTrimestral, 'f', 2, 64),
			strconv.FormatFloat(a.DesvioPadrao, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
