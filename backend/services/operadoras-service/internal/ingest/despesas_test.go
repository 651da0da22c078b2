package ingest

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func zipOf(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestPeriodoFrom(t *testing.T) {
	tests := []struct {
		names []string
		want  Periodo
		ok    bool
	}{
		{names: []string{"https://x/2024/3T2024.zip"}, want: Periodo{Ano: 2024, Trimestre: 3}, ok: true},
		{names: []string{"dados.zip", "1t2025.csv"}, want: Periodo{Ano: 2025, Trimestre: 1}, ok: true},
		{names: []string{"5T2024.zip"}, ok: false},
		{names: []string{"demonstracoes.zip", "dados.csv"}, ok: false},
	}
	for _, tt := range tests {
		got, ok := PeriodoFrom(tt.names...)
		if ok != tt.ok || got != tt.want {
			t.Errorf("PeriodoFrom(%v) = %v, %v; want %v, %v", tt.names, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseDespesasLatin1Semicolon(t *testing.T) {
	content := "\"DATA\";\"REG_ANS\";\"CD_CONTA_CONTABIL\";\"DESCRICAO\";\"VL_SALDO_INICIAL\";\"VL_SALDO_FINAL\"\n" +
		"\"2024-07-01\";\"419761\";\"41\";\"EVENTOS/ SINISTROS CONHECIDOS\";\"10,00\";\"1.500,25\"\n" +
		"\"2024-07-01\";\"419761\";\"411\";\"\";\"0\";\"0\"\n" +
		"\"2024-07-01\";\"326305\";\"41\";\"ASSISTÊNCIA MÉDICA\";\"0\";\"-20,00\"\n" +
		"\"2024-07-01\";\"\";\"41\";\"SEM OPERADORA\";\"0\";\"5,00\"\n" +
		"\"2024-07-01\";\"326305\";\"41\";\"ASSISTÊNCIA MÉDICA\";\"0\";\"300,5\"\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(content)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	p := Periodo{Ano: 2024, Trimestre: 3}
	res, err := ParseDespesas([]byte(latin1), p)
	if err != nil {
		t.Fatalf("ParseDespesas: %v", err)
	}
	want := []Lancamento{
		{ID: "419761", Descricao: "EVENTOS/ SINISTROS CONHECIDOS", Periodo: p, Valor: 1500.25},
		{ID: "326305", Descricao: "ASSISTÊNCIA MÉDICA", Periodo: p, Valor: 300.5},
	}
	if len(res.Lancamentos) != len(want) {
		t.Fatalf("lancamentos = %+v", res.Lancamentos)
	}
	for i := range want {
		if res.Lancamentos[i] != want[i] {
			t.Errorf("lancamento %d = %+v, want %+v", i, res.Lancamentos[i], want[i])
		}
	}
	if res.Ignoradas != 3 {
		t.Errorf("ignoradas = %d, want 3", res.Ignoradas)
	}
}

func TestParseDespesasCommaSeparatedCNPJ(t *testing.T) {
	content := "cnpj,razao_social,valor\n" +
		"19.131.243/0001-97,Unimed,100.5\n" +
		"29.309.127/0001-79,,7\n"
	res, err := ParseDespesas([]byte(content), Periodo{Ano: 2023, Trimestre: 4})
	if err != nil {
		t.Fatalf("ParseDespesas: %v", err)
	}
	if len(res.Lancamentos) != 2 {
		t.Fatalf("lancamentos = %+v", res.Lancamentos)
	}
	if res.Lancamentos[0].ID != "19131243000197" || res.Lancamentos[0].Valor != 100.5 {
		t.Errorf("first = %+v", res.Lancamentos[0])
	}
	if res.Lancamentos[1].Descricao != "SEM DESCRICAO" {
		t.Errorf("missing description = %q", res.Lancamentos[1].Descricao)
	}
}

func TestParseDespesasMissingColumns(t *testing.T) {
	_, err := ParseDespesas([]byte("DATA;DESCRICAO\n2024-01-01;x\n"), Periodo{Ano: 2024, Trimestre: 1})
	if !errors.Is(err, ErrMissingColumns) {
		t.Errorf("err = %v, want ErrMissingColumns", err)
	}
	if _, err := ParseDespesas(nil, Periodo{}); !errors.Is(err, ErrMissingColumns) {
		t.Errorf("empty file err = %v, want ErrMissingColumns", err)
	}
}

func TestExtractCSV(t *testing.T) {
	data := zipOf(t, map[string]string{
		"1T2024.csv":        "REG_ANS;VL_SALDO_FINAL\n1;2\n",
		"leiame.pdf":        "%PDF",
		"sub/notas.TXT":     "x",
		"1T2024_dicion.xls": "x",
	})
	files, err := ExtractCSV(data)
	if err != nil {
		t.Fatalf("ExtractCSV: %v", err)
	}
	names := map[string]bool{}
	for _, f := range files {
		names[f.Name] = true
	}
	if len(files) != 2 || !names["1T2024.csv"] || !names["sub/notas.TXT"] {
		t.Errorf("files = %v", names)
	}

	if _, err := ExtractCSV([]byte("not a zip")); err == nil {
		t.Error("expected error for invalid archive")
	}
}
