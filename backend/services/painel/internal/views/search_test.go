package views

import (
	"testing"

	"painelans/backend/services/painel/internal/models"
)

func TestFilterOperadoras(t *testing.T) {
	list := []models.Operadora{
		{CNPJ: "19131243000197", RazaoSocial: "UNIMED CAMPINAS COOPERATIVA"},
		{CNPJ: "11222333000181", RazaoSocial: "Bradesco Saúde S.A."},
		{CNPJ: "29309127000179", RazaoSocial: "Amil Assistência Médica"},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"19131243000197", "11222333000181", "29309127000179"}},
		{query: "unimed", want: []string{"19131243000197"}},
		{query: "bradesko", want: []string{"11222333000181"}},
		{query: "112223", want: []string{"11222333000181"}},
		{query: "xyzxyz", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := filterOperadoras(list, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("filter(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range tt.want {
				if got[i].CNPJ != tt.want[i] {
					t.Errorf("filter(%q)[%d] = %s, want %s", tt.query, i, got[i].CNPJ, tt.want[i])
				}
			}
		})
	}
}
