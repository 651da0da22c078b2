package ingest

import (
	"math"
	"sort"

	"painelans/backend/services/operadoras-service/internal/models"
)

// Despesa is the total expense of one operator in one quarter.
type Despesa struct {
	Operadora models.Operadora
	Periodo   Periodo
	Valor     float64
}

// Consolidar sums the lines of each operator per quarter, enriching them with the
// registry. Lines whose identifier is not in the registry are dropped and counted.
func Consolidar(lancamentos []Lancamento, cad *Cadastro) ([]Despesa, int) {
	type key struct {
		registro int64
		periodo  Periodo
	}

	totals := make(map[key]*Despesa)
	semCadastro := 0
	for _, l := range lancamentos {
		o, ok := cad.Lookup(l.ID)
		if !ok {
			semCadastro++
			continue
		}
		k := key{registro: o.RegistroANS, periodo: l.Periodo}
		d, ok := totals[k]
		if !ok {
			d = &Despesa{Operadora: o, Periodo: l.Periodo}
			totals[k] = d
		}
		d.Valor += l.Valor
	}

	out := make([]Despesa, 0, len(totals))
	for _, d := range totals {
		d.Valor = math.Round(d.Valor*100) / 100
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Operadora.RegistroANS != b.Operadora.RegistroANS {
			return a.Operadora.RegistroANS < b.Operadora.RegistroANS
		}
		if a.Periodo.Ano != b.Periodo.Ano {
			return a.Periodo.Ano < b.Periodo.Ano
		}
		return a.Periodo.Trimestre < b.Periodo.Trimestre
	})
	return out, semCadastro
}

// Agregar computes total, mean and sample standard deviation of the quarterly expenses
// per razão social and UF, highest total first. A group with one quarter has zero deviation.
func Agregar(despesas []Despesa) []models.AgregadoOperadora {
	type key struct{ razao, uf string }

	groups := make(map[key][]float64)
	var order []key
	for _, d := range despesas {
		k := key{razao: d.Operadora.RazaoSocial, uf: d.Operadora.UF}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], d.Valor)
	}

	out := make([]models.AgregadoOperadora, 0, len(order))
	for _, k := range order {
		values := groups[k]
		var total float64
		for _, v := range values {
			total += v
		}
		n := float64(len(values))
		mean := total / n

		var desvio float64
		if len(values) > 1 {
			var sq float64
			for _, v := range values {
				sq += (v - mean) * (v - mean)
			}
			desvio = math.Sqrt(sq / (n - 1))
		}

		out = append(out, models.AgregadoOperadora{
			RazaoSocial:     k.razao,
			UF:              k.uf,
			TotalDespesas:   total,
			MediaTrimestral: mean,
			DesvioPadrao:    desvio,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalDespesas != out[j].TotalDespesas {
			return out[i].TotalDespesas > out[j].TotalDespesas
		}
		return out[i].RazaoSocial < out[j].RazaoSocial
	})
	return out
}
