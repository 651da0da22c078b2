package models

// TopOperadora ranks an operator by total expenses.
type TopOperadora struct {
	RazaoSocial  string  `json:"razao_social"`
	TotalDespesa float64 `json:"total_despesa"`
}

// Estatisticas aggregates expenses across all operators.
type Estatisticas struct {
	TotalGeral *float64       `json:"total_geral"`
	MediaGeral *float64       `json:"media_geral"`
	Top5       []TopOperadora `json:"top_5"`
}

// CrescimentoOperadora is the expense growth of an operator, in percent.
type CrescimentoOperadora struct {
	RazaoSocial string   `json:"razao_social"`
	Crescimento *float64 `json:"crescimento"`
}

// DespesaUF aggregates expenses per federative unit.
type DespesaUF struct {
	UF                string  `json:"uf"`
	TotalDespesa      float64 `json:"total_despesa"`
	MediaPorOperadora float64 `json:"media_por_operadora"`
}

// AgregadoOperadora summarizes the quarterly expenses of one razão social within one UF.
// DesvioPadrao is the sample standard deviation, zero for a single quarter.
type AgregadoOperadora struct {
	RazaoSocial     string  `json:"razao_social"`
	UF              string  `json:"uf"`
	TotalDespesas   float64 `json:"total_despesas"`
	MediaTrimestral float64 `json:"media_trimestral"`
	DesvioPadrao    float64 `json:"desvio_padrao"`
}
