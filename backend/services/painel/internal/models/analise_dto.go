package models

// TopOperadora is one row of the top-5 expense ranking.
type TopOperadora struct {
	RazaoSocial  string  `json:"razao_social"`
	TotalDespesa float64 `json:"total_despesa"`
}

// Estatisticas is the dashboard statistics payload.
type Estatisticas struct {
	TotalGeral *float64       `json:"total_geral"`
	MediaGeral *float64       `json:"media_geral"`
	Top5       []TopOperadora `json:"top_5"`
}

// CrescimentoOperadora is one row of the growth ranking.
type CrescimentoOperadora struct {
	RazaoSocial string   `json:"razao_social"`
	Crescimento *float64 `json:"crescimento"`
}
